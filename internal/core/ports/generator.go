package ports

import (
	"context"
	"fmt"
)

// UpstreamErrorKind classifies failures of the generation capability.
type UpstreamErrorKind string

const (
	UpstreamErrAuth    UpstreamErrorKind = "auth"
	UpstreamErrQuota   UpstreamErrorKind = "quota"
	UpstreamErrInvalid UpstreamErrorKind = "invalid"
	UpstreamErrNetwork UpstreamErrorKind = "network"
)

// UpstreamError is the classified failure of a generation call. It propagates
// to the caller as a generic "generation failed" condition and is never cached.
type UpstreamError struct {
	Kind    UpstreamErrorKind
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream generation failed (%s): %s", e.Kind, e.Message)
}

// GenerateOptions tune a single generation call.
type GenerateOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Generator is the opaque external generation capability (the language model).
// Implementations must honor ctx cancellation; callers bound every call with a
// timeout.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
