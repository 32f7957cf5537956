package chat

import (
	"errors"
	"fmt"
)

// ErrInputTooLong rejects a message exceeding the configured maximum length
// before any store or upstream work is done.
var ErrInputTooLong = errors.New("message exceeds maximum allowed length")

// AdmissionReason classifies a rate-limit decision.
type AdmissionReason string

const (
	ReasonOK          AdmissionReason = "OK"
	ReasonMinuteLimit AdmissionReason = "MINUTE_LIMIT"
	ReasonHourLimit   AdmissionReason = "HOUR_LIMIT"
)

// AdmissionDecision is the outcome of a rate-limit check. Remaining budgets are
// -1 when limiting is disabled (unlimited).
type AdmissionDecision struct {
	Admitted        bool
	Reason          AdmissionReason
	RemainingMinute int
	RemainingHour   int
}

// RateLimitedError is returned when a turn is rejected by the rate limiter.
// It carries the remaining-budget hints surfaced to the caller.
type RateLimitedError struct {
	Reason          AdmissionReason
	RemainingMinute int
	RemainingHour   int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%s)", e.Reason)
}
