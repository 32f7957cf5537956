package ports

import (
	"context"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
)

// RateLimiter tracks per-identity request counts over fixed minute and hour
// windows. Implementations MUST be safe for concurrent use and must account
// fail-closed: the increment happens before the limit check, so a request that
// tips a counter over the limit is rejected but still consumes budget.
type RateLimiter interface {
	// CheckAndIncrement consumes one slot of both windows for identity and
	// reports the admission decision. Store failures are absorbed by the
	// configured fallback policy and never returned.
	CheckAndIncrement(ctx context.Context, identity string) chat.AdmissionDecision
}
