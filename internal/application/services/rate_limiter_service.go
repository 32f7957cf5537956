package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/pharmagen/pharmagen/configs"
	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

const rateLimitKeyPrefix = "ratelimit"

// RateLimiterService implements ports.RateLimiter with fixed per-minute and
// per-hour windows backed by the key-value store. Accounting is fail-closed:
// both counters are bumped before any limit is evaluated, so the request that
// tips a counter over the limit is rejected and still pays for its slot.
type RateLimiterService struct {
	store     ports.KeyValueStore
	enabled   bool
	perMinute int
	perHour   int
	failOpen  bool
	logger    *logrus.Logger
}

func NewRateLimiterService(store ports.KeyValueStore, cfg *config.RateLimitConfig, logger *logrus.Logger) *RateLimiterService {
	// Apply defaults
	enabled := true
	perMinute := 10
	perHour := 100
	failOpen := true
	if cfg != nil {
		enabled = cfg.Enabled
		failOpen = cfg.FailOpen
		if cfg.PerMinute > 0 {
			perMinute = cfg.PerMinute
		}
		if cfg.PerHour > 0 {
			perHour = cfg.PerHour
		}
	}
	return &RateLimiterService{
		store:     store,
		enabled:   enabled,
		perMinute: perMinute,
		perHour:   perHour,
		failOpen:  failOpen,
		logger:    logger,
	}
}

// CheckAndIncrement implements ports.RateLimiter.
func (s *RateLimiterService) CheckAndIncrement(ctx context.Context, identity string) chat.AdmissionDecision {
	if !s.enabled {
		return chat.AdmissionDecision{Admitted: true, Reason: chat.ReasonOK, RemainingMinute: -1, RemainingHour: -1}
	}

	minuteKey := fmt.Sprintf("%s:%s:minute", rateLimitKeyPrefix, identity)
	hourKey := fmt.Sprintf("%s:%s:hour", rateLimitKeyPrefix, identity)

	// Increment both windows unconditionally so hour accounting stays accurate
	// even when the minute window rejects.
	minuteCount, minuteErr := s.store.Increment(ctx, minuteKey, time.Minute)
	hourCount, hourErr := s.store.Increment(ctx, hourKey, time.Hour)

	if minuteErr != nil || hourErr != nil {
		return s.fallback(identity, minuteErr, hourErr)
	}

	dec := chat.AdmissionDecision{
		RemainingMinute: remaining(s.perMinute, minuteCount),
		RemainingHour:   remaining(s.perHour, hourCount),
	}
	switch {
	case minuteCount > int64(s.perMinute):
		dec.Reason = chat.ReasonMinuteLimit
	case hourCount > int64(s.perHour):
		dec.Reason = chat.ReasonHourLimit
	default:
		dec.Admitted = true
		dec.Reason = chat.ReasonOK
	}

	if !dec.Admitted && s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"identity":     identity,
			"reason":       dec.Reason,
			"minute_count": minuteCount,
			"hour_count":   hourCount,
		}).Warn("rate limit exceeded")
	}
	admissionDecisions.WithLabelValues(string(dec.Reason)).Inc()
	return dec
}

// fallback applies the configured policy when the store is unreachable. The
// policy is logged on every occurrence so the behavior is never silently
// inconsistent between calls.
func (s *RateLimiterService) fallback(identity string, minuteErr, hourErr error) chat.AdmissionDecision {
	err := minuteErr
	if err == nil {
		err = hourErr
	}
	policy := "fail_closed"
	if s.failOpen {
		policy = "fail_open"
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"identity": identity, "policy": policy}).
			WithError(err).Warn("rate limiter store unavailable; applying fallback policy")
	}
	admissionDecisions.WithLabelValues(policy).Inc()
	if s.failOpen {
		return chat.AdmissionDecision{Admitted: true, Reason: chat.ReasonOK, RemainingMinute: -1, RemainingHour: -1}
	}
	return chat.AdmissionDecision{Admitted: false, Reason: chat.ReasonMinuteLimit}
}

func remaining(limit int, count int64) int {
	if r := limit - int(count); r > 0 {
		return r
	}
	return 0
}
