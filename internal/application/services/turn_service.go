package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// TurnConfig groups the orchestrator's tunables.
type TurnConfig struct {
	MaxMessageLength  int
	GenerationTimeout time.Duration
	Temperature       float64
	TranslationTemp   float64
	MaxOutputTokens   int
}

// TurnService is the request orchestrator: it composes the cache manager, the
// rate limiter and the generator around one generation request. A cache hit is
// served without consulting the limiter at all — cached responses are free.
type TurnService struct {
	cache     ports.CacheManager
	limiter   ports.RateLimiter
	generator ports.Generator
	config    TurnConfig
	logger    *logrus.Logger
}

func NewTurnService(cache ports.CacheManager, limiter ports.RateLimiter, generator ports.Generator, cfg *TurnConfig, logger *logrus.Logger) *TurnService {
	// Apply defaults
	c := TurnConfig{
		MaxMessageLength:  1000,
		GenerationTimeout: 30 * time.Second,
		Temperature:       0.7,
		TranslationTemp:   0.1,
		MaxOutputTokens:   500,
	}
	if cfg != nil {
		if cfg.MaxMessageLength > 0 {
			c.MaxMessageLength = cfg.MaxMessageLength
		}
		if cfg.GenerationTimeout > 0 {
			c.GenerationTimeout = cfg.GenerationTimeout
		}
		if cfg.Temperature > 0 {
			c.Temperature = cfg.Temperature
		}
		if cfg.TranslationTemp > 0 {
			c.TranslationTemp = cfg.TranslationTemp
		}
		if cfg.MaxOutputTokens > 0 {
			c.MaxOutputTokens = cfg.MaxOutputTokens
		}
	}
	return &TurnService{cache: cache, limiter: limiter, generator: generator, config: c, logger: logger}
}

// HandleTurn runs the admission flow for one request:
// length check, cache lookup, rate-limit admission on miss, bounded upstream
// call, best-effort cache write. Only ErrInputTooLong, RateLimitedError and
// UpstreamError cross this boundary.
func (s *TurnService) HandleTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
	if !req.Composed && len([]rune(req.Text)) > s.config.MaxMessageLength {
		return nil, chat.ErrInputTooLong
	}

	key := s.cache.MakeKey(req.Text, req.TargetLanguage)
	if cached, ok := s.cache.Lookup(ctx, key); ok {
		return &chat.TurnResult{Text: cached, CacheHit: true, RemainingMinute: -1, RemainingHour: -1}, nil
	}

	dec := s.limiter.CheckAndIncrement(ctx, req.Identity)
	if !dec.Admitted {
		return nil, &chat.RateLimitedError{
			Reason:          dec.Reason,
			RemainingMinute: dec.RemainingMinute,
			RemainingHour:   dec.RemainingHour,
		}
	}

	// The upstream call is the single highest-latency step; no lock or store
	// round-trip is held across it.
	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(genCtx, s.buildPrompt(req), ports.GenerateOptions{
		Temperature:     s.temperatureFor(req),
		MaxOutputTokens: s.config.MaxOutputTokens,
	})
	upstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"identity": req.Identity}).WithError(err).Error("upstream generation failed")
		}
		var ue *ports.UpstreamError
		if errors.As(err, &ue) {
			return nil, ue
		}
		return nil, &ports.UpstreamError{Kind: ports.UpstreamErrNetwork, Message: err.Error()}
	}

	s.cache.Store(ctx, key, text)
	return &chat.TurnResult{
		Text:            text,
		RemainingMinute: dec.RemainingMinute,
		RemainingHour:   dec.RemainingHour,
	}, nil
}

// buildPrompt shapes the upstream prompt. A source-language hint marks the
// request as a translation; otherwise the text is already a prompt and only
// the reply language needs pinning.
func (s *TurnService) buildPrompt(req chat.TurnRequest) string {
	if req.SourceLanguageHint != "" && req.SourceLanguageHint != req.TargetLanguage {
		return translationPrompt(req.Text, req.SourceLanguageHint, req.TargetLanguage)
	}
	if req.TargetLanguage != "" && req.TargetLanguage != "en" {
		return fmt.Sprintf("%s\n\nRespond in %s.", req.Text, chat.LanguageName(req.TargetLanguage))
	}
	return req.Text
}

func (s *TurnService) temperatureFor(req chat.TurnRequest) float64 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	if req.SourceLanguageHint != "" {
		return s.config.TranslationTemp
	}
	return s.config.Temperature
}
