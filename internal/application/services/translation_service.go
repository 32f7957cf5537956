package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// TranslationService implements ports.Translator for system-initiated
// translations (canned prompts, section titles, report bodies). These ride on
// the admission already granted for the inbound message, so the path is cache
// manager + generator only — no rate limiter. Concurrent identical requests
// are coalesced with singleflight.
type TranslationService struct {
	cache     ports.CacheManager
	generator ports.Generator
	timeout   time.Duration
	temp      float64
	maxTokens int
	sf        singleflight.Group
	logger    *logrus.Logger
}

func NewTranslationService(cache ports.CacheManager, generator ports.Generator, timeout time.Duration, temp float64, maxTokens int, logger *logrus.Logger) *TranslationService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if temp <= 0 {
		temp = 0.1
	}
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &TranslationService{
		cache:     cache,
		generator: generator,
		timeout:   timeout,
		temp:      temp,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Translate converts text from srcLang to tgtLang. Unknown language codes fall
// back to auto-detection on the source side and English on the target side.
// Failures degrade to the original text, matching the assistant's tolerance
// for untranslated UI strings.
func (s *TranslationService) Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	effSrc := srcLang
	if !chat.IsSupportedLanguageCode(effSrc) {
		effSrc = "auto"
	}
	effTgt := tgtLang
	if !chat.IsSupportedLanguageCode(effTgt) {
		effTgt = "en"
	}
	if effSrc != "auto" && effSrc == effTgt {
		return text, nil
	}

	key := s.cache.MakeKey(text, effTgt)
	if cached, ok := s.cache.Lookup(ctx, key); ok {
		return cached, nil
	}

	result, err, _ := s.sf.Do(key, func() (any, error) {
		if cached, ok := s.cache.Lookup(ctx, key); ok {
			return cached, nil
		}
		genCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		out, err := s.generator.Generate(genCtx, translationPrompt(text, effSrc, effTgt), ports.GenerateOptions{
			Temperature:     s.temp,
			MaxOutputTokens: s.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		out = firstLine(out)
		s.cache.Store(ctx, key, out)
		return out, nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"src": effSrc, "tgt": effTgt}).WithError(err).Error("translation failed; returning original text")
		}
		return text, err
	}
	return result.(string), nil
}

// translationPrompt builds a strict translate-only prompt. The model is told
// to emit nothing but the translation; firstLine cleans up when it does not
// comply.
func translationPrompt(text, srcLang, tgtLang string) string {
	tgtName := chat.LanguageName(tgtLang)
	if srcLang != "" && srcLang != "auto" {
		return fmt.Sprintf(`Translate this text from %s to %s.
IMPORTANT: Provide ONLY the direct translation. Do not include explanations, alternatives, or breakdowns.

Text to translate: %s

Translation:`, chat.LanguageName(srcLang), tgtName, text)
	}
	return fmt.Sprintf(`Translate this text to %s.
IMPORTANT: Provide ONLY the direct translation. Do not include explanations, alternatives, or breakdowns.

Text to translate: %s

Translation:`, tgtName, text)
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return text
}
