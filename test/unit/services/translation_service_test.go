package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	config "github.com/pharmagen/pharmagen/configs"
	impl "github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/core/ports"
	"github.com/pharmagen/pharmagen/internal/infrastructure/kvstore"
	"github.com/pharmagen/pharmagen/test/mocks"
)

func newTranslator(gen ports.Generator) *impl.TranslationService {
	logger := logrus.New()
	cache := impl.NewCacheService(kvstore.NewMemoryStore(), &config.CacheConfig{Enabled: true, TTL: time.Hour}, logger)
	return impl.NewTranslationService(cache, gen, 5*time.Second, 0.1, 500, logger)
}

func TestTranslationService_EmptyTextIsNoop(t *testing.T) {
	genCalls := 0
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		genCalls++
		return "x", nil
	}}
	svc := newTranslator(gen)

	out, err := svc.Translate(context.Background(), "   ", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "", out)
	require.Equal(t, 0, genCalls)
}

func TestTranslationService_SameLanguageShortCircuits(t *testing.T) {
	genCalls := 0
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		genCalls++
		return "x", nil
	}}
	svc := newTranslator(gen)

	out, err := svc.Translate(context.Background(), "hello", "en", "en")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.Equal(t, 0, genCalls)
}

func TestTranslationService_UnknownCodesFallBack(t *testing.T) {
	var gotPrompt string
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		gotPrompt = prompt
		return "hello", nil
	}}
	svc := newTranslator(gen)

	// Unknown source becomes auto-detect, unknown target becomes English.
	out, err := svc.Translate(context.Background(), "hola", "xx", "yy")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.Contains(t, gotPrompt, "Translate this text to English")
}

func TestTranslationService_SecondCallServedFromCache(t *testing.T) {
	genCalls := 0
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		genCalls++
		return "bonjour", nil
	}}
	svc := newTranslator(gen)

	for i := 0; i < 3; i++ {
		out, err := svc.Translate(context.Background(), "hello", "en", "fr")
		require.NoError(t, err)
		require.Equal(t, "bonjour", out)
	}
	require.Equal(t, 1, genCalls)
}

func TestTranslationService_KeepsFirstLineOnly(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		return "bonjour\n\nNote: this is an informal greeting", nil
	}}
	svc := newTranslator(gen)

	out, err := svc.Translate(context.Background(), "hello", "en", "fr")
	require.NoError(t, err)
	require.Equal(t, "bonjour", out)
}

func TestTranslationService_FailureReturnsOriginalText(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFn: func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
		return "", errors.New("upstream down")
	}}
	svc := newTranslator(gen)

	out, err := svc.Translate(context.Background(), "hello", "en", "fr")
	require.Error(t, err)
	require.Equal(t, "hello", out)
}
