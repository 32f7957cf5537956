package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	config "github.com/pharmagen/pharmagen/configs"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// Client implements ports.Generator against the Gemini generateContent REST
// endpoint. Every call is bounded by the configured timeout via the caller's
// context; the HTTP client itself carries no timeout so cancellation stays in
// one place.
type Client struct {
	config     *config.GeminiConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a Gemini API client.
func NewClient(cfg *config.GeminiConfig, logger *logrus.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate implements ports.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrInvalid, Message: err.Error()}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.config.BaseURL, c.config.Model, c.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrInvalid, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("gemini request failed")
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrNetwork, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, raw)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrInvalid, Message: "malformed response: " + err.Error()}
	}
	if out.Error != nil {
		return "", classifyHTTPError(out.Error.Code, []byte(out.Error.Message))
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &ports.UpstreamError{Kind: ports.UpstreamErrInvalid, Message: "response contained no candidates"}
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func classifyHTTPError(code int, detail []byte) *ports.UpstreamError {
	msg := strings.TrimSpace(string(detail))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &ports.UpstreamError{Kind: ports.UpstreamErrAuth, Message: msg}
	case code == http.StatusTooManyRequests:
		return &ports.UpstreamError{Kind: ports.UpstreamErrQuota, Message: msg}
	case code >= 400 && code < 500:
		return &ports.UpstreamError{Kind: ports.UpstreamErrInvalid, Message: msg}
	default:
		return &ports.UpstreamError{Kind: ports.UpstreamErrNetwork, Message: msg}
	}
}
