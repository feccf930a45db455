// Package gemini extracts review keywords with the Gemini generateContent API
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"booklog-backend/infrastructure/observability"
	"booklog-backend/infrastructure/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	serviceName = "gemini"

	// minReviewRunes is the shortest review worth sending
	minReviewRunes = 10
	maxKeywords    = 5
	maxBodyBytes   = 1 << 20
)

const promptTemplate = `Analyze the following book review and extract up to %d core keywords that represent the themes, emotions, or topics.
Return ONLY the keywords separated by commas, no other text.

Review: %q`

// Config configures the client
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.KeywordExtractor
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *resilience.Breaker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient creates a keyword client. metrics may be nil.
func NewClient(cfg Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerConfig(serviceName), logger),
		metrics: metrics,
		logger:  logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// ExtractKeywords returns up to five keywords for review. Any failure yields an empty slice.
func (c *Client) ExtractKeywords(ctx context.Context, review string) []string {
	review = strings.TrimSpace(review)
	if utf8.RuneCountInString(review) < minReviewRunes {
		return []string{}
	}
	if c.cfg.APIKey == "" {
		c.logger.Debug("Keyword extraction skipped, no API key configured")
		return []string{}
	}

	ctx, span := otel.Tracer("booklog/gemini").Start(ctx, "gemini.extract_keywords")
	defer span.End()
	span.SetAttributes(attribute.Int("review.runes", utf8.RuneCountInString(review)))

	start := time.Now()
	text, err := resilience.Do(c.breaker, func() (string, error) {
		return c.generate(ctx, fmt.Sprintf(promptTemplate, maxKeywords, review))
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, resilience.ErrUnavailable) {
			outcome = "rejected"
		}
		c.metrics.RecordExternalCall(serviceName, outcome, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Keyword extraction failed", zap.Error(err))
		return []string{}
	}
	c.metrics.RecordExternalCall(serviceName, "ok", time.Since(start))

	keywords := ParseKeywords(text, maxKeywords)
	span.SetAttributes(attribute.Int("keywords.count", len(keywords)))
	return keywords
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}

	// The key travels in a header so request errors, which carry the URL, never contain it
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(c.cfg.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// ParseKeywords splits a comma separated answer, trims entries, drops empty ones and
// keeps at most limit
func ParseKeywords(text string, limit int) []string {
	keywords := make([]string, 0, limit)
	for _, k := range strings.Split(text, ",") {
		k = strings.Trim(strings.TrimSpace(k), `"'.`)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}
