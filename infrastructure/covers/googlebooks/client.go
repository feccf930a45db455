// Package googlebooks looks book titles up in the Google Books catalog
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booklog-backend/application/ports"
	"booklog-backend/infrastructure/observability"
	"booklog-backend/infrastructure/resilience"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const serviceName = "google-books"

// Config configures the client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo volumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type volumeInfo struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Publisher  string   `json:"publisher"`
	ImageLinks *struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// Client implements ports.CoverSearcher
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *resilience.Breaker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient creates a catalog client. metrics may be nil.
func NewClient(cfg Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/books/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: resilience.NewBreaker(resilience.DefaultBreakerConfig(serviceName), logger),
		metrics: metrics,
		logger:  logger,
	}
}

// SearchCoverByTitle returns the first Korean-language match for title
func (c *Client) SearchCoverByTitle(ctx context.Context, title string) (*ports.BookMetadata, error) {
	ctx, span := otel.Tracer("booklog/googlebooks").Start(ctx, "googlebooks.search")
	defer span.End()
	span.SetAttributes(attribute.String("book.title", title))

	start := time.Now()
	info, err := resilience.Do(c.breaker, func() (*volumeInfo, error) {
		return c.search(ctx, title)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, resilience.ErrUnavailable) {
			outcome = "rejected"
		}
		c.metrics.RecordExternalCall(serviceName, outcome, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("cover search: %w", err)
	}
	c.metrics.RecordExternalCall(serviceName, "ok", time.Since(start))
	if info == nil {
		return nil, ports.ErrCoverNotFound
	}

	meta := &ports.BookMetadata{
		Title:     strings.TrimSpace(info.Title),
		Publisher: strings.TrimSpace(info.Publisher),
	}
	if len(info.Authors) > 0 {
		meta.Author = strings.TrimSpace(info.Authors[0])
	}
	if info.ImageLinks != nil {
		cover := info.ImageLinks.Thumbnail
		if cover == "" {
			cover = info.ImageLinks.SmallThumbnail
		}
		meta.CoverURL = forceHTTPS(cover)
	}
	return meta, nil
}

func (c *Client) search(ctx context.Context, title string) (*volumeInfo, error) {
	q := url.Values{}
	q.Set("q", title)
	q.Set("langRestrict", "ko")
	q.Set("printType", "books")
	if c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/volumes?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned status %d", resp.StatusCode)
	}
	var out volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode google books response: %w", err)
	}
	// No match is not a breaker failure
	if len(out.Items) == 0 {
		return nil, nil
	}
	return &out.Items[0].VolumeInfo, nil
}

func forceHTTPS(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}
