// Package newsfeed implements news.Source for the public headline APIs.
// Sources never fail a fetch: missing keys, transport errors and API
// errors are logged and yield an empty result.
package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/news"
	"github.com/contentgen/backend/internal/infrastructure/config"
)

const defaultTimeout = 10 * time.Second

// Source names
const (
	SourceNewsAPI  = "newsapi"
	SourceGNews    = "gnews"
	SourceGuardian = "guardian"
)

// Config configures a single source
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type feedClient struct {
	name    string
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func newFeedClient(name string, cfg Config, defaultBase string, logger *zap.Logger) feedClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return feedClient{
		name:    name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(base, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named(name),
	}
}

// Name implements news.Source
func (c *feedClient) Name() string {
	return c.name
}

// getJSON issues a GET with query params and decodes the JSON body
func (c *feedClient) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %s", c.name, resp.StatusCode, truncate(string(body), 300))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", c.name, err)
	}
	return nil
}

// parseTime parses an RFC 3339 timestamp; failures are logged and yield nil
func (c *feedClient) parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.logger.Warn("Failed to parse publish date", zap.String("value", raw), zap.Error(err))
		return nil
	}
	t = t.UTC()
	return &t
}

// Sources builds every configured source keyed by name
func Sources(cfg config.NewsConfig, logger *zap.Logger) map[string]news.Source {
	return map[string]news.Source{
		SourceNewsAPI:  NewNewsAPI(Config{APIKey: cfg.NewsAPIKey, Timeout: cfg.RequestTimeout}, logger),
		SourceGNews:    NewGNews(Config{APIKey: cfg.GNewsAPIKey, Timeout: cfg.RequestTimeout}, logger),
		SourceGuardian: NewGuardian(Config{APIKey: cfg.GuardianAPIKey, Timeout: cfg.RequestTimeout}, logger),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
