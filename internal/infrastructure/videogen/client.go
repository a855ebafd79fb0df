// Package videogen implements video.Generator for the hosted rendering
// providers.
package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/domain/video"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultKieBaseURL    = "https://api.kie.ai"
	defaultTimeout       = 30 * time.Second
	downloadTimeout      = 5 * time.Minute
)

// Config configures a provider client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// apiClient carries what every provider shares: credentials, an HTTP
// client for API calls and one for downloads
type apiClient struct {
	name       string
	apiKey     string
	baseURL    string
	http       *http.Client
	downloader *http.Client
	logger     *zap.Logger
}

func newAPIClient(name string, cfg Config, defaultBase string, logger *zap.Logger) apiClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBase
	}
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/v1")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return apiClient{
		name:       name,
		apiKey:     cfg.APIKey,
		baseURL:    base,
		http:       &http.Client{Timeout: timeout},
		downloader: &http.Client{Timeout: downloadTimeout},
		logger:     logger.Named(name),
	}
}

func (c *apiClient) configured() error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: %w", c.name, video.ErrProviderUnavailable)
	}
	return nil
}

// newRequest builds an authenticated request against the provider base URL
func (c *apiClient) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// doJSON sends req and decodes a 2xx JSON body into out
func (c *apiClient) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d: %s", c.name, resp.StatusCode, truncate(string(body), 300))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", c.name, err)
	}
	return nil
}

// postJSON marshals payload and posts it to path
func (c *apiClient) postJSON(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.name, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw), "application/json")
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// getJSON fetches path and decodes the JSON response
func (c *apiClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// copyURL streams an unauthenticated asset URL into w
func (c *apiClient) copyURL(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: create download request: %w", c.name, err)
	}
	return c.copyResponse(req, w)
}

func (c *apiClient) copyResponse(req *http.Request, w io.Writer) (int64, error) {
	resp, err := c.downloader.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: download failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%s: download status %d: %s", c.name, resp.StatusCode, string(body))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%s: write video content: %w", c.name, err)
	}
	return n, nil
}

// kieEnvelope is the {code, msg, data} wrapper used by every Kie.ai endpoint
type kieEnvelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

func (e *kieEnvelope[T]) err(provider string) error {
	if e.Code != http.StatusOK {
		msg := e.Msg
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Errorf("%s: Kie.ai API error: %s", provider, msg)
	}
	return nil
}

type kieTaskCreated struct {
	TaskID string `json:"taskId"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func truncatePrompt(p string) string {
	r := []rune(p)
	if len(r) <= 50 {
		return p
	}
	return string(r[:50]) + "..."
}
