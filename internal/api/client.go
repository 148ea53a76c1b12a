package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/neurogrowth/internal/constants"
	"github.com/julianstephens/neurogrowth/internal/logger"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Config holds client configuration
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// Client is the typed NeuroGrowth REST client. It never mutates session state;
// callers decide what to do with the errors it returns.
type Client struct {
	baseURL   string
	userAgent string
	tokens    TokenSource
	http      *http.Client

	Auth        AuthAPI
	Logs        LogsAPI
	Predictions PredictionAPI
	Roadmaps    RoadmapAPI
	Assistant   AssistantAPI
	Dashboards  DashboardAPI
	Admin       AdminAPI
}

// New creates a client for the given backend
func New(cfg Config, tokens TokenSource) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.AppName + "/" + constants.Version
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		tokens:    tokens,
		http:      httpClient,
	}
	c.Auth = AuthAPI{c: c}
	c.Logs = LogsAPI{c: c}
	c.Predictions = PredictionAPI{c: c}
	c.Roadmaps = RoadmapAPI{c: c}
	c.Assistant = AssistantAPI{c: c}
	c.Dashboards = DashboardAPI{c: c}
	c.Admin = AdminAPI{c: c}
	return c
}

// BaseURL returns the backend base URL the client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// HealthStatus is the payload of the backend root endpoint
type HealthStatus struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}

// Health checks that the backend is reachable
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	return doJSON[HealthStatus](ctx, c, http.MethodGet, "/", nil, nil)
}

// -------------------- helpers --------------------

func doJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var out T
	raw, err := c.doJSONRaw(ctx, method, path, query, body)
	if err != nil {
		return out, err
	}
	if err := decode(raw, &out); err != nil {
		return out, &Error{Method: method, Path: path, Status: http.StatusOK, Detail: "invalid response body", Err: err}
	}
	return out, nil
}

func (c *Client) doJSONRaw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = &buf
	}
	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, path)
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, path)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(constants.RequestIDHeader, uuid.New().String())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request, path string) ([]byte, error) {
	start := time.Now()
	requestID := req.Header.Get(constants.RequestIDHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("API request failed", "method", req.Method, "path", path, "request_id", requestID, "error", err)
		return nil, &Error{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: req.Method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug("API request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(req.Method, path, resp.StatusCode, raw)
	}
	return raw, nil
}

func decode(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
