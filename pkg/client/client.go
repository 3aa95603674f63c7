// Package client talks to the admin backend's raw record endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-recordedit/pkg/datamodel"
	"github.com/goliatone/go-recordedit/pkg/recordpath"
)

const rawRecordEndpoint = "/rawrecord"

// SavePayload is the body of a raw record write. Data replaces every editable
// field of the record.
type SavePayload struct {
	Data map[string]any `json:"data"`
	Path string         `json:"path"`
	Alt  string         `json:"alt"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// Client performs raw record reads and writes against the admin API.
type Client struct {
	baseURL   string
	http      *http.Client
	log       *slog.Logger
	userAgent string
}

// New constructs a client for the admin API rooted at baseURL (for example
// "http://localhost:5000/admin/api").
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("client: parse base URL: %w", err)
	}

	c := &Client{
		baseURL: trimmed,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       slog.Default(),
		userAgent: "go-recordedit/1.0",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// GetRawRecord loads the raw field values, data model and record info of ref.
func (c *Client) GetRawRecord(ctx context.Context, ref recordpath.Ref) (datamodel.RawRecord, error) {
	query := url.Values{}
	query.Set("path", ref.Path)
	query.Set("alt", ref.Alt)

	var out datamodel.RawRecord
	if err := c.do(ctx, http.MethodGet, rawRecordEndpoint+"?"+query.Encode(), nil, &out); err != nil {
		return datamodel.RawRecord{}, err
	}
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	return out, nil
}

// PutRawRecord writes payload as the new content of the record.
func (c *Client) PutRawRecord(ctx context.Context, payload SavePayload) error {
	return c.do(ctx, http.MethodPut, rawRecordEndpoint, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("backend request", slog.String("method", method), slog.String("url", target))

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, URL: target, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("backend response",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Method:  method,
			URL:     target,
			Status:  resp.StatusCode,
			Message: errorMessage(payload),
		}
	}

	if result == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return &RequestError{Method: method, URL: target, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func errorMessage(body []byte) string {
	var decoded struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Error != "" {
			return decoded.Error
		}
		if decoded.Message != "" {
			return decoded.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
