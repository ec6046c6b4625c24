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
)

// Client is the HTTP capability the list controller consumes. Auth/tenant
// headers are the implementation's business; callers treat it as opaque.
type Client interface {
	Get(ctx context.Context, path string, params url.Values) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	Put(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
	Delete(ctx context.Context, path string) (*Response, error)
}

// Response is a successful (2xx) backend response. Non-2xx statuses surface
// as *RequestError instead.
type Response struct {
	Status int
	Body   []byte
}

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the backend root, e.g. "https://shop.example.com/api".
	BaseURL string
	// Token, when set, is attached as a bearer Authorization header.
	Token string
	// Timeout bounds each request. Zero means 15s.
	Timeout time.Duration
}

// HTTP is the production Client. One instance per backend; safe for
// concurrent use.
type HTTP struct {
	base  string
	token string
	hc    *http.Client
}

func NewHTTP(cfg Config) *HTTP {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTP{
		base:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token: strings.TrimSpace(cfg.Token),
		hc:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTP) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func (c *HTTP) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *HTTP) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *HTTP) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body)
}

func (c *HTTP) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTP) do(ctx context.Context, method, path string, params url.Values, body any) (*Response, error) {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Error bodies matter (validation messages), so cap reads generously.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		return nil, NewRequestError(resp.StatusCode, raw)
	}
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}
