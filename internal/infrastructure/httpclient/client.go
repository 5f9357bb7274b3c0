// Package httpclient is the transport used for calls that reach the real
// ERP backend. It joins paths onto the configured base URL, encodes JSON
// bodies and runs request interceptors. It never retries.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// Config configures the client
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Headers   map[string]string
	Transport http.RoundTripper
}

// RequestInterceptor may modify an outgoing request before it is sent.
// Returning an error aborts the request.
type RequestInterceptor func(req *http.Request) error

// Client is a JSON HTTP client bound to a single base URL
type Client struct {
	httpClient   *http.Client
	baseURL      string
	headers      map[string]string
	interceptors []RequestInterceptor
	mu           sync.RWMutex
}

// Request describes one call
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// Response is the raw result of a call that reached the server
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// IsSuccess reports whether the HTTP status is 2xx
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// New creates a client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Transport: cfg.Transport, Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "erp-client/1.0",
		},
	}
	for k, v := range cfg.Headers {
		c.headers[k] = v
	}
	return c, nil
}

// Use appends a request interceptor. Interceptors run in registration order.
func (c *Client) Use(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = append(c.interceptors, interceptor)
}

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes the request once. A non-2xx status is not an error; the
// returned error is non-nil only when no response was received.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	interceptors := append([]RequestInterceptor(nil), c.interceptors...)
	c.mu.RUnlock()

	for _, intercept := range interceptors {
		if err := intercept(httpReq); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       data,
		Duration:   time.Since(start),
	}
	if err != nil {
		return resp, fmt.Errorf("reading response body: %w", err)
	}
	return resp, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query})
}

// buildURL appends path to the base URL. The base URL usually carries a
// path of its own (".../api"), so plain concatenation is used instead of
// reference resolution, which would drop it.
func (c *Client) buildURL(path string, query map[string]string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}

	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
