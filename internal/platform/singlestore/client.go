package singlestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/imamik/demolab/internal/metrics"
)

// DefaultBaseURL is the public SingleStore Management API endpoint.
const DefaultBaseURL = "https://api.singlestore.com"

// Client is a minimal SingleStore Management API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new SingleStore Management API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, operation, path string, out any) error {
	return c.call(ctx, operation, http.MethodGet, path, nil, out)
}

// post issues a POST with a JSON body and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, operation, path string, in, out any) error {
	return c.call(ctx, operation, http.MethodPost, path, in, out)
}

func (c *Client) call(ctx context.Context, operation, method, path string, in, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordAPICall(operation, err, time.Since(start)) }()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	path := req.URL.Path
	if req.URL.RawQuery != "" {
		path += "?" + req.URL.RawQuery
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Method: req.Method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if !successful(req.Method, resp.StatusCode) {
		return &APIError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("parse response: %w", err)}
	}
	return nil
}

// successful reports whether status completes a call. Reads must return
// 200 with a body; creates may answer with any 2xx.
func successful(method string, status int) bool {
	if method == http.MethodGet {
		return status == http.StatusOK
	}
	return status >= 200 && status < 300
}
