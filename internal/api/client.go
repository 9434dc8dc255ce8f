// Package api talks to the remote todo collection over HTTP.
package api

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

	"github.com/Makepad-fr/tada-remote/internal/model"
)

// Client issues one request per call against the collection endpoints.
// It never retries and sets no deadline of its own; the caller's context is
// the only limit.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("server url %q: missing host", baseURL)
	}
	c := &Client{base: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL reports the server the client talks to.
func (c *Client) BaseURL() string { return c.base.String() }

// List fetches the whole collection. A JSON null body is an empty collection.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	body, err := c.do(ctx, http.MethodGet, "todos", nil)
	if err != nil {
		return nil, err
	}
	if err := validate(todoListSchema, body); err != nil {
		return nil, fmt.Errorf("GET /todos: %w", err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(body, &todos); err != nil {
		return nil, fmt.Errorf("GET /todos: decode: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Get fetches one record.
func (c *Client) Get(ctx context.Context, id model.ID) (model.Todo, error) {
	var t model.Todo
	body, err := c.do(ctx, http.MethodGet, todoPath(id), nil)
	if err != nil {
		return t, err
	}
	if err := validate(todoSchema, body); err != nil {
		return t, fmt.Errorf("GET /%s: %w", todoPath(id), err)
	}
	if err := json.Unmarshal(body, &t); err != nil {
		return t, fmt.Errorf("GET /%s: decode: %w", todoPath(id), err)
	}
	return t, nil
}

// Create posts a new record. Any 2xx response is success; the body is ignored.
func (c *Client) Create(ctx context.Context, d model.Draft) error {
	_, err := c.do(ctx, http.MethodPost, "todos", d)
	return err
}

// Update replaces the fields of record id.
func (c *Client) Update(ctx context.Context, id model.ID, d model.Draft) error {
	_, err := c.do(ctx, http.MethodPut, todoPath(id), d)
	return err
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, todoPath(id), nil)
	return err
}

// Health probes the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "healthz", nil)
	return err
}

func todoPath(id model.ID) string { return "todos/" + id.String() }

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s /%s: encode: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s /%s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s /%s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s /%s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:  method,
			Path:    "/" + path,
			Code:    resp.StatusCode,
			Message: errorMessage(raw),
		}
	}
	return raw, nil
}

// StatusError is a response outside the 2xx range.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// errorMessage pulls {"error": "..."} out of a failure body, if present.
func errorMessage(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
