// Package client is a Go client for the clinic booking REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// File is an attachment sent in a multipart request.
type File struct {
	Name    string
	Content io.Reader
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls the API on behalf of one Session. Calls are safe for
// concurrent use. No call is retried.
type Client struct {
	baseURL        string
	http           *http.Client
	session        *Session
	logger         *zap.Logger
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// OnUnauthorized sets the hook run after a 401 has cleared the session.
// Callers use it to send the user back to the login flow.
func OnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: NewSession(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	_, err := c.doMessage(ctx, method, path, query, body, out)
	return err
}

// doMessage is do for endpoints whose reply carries a message for the user.
func (c *Client) doMessage(ctx context.Context, method, path string, query url.Values, body, out interface{}) (string, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, reader, contentType, out)
}

// doMultipart sends fields and files as multipart/form-data. Files are
// attached under fileField.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, fileField string, files []File, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(fileField, f.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("failed to copy %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}
	_, err := c.send(ctx, method, path, nil, &buf, mw.FormDataContentType(), out)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) (string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return "", &APIError{Kind: KindServer, Message: MsgServer, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		decodeErr = fmt.Errorf("failed to decode response: %w", decodeErr)
	} else {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := fromStatus(resp.StatusCode, env.Message)
		if apiErr.Kind == KindUnauthorized {
			c.unauthorized()
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", &APIError{Kind: KindServer, Status: resp.StatusCode, Message: MsgServer, Err: decodeErr}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &APIError{Kind: KindServer, Status: resp.StatusCode, Message: MsgServer, Err: err}
		}
	}
	return env.Message, nil
}

func (c *Client) unauthorized() {
	c.session.clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
