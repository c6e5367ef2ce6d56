// Package api is the HTTP client for the file/inventory backend.
//
// Every endpoint answers with a JSON envelope of the form
// {"success": bool, "message": string, "data": ...}. Client unwraps the
// envelope and reports transport failures, non-2xx statuses and
// success=false bodies as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/extguard/internal/core/logging"
)

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "API request failed"

// Error is a failed API call.
type Error struct {
	Status  int // HTTP status; 0 when no response was received
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return DefaultErrorMessage
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a client for baseURL. A zero timeout disables the deadline.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logging.Component("api"),
	}
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// call sends in as JSON (when non-nil) and decodes the envelope's data into
// out (when non-nil).
func (c *Client) call(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := c.send(ctx, method, endpoint, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decode(ctx, resp, endpoint, out)
}

// send performs the request and logs its outcome. The caller owns the body.
func (c *Client) send(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	url := c.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().Ctx(ctx).Str("method", method).Str("url", url).Msg("api request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Ctx(ctx).Err(err).Str("method", method).Str("url", url).Msg("network error: no response received")
		return nil, &Error{Message: err.Error()}
	}

	c.log.Debug().Ctx(ctx).
		Int("status", resp.StatusCode).
		Str("url", url).
		Dur("elapsed", time.Since(start)).
		Msg("api response")

	return resp, nil
}

func (c *Client) decode(ctx context.Context, resp *http.Response, endpoint string, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", endpoint, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		c.log.Error().Ctx(ctx).
			Int("status", resp.StatusCode).
			Str("endpoint", endpoint).
			Str("message", apiErr.Message).
			Msg("response error")
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("decode response %s: %w", endpoint, decodeErr)
	}

	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data %s: %w", endpoint, err)
	}
	return nil
}
