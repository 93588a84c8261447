// Package api is the HTTP client for the cooking codex service. Every call
// returns either its value or a classified failure (see outcome.go).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/mcc/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client implements domain.Remote against the service's JSON API
type Client struct {
	baseURL    string
	token      *domain.LoginToken
	httpClient *http.Client
	observer   domain.OutcomeObserver
	logger     *slog.Logger
}

var _ domain.Remote = (*Client)(nil)

// NewClient creates an API client rooted at baseURL (e.g. "https://host/api").
// A nil token gives an unauthenticated client for info, login and signup.
// Every classified failure is reported to observer before it is returned.
func NewClient(baseURL string, token *domain.LoginToken, observer domain.OutcomeObserver, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = domain.NoOpOutcomeObserver{}
	}
	return &Client{
		baseURL: domain.SanitizeBaseURL(baseURL),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		observer: observer,
		logger:   logger,
	}
}

// NewSessionClient creates an authenticated client for a session
func NewSessionClient(session domain.Session, observer domain.OutcomeObserver, logger *slog.Logger) *Client {
	token := session.Token
	return NewClient(session.APIBaseURL, &token, observer, logger)
}

// BaseURL returns the API base URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs one request and returns the body of a 2xx response.
// Failures are already classified and reported.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, c.fail(genericError(fmt.Errorf("failed to create request: %w", err)))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		req.Header.Set("Authorization", c.token.AuthorizationValue())
	}

	c.logger.Debug("api request", "method", method, "url", reqURL, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.fail(connectionError(err))
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("api request error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"body", truncate(string(data), 512),
		)
		return nil, c.fail(&domain.ResponseError{StatusCode: resp.StatusCode})
	}

	if readErr != nil {
		return nil, c.fail(genericError(fmt.Errorf("failed to read response: %w", readErr)))
	}

	return data, nil
}

// getJSON performs a GET and decodes the response into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return c.decode(path, data, out)
}

// sendJSON encodes payload as the request body. The response body is decoded
// into out unless out is nil, in which case only the status is checked.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return c.fail(genericError(fmt.Errorf("failed to encode request: %w", err)))
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	data, err := c.doRequest(ctx, method, path, nil, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return c.decode(path, data, out)
}

// fail reports a classified failure to the observer and returns it
func (c *Client) fail(err error) error {
	c.observer.ObserveFailure(err)
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
