// Package supabase talks to a hosted Supabase project: PostgREST for the
// solutions table and GoTrue for email + password auth.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/solutions-manager/internal/config"
	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// APIError is a non-2xx response from PostgREST or GoTrue.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.Status)
	}
	return e.Message
}

// Is matches the domain sentinel for well-known codes and statuses. The
// APIError stays the innermost error so its message is what users see.
func (e *APIError) Is(target error) bool {
	sentinel := e.sentinel()
	return sentinel != nil && target == sentinel
}

func (e *APIError) sentinel() error {
	switch e.Code {
	case "23505", "user_already_exists", "email_exists":
		return domain.ErrAlreadyExists
	case "23514", "23502", "22P02", "weak_password", "validation_failed":
		return domain.ErrValidation
	case "PGRST116":
		return domain.ErrNotFound
	case "invalid_grant", "invalid_credentials", "refresh_token_not_found", "session_not_found":
		return domain.ErrUnauthorized
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

// errorBody covers both the PostgREST and the GoTrue error shapes.
type errorBody struct {
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	e.Details = b.Details
	e.Hint = b.Hint
	e.Message = firstNonEmpty(b.Message, b.Msg, b.ErrorDescription, b.Error)
	e.Code = firstNonEmpty(b.ErrorCode, strings.Trim(string(b.Code), `"`), b.Error)
	return e
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Client is the HTTP transport shared by Table and Auth.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a Client for the project at cfg.URL.
func NewClient(log *slog.Logger, cfg config.SupabaseConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.With("adapter", "supabase"),
	}
}

// request is one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	prefer string
}

// do sends req and decodes a 2xx JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	bearer := req.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.DebugContext(ctx, "request done",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// IsAPIError reports whether err carries an APIError with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
