// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the stylist service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the stylist API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type so sentinels work with errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeNotFound
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeUnreachable, Message: "stylist service is not reachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not authenticated"}
	ErrChatNotFound = &ClientError{Type: ErrTypeNotFound, Message: "chat not found"}
)

// IsUnauthorized checks if an error is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsUnreachable checks if an error indicates the service is down.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the stylist API client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:8000",
		Timeout:   30 * time.Second,
		UserAgent: "stylist-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the stylist service.
//
// The client owns a cookie jar so the session cookie set by Login rides on
// every subsequent request, mirroring the credentialed browser session. A
// single OnUnauthorized hook fires whenever any non-auth endpoint returns
// 401, letting the caller drop back to the login flow.
//
// The Client is safe for concurrent use.
type Client struct {
	config         *ClientConfig
	httpClient     *http.Client
	onUnauthorized func()
	log            zerolog.Logger
}

// NewClient creates a new stylist API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new stylist API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "stylist-tui"
	}

	// cookiejar.New never fails with a nil options struct.
	jar, _ := cookiejar.New(nil)

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
		},
		log: zerolog.Nop(),
	}
}

// SetUnauthorizedHandler registers the hook invoked when a request fails
// with 401. Auth endpoints themselves never trigger it.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// SessionCookies returns the cookies the jar currently holds for the
// service base URL. Callers may persist these so a login survives across
// process restarts.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil || c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// RestoreSessionCookies seeds the jar with previously persisted cookies.
func (c *Client) RestoreSessionCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 || c.httpClient.Jar == nil {
		return
	}
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return
	}
	c.httpClient.Jar.SetCookies(u, cookies)
}

// SetLogger attaches a debug logger to the client.
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// newRequest builds a request with the standard headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do executes a request and maps transport and status failures onto the
// client error taxonomy. isAuthEndpoint suppresses the 401 hook for the
// login/signup/session-check paths.
func (c *Client) do(req *http.Request, isAuthEndpoint bool) (*http.Response, error) {
	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return nil, ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, ErrUnreachable
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drainAndClose(resp.Body)
		if !isAuthEndpoint && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode == http.StatusNotFound {
		drainAndClose(resp.Body)
		return nil, ErrChatNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var envelope apiError
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: envelope.Error}
		}
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "request failed: " + resp.Status,
		}
	}

	return resp, nil
}

// postJSON marshals a body, executes a POST and decodes the reply into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any, isAuthEndpoint bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.do(req, isAuthEndpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// getJSON executes a GET and decodes the reply into out.
func (c *Client) getJSON(ctx context.Context, path string, out any, isAuthEndpoint bool) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req, isAuthEndpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login authenticates with the service. The session cookie lands in the
// client's jar and rides on all subsequent requests.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	var resp authResponse
	if err := c.postJSON(ctx, "/api/auth/login", creds, &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Signup creates an account and authenticates in one step.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var resp authResponse
	if err := c.postJSON(ctx, "/api/auth/signup", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout terminates the server session.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/api/auth/logout", struct{}{}, nil, true)
}

// CurrentUser returns the account for the active session, or
// ErrUnauthorized when no session exists.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp authResponse
	if err := c.getJSON(ctx, "/api/auth/me", &resp, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage sends a chat message. When the request carries an image the
// body is multipart form data; otherwise it is JSON.
func (c *Client) SendMessage(ctx context.Context, sendReq SendRequest) (*SendResponse, error) {
	var resp SendResponse

	if sendReq.ImagePath == "" {
		if err := c.postJSON(ctx, "/api/chat/send", sendReq, &resp, false); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	body, contentType, err := buildMultipartBody(sendReq)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/send", contentType, body)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.do(req, false)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &resp, nil
}

// FetchTranscript retrieves the raw message records for a chat.
func (c *Client) FetchTranscript(ctx context.Context, chatID string) ([]RawMessage, error) {
	var resp transcriptResponse
	if err := c.getJSON(ctx, "/api/chat/"+chatID+"/messages", &resp, false); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// ListChats returns the sidebar listing entries.
func (c *Client) ListChats(ctx context.Context) ([]ChatListEntry, error) {
	var resp chatListResponse
	if err := c.getJSON(ctx, "/api/chat/list", &resp, false); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// RenameChat updates a chat title. Returns the server's success flag.
func (c *Client) RenameChat(ctx context.Context, chatID, title string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/chat/"+chatID+"/rename", "application/json", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}

	resp, err := c.do(req, false)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result successResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Success, nil
}

// DeleteChat removes a chat. Returns the server's success flag.
func (c *Client) DeleteChat(ctx context.Context, chatID string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/chat/"+chatID, "", nil)
	if err != nil {
		return false, err
	}

	resp, err := c.do(req, false)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result successResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Success, nil
}

// ExplainOutfit requests the free-text explanation for an outfit.
func (c *Client) ExplainOutfit(ctx context.Context, messageID, outfitID string) (string, error) {
	var resp explainResponse
	err := c.postJSON(ctx, "/api/chat/explain", explainRequest{
		MessageID: messageID,
		OutfitID:  outfitID,
	}, &resp, false)
	if err != nil {
		return "", err
	}
	return resp.Explanation, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// isClientTimeout reports whether a transport error is the http.Client
// timeout, which surfaces as a url.Error with Timeout() true rather than
// context.DeadlineExceeded.
func isClientTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) {
		return timeout.Timeout()
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

// drainAndClose discards and closes a response body so the connection can
// be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
