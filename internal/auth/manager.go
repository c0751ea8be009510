// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the authenticated user session.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/stylist-tui/internal/api"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrTooManyAttempts is returned when login attempts outpace the
	// local throttle.
	ErrTooManyAttempts = errors.New("too many login attempts, slow down")

	// ErrInvalidInput is returned for malformed credentials before any
	// network call is made.
	ErrInvalidInput = errors.New("email and password are required")
)

// =============================================================================
// AUTHENTICATOR INTERFACE
// =============================================================================

// Authenticator is the slice of the API client the manager depends on.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.User, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager tracks the logged-in user and gates auth calls.
//
// Login attempts are throttled locally with a token bucket so a stuck
// retry loop cannot hammer the service. In dev mode the manager never
// touches the network and hands out a fixed local account, which keeps
// the TUI usable against nothing at all.
type Manager struct {
	mu sync.Mutex

	client  Authenticator
	user    *api.User
	devMode bool
	limiter *rate.Limiter

	onLogout func()
}

// NewManager creates a session manager backed by the given authenticator.
func NewManager(client Authenticator) *Manager {
	return &Manager{
		client: client,
		// 3 quick attempts, then one every 2 seconds.
		limiter: rate.NewLimiter(rate.Limit(0.5), 3),
	}
}

// SetDevMode toggles the offline mock account. Only the config layer
// should call this, from an explicit dev_mode flag.
func (m *Manager) SetDevMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devMode = enabled
}

// SetOnLogout registers a callback invoked when the session ends,
// including forced logout after a 401.
func (m *Manager) SetOnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = fn
}

// =============================================================================
// SESSION STATE
// =============================================================================

// User returns the logged-in user, or nil.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsLoggedIn reports whether a user session is active.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login authenticates with email and password.
func (m *Manager) Login(ctx context.Context, email, password string) (*api.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	dev := m.devMode
	m.mu.Unlock()

	if dev {
		return m.adopt(mockUser(email)), nil
	}

	if !m.limiter.Allow() {
		return nil, ErrTooManyAttempts
	}

	user, err := m.client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.adopt(user), nil
}

// Signup creates an account and starts a session.
func (m *Manager) Signup(ctx context.Context, email, password, name string) (*api.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	dev := m.devMode
	m.mu.Unlock()

	if dev {
		u := mockUser(email)
		u.Name = name
		return m.adopt(u), nil
	}

	user, err := m.client.Signup(ctx, api.SignupRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	return m.adopt(user), nil
}

// Logout ends the session. The server call is best-effort; local state
// is cleared regardless so the UI never shows a stale account.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	dev := m.devMode
	loggedIn := m.user != nil
	m.mu.Unlock()

	if !loggedIn {
		return ErrNotLoggedIn
	}

	var err error
	if !dev {
		err = m.client.Logout(ctx)
	}
	m.clearSession()
	return err
}

// CheckSession asks the service whether the current cookie session is
// still valid and refreshes the cached user. ErrUnauthorized from the
// client means no session; the manager translates that to a logged-out
// state without error.
func (m *Manager) CheckSession(ctx context.Context) (bool, error) {
	m.mu.Lock()
	dev := m.devMode
	existing := m.user
	m.mu.Unlock()

	if dev {
		return existing != nil, nil
	}

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			m.clearSession()
			return false, nil
		}
		return false, err
	}

	m.adopt(user)
	return true, nil
}

// HandleUnauthorized is wired as the API client's 401 hook. It drops the
// local session and fires the logout callback.
func (m *Manager) HandleUnauthorized() {
	m.clearSession()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (m *Manager) adopt(user *api.User) *api.User {
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	u := *user
	return &u
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	had := m.user != nil
	m.user = nil
	fn := m.onLogout
	m.mu.Unlock()

	if had && fn != nil {
		fn()
	}
}

// mockUser builds the fixed dev-mode account.
func mockUser(email string) *api.User {
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	return &api.User{
		ID:    "dev_user",
		Email: email,
		Name:  name,
	}
}
