// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"testing"

	"github.com/jeranaias/stylist-tui/internal/api"
)

type fakeAuth struct {
	loginFn  func(creds api.Credentials) (*api.User, error)
	signupFn func(req api.SignupRequest) (*api.User, error)
	meFn     func() (*api.User, error)

	loginCalls  int
	logoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, creds api.Credentials) (*api.User, error) {
	f.loginCalls++
	if f.loginFn != nil {
		return f.loginFn(creds)
	}
	return &api.User{ID: "u1", Email: creds.Email}, nil
}

func (f *fakeAuth) Signup(ctx context.Context, req api.SignupRequest) (*api.User, error) {
	if f.signupFn != nil {
		return f.signupFn(req)
	}
	return &api.User{ID: "u2", Email: req.Email, Name: req.Name}, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*api.User, error) {
	if f.meFn != nil {
		return f.meFn()
	}
	return nil, api.ErrUnauthorized
}

func TestLoginSuccess(t *testing.T) {
	fake := &fakeAuth{}
	m := NewManager(fake)

	user, err := m.Login(context.Background(), "x@y.z", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "x@y.z" {
		t.Errorf("email = %q", user.Email)
	}
	if !m.IsLoggedIn() {
		t.Error("not logged in after successful login")
	}
}

func TestLoginValidation(t *testing.T) {
	fake := &fakeAuth{}
	m := NewManager(fake)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "pw"},
		{"blank email", "   ", "pw"},
		{"empty password", "x@y.z", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Login(context.Background(), tt.email, tt.password)
			if err != ErrInvalidInput {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
	if fake.loginCalls != 0 {
		t.Error("invalid input must not reach the network")
	}
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	fake := &fakeAuth{
		loginFn: func(creds api.Credentials) (*api.User, error) {
			return nil, api.ErrUnauthorized
		},
	}
	m := NewManager(fake)

	_, err := m.Login(context.Background(), "x@y.z", "wrong")
	if !api.IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if m.IsLoggedIn() {
		t.Error("logged in after failed login")
	}
}

func TestLoginThrottle(t *testing.T) {
	fake := &fakeAuth{
		loginFn: func(creds api.Credentials) (*api.User, error) {
			return nil, api.ErrUnauthorized
		},
	}
	m := NewManager(fake)

	var throttled bool
	for i := 0; i < 10; i++ {
		_, err := m.Login(context.Background(), "x@y.z", "wrong")
		if err == ErrTooManyAttempts {
			throttled = true
			break
		}
	}
	if !throttled {
		t.Error("rapid login attempts never throttled")
	}
}

func TestDevModeSkipsNetwork(t *testing.T) {
	fake := &fakeAuth{}
	m := NewManager(fake)
	m.SetDevMode(true)

	user, err := m.Login(context.Background(), "dev@local.test", "anything")
	if err != nil {
		t.Fatalf("dev login failed: %v", err)
	}
	if user.ID != "dev_user" {
		t.Errorf("user ID = %q", user.ID)
	}
	if user.Name != "dev" {
		t.Errorf("name = %q, want email local part", user.Name)
	}
	if fake.loginCalls != 0 {
		t.Error("dev mode must not call the service")
	}

	ok, err := m.CheckSession(context.Background())
	if err != nil || !ok {
		t.Errorf("CheckSession = %v, %v", ok, err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	fake := &fakeAuth{}
	m := NewManager(fake)

	logoutFired := false
	m.SetOnLogout(func() { logoutFired = true })

	if err := m.Logout(context.Background()); err != ErrNotLoggedIn {
		t.Errorf("logout without session = %v", err)
	}

	if _, err := m.Login(context.Background(), "x@y.z", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := m.Logout(context.Background()); err != nil {
		t.Errorf("Logout failed: %v", err)
	}
	if m.IsLoggedIn() {
		t.Error("still logged in after logout")
	}
	if !logoutFired {
		t.Error("logout callback did not fire")
	}
	if fake.logoutCalls != 1 {
		t.Errorf("server logout calls = %d", fake.logoutCalls)
	}
}

func TestCheckSessionRefreshesUser(t *testing.T) {
	fake := &fakeAuth{
		meFn: func() (*api.User, error) {
			return &api.User{ID: "u1", Email: "x@y.z", Name: "Renamed"}, nil
		},
	}
	m := NewManager(fake)

	ok, err := m.CheckSession(context.Background())
	if err != nil || !ok {
		t.Fatalf("CheckSession = %v, %v", ok, err)
	}
	if m.User().Name != "Renamed" {
		t.Error("user not refreshed from session check")
	}
}

func TestCheckSessionUnauthorizedIsNotAnError(t *testing.T) {
	m := NewManager(&fakeAuth{})

	ok, err := m.CheckSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("reported a session with none present")
	}
}

func TestHandleUnauthorizedForcesLogout(t *testing.T) {
	fake := &fakeAuth{}
	m := NewManager(fake)

	fired := false
	m.SetOnLogout(func() { fired = true })

	if _, err := m.Login(context.Background(), "x@y.z", "pw"); err != nil {
		t.Fatal(err)
	}

	m.HandleUnauthorized()
	if m.IsLoggedIn() {
		t.Error("still logged in after 401")
	}
	if !fired {
		t.Error("logout callback did not fire on 401")
	}
}
