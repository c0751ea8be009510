// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared setup and session persistence for stylist CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/auth"
	"github.com/jeranaias/stylist-tui/internal/config"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// =============================================================================
// CLIENT SETUP
// =============================================================================

// BuildClient creates an API client from config plus CLI overrides and
// restores any persisted session cookies.
func BuildClient(cfg *config.Config, args Args) *api.Client {
	clientCfg := api.DefaultConfig()
	clientCfg.BaseURL = cfg.Server.URL
	if args.Server != "" {
		clientCfg.BaseURL = args.Server
	}
	clientCfg.Timeout = time.Duration(cfg.Server.TimeoutSecs) * time.Second

	client := api.NewClientWithConfig(clientCfg)
	if cookies, err := loadSessionCookies(); err == nil {
		client.RestoreSessionCookies(cookies)
	}
	return client
}

// BuildAuth creates an auth manager wired for the configured mode.
func BuildAuth(client *api.Client, cfg *config.Config, args Args) *auth.Manager {
	mgr := auth.NewManager(client)
	mgr.SetDevMode(cfg.Server.DevMode || args.DevMode)
	client.SetUnauthorizedHandler(func() {
		mgr.HandleUnauthorized()
		clearSessionCookies()
	})
	return mgr
}

// loadCLIConfig loads the configuration, treating a missing file as defaults.
func loadCLIConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// fail prints an error to stderr and exits non-zero.
func fail(format string, a ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+fmt.Sprintf(format, a...))
	os.Exit(1)
}

// =============================================================================
// SESSION COOKIE PERSISTENCE
// =============================================================================

// storedCookie is the on-disk shape of a session cookie. Only the fields
// needed to replay the cookie are kept.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Domain  string    `json:"domain,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// sessionFilePath returns the path of the persisted session file.
func sessionFilePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// saveSessionCookies persists the client's current session cookies so a
// login survives across CLI invocations.
func saveSessionCookies(client *api.Client) error {
	cookies := client.SessionCookies()
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Expires: c.Expires,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0o600)
}

// loadSessionCookies reads persisted session cookies. A missing file
// returns an empty slice.
func loadSessionCookies() ([]*http.Cookie, error) {
	path, err := sessionFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		// Expired cookies are dead weight, skip them
		if !s.Expires.IsZero() && s.Expires.Before(time.Now()) {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    s.Name,
			Value:   s.Value,
			Path:    s.Path,
			Domain:  s.Domain,
			Expires: s.Expires,
		})
	}
	return cookies, nil
}

// clearSessionCookies removes the persisted session file.
func clearSessionCookies() {
	if path, err := sessionFilePath(); err == nil {
		os.Remove(path)
	}
}
