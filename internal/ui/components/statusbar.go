// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stylist TUI.
package components

import (
	"strings"

	"github.com/jeranaias/stylist-tui/internal/ui/styles"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom status line: account, chat title, state.
type StatusBar struct {
	Width     int
	UserEmail string
	ChatTitle string
	Sending   bool
	Fetching  bool
	DevMode   bool
	theme     *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var parts []string

	if s.UserEmail != "" {
		parts = append(parts, s.UserEmail)
	} else {
		parts = append(parts, "not logged in")
	}
	if s.DevMode {
		parts = append(parts, "dev")
	}
	if s.ChatTitle != "" {
		parts = append(parts, util.TruncateWidth(s.ChatTitle, 40))
	}

	switch {
	case s.Sending:
		parts = append(parts, "sending...")
	case s.Fetching:
		parts = append(parts, "loading...")
	}

	line := strings.Join(parts, "  |  ")
	return s.theme.StatusBar.Width(s.Width).Render(util.TruncateWidth(line, s.Width))
}
