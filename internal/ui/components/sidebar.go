// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stylist TUI.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// Sidebar renders the chat history list.
type Sidebar struct {
	Entries  []model.HistoryEntry
	Selected int
	ActiveID string
	Width    int
	Height   int
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		Width:  28,
		Height: 20,
		theme:  theme,
	}
}

// SetEntries replaces the listing, keeping it sorted most recent first.
func (s *Sidebar) SetEntries(entries []model.HistoryEntry) {
	model.SortHistory(entries)
	s.Entries = entries
	if s.Selected >= len(entries) {
		s.Selected = len(entries) - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

// SetSize sets the rendered dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// MoveUp moves the selection up.
func (s *Sidebar) MoveUp() {
	if s.Selected > 0 {
		s.Selected--
	}
}

// MoveDown moves the selection down.
func (s *Sidebar) MoveDown() {
	if s.Selected < len(s.Entries)-1 {
		s.Selected++
	}
}

// SelectedEntry returns the highlighted entry, or nil for an empty list.
func (s *Sidebar) SelectedEntry() *model.HistoryEntry {
	if s.Selected < 0 || s.Selected >= len(s.Entries) {
		return nil
	}
	return &s.Entries[s.Selected]
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	if len(s.Entries) == 0 {
		return s.theme.Sidebar.Width(s.Width).Height(s.Height).
			Render(s.theme.SidebarTimestamp.Render("no chats yet"))
	}

	innerWidth := s.Width - 3

	var lines []string
	for i, entry := range s.Entries {
		if len(lines) >= s.Height {
			break
		}

		title := util.TruncateWidth(entry.DisplayTitle(), innerWidth)
		line := util.PadRight(title, innerWidth)

		style := s.theme.SidebarItem
		if i == s.Selected {
			style = s.theme.SidebarSelected
		}

		lines = append(lines, style.Render(line))
		if i == s.Selected {
			age := relativeTime(entry.UpdatedAt)
			lines = append(lines, s.theme.SidebarTimestamp.Render("  "+age))
		}
	}

	return s.theme.Sidebar.Width(s.Width).Height(s.Height).
		Render(strings.Join(lines, "\n"))
}

// relativeTime renders an approximate age, sidebar style.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return t.Format("15:04")
	default:
		return t.Format("Jan 2")
	}
}
