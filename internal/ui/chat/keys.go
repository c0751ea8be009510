// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines keyboard bindings and shortcuts for the chat interface.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	End      key.Binding
	Submit   key.Binding
	Quit     key.Binding
	NewChat  key.Binding
	Sidebar  key.Binding
	Retry    key.Binding
	Explain  key.Binding
	Archive  key.Binding
	Rename   key.Binding
	Delete   key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "jump to latest"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send message"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b", "tab"),
			key.WithHelp("C-b/Tab", "toggle chat list"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "retry failed send"),
		),
		Explain: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "explain outfit"),
		),
		Archive: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "archive chat locally"),
		),
		Rename: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "rename chat"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "delete chat"),
		),
	}
}

// ShortHelp returns bindings shown in the compact help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewChat, k.Sidebar, k.Quit}
}

// FullHelp returns all binding groups.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.End},
		{k.Submit, k.Retry, k.Explain},
		{k.NewChat, k.Sidebar, k.Rename, k.Delete, k.Archive},
		{k.Quit},
	}
}
