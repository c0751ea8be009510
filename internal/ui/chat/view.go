// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the complete chat interface.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	input := m.renderInput()
	status := m.renderStatus()

	view := strings.Join([]string{header, body, input, status}, "\n")

	if toasts := m.toasts.View(); toasts != "" {
		view += "\n" + toasts
	}
	return view
}

func (m *Model) renderHeader() string {
	title := "stylist"
	if t := m.session.CurrentChatTitle(); t != "" {
		title += "  -  " + t
	}
	return m.theme.Header.Width(m.width).Render(title)
}

func (m *Model) renderBody() string {
	transcript := m.viewport.View()

	if m.scroll.ShowJumpButton() {
		jump := m.theme.JumpButton.Render("v jump to latest (End)")
		transcript = transcript + "\n" + jump
	}

	if !m.showSidebar {
		return transcript
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), transcript)
}

func (m *Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	line := prompt + m.input.View()

	if m.pendingImage != "" {
		line += "  " + m.theme.AttachmentNote.Render("[image staged]")
	}
	if m.renaming {
		line = m.theme.InputPrompt.Render("rename: ") + m.input.View()
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}

func (m *Model) renderStatus() string {
	m.statusBar.Width = m.width
	if user := m.auth.User(); user != nil {
		m.statusBar.UserEmail = user.Email
	} else {
		m.statusBar.UserEmail = ""
	}
	m.statusBar.ChatTitle = m.session.CurrentChatTitle()
	m.statusBar.Sending = m.session.IsSending()
	m.statusBar.Fetching = m.session.IsFetching()
	m.statusBar.DevMode = m.devMode
	return m.statusBar.View()
}
