// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/ui/components"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderMessages renders the full transcript for the viewport.
func (m *Model) renderMessages() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	explaining := m.session.ExplainingMessageID()

	var parts []string
	for i := range msgs {
		msg := &msgs[i]

		if m.render != nil && !msg.IsError && msg.Content != "" && msg.Role == model.RoleAssistant {
			rendered := m.render(msg.Content)
			if rendered != "" {
				clone := msg.Clone()
				clone.Content = strings.TrimRight(rendered, "\n")
				msg = clone
			}
		}

		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.viewport.Width - 2)
		bubble.ExplainLoading = msg.ID == explaining

		parts = append(parts, bubble.View())
	}

	if m.session.IsSending() {
		parts = append(parts, m.spin.View()+" the stylist is thinking...")
	}

	return strings.Join(parts, "\n\n")
}

// renderWelcome fills the empty transcript with a short hint.
func (m *Model) renderWelcome() string {
	lines := []string{
		"",
		"  Ask for an outfit: describe the occasion, the weather,",
		"  or what you already plan to wear.",
		"",
		"  /attach <path> adds a photo of a garment to match.",
		"  /budget 250 caps the total price.",
		"",
	}
	return strings.Join(lines, "\n")
}
