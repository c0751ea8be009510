// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stylist TUI.
package components

import (
	"strings"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message.
type MessageBubble struct {
	Message       *model.ChatMessage
	Width         int
	ShowTimestamp bool

	// ExplainLoading marks the attached outfit's explanation as being
	// fetched right now.
	ExplainLoading bool

	theme *styles.Theme
}

// NewMessageBubble creates a bubble for a message.
func NewMessageBubble(msg *model.ChatMessage, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.IsError {
		return b.renderErrorBubble()
	}
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	default:
		return b.renderAssistantBubble()
	}
}

func (b *MessageBubble) renderUserBubble() string {
	var parts []string
	parts = append(parts, b.theme.UserLabel.Render(b.Message.Role.DisplayName())+b.timestamp())

	if b.Message.Content != "" {
		parts = append(parts, b.Message.Content)
	}
	if b.Message.HasImage() {
		parts = append(parts, b.theme.AttachmentNote.Render("[image] "+b.Message.ImagePath))
	}

	bubble := b.theme.UserBubble.Width(bubbleWidth(b.Width))
	return bubble.Render(strings.Join(parts, "\n"))
}

func (b *MessageBubble) renderAssistantBubble() string {
	var parts []string
	parts = append(parts, b.theme.AssistantLabel.Render(b.Message.Role.DisplayName())+b.timestamp())

	if b.Message.Content != "" {
		parts = append(parts, b.Message.Content)
	}
	if b.Message.HasOutfit() {
		card := NewOutfitCard(b.Message.Outfit, b.theme)
		card.SetWidth(bubbleWidth(b.Width) - 4)
		card.SetLoading(b.ExplainLoading)
		parts = append(parts, card.View())
	}

	bubble := b.theme.AssistantBubble.Width(bubbleWidth(b.Width))
	return bubble.Render(strings.Join(parts, "\n"))
}

// renderErrorBubble renders the in-chat failure notice with its retry hint.
func (b *MessageBubble) renderErrorBubble() string {
	title := "Message not sent"
	if b.Message.ErrorDetails != nil && b.Message.ErrorDetails.Title != "" {
		title = b.Message.ErrorDetails.Title
	}

	var parts []string
	parts = append(parts, b.theme.ErrorTitle.Render(title))
	if b.Message.Content != "" {
		parts = append(parts, b.Message.Content)
	}
	parts = append(parts, b.theme.ErrorHint.Render("press r on this message to retry"))

	box := b.theme.ErrorBox.Width(bubbleWidth(b.Width))
	return box.Render(strings.Join(parts, "\n"))
}

func (b *MessageBubble) timestamp() string {
	if !b.ShowTimestamp || b.Message.Timestamp.IsZero() {
		return ""
	}
	return "  " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
}

// bubbleWidth caps bubbles at a readable width.
func bubbleWidth(width int) int {
	if width > 100 {
		return 100
	}
	if width < 20 {
		return 20
	}
	return width
}
