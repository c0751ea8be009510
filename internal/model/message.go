// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages and outfits.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Stylist"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE TYPE
// =============================================================================

// ChatMessage represents a single message in a chat.
//
// Messages are immutable after creation with one exception: a delayed
// explanation may be attached to an existing assistant message's outfit
// (see Outfit.Explanation).
type ChatMessage struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// ImagePath is the local path of an attached image, if any.
	ImagePath string `json:"image_path,omitempty"`

	// Error state. When IsError is true the message is a synthetic
	// in-chat failure notice and ErrorDetails carries the original
	// input so a retry can replay exactly what was sent.
	IsError      bool          `json:"is_error,omitempty"`
	ErrorDetails *ErrorDetails `json:"error_details,omitempty"`

	// Outfit recommendation attached to an assistant message, if any.
	Outfit *Outfit `json:"outfit,omitempty"`
}

// ErrorDetails captures the input of a failed send for retry.
type ErrorDetails struct {
	OriginalContent   string `json:"original_content"`
	OriginalImagePath string `json:"original_image_path,omitempty"`
	Title             string `json:"title"`
	Message           string `json:"message"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *ChatMessage {
	return &ChatMessage{
		ID:        GenerateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message with an optional image attachment.
func NewUserMessage(content, imagePath string) *ChatMessage {
	msg := NewMessage(RoleUser, content)
	msg.ImagePath = imagePath
	return msg
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *ChatMessage {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates a synthetic in-chat error message carrying the
// original input for retry.
func NewErrorMessage(title, text, originalContent, originalImagePath string) *ChatMessage {
	msg := NewMessage(RoleAssistant, text)
	msg.IsError = true
	msg.ErrorDetails = &ErrorDetails{
		OriginalContent:   originalContent,
		OriginalImagePath: originalImagePath,
		Title:             title,
		Message:           text,
	}
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// HasImage returns true if the message carries an image attachment.
func (m *ChatMessage) HasImage() bool {
	return m.ImagePath != ""
}

// HasOutfit returns true if the message carries an outfit recommendation.
func (m *ChatMessage) HasOutfit() bool {
	return m.Outfit != nil
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *ChatMessage) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content and no image.
func (m *ChatMessage) IsEmpty() bool {
	return len(m.Content) == 0 && m.ImagePath == ""
}

// Clone returns a shallow copy of the message with a deep-copied outfit.
func (m *ChatMessage) Clone() *ChatMessage {
	cp := *m
	if m.Outfit != nil {
		cp.Outfit = m.Outfit.Clone()
	}
	if m.ErrorDetails != nil {
		details := *m.ErrorDetails
		cp.ErrorDetails = &details
	}
	return &cp
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GenerateMessageID creates a unique message ID.
func GenerateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
