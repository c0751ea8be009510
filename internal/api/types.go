// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the stylist service.
package api

import "time"

// =============================================================================
// USER TYPES
// =============================================================================

// User is the authenticated account as reported by the service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials carries a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest carries an account creation request.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// authResponse wraps user-returning auth endpoints.
type authResponse struct {
	User User `json:"user"`
}

// =============================================================================
// CHAT WIRE TYPES
// =============================================================================

// SendRequest carries one outgoing chat message.
// ImagePath, when set, switches the request to multipart encoding.
type SendRequest struct {
	Message   string `json:"message"`
	Filters   string `json:"filters,omitempty"` // JSON-encoded OutfitFilters
	ChatID    string `json:"chat_id,omitempty"`
	ImagePath string `json:"-"`
}

// SendResponse is the service's reply to a sent message.
type SendResponse struct {
	Status    string      `json:"status"`
	ChatID    string      `json:"chat_id"`
	ChatTitle string      `json:"chat_title"`
	Response  ReplyRecord `json:"response"`
}

// ReplyRecord is the assistant reply payload inside a SendResponse.
type ReplyRecord struct {
	Message     string          `json:"message"`
	OutfitID    string          `json:"outfit_id,omitempty"`
	Items       []RawOutfitItem `json:"items,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
}

// RawMessage is a server-shaped transcript record, prior to transformation
// into the client's message model.
type RawMessage struct {
	ID          string          `json:"id"`
	Role        string          `json:"role"`
	Content     string          `json:"content"`
	CreatedAt   time.Time       `json:"created_at"`
	ImageURL    string          `json:"image_url,omitempty"`
	OutfitID    string          `json:"outfit_id,omitempty"`
	Items       []RawOutfitItem `json:"items,omitempty"`
	Explanation string          `json:"explanation,omitempty"`
}

// RawOutfitItem is a server-shaped outfit line item.
// Available is a pointer so absence can be told apart from false.
type RawOutfitItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand,omitempty"`
	Link      string  `json:"link,omitempty"`
	Image     string  `json:"image,omitempty"`
	Available *bool   `json:"available,omitempty"`
}

// ChatListEntry is one sidebar listing record.
type ChatListEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// transcriptResponse wraps the transcript endpoint payload.
type transcriptResponse struct {
	Messages []RawMessage `json:"messages"`
}

// chatListResponse wraps the chat list endpoint payload.
type chatListResponse struct {
	Chats []ChatListEntry `json:"chats"`
}

// successResponse wraps boolean mutation results (rename, delete).
type successResponse struct {
	Success bool `json:"success"`
}

// explainRequest carries an outfit explanation request.
type explainRequest struct {
	MessageID string `json:"message_id"`
	OutfitID  string `json:"outfit_id"`
}

// explainResponse wraps the explanation endpoint payload.
type explainResponse struct {
	Explanation string `json:"explanation"`
}

// apiError is the service's error envelope.
type apiError struct {
	Error string `json:"error"`
}
