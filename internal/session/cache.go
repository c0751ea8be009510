// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// CONVERSATION CACHE
// =============================================================================

// Cache stores fetched transcripts keyed by chat ID so switching back to a
// chat does not refetch it.
type Cache interface {
	// Get returns the cached messages for a chat and whether an entry exists.
	Get(chatID string) ([]model.ChatMessage, bool)

	// Put stores messages for a chat, replacing any existing entry.
	Put(chatID string, messages []model.ChatMessage)

	// Drop removes a chat's entry.
	Drop(chatID string)
}

// MemoryCache is an in-memory Cache safe for concurrent use.
//
// Entries hold cloned messages in both directions, so callers can mutate
// their slices without corrupting the cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]model.ChatMessage
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]model.ChatMessage),
	}
}

func (c *MemoryCache) Get(chatID string) ([]model.ChatMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	msgs, ok := c.entries[chatID]
	if !ok {
		return nil, false
	}
	return cloneMessages(msgs), true
}

func (c *MemoryCache) Put(chatID string, messages []model.ChatMessage) {
	if chatID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[chatID] = cloneMessages(messages)
}

func (c *MemoryCache) Drop(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, chatID)
}

// Len returns the number of cached chats.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneMessages(msgs []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, len(msgs))
	for i := range msgs {
		out[i] = *msgs[i].Clone()
	}
	return out
}
