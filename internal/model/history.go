// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages and outfits.
package model

import (
	"sort"
	"time"
)

// =============================================================================
// HISTORY ENTRY TYPE
// =============================================================================

// HistoryEntry is a lightweight chat listing for the sidebar.
// Entries are stored unordered; sorting happens at render time.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayTitle returns the entry title or a default for untitled chats.
func (e HistoryEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return "New chat"
}

// SortHistory orders entries by last-message timestamp, most recent first.
// The input slice is sorted in place.
func SortHistory(entries []HistoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}
