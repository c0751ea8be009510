// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package storage provides the local SQLite archive for chat transcripts.

Archiving is strictly local and explicit: the server keeps its own chat
history, and this archive only holds the chats the user chose to save.
Error entries are transient UI state and are never written.

# Key Types

  - Archive: SQLite-backed transcript store
  - SearchResult: one full-text search hit with a snippet

# Usage

Open the archive and save the current chat:

	archive, err := storage.Open(path)
	err = archive.SaveChat(chatID, title, messages)

List, load, search and export:

	entries, err := archive.ListChats()
	title, messages, err := archive.LoadChat(chatID)
	hits, err := archive.Search("linen")
	text, err := archive.ExportMarkdown(chatID)

The database runs with WAL journaling and a single connection; outfits
are stored as JSON alongside their message rows.
*/
package storage
