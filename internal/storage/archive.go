// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat archive.
//
// The archive is a SQLite file holding transcripts the user chose to keep
// locally. It is independent of the server's chat store: archived chats
// survive server-side deletion and are searchable offline.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("chat not found in archive")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS chats (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT NOT NULL,
	chat_id    TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	image_path TEXT NOT NULL DEFAULT '',
	outfit     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (chat_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_content ON messages(content);
`

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive stores chat transcripts in a local SQLite database.
type Archive struct {
	db *sql.DB
}

// SearchResult is one archive search hit.
type SearchResult struct {
	ChatID    string
	ChatTitle string
	MessageID string
	Snippet   string
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// SaveChat stores a transcript, replacing any previous archive of the same
// chat. The write is transactional so a partial transcript is never left
// behind.
func (a *Archive) SaveChat(chatID, title string, messages []model.ChatMessage) error {
	if chatID == "" {
		return fmt.Errorf("%w: empty chat ID", ErrDatabaseError)
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO chats (id, title, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at",
		chatID, title, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO messages (id, chat_id, seq, role, content, created_at, image_path, outfit) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for seq, msg := range messages {
		// Synthetic error entries are transient UI state, not transcript.
		if msg.IsError {
			continue
		}

		outfitJSON := ""
		if msg.Outfit != nil {
			data, err := json.Marshal(msg.Outfit)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrDatabaseError, err)
			}
			outfitJSON = string(data)
		}

		if _, err := stmt.Exec(
			msg.ID, chatID, seq, string(msg.Role), msg.Content,
			msg.Timestamp.UTC(), msg.ImagePath, outfitJSON,
		); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return tx.Commit()
}

// DeleteChat removes an archived chat and its messages.
func (a *Archive) DeleteChat(chatID string) error {
	res, err := a.db.Exec("DELETE FROM chats WHERE id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameChat updates an archived chat's title.
func (a *Archive) RenameChat(chatID, title string) error {
	res, err := a.db.Exec("UPDATE chats SET title = ? WHERE id = ?", title, chatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ListChats returns archive entries, most recently updated first.
func (a *Archive) ListChats() ([]model.HistoryEntry, error) {
	rows, err := a.db.Query("SELECT id, title, updated_at FROM chats ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []model.HistoryEntry
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LoadChat returns an archived transcript in original order.
func (a *Archive) LoadChat(chatID string) (string, []model.ChatMessage, error) {
	var title string
	err := a.db.QueryRow("SELECT title FROM chats WHERE id = ?", chatID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	rows, err := a.db.Query(
		"SELECT id, role, content, created_at, image_path, outfit FROM messages "+
			"WHERE chat_id = ? ORDER BY seq", chatID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		var role, outfitJSON string
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &msg.Timestamp, &msg.ImagePath, &outfitJSON); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		msg.Role = model.Role(role)
		if outfitJSON != "" {
			var outfit model.Outfit
			if err := json.Unmarshal([]byte(outfitJSON), &outfit); err == nil {
				msg.Outfit = &outfit
			}
		}
		messages = append(messages, msg)
	}
	return title, messages, rows.Err()
}

// Search finds archived messages containing the query, case-insensitively.
func (a *Archive) Search(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	rows, err := a.db.Query(
		"SELECT m.chat_id, c.title, m.id, m.content FROM messages m "+
			"JOIN chats c ON c.id = m.chat_id "+
			"WHERE m.content LIKE ? ESCAPE '\\' "+
			"ORDER BY c.updated_at DESC, m.seq",
		"%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var content string
		if err := rows.Scan(&r.ChatID, &r.ChatTitle, &r.MessageID, &content); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		r.Snippet = snippet(content, query)
		results = append(results, r)
	}
	return results, rows.Err()
}

// escapeLike escapes LIKE metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// snippet returns a short window of content around the first match.
func snippet(content, query string) string {
	const window = 60

	lower := strings.ToLower(content)
	pos := strings.Index(lower, strings.ToLower(query))
	if pos < 0 {
		pos = 0
	}

	start := pos - window/2
	if start < 0 {
		start = 0
	}
	end := start + window + len(query)
	if end > len(content) {
		end = len(content)
	}

	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}
