// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file holds the Bubble Tea commands that run session and API
// operations off the update loop, and the messages they produce.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/prefs"
)

// =============================================================================
// MESSAGES
// =============================================================================

type tickMsg time.Time

// sendDoneMsg reports the outcome of a send or retry.
type sendDoneMsg struct{ err error }

// chatLoadedMsg reports the outcome of switching chats.
type chatLoadedMsg struct{ err error }

// chatListMsg carries a refreshed sidebar listing.
type chatListMsg struct {
	entries []model.HistoryEntry
	err     error
}

// explainDoneMsg reports the outcome of an explanation request.
type explainDoneMsg struct{ err error }

// renamedMsg reports the outcome of a rename.
type renamedMsg struct {
	chatID string
	title  string
	err    error
}

// deletedMsg reports the outcome of a delete.
type deletedMsg struct {
	chatID string
	err    error
}

// archivedMsg reports the outcome of a local archive save.
type archivedMsg struct{ err error }

// PrefsChangedMsg reports that the preference file changed outside this
// process. The program owner sends it from the preference watcher.
type PrefsChangedMsg struct{ Prefs prefs.Preferences }

// =============================================================================
// CHAT SERVICE
// =============================================================================

// ChatService bundles the chat-list API operations the view triggers
// directly, as opposed to those flowing through the session.
type ChatService struct {
	Client  *api.Client
	Timeout time.Duration
}

// NewChatService wraps the API client for view commands.
func NewChatService(client *api.Client) *ChatService {
	return &ChatService{Client: client, Timeout: 30 * time.Second}
}

func (c *ChatService) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) sendCmd(content, imagePath string, filters model.OutfitFilters) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()
		return sendDoneMsg{err: m.session.Send(ctx, content, imagePath, filters)}
	}
}

func (m *Model) retryCmd(errorMessageID string) tea.Cmd {
	filters := m.filters
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()
		return sendDoneMsg{err: m.session.RetryMessage(ctx, errorMessageID, filters)}
	}
}

func (m *Model) loadChatCmd(chatID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()
		return chatLoadedMsg{err: m.session.LoadChat(ctx, chatID, title)}
	}
}

func (m *Model) loadChatListCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()

		chats, err := m.chats.Client.ListChats(ctx)
		if err != nil {
			return chatListMsg{err: err}
		}

		entries := make([]model.HistoryEntry, 0, len(chats))
		for _, c := range chats {
			entries = append(entries, model.HistoryEntry{
				ID:        c.ID,
				Title:     c.Title,
				UpdatedAt: c.UpdatedAt,
			})
		}
		return chatListMsg{entries: entries}
	}
}

func (m *Model) explainCmd(messageID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()
		return explainDoneMsg{err: m.session.ExplainOutfit(ctx, messageID)}
	}
}

func (m *Model) renameCmd(chatID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()

		ok, err := m.chats.Client.RenameChat(ctx, chatID, title)
		if err == nil && !ok {
			err = api.ErrChatNotFound
		}
		return renamedMsg{chatID: chatID, title: title, err: err}
	}
}

func (m *Model) deleteCmd(chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.chats.ctx()
		defer cancel()

		ok, err := m.chats.Client.DeleteChat(ctx, chatID)
		if err == nil && !ok {
			err = api.ErrChatNotFound
		}
		return deletedMsg{chatID: chatID, err: err}
	}
}

func (m *Model) archiveCmd() tea.Cmd {
	chatID := m.session.CurrentChatID()
	title := m.session.CurrentChatTitle()
	messages := m.session.Messages()
	return func() tea.Msg {
		if m.archive == nil || chatID == "" {
			return archivedMsg{}
		}
		return archivedMsg{err: m.archive.SaveChat(chatID, title, messages)}
	}
}
