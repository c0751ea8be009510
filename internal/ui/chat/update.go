// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stylist-tui/internal/attachment"
	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/prefs"
	"github.com/jeranaias/stylist-tui/internal/session"
)

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.scroll.RecordScroll(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount(), time.Now())
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		m.toasts.Prune()
		m.scroll.Settle(time.Time(msg))
		return m, tickCmd()

	case sendDoneMsg:
		return m.handleSendDone(msg)

	case chatLoadedMsg:
		if msg.err != nil {
			m.toasts.Error("could not open chat: " + msg.err.Error())
			return m, nil
		}
		m.scroll.JumpToBottom()
		m.refreshTranscript()
		m.rememberChat()
		return m, nil

	case chatListMsg:
		if msg.err != nil {
			m.toasts.Error("could not load chat list: " + msg.err.Error())
			return m, nil
		}
		m.sidebar.SetEntries(msg.entries)
		return m, nil

	case explainDoneMsg:
		if msg.err != nil {
			m.toasts.Error("could not fetch explanation: " + msg.err.Error())
		}
		m.refreshTranscript()
		return m, nil

	case renamedMsg:
		if msg.err != nil {
			m.toasts.Error("rename failed: " + msg.err.Error())
			return m, nil
		}
		m.session.RetitleChat(msg.chatID, msg.title)
		return m, m.loadChatListCmd()

	case deletedMsg:
		if msg.err != nil {
			m.toasts.Error("delete failed: " + msg.err.Error())
			return m, nil
		}
		m.session.ForgetChat(msg.chatID)
		m.refreshTranscript()
		return m, m.loadChatListCmd()

	case archivedMsg:
		if msg.err != nil {
			m.toasts.Error("archive failed: " + msg.err.Error())
		} else {
			m.toasts.Info("chat archived locally")
		}
		return m, nil

	case PrefsChangedMsg:
		// Another process rewrote the preference file; adopt its
		// filters and sidebar state without persisting them back.
		m.filters = msg.Prefs.Filters
		if m.showSidebar != msg.Prefs.SidebarOpen {
			m.showSidebar = msg.Prefs.SidebarOpen
			m.resize(m.width, m.height)
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Sidebar):
		if m.showSidebar && !m.focusSidebar {
			m.focusSidebar = true
		} else if m.focusSidebar {
			m.focusSidebar = false
		} else {
			m.showSidebar = true
			m.focusSidebar = true
		}
		m.persistSidebar()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.session.NewChat()
		m.scroll.JumpToBottom()
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.scroll.JumpToBottom()
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.Retry):
		if id := m.lastErrorMessageID(); id != "" {
			return m, m.retryCmd(id)
		}
		m.toasts.Info("nothing to retry")
		return m, nil

	case key.Matches(msg, m.keyMap.Explain):
		if id := m.lastOutfitMessageID(); id != "" {
			m.refreshTranscript()
			return m, m.explainCmd(id)
		}
		m.toasts.Info("no outfit to explain")
		return m, nil

	case key.Matches(msg, m.keyMap.Archive):
		return m, m.archiveCmd()

	case key.Matches(msg, m.keyMap.Rename):
		if m.session.CurrentChatID() == "" {
			m.toasts.Info("save the chat by sending a message first")
			return m, nil
		}
		m.renaming = true
		m.input.SetValue(m.session.CurrentChatTitle())
		m.input.Placeholder = "New title"
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if m.focusSidebar {
			if entry := m.sidebar.SelectedEntry(); entry != nil {
				return m, m.deleteCmd(entry.ID)
			}
		} else if id := m.session.CurrentChatID(); id != "" {
			return m, m.deleteCmd(id)
		}
		return m, nil
	}

	if m.focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.scroll.RecordScroll(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount(), time.Now())
		return m, cmd

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sidebar.MoveUp()
	case key.Matches(msg, m.keyMap.Down):
		m.sidebar.MoveDown()
	case key.Matches(msg, m.keyMap.Submit):
		if entry := m.sidebar.SelectedEntry(); entry != nil {
			m.focusSidebar = false
			return m, m.loadChatCmd(entry.ID, entry.DisplayTitle())
		}
	}
	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if m.renaming {
		m.renaming = false
		m.input.SetValue("")
		m.input.Placeholder = "Describe the occasion, or /help"
		if text == "" {
			return m, nil
		}
		return m, m.renameCmd(m.session.CurrentChatID(), text)
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleSlashCommand(text)
	}

	if text == "" && m.pendingImage == "" {
		m.toasts.Info("Type a message or attach an image first")
		return m, nil
	}

	image := m.pendingImage
	m.pendingImage = ""
	m.input.SetValue("")

	cmd := m.sendCmd(text, image, m.filters)
	m.refreshTranscript()
	return m, cmd
}

// handleSlashCommand processes /commands typed into the input.
func (m *Model) handleSlashCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/attach":
		if len(args) == 0 {
			m.toasts.Info("usage: /attach <path-to-image>")
			return m, nil
		}
		path := strings.Join(args, " ")
		if err := attachment.Validate(path); err != nil {
			m.toasts.Error(err.Error())
			return m, nil
		}
		m.pendingImage = path
		m.toasts.Info("image staged for next message")
		return m, nil

	case "/detach":
		m.pendingImage = ""
		return m, nil

	case "/budget":
		if len(args) == 0 || args[0] == "off" {
			m.filters.Budget = nil
			m.persistFilters()
			m.toasts.Info("budget cleared")
			return m, nil
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil || amount < 0 {
			m.toasts.Error("budget must be a non-negative number")
			return m, nil
		}
		m.filters.Budget = &amount
		m.persistFilters()
		m.toasts.Info("budget set to " + model.FormatPrice(amount))
		return m, nil

	case "/mode":
		if len(args) == 0 {
			m.toasts.Info("usage: /mode full|partial")
			return m, nil
		}
		mode := model.FilterMode(args[0])
		if mode != model.FilterModeFull && mode != model.FilterModePartial {
			m.toasts.Error("mode must be full or partial")
			return m, nil
		}
		m.filters.Mode = mode
		m.persistFilters()
		return m, nil

	case "/category":
		if len(args) == 0 {
			m.toasts.Info("usage: /category " + categoryList())
			return m, nil
		}
		c := model.Category(strings.ToLower(args[0]))
		if !c.IsValid() {
			m.toasts.Error("unknown category, try: " + categoryList())
			return m, nil
		}
		m.filters = m.filters.ToggleCategory(c)
		m.persistFilters()
		return m, nil

	case "/clear":
		m.session.ClearMessages()
		m.refreshTranscript()
		return m, nil

	case "/archive":
		return m, m.archiveCmd()

	case "/help":
		m.toasts.Info("/attach /detach /budget /mode /category /clear /archive")
		return m, nil

	default:
		m.toasts.Error("unknown command " + cmd)
		return m, nil
	}
}

func categoryList() string {
	names := make([]string, len(model.AllCategories))
	for i, c := range model.AllCategories {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m *Model) handleSendDone(msg sendDoneMsg) (tea.Model, tea.Cmd) {
	m.refreshTranscript()

	if msg.err != nil {
		if errors.Is(msg.err, session.ErrSendInFlight) {
			m.toasts.Info("still sending the previous message")
		}
		// Other failures are already visible in the transcript as
		// error entries.
		return m, nil
	}

	m.rememberChat()
	// A successful send may have created the chat or changed its title.
	return m, m.loadChatListCmd()
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 30
	}

	m.viewport.Width = width - sidebarWidth
	m.viewport.Height = height - 4 // header, input, status bar
	m.sidebar.SetSize(sidebarWidth, m.viewport.Height)
	m.statusBar.Width = width
	m.input.Width = width - sidebarWidth - 4
	m.refreshTranscript()
}

// refreshTranscript re-renders the message list into the viewport,
// auto-scrolling only when the reader is pinned to the bottom.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderMessages())
	if m.scroll.OnNewContent() {
		m.viewport.GotoBottom()
	}
}

// lastErrorMessageID finds the most recent in-chat error entry.
func (m *Model) lastErrorMessageID() string {
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsError {
			return msgs[i].ID
		}
	}
	return ""
}

// lastOutfitMessageID finds the most recent message carrying an outfit.
func (m *Model) lastOutfitMessageID() string {
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].HasOutfit() {
			return msgs[i].ID
		}
	}
	return ""
}

func (m *Model) persistFilters() {
	if m.prefs == nil {
		return
	}
	filters := m.filters
	m.prefs.Update(func(p *prefs.Preferences) {
		p.Filters = filters
	})
}

func (m *Model) persistSidebar() {
	if m.prefs == nil {
		return
	}
	open := m.showSidebar
	m.prefs.Update(func(p *prefs.Preferences) {
		p.SidebarOpen = open
	})
}

func (m *Model) rememberChat() {
	if m.prefs == nil {
		return
	}
	id := m.session.CurrentChatID()
	m.prefs.Update(func(p *prefs.Preferences) {
		p.LastChatID = id
	})
}
