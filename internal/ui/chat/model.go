// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stylist-tui/internal/auth"
	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/prefs"
	"github.com/jeranaias/stylist-tui/internal/session"
	"github.com/jeranaias/stylist-tui/internal/storage"
	"github.com/jeranaias/stylist-tui/internal/ui/components"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures the chat model.
type Options struct {
	Session *session.ChatSession
	Chats   *ChatService
	Auth    *auth.Manager
	Archive *storage.Archive // optional local archive
	Prefs   *prefs.Store     // optional preference persistence
	Theme   *styles.Theme
	DevMode bool
	Render  MarkdownRenderer // optional reply renderer
}

// MarkdownRenderer renders assistant reply text for display.
type MarkdownRenderer func(string) string

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Domain state
	session *session.ChatSession
	chats   *ChatService
	auth    *auth.Manager
	archive *storage.Archive
	prefs   *prefs.Store
	filters model.OutfitFilters
	render  MarkdownRenderer

	// Staged image attachment for the next send
	pendingImage string

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spin      spinner.Model
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	toasts    *components.ToastManager

	// Scroll behavior
	scroll *ScrollCoordinator

	// Interaction state
	showSidebar  bool
	focusSidebar bool
	renaming     bool
	devMode      bool

	keyMap KeyMap
}

// New creates a chat model.
func New(opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	input := textinput.New()
	input.Placeholder = "Describe the occasion, or /help"
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	filters := model.DefaultFilters()
	if opts.Prefs != nil {
		filters = opts.Prefs.Get().Filters
	}

	m := &Model{
		theme:       theme,
		session:     opts.Session,
		chats:       opts.Chats,
		auth:        opts.Auth,
		archive:     opts.Archive,
		prefs:       opts.Prefs,
		filters:     filters,
		render:      opts.Render,
		viewport:    viewport.New(80, 20),
		input:       input,
		spin:        sp,
		sidebar:     components.NewSidebar(theme),
		statusBar:   components.NewStatusBar(theme),
		toasts:      components.NewToastManager(theme),
		scroll:      NewScrollCoordinator(),
		showSidebar: opts.Prefs == nil || opts.Prefs.Get().SidebarOpen,
		devMode:     opts.DevMode,
		keyMap:      DefaultKeyMap(),
	}
	return m
}

// Init starts the spinner tick and the initial chat list load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.loadChatListCmd(),
		tickCmd(),
	)
}

// tickCmd drives toast expiry and scroll debounce settling.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
