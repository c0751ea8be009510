// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the stylist TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Header    lipgloss.Style
	StatusBar lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	Timestamp       lipgloss.Style
	AttachmentNote  lipgloss.Style

	// ==========================================================================
	// ERROR MESSAGE STYLES
	// ==========================================================================

	ErrorBox   lipgloss.Style
	ErrorTitle lipgloss.Style
	ErrorHint  lipgloss.Style

	// ==========================================================================
	// OUTFIT CARD STYLES
	// ==========================================================================

	OutfitCard  lipgloss.Style
	OutfitTitle lipgloss.Style
	ItemName    lipgloss.Style
	ItemBrand   lipgloss.Style
	ItemPrice   lipgloss.Style
	ItemSoldOut lipgloss.Style
	OutfitTotal lipgloss.Style
	Explanation lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarTimestamp lipgloss.Style

	// ==========================================================================
	// INPUT AND CONTROL STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	Spinner          lipgloss.Style
	JumpButton       lipgloss.Style
	ToastError       lipgloss.Style
	ToastInfo        lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Mauve).
		Background(SurfaceDim).
		Padding(0, 2)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Mauve).
		Padding(0, 2).
		MarginRight(4)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Mauve)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.AttachmentNote = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Error messages
	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(2)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.ErrorHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Outfit cards
	t.OutfitCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Gold).
		Padding(0, 2)

	t.OutfitTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	t.ItemName = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ItemBrand = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ItemPrice = lipgloss.NewStyle().
		Foreground(Gold)

	t.ItemSoldOut = lipgloss.NewStyle().
		Foreground(Rose).
		Strikethrough(true)

	t.OutfitTotal = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	t.Explanation = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true).
		PaddingLeft(2)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.SidebarSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 1)

	t.SidebarTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input and controls
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Mauve)

	t.JumpButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
}
