// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for stylist CLI output.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Mauve).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Mauve).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Command style
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Teal)

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Gold)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// Success style
	successStyle = lipgloss.NewStyle().
			Foreground(styles.Green)

	// Item price style for outfit listings
	priceStyle = lipgloss.NewStyle().
			Foreground(styles.Gold)

	// Sold-out item style
	soldOutStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Strikethrough(true)

	// Section header style for status and history output
	headerStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)
)
