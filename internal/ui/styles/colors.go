// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the stylist TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Mauve - Primary accent, stylist replies, selections
var Mauve = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C6A0F6"}

// Teal - User highlights, prompts, interactive hints
var Teal = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#8BD5CA"}

// Gold - Prices, totals, outfit accents
var Gold = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#EED49F"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed sends, out-of-stock items
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#ED8796"}

// Green - Success, in-stock items
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#A6DA95"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#24273A"}

// SurfaceDim - Headers, footers, status bar
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#1E2030"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#363A4F"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CAD3F5"}

// TextSecondary - Labels, brand names, metadata
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A5ADCB"}

// TextMuted - Timestamps, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6E738D"}
