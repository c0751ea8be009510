// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stylist TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// =============================================================================
// OUTFIT CARD COMPONENT
// =============================================================================

// OutfitCard renders an outfit recommendation as a bordered card with one
// line per item and the computed total.
type OutfitCard struct {
	Outfit  *model.Outfit
	Width   int
	Loading bool // explanation request in flight
	theme   *styles.Theme
}

// NewOutfitCard creates a card for an outfit.
func NewOutfitCard(outfit *model.Outfit, theme *styles.Theme) *OutfitCard {
	return &OutfitCard{
		Outfit: outfit,
		Width:  60,
		theme:  theme,
	}
}

// SetWidth sets the card width.
func (c *OutfitCard) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	c.Width = width
}

// SetLoading marks the explanation as loading.
func (c *OutfitCard) SetLoading(loading bool) {
	c.Loading = loading
}

// View renders the outfit card.
func (c *OutfitCard) View() string {
	if c.Outfit == nil {
		return ""
	}

	var lines []string
	lines = append(lines, c.theme.OutfitTitle.Render(
		fmt.Sprintf("Outfit (%d items)", c.Outfit.ItemCount())))

	for _, item := range c.Outfit.Items {
		lines = append(lines, c.renderItem(item))
	}

	lines = append(lines, "")
	lines = append(lines, c.theme.OutfitTotal.Render(
		"Total "+model.FormatPrice(c.Outfit.TotalPrice)))

	switch {
	case c.Loading:
		lines = append(lines, c.theme.Explanation.Render("fetching explanation..."))
	case c.Outfit.HasExplanation():
		lines = append(lines, c.theme.Explanation.Render(c.Outfit.Explanation))
	}

	return c.theme.OutfitCard.Width(c.Width).Render(strings.Join(lines, "\n"))
}

// renderItem lays out one item line: name, brand, category, price.
func (c *OutfitCard) renderItem(item model.OutfitItem) string {
	nameWidth := c.Width / 2
	name := util.PadRight(util.TruncateWidth(item.Name, nameWidth), nameWidth)

	nameStyle := c.theme.ItemName
	if item.Availability == model.AvailabilityOutOfStock {
		nameStyle = c.theme.ItemSoldOut
	}

	parts := []string{nameStyle.Render(name)}
	if item.Brand != "" {
		parts = append(parts, c.theme.ItemBrand.Render(item.Brand))
	}
	parts = append(parts, c.theme.ItemBrand.Render(string(item.Category)))
	parts = append(parts, c.theme.ItemPrice.Render(model.FormatPrice(item.Price)))

	line := strings.Join(parts, "  ")
	if item.Availability == model.AvailabilityOutOfStock {
		line += "  " + c.theme.ErrorHint.Render("sold out")
	}
	return line
}
