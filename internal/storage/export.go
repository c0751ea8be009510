// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// ExportMarkdown renders an archived chat as a Markdown document.
func (a *Archive) ExportMarkdown(chatID string) (string, error) {
	title, messages, err := a.LoadChat(chatID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Exported %s\n\n", time.Now().Format("2006-01-02 15:04"))

	for _, msg := range messages {
		fmt.Fprintf(&b, "## %s\n\n", msg.Role.DisplayName())
		if msg.Content != "" {
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
		}
		if msg.HasImage() {
			fmt.Fprintf(&b, "*Attached image: %s*\n\n", msg.ImagePath)
		}
		if msg.HasOutfit() {
			writeOutfitMarkdown(&b, msg.Outfit)
		}
	}
	return b.String(), nil
}

func writeOutfitMarkdown(b *strings.Builder, outfit *model.Outfit) {
	b.WriteString("### Outfit\n\n")
	b.WriteString("| Item | Brand | Category | Price |\n")
	b.WriteString("|------|-------|----------|-------|\n")
	for _, item := range outfit.Items {
		brand := item.Brand
		if brand == "" {
			brand = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			item.Name, brand, item.Category, model.FormatPrice(item.Price))
	}
	fmt.Fprintf(b, "\n**Total: %s**\n\n", model.FormatPrice(outfit.TotalPrice))

	if outfit.Explanation != "" {
		fmt.Fprintf(b, "> %s\n\n", outfit.Explanation)
	}
}

// exportedChat is the JSON export shape.
type exportedChat struct {
	ChatID   string              `json:"chat_id"`
	Title    string              `json:"title"`
	Exported time.Time           `json:"exported"`
	Messages []model.ChatMessage `json:"messages"`
}

// ExportJSON renders an archived chat as indented JSON.
func (a *Archive) ExportJSON(chatID string) ([]byte, error) {
	title, messages, err := a.LoadChat(chatID)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(exportedChat{
		ChatID:   chatID,
		Title:    title,
		Exported: time.Now().UTC(),
		Messages: messages,
	}, "", "  ")
}
