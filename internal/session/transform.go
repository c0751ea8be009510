// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// WIRE-TO-MODEL TRANSFORMATION
// =============================================================================

// TranscriptToMessages converts server transcript records into chat messages.
//
// Record IDs are expected to be unique but the server has shipped duplicates.
// The first occurrence of an ID keeps it as-is; later occurrences get a
// "-dup-N" suffix so list rendering and lookups stay stable.
func TranscriptToMessages(records []api.RawMessage) []model.ChatMessage {
	seen := make(map[string]int, len(records))
	out := make([]model.ChatMessage, 0, len(records))

	for _, rec := range records {
		msg := rawToMessage(rec)

		if n, dup := seen[rec.ID]; dup {
			seen[rec.ID] = n + 1
			msg.ID = fmt.Sprintf("%s-dup-%d", rec.ID, n)
		} else {
			seen[rec.ID] = 1
		}

		out = append(out, msg)
	}
	return out
}

// rawToMessage converts a single transcript record.
func rawToMessage(rec api.RawMessage) model.ChatMessage {
	role := model.RoleAssistant
	if strings.EqualFold(rec.Role, string(model.RoleUser)) {
		role = model.RoleUser
	}

	msg := model.ChatMessage{
		ID:        rec.ID,
		Role:      role,
		Content:   rec.Content,
		Timestamp: rec.CreatedAt,
		ImagePath: rec.ImageURL,
	}

	if rec.OutfitID != "" || len(rec.Items) > 0 {
		msg.Outfit = buildOutfit(rec.OutfitID, rec.Items, rec.Explanation)
	}
	return msg
}

// ReplyToMessage converts the assistant reply of a send call into a chat
// message with a fresh client-side ID.
func ReplyToMessage(reply api.ReplyRecord) *model.ChatMessage {
	msg := model.NewAssistantMessage(reply.Message)
	if reply.OutfitID != "" || len(reply.Items) > 0 {
		msg.Outfit = buildOutfit(reply.OutfitID, reply.Items, reply.Explanation)
	}
	return msg
}

// buildOutfit assembles an outfit from wire items. The total is computed
// here as the exact sum of item prices and never trusted from the server.
func buildOutfit(outfitID string, items []api.RawOutfitItem, explanation string) *model.Outfit {
	modelItems := make([]model.OutfitItem, 0, len(items))
	for _, item := range items {
		modelItems = append(modelItems, model.OutfitItem{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price,
			Category:     model.Category(strings.ToLower(item.Category)),
			Brand:        item.Brand,
			Link:         item.Link,
			Image:        item.Image,
			Availability: model.AvailabilityFromPtr(item.Available),
		})
	}

	outfit := model.NewOutfit(outfitID, modelItems)
	outfit.Explanation = explanation
	return outfit
}
