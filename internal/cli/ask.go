// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for stylist CLI.
//
// Handles the "stylist ask" command which sends one styling question to
// the service and prints the reply, outfit included.
//
// Command: ask [question]
// Short:   Ask a single styling question
//
// Examples:
//   stylist ask "what goes with a navy blazer?"
//   stylist ask "brunch outfit under 200" --budget 200
//   stylist ask "does this work?" --image fit.jpg --explain
//   stylist ask --json "capsule wardrobe basics"
//
// Flags:
//   -i, --image FILE    Attach an image to the question
//   --budget N          Cap the outfit total at N dollars
//   --mode full|partial Outfit completeness (default: full)
//   --explain           Fetch the outfit explanation too
//   --json              Print the raw reply as JSON
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/stylist-tui/internal/attachment"
	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/session"
)

const askTimeout = 60 * time.Second

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the glamour renderer for reply output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// RenderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or stdout is piped.
func RenderMarkdown(content string) string {
	if markdownRenderer == nil || !IsStdoutTTY() {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "stylist ask" command.
func HandleAsk(args Args) {
	if args.Query == "" && args.Image == "" {
		fail("nothing to ask. Usage: stylist ask \"question\"")
	}

	if args.Image != "" {
		if err := attachment.Validate(args.Image); err != nil {
			fail("image rejected: %v", err)
		}
	}

	filters, err := buildFilters(args)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	BuildAuth(client, cfg, args)

	sess := session.NewChatSession(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if !args.Quiet {
		fmt.Println(infoStyle.Render("Asking the stylist..."))
	}

	if err := sess.Send(ctx, args.Query, args.Image, filters); err != nil {
		fail("%v", err)
	}

	messages := sess.Messages()
	if len(messages) == 0 {
		fail("no reply received")
	}
	reply := messages[len(messages)-1]
	if reply.IsError {
		fail("%s: %s", reply.ErrorDetails.Title, reply.ErrorDetails.Message)
	}

	if args.Explain && reply.Outfit != nil {
		if err := sess.ExplainOutfit(ctx, reply.ID); err != nil && args.Verbose {
			fmt.Fprintln(os.Stderr, warningStyle.Render("warning: explanation unavailable: "+err.Error()))
		}
		// Re-read: the explanation is attached to the stored message
		messages = sess.Messages()
		reply = messages[len(messages)-1]
	}

	if args.JSON {
		printReplyJSON(reply)
		return
	}

	fmt.Println(RenderMarkdown(reply.Content))
	if reply.Outfit != nil {
		PrintOutfit(reply.Outfit)
	}
}

// buildFilters converts ask flags into outfit filters.
func buildFilters(args Args) (model.OutfitFilters, error) {
	filters := model.DefaultFilters()
	if args.Budget > 0 {
		budget := args.Budget
		filters.Budget = &budget
	}
	switch args.Mode {
	case "", "full":
		filters.Mode = model.FilterModeFull
	case "partial":
		filters.Mode = model.FilterModePartial
		// Partial mode with no categories means all of them
		filters.Categories = append(filters.Categories, model.AllCategories...)
	default:
		return filters, fmt.Errorf("invalid mode %q (want full or partial)", args.Mode)
	}
	return filters, nil
}

// printReplyJSON prints the reply message as indented JSON.
func printReplyJSON(reply model.ChatMessage) {
	data, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		fail("encoding reply: %v", err)
	}
	fmt.Println(string(data))
}

// PrintOutfit prints an outfit listing with prices and availability.
func PrintOutfit(outfit *model.Outfit) {
	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("Outfit (%d items)", outfit.ItemCount())))

	for _, item := range outfit.Items {
		line := fmt.Sprintf("  %s", item.Name)
		if item.Brand != "" {
			line += infoStyle.Render("  "+item.Brand)
		}
		line += "  " + priceStyle.Render(model.FormatPrice(item.Price))
		if item.Availability == model.AvailabilityOutOfStock {
			line = soldOutStyle.Render(line) + warningStyle.Render("  sold out")
		}
		fmt.Println(line)
	}

	fmt.Println(headerStyle.Render("  Total ") + priceStyle.Render(model.FormatPrice(outfit.TotalPrice)))

	if outfit.HasExplanation() {
		fmt.Println()
		fmt.Println(RenderMarkdown(outfit.Explanation))
	}
}
