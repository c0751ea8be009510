// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Archived chat management for stylist CLI.
//
// Command: history [subcommand]
// Short:   Browse, search and export archived chats
//
// Subcommands:
//   list (default)      List archived chats
//   show <id>           Print an archived transcript
//   search <query>      Search archived messages
//   export <id>         Export a chat (--format md|json, --output FILE)
//   rename <id> <title> Rename an archived chat
//   delete <id>         Delete an archived chat (--confirm required)
//
// Examples:
//   stylist history
//   stylist history show chat_42
//   stylist history search "linen suit"
//   stylist history export chat_42 --format json --output chat.json
//   stylist history delete chat_42 --confirm
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/stylist-tui/internal/storage"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// HandleHistory handles the "stylist history" command.
func HandleHistory(args Args) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	archivePath, err := cfg.ArchivePath()
	if err != nil {
		fail("%v", err)
	}

	archive, err := storage.Open(archivePath)
	if err != nil {
		fail("opening archive: %v", err)
	}
	defer archive.Close()

	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		historyList(archive, args.JSON || parser.BoolFlag("json"))
	case "show":
		historyShow(archive, parser.Positional(1))
	case "search":
		query := strings.Join(parser.PositionalFrom(1), " ")
		historySearch(archive, query)
	case "export":
		historyExport(archive, parser)
	case "rename":
		historyRename(archive, parser)
	case "delete", "rm":
		historyDelete(archive, parser)
	default:
		fail("unknown history subcommand %q (want list, show, search, export, rename or delete)", parser.Subcommand())
	}
}

func historyList(archive *storage.Archive, asJSON bool) {
	entries, err := archive.ListChats()
	if err != nil {
		fail("listing chats: %v", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fail("encoding: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("no archived chats. Use ctrl+s in the TUI or /archive in chat."))
		return
	}

	fmt.Println(headerStyle.Render("Archived chats"))
	for _, e := range entries {
		fmt.Printf("  %s  %s  %s\n",
			commandStyle.Render(e.ID),
			e.DisplayTitle(),
			infoStyle.Render(e.UpdatedAt.Format("2006-01-02 15:04")))
	}
}

func historyShow(archive *storage.Archive, chatID string) {
	if chatID == "" {
		fail("usage: stylist history show <id>")
	}

	title, messages, err := archive.LoadChat(chatID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail("no archived chat %q", chatID)
		}
		fail("loading chat: %v", err)
	}

	fmt.Println(headerStyle.Render(title))
	fmt.Println()
	for _, msg := range messages {
		label := msg.Role.DisplayName()
		fmt.Println(promptStyle.Render(label) + infoStyle.Render("  "+msg.Timestamp.Format("Jan 2 15:04")))
		fmt.Println(RenderMarkdown(msg.Content))
		if msg.Outfit != nil {
			PrintOutfit(msg.Outfit)
		}
		fmt.Println()
	}
}

func historySearch(archive *storage.Archive, query string) {
	if query == "" {
		fail("usage: stylist history search <query>")
	}

	results, err := archive.Search(query)
	if err != nil {
		fail("searching: %v", err)
	}

	if len(results) == 0 {
		fmt.Println(infoStyle.Render(fmt.Sprintf("no matches for %q", query)))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d matches", len(results))))
	for _, r := range results {
		fmt.Printf("  %s  %s\n    %s\n",
			commandStyle.Render(r.ChatID),
			r.ChatTitle,
			infoStyle.Render(r.Snippet))
	}
}

func historyExport(archive *storage.Archive, parser *ArgParser) {
	chatID := parser.Positional(1)
	if chatID == "" {
		fail("usage: stylist history export <id> [--format md|json] [--output FILE]")
	}

	format := parser.FlagOrDefault("format", "md")
	var data []byte
	switch format {
	case "md", "markdown":
		text, err := archive.ExportMarkdown(chatID)
		if err != nil {
			fail("exporting: %v", err)
		}
		data = []byte(text)
	case "json":
		var err error
		data, err = archive.ExportJSON(chatID)
		if err != nil {
			fail("exporting: %v", err)
		}
	default:
		fail("unknown export format %q (want md or json)", format)
	}

	output := parser.Flag("output")
	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := util.AtomicWriteFile(output, data, 0o644); err != nil {
		fail("writing %s: %v", output, err)
	}
	fmt.Println(successStyle.Render("Exported to ") + output)
}

func historyRename(archive *storage.Archive, parser *ArgParser) {
	chatID := parser.Positional(1)
	title := strings.Join(parser.PositionalFrom(2), " ")
	if chatID == "" || title == "" {
		fail("usage: stylist history rename <id> <new title>")
	}

	if err := archive.RenameChat(chatID, title); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail("no archived chat %q", chatID)
		}
		fail("renaming: %v", err)
	}
	fmt.Println(successStyle.Render("Renamed ") + chatID)
}

func historyDelete(archive *storage.Archive, parser *ArgParser) {
	chatID := parser.Positional(1)
	if chatID == "" {
		fail("usage: stylist history delete <id> --confirm")
	}
	if !parser.BoolFlag("confirm") {
		fail("deletion is permanent, re-run with --confirm")
	}

	if err := archive.DeleteChat(chatID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fail("no archived chat %q", chatID)
		}
		fail("deleting: %v", err)
	}
	fmt.Println(successStyle.Render("Deleted ") + chatID)
}
