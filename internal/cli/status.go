// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command for stylist CLI.
//
// Command: status, s
// Short:   Show connection, session and archive status
//
// Examples:
//   stylist status
//   stylist status --json
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/storage"
)

// statusReport is the JSON shape of "stylist status --json".
type statusReport struct {
	ServerURL     string `json:"server_url"`
	Reachable     bool   `json:"reachable"`
	LoggedIn      bool   `json:"logged_in"`
	UserEmail     string `json:"user_email,omitempty"`
	DevMode       bool   `json:"dev_mode"`
	ArchivedChats int    `json:"archived_chats"`
}

// HandleStatus handles the "stylist status" command.
func HandleStatus(args Args) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	mgr := BuildAuth(client, cfg, args)

	report := statusReport{
		ServerURL: client.GetConfig().BaseURL,
		DevMode:   cfg.Server.DevMode || args.DevMode,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	loggedIn, err := mgr.CheckSession(ctx)
	switch {
	case err == nil:
		report.Reachable = true
		report.LoggedIn = loggedIn
		if user := mgr.User(); user != nil {
			report.UserEmail = user.Email
		}
	case api.IsUnreachable(err) || api.IsTimeout(err):
		report.Reachable = false
	default:
		// Server answered with something unexpected; it is up at least
		report.Reachable = true
	}

	if path, err := cfg.ArchivePath(); err == nil {
		if archive, err := storage.Open(path); err == nil {
			if entries, err := archive.ListChats(); err == nil {
				report.ArchivedChats = len(entries)
			}
			archive.Close()
		}
	}

	if args.JSON {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println(headerStyle.Render("stylist status"))
	printConfigRow("server", report.ServerURL)
	if report.Reachable {
		printConfigRow("connection", successStyle.Render("ok"))
	} else {
		printConfigRow("connection", errorStyle.Render("unreachable"))
	}
	if report.LoggedIn {
		printConfigRow("session", successStyle.Render("logged in as "+report.UserEmail))
	} else {
		printConfigRow("session", warningStyle.Render("not logged in"))
	}
	if report.DevMode {
		printConfigRow("mode", warningStyle.Render("dev (offline mock account)"))
	}
	printConfigRow("archived", fmt.Sprintf("%d chats", report.ArchivedChats))
}
