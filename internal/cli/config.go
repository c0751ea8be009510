// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for stylist CLI.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   path                Show configuration file path
//   reset               Reset to default configuration (--confirm required)
//
// Configuration Keys:
//   server_url          Stylist service base URL
//   timeout_secs        Request timeout in seconds (1-600)
//   dev_mode            Offline mock account (true/false)
//   theme               Color theme (dark/light)
//   sidebar_open        Show chat list on startup (true/false)
//   markdown            Render replies as markdown (true/false)
//   archive_path        SQLite archive location
//   debug_log           Debug log file (empty disables)
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jeranaias/stylist-tui/internal/config"
)

// HandleConfig handles the "stylist config" command.
func HandleConfig(args Args) {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		configShow(args.JSON || parser.BoolFlag("json"))
	case "set":
		configSet(parser.Positional(1), parser.Positional(2))
	case "path":
		configPath()
	case "reset":
		configReset(parser.BoolFlag("confirm"))
	default:
		fail("unknown config subcommand %q (want show, set, path or reset)", parser.Subcommand())
	}
}

func configShow(asJSON bool) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fail("encoding: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Println(headerStyle.Render("Server"))
	printConfigRow("server_url", cfg.Server.URL)
	printConfigRow("timeout_secs", strconv.Itoa(cfg.Server.TimeoutSecs))
	printConfigRow("dev_mode", strconv.FormatBool(cfg.Server.DevMode))

	fmt.Println(headerStyle.Render("UI"))
	printConfigRow("theme", cfg.UI.Theme)
	printConfigRow("sidebar_open", strconv.FormatBool(cfg.UI.SidebarOpen))
	printConfigRow("markdown", strconv.FormatBool(cfg.UI.Markdown))

	fmt.Println(headerStyle.Render("Storage"))
	archivePath, _ := cfg.ArchivePath()
	printConfigRow("archive_path", archivePath)

	fmt.Println(headerStyle.Render("Debug"))
	printConfigRow("debug_log", orNone(cfg.Debug.LogFile))
}

func printConfigRow(key, value string) {
	fmt.Printf("  %-14s %s\n", infoStyle.Render(key), value)
}

func orNone(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}

func configSet(key, value string) {
	if key == "" || value == "" {
		fail("usage: stylist config set <key> <value>")
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	switch key {
	case "server_url":
		cfg.Server.URL = value
	case "timeout_secs":
		secs, err := strconv.Atoi(value)
		if err != nil {
			fail("timeout_secs must be an integer")
		}
		cfg.Server.TimeoutSecs = secs
	case "dev_mode":
		cfg.Server.DevMode = parseBoolValue(value)
	case "theme":
		cfg.UI.Theme = value
	case "sidebar_open":
		cfg.UI.SidebarOpen = parseBoolValue(value)
	case "markdown":
		cfg.UI.Markdown = parseBoolValue(value)
	case "archive_path":
		cfg.Storage.ArchivePath = value
	case "debug_log":
		if value == "off" || value == "none" {
			cfg.Debug.LogFile = ""
		} else {
			cfg.Debug.LogFile = value
		}
	default:
		fail("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		fail("invalid value: %v", err)
	}
	if err := config.Save(cfg); err != nil {
		fail("saving config: %v", err)
	}
	fmt.Println(successStyle.Render("Set ") + key + " = " + value)
}

func parseBoolValue(s string) bool {
	switch s {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func configPath() {
	path, err := config.ConfigPath()
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(path)
}

func configReset(confirmed bool) {
	if !confirmed {
		fail("reset overwrites your config, re-run with --confirm")
	}
	if err := config.Save(config.Default()); err != nil {
		fail("saving config: %v", err)
	}
	fmt.Println(successStyle.Render("Configuration reset to defaults."))
}
