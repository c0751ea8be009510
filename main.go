// stylist TUI - A terminal client for the AI shopping stylist.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/stylist-tui/internal/cli"
	"github.com/jeranaias/stylist-tui/internal/config"
	"github.com/jeranaias/stylist-tui/internal/logging"
	"github.com/jeranaias/stylist-tui/internal/prefs"
	"github.com/jeranaias/stylist-tui/internal/session"
	"github.com/jeranaias/stylist-tui/internal/storage"
	"github.com/jeranaias/stylist-tui/internal/ui/chat"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdSignup:
		cli.HandleSignup(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI starts the full-screen terminal interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.Debug.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	// The adaptive palette follows the configured theme rather than
	// terminal background detection when the user picked one.
	lipgloss.SetHasDarkBackground(cfg.UI.Theme != "light")

	client := cli.BuildClient(cfg, args)
	client.SetLogger(logger)
	mgr := cli.BuildAuth(client, cfg, args)

	devMode := cfg.Server.DevMode || args.DevMode

	// Make sure there is a usable session before drawing anything.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	loggedIn, err := mgr.CheckSession(ctx)
	cancel()
	if err == nil && !loggedIn && !devMode {
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'stylist login' first, or use --dev for the offline account.")
		os.Exit(1)
	}

	sess := session.NewChatSession(client, nil)

	var archive *storage.Archive
	if path, err := cfg.ArchivePath(); err == nil {
		if archive, err = storage.Open(path); err != nil {
			logger.Warn().Err(err).Msg("archive unavailable")
			archive = nil
		} else {
			defer archive.Close()
		}
	}

	var prefsStore *prefs.Store
	if path, err := cfg.PrefsPath(); err == nil {
		if prefsStore, err = prefs.NewStore(path); err != nil {
			logger.Warn().Err(err).Msg("preferences unavailable")
			prefsStore = nil
		} else {
			defer prefsStore.Close()
		}
	}

	var render chat.MarkdownRenderer
	if cfg.UI.Markdown {
		render = cli.RenderMarkdown
	}

	m := chat.New(chat.Options{
		Session: sess,
		Chats:   chat.NewChatService(client),
		Auth:    mgr,
		Archive: archive,
		Prefs:   prefsStore,
		Theme:   styles.NewTheme(),
		DevMode: devMode,
		Render:  render,
	})

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Preference changes made by other processes land in the update
	// loop as messages.
	if prefsStore != nil {
		err := prefsStore.Watch(func(p prefs.Preferences) {
			program.Send(chat.PrefsChangedMsg{Prefs: p})
		})
		if err != nil {
			logger.Warn().Err(err).Msg("preference watch unavailable")
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
