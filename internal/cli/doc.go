// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the command-line interface for stylist.

The package routes arguments to command handlers and keeps the plumbing
every handler shares: config loading, API client construction, session
cookie persistence and terminal-aware output.

# Commands

	stylist             Start the TUI (default)
	stylist login       Log in to the stylist service
	stylist ask         One-shot styling question
	stylist chat        Interactive REPL without the TUI
	stylist history     Browse, search and export archived chats
	stylist config      View and modify configuration
	stylist status      Connection and session status

# Session Persistence

The HTTP client keeps its session cookie in an in-memory jar, so a login
would normally end with the process. After a successful login the jar's
cookies for the service URL are written to session.json in the config
directory with owner-only permissions, and every later invocation seeds
its jar from that file. A 401 on any chat endpoint clears the file.

# Output

Handlers render markdown replies through glamour and colorize output
with lipgloss only when stdout is a terminal; piped output stays plain
and NO_COLOR is respected.
*/
package cli
