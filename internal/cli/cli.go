// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for stylist.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdLogout
	CmdAsk
	CmdChat
	CmdHistory
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // Output in JSON format
	DevMode bool   // Offline mock account, no server auth
	Server  string // Server base URL override

	// Command-specific
	Query      string  // Message text for ask
	Image      string  // Image attachment path for ask
	Budget     float64 // Budget filter (0 = none)
	Mode       string  // Filter mode: full or partial
	Explain    bool    // Request an outfit explanation after the reply
	Subcommand string

	// Raw args (remaining after global flag parsing)
	Raw []string
}

const usageText = `stylist - AI shopping stylist in your terminal

Stylist chats with a personal-shopper service and renders outfit
recommendations, prices and explanations in the terminal.

Usage:
  stylist                    Start the TUI (default)
  stylist login              Log in to the stylist service
  stylist signup             Create an account
  stylist logout             Log out and forget the session
  stylist ask "question"     One-shot styling question
  stylist chat               Interactive chat REPL
  stylist history [cmd]      Archived chat management
  stylist config [cmd]       Configuration
  stylist status, s          Show connection and session status
  stylist version            Show version
  stylist help               Show this help

Ask Command:
  stylist ask "what goes with a navy blazer?"
    -i, --image FILE         Attach an image to the question
    --budget N               Cap the outfit total at N dollars
    --mode full|partial      Outfit completeness (default: full)
    --explain                Fetch the outfit explanation too
    --json                   Print the raw reply as JSON

History Commands:
  stylist history list               List archived chats (default)
  stylist history show <id>          Print an archived transcript
  stylist history search <query>     Search archived messages
  stylist history export <id>        Export a chat
    --format md|json                 Export format (default: md)
    --output FILE                    Write to file (default: stdout)
  stylist history rename <id> <t>    Rename an archived chat
  stylist history delete <id>        Delete an archived chat
    --confirm                        Required confirmation flag

Config Commands:
  stylist config show                Display current configuration
  stylist config set <key> <value>   Set a configuration value
  stylist config path                Show config file location
  stylist config reset --confirm     Reset to defaults

  Keys: server_url, timeout_secs, dev_mode, theme, sidebar_open,
        markdown, archive_path, debug_log

Global Flags:
  --server URL               Override the service URL for this run
  --dev                      Dev mode (offline mock account)
  -q, --quiet                Minimal output
  -v, --verbose              Verbose output

Examples:
  stylist
  stylist ask "rain-friendly outfit for a gallery opening" --budget 300
  stylist ask "does this work for a wedding?" --image fit.jpg --explain
  stylist history search "linen"
  stylist config set theme light
`

// PrintUsage prints the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("stylist %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list into a command and its arguments.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No args means TUI
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "login":
		return CmdLogin, parsed

	case "signup", "register":
		return CmdSignup, parsed

	case "logout":
		return CmdLogout, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "history", "chats":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdHistory, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdConfig, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// Unknown word: treat "stylist how do I wear this" as an ask.
		parsed.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsed, parsed.Raw)
		return CmdAsk, parsed
	}
}

// parseGlobalFlags strips global flags from the argument list.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var parsed Args
	remaining := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--dev":
			parsed.DevMode = true
		case "--server":
			if i+1 < len(argv) {
				parsed.Server = argv[i+1]
				i++
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsed.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseAskArgs parses ask-specific flags; non-flag tokens join into the query.
func parseAskArgs(parsed *Args, argv []string) {
	parsed.Mode = "full"

	var queryParts []string
	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch arg {
		case "-i", "--image":
			if i+1 < len(argv) {
				parsed.Image = argv[i+1]
				i++
			}
		case "--budget":
			if i+1 < len(argv) {
				if v, err := strconv.ParseFloat(argv[i+1], 64); err == nil {
					parsed.Budget = v
				}
				i++
			}
		case "--mode":
			if i+1 < len(argv) {
				parsed.Mode = strings.ToLower(argv[i+1])
				i++
			}
		case "--explain":
			parsed.Explain = true
		case "--json":
			parsed.JSON = true
		default:
			switch {
			case strings.HasPrefix(arg, "--image="):
				parsed.Image = strings.TrimPrefix(arg, "--image=")
			case strings.HasPrefix(arg, "--budget="):
				if v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--budget="), 64); err == nil {
					parsed.Budget = v
				}
			case strings.HasPrefix(arg, "--mode="):
				parsed.Mode = strings.ToLower(strings.TrimPrefix(arg, "--mode="))
			case strings.HasPrefix(arg, "-"):
				// Unknown flag, ignore
			default:
				queryParts = append(queryParts, arg)
			}
		}
		i++
	}

	parsed.Query = strings.Join(queryParts, " ")
}
