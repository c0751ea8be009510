// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing and command routing.
package cli

import (
	"testing"

	"github.com/jeranaias/stylist-tui/internal/model"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"export", "chat_1", "--format", "json"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "json" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "json")
				}
				if p.Positional(1) != "chat_1" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "chat_1")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "chat_1", "--output=out.md"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("output") != "out.md" {
					t.Errorf("Flag(output) = %q, want %q", p.Flag("output"), "out.md")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"delete", "chat_1", "--confirm"},
			wantSub: "delete",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be true")
				}
			},
		},
		{
			name:    "explicit boolean false",
			args:    []string{"list", "--json=false"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
			},
		},
		{
			name:    "no arguments",
			args:    []string{},
			wantSub: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_PositionalFrom(t *testing.T) {
	p := NewArgParser([]string{"search", "linen", "summer", "suit"})
	got := p.PositionalFrom(1)
	if len(got) != 3 || got[0] != "linen" || got[2] != "suit" {
		t.Errorf("PositionalFrom(1) = %v", got)
	}
	if len(p.PositionalFrom(10)) != 0 {
		t.Error("out-of-range PositionalFrom should be empty")
	}
}

func TestArgParser_FlagDefaults(t *testing.T) {
	p := NewArgParser([]string{"export", "chat_1"})
	if got := p.FlagOrDefault("format", "md"); got != "md" {
		t.Errorf("FlagOrDefault = %q, want md", got)
	}
	if got := p.FlagIntOrDefault("limit", 50); got != 50 {
		t.Errorf("FlagIntOrDefault = %d, want 50", got)
	}
}

// =============================================================================
// COMMAND ROUTING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Routing(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"empty is TUI", []string{}, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"login", []string{"login"}, CmdLogin},
		{"signup alias", []string{"register"}, CmdSignup},
		{"logout", []string{"logout"}, CmdLogout},
		{"ask", []string{"ask", "what goes with denim?"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"history", []string{"history", "list"}, CmdHistory},
		{"history alias", []string{"chats"}, CmdHistory},
		{"config", []string{"config", "show"}, CmdConfig},
		{"status short", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"bare words become ask", []string{"what", "goes", "with", "denim"}, CmdAsk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--dev", "--server", "http://localhost:9000", "-q", "status"})
	if cmd != CmdStatus {
		t.Fatalf("cmd = %v, want CmdStatus", cmd)
	}
	if !args.DevMode {
		t.Error("DevMode should be set")
	}
	if args.Server != "http://localhost:9000" {
		t.Errorf("Server = %q", args.Server)
	}
	if !args.Quiet {
		t.Error("Quiet should be set")
	}
}

func TestParseArgs_SubcommandCapture(t *testing.T) {
	_, args := ParseArgs([]string{"history", "export", "chat_1"})
	if args.Subcommand != "export" {
		t.Errorf("Subcommand = %q, want export", args.Subcommand)
	}
}

// =============================================================================
// ASK FLAG TESTS
// =============================================================================

func TestParseArgs_AskFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "brunch", "outfit", "--budget", "200", "--image", "fit.jpg", "--explain"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "brunch outfit" {
		t.Errorf("Query = %q, want %q", args.Query, "brunch outfit")
	}
	if args.Budget != 200 {
		t.Errorf("Budget = %v, want 200", args.Budget)
	}
	if args.Image != "fit.jpg" {
		t.Errorf("Image = %q, want fit.jpg", args.Image)
	}
	if !args.Explain {
		t.Error("Explain should be set")
	}
}

func TestParseArgs_AskEqualsFlags(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "hello", "--budget=150.50", "--mode=partial"})
	if args.Budget != 150.50 {
		t.Errorf("Budget = %v, want 150.50", args.Budget)
	}
	if args.Mode != "partial" {
		t.Errorf("Mode = %q, want partial", args.Mode)
	}
}

func TestBuildFilters(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		filters, err := buildFilters(Args{})
		if err != nil {
			t.Fatalf("buildFilters: %v", err)
		}
		if filters.Mode != model.FilterModeFull {
			t.Errorf("Mode = %v, want full", filters.Mode)
		}
		if filters.Budget != nil {
			t.Error("Budget should be nil by default")
		}
	})

	t.Run("budget and partial mode", func(t *testing.T) {
		filters, err := buildFilters(Args{Budget: 300, Mode: "partial"})
		if err != nil {
			t.Fatalf("buildFilters: %v", err)
		}
		if filters.Budget == nil || *filters.Budget != 300 {
			t.Errorf("Budget = %v, want 300", filters.Budget)
		}
		if filters.Mode != model.FilterModePartial {
			t.Errorf("Mode = %v, want partial", filters.Mode)
		}
		if len(filters.Categories) == 0 {
			t.Error("partial mode should select all categories")
		}
		if err := filters.Validate(); err != nil {
			t.Errorf("filters should validate: %v", err)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		if _, err := buildFilters(Args{Mode: "capsule"}); err == nil {
			t.Error("expected error for invalid mode")
		}
	})
}

// =============================================================================
// CONFIG VALUE TESTS
// =============================================================================

func TestParseBoolValue(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		if got := parseBoolValue(tt.in); got != tt.want {
			t.Errorf("parseBoolValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
