// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for stylist CLI.
//
// Handles the "stylist chat" command, a line-based REPL for people who
// want the conversation without the full TUI.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   stylist chat
//   stylist chat --dev          Offline mock account
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear the visible conversation
//   /new                Start a fresh chat
//   /budget <n|off>     Set or clear the outfit budget
//   /mode full|partial  Set outfit completeness
//   /attach <path>      Stage an image for the next message
//   /detach             Drop the staged image
//   /explain            Explain the latest outfit
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/stylist-tui/internal/attachment"
	"github.com/jeranaias/stylist-tui/internal/config"
	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput provides input history and line editing for interactive chat.
// Arrow keys navigate history; history persists across sessions.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a ChatInput with history loaded from the config dir.
func NewChatInput(configDir string) *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	input := &ChatInput{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	input.LoadHistory()
	return input
}

// LoadHistory loads command history from file.
func (c *ChatInput) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatInput) SaveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatInput) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// replState holds the mutable state of one REPL run.
type replState struct {
	sess        *session.ChatSession
	filters     model.OutfitFilters
	stagedImage string
	sendTimeout time.Duration
}

// HandleChat handles the "stylist chat" command.
func HandleChat(args Args) {
	if !IsTTY() {
		fail("chat requires an interactive terminal")
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	BuildAuth(client, cfg, args)

	configDir, err := configDirOrTemp()
	if err != nil {
		fail("%v", err)
	}

	input := NewChatInput(configDir)
	defer input.Close()

	state := &replState{
		sess:        session.NewChatSession(client, nil),
		filters:     model.DefaultFilters(),
		sendTimeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
	}

	fmt.Println(welcomeStyle.Render("stylist chat"))
	fmt.Println(infoStyle.Render("Describe the occasion. /help for commands, /quit to exit."))
	fmt.Println()

	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			if err == io.EOF {
				fmt.Println()
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := state.handleCommand(line); quit {
				break
			}
			continue
		}

		state.send(line)
	}

	fmt.Println(infoStyle.Render("bye"))
}

// send delivers one message and prints the reply.
func (r *replState) send(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.sendTimeout)
	defer cancel()

	image := r.stagedImage
	r.stagedImage = ""

	if err := r.sess.Send(ctx, text, image, r.filters); err != nil {
		fmt.Println(errorStyle.Render("error: ") + err.Error())
		return
	}

	messages := r.sess.Messages()
	reply := messages[len(messages)-1]
	if reply.IsError {
		fmt.Println(errorStyle.Render(reply.ErrorDetails.Title+": ") + reply.ErrorDetails.Message)
		return
	}

	fmt.Println(RenderMarkdown(reply.Content))
	if reply.Outfit != nil {
		PrintOutfit(reply.Outfit)
	}
}

// handleCommand runs one slash command; returns true to exit the REPL.
func (r *replState) handleCommand(line string) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/clear", "/c":
		r.sess.ClearMessages()
		fmt.Println(infoStyle.Render("conversation cleared"))

	case "/new":
		r.sess.NewChat()
		fmt.Println(infoStyle.Render("new chat started"))

	case "/budget":
		switch {
		case arg == "off":
			r.filters.Budget = nil
			fmt.Println(infoStyle.Render("budget cleared"))
		case arg != "":
			if v, err := strconv.ParseFloat(arg, 64); err == nil && v >= 0 {
				r.filters.Budget = &v
				fmt.Println(infoStyle.Render("budget set to " + model.FormatPrice(v)))
			} else {
				fmt.Println(warningStyle.Render("usage: /budget <amount|off>"))
			}
		default:
			if r.filters.Budget != nil {
				fmt.Println(infoStyle.Render("budget: " + model.FormatPrice(*r.filters.Budget)))
			} else {
				fmt.Println(infoStyle.Render("no budget set"))
			}
		}

	case "/mode":
		switch arg {
		case "full":
			r.filters.Mode = model.FilterModeFull
			r.filters.Categories = nil
			fmt.Println(infoStyle.Render("mode: full outfit"))
		case "partial":
			r.filters.Mode = model.FilterModePartial
			r.filters.Categories = append([]model.Category(nil), model.AllCategories...)
			fmt.Println(infoStyle.Render("mode: partial outfit"))
		default:
			fmt.Println(warningStyle.Render("usage: /mode full|partial"))
		}

	case "/attach":
		if arg == "" {
			fmt.Println(warningStyle.Render("usage: /attach <path>"))
			break
		}
		if err := attachment.Validate(arg); err != nil {
			fmt.Println(errorStyle.Render("image rejected: ") + err.Error())
			break
		}
		r.stagedImage = arg
		fmt.Println(infoStyle.Render("image staged: " + filepath.Base(arg)))

	case "/detach":
		r.stagedImage = ""
		fmt.Println(infoStyle.Render("image dropped"))

	case "/explain":
		r.explainLatest()

	default:
		fmt.Println(warningStyle.Render("unknown command " + cmd + ", try /help"))
	}
	return false
}

// explainLatest requests an explanation for the most recent outfit.
func (r *replState) explainLatest() {
	messages := r.sess.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Outfit == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.sendTimeout)
		defer cancel()
		if err := r.sess.ExplainOutfit(ctx, messages[i].ID); err != nil {
			fmt.Println(errorStyle.Render("explanation failed: ") + err.Error())
			return
		}
		// Re-read the stored message, the explanation was attached there
		for _, m := range r.sess.Messages() {
			if m.ID == messages[i].ID && m.Outfit.HasExplanation() {
				fmt.Println(RenderMarkdown(m.Outfit.Explanation))
			}
		}
		return
	}
	fmt.Println(warningStyle.Render("no outfit to explain yet"))
}

func (r *replState) printHelp() {
	fmt.Println(commandStyle.Render("/help") + infoStyle.Render("            show this help"))
	fmt.Println(commandStyle.Render("/clear") + infoStyle.Render("           clear the visible conversation"))
	fmt.Println(commandStyle.Render("/new") + infoStyle.Render("             start a fresh chat"))
	fmt.Println(commandStyle.Render("/budget <n|off>") + infoStyle.Render("  set or clear the outfit budget"))
	fmt.Println(commandStyle.Render("/mode full|partial") + infoStyle.Render(" outfit completeness"))
	fmt.Println(commandStyle.Render("/attach <path>") + infoStyle.Render("   stage an image for the next message"))
	fmt.Println(commandStyle.Render("/detach") + infoStyle.Render("          drop the staged image"))
	fmt.Println(commandStyle.Render("/explain") + infoStyle.Render("         explain the latest outfit"))
	fmt.Println(commandStyle.Render("/quit") + infoStyle.Render("            exit"))
}

// configDirOrTemp returns the config directory, falling back to the
// system temp dir when the home directory is unavailable.
func configDirOrTemp() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return os.TempDir(), nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
