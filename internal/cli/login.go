// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - Login, signup and logout command handlers for stylist CLI.
//
// Command: login | signup | logout
// Short:   Manage the stylist service session
//
// Examples:
//   stylist login                 Prompt for email and password
//   stylist login --dev           Offline mock account, no server
//   stylist signup                Create an account interactively
//   stylist logout                Log out and forget the session
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/stylist-tui/internal/auth"
)

const authTimeout = 15 * time.Second

// HandleLogin handles the "stylist login" command.
func HandleLogin(args Args) {
	if !IsTTY() {
		fail("login requires an interactive terminal")
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	mgr := BuildAuth(client, cfg, args)

	email := promptLine("Email: ")
	password := promptPassword("Password: ")

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	user, err := mgr.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTooManyAttempts):
			fail("too many login attempts, wait a moment and try again")
		case errors.Is(err, auth.ErrInvalidInput):
			fail("email and password are both required")
		default:
			fail("login failed: %v", err)
		}
	}

	if err := saveSessionCookies(client); err != nil && args.Verbose {
		fmt.Fprintln(os.Stderr, warningStyle.Render("warning: could not persist session: "+err.Error()))
	}

	fmt.Println(successStyle.Render("Logged in as ") + user.Email)
}

// HandleSignup handles the "stylist signup" command.
func HandleSignup(args Args) {
	if !IsTTY() {
		fail("signup requires an interactive terminal")
	}

	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	mgr := BuildAuth(client, cfg, args)

	name := promptLine("Name: ")
	email := promptLine("Email: ")
	password := promptPassword("Password: ")
	confirm := promptPassword("Confirm password: ")
	if password != confirm {
		fail("passwords do not match")
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	user, err := mgr.Signup(ctx, email, password, name)
	if err != nil {
		fail("signup failed: %v", err)
	}

	if err := saveSessionCookies(client); err != nil && args.Verbose {
		fmt.Fprintln(os.Stderr, warningStyle.Render("warning: could not persist session: "+err.Error()))
	}

	fmt.Println(successStyle.Render("Account created for ") + user.Email)
}

// HandleLogout handles the "stylist logout" command.
func HandleLogout(args Args) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fail("%v", err)
	}

	client := BuildClient(cfg, args)
	mgr := BuildAuth(client, cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	// Best effort on the server side; the local session is cleared
	// regardless.
	if err := mgr.Logout(ctx); err != nil && args.Verbose {
		fmt.Fprintln(os.Stderr, warningStyle.Render("warning: server logout failed: "+err.Error()))
	}
	clearSessionCookies()

	fmt.Println(infoStyle.Render("Logged out."))
}

// promptLine reads a single trimmed line from stdin.
func promptLine(prompt string) string {
	fmt.Print(promptStyle.Render(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword reads a password without echo.
func promptPassword(prompt string) string {
	fmt.Print(promptStyle.Render(prompt))
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(pw))
}
