// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the stylist TUI.

The chat package implements the interactive styling conversation using the
Bubble Tea framework.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model that maintains all chat
view state: the active session, staged image attachment, outfit filters,
the viewport, the sidebar listing, and the toast stack.

## Update Loop (update.go)

Handles keyboard input, slash commands (/attach, /budget, /mode,
/category, /clear, /archive), and the result messages produced by the
background commands.

## Scroll Coordination (scroll.go)

ScrollCoordinator decides when arriving messages auto-scroll the
transcript and when a jump-to-latest button shows instead, with a settle
debounce so wheel bursts do not flicker the button.

## Rendering (view.go, messages.go)

The view composes header, sidebar, transcript viewport, input line, and
status bar, with message bubbles and outfit cards from the components
package.
*/
package chat
