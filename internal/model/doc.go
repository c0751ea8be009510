// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the client-side data structures for the stylist
// chat: messages, outfits and their items, chat history entries, and the
// outfit filters users attach to a request.
//
// All types here are owned by the chat session (internal/session) for the
// duration of a run; UI components receive read-only views and signal
// intent through callbacks rather than mutating shared state.
package model
