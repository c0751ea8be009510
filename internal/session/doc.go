// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package session holds the chat conversation state and the transcript
cache that backs it.

A ChatSession owns the ordered message list for the active chat and
every transition it can go through: optimistic user appends, server
replies, in-list error entries, retries that replace those entries in
place, transcript loads and delayed outfit explanations.

# Key Types

  - ChatSession: conversation state machine, safe for concurrent use
  - Cache: transcript cache keyed by chat ID
  - MemoryCache: in-memory Cache used by default
  - Messenger: the slice of the API client the session needs

# Usage

Create a session and send a message:

	sess := session.NewChatSession(client, nil)
	err := sess.Send(ctx, "what goes with a navy blazer?", "", model.DefaultFilters())

A failed send leaves the user's message in place and appends an error
entry carrying the original input; RetryMessage replays it and replaces
the error entry without duplicating the user message:

	err := sess.RetryMessage(ctx, errorMessageID, filters)

Switching chats goes through the cache first and only fetches from the
server on a miss:

	err := sess.LoadChat(ctx, chatID, title)

Only one send may be in flight at a time; concurrent sends fail fast
with ErrSendInFlight.
*/
package session
