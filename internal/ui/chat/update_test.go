// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/stylist-tui/internal/api"
	"github.com/jeranaias/stylist-tui/internal/session"
)

// stubMessenger satisfies session.Messenger for view-level tests that
// never hit the network.
type stubMessenger struct{}

func (stubMessenger) SendMessage(ctx context.Context, req api.SendRequest) (*api.SendResponse, error) {
	return &api.SendResponse{Status: "ok", ChatID: "c1", Response: api.ReplyRecord{Message: "ok"}}, nil
}

func (stubMessenger) FetchTranscript(ctx context.Context, chatID string) ([]api.RawMessage, error) {
	return nil, nil
}

func (stubMessenger) ExplainOutfit(ctx context.Context, messageID, outfitID string) (string, error) {
	return "", nil
}

func newTestModel() *Model {
	return New(Options{
		Session: session.NewChatSession(stubMessenger{}, nil),
	})
}

func TestMouseWheelScrollSuppressesAutoScroll(t *testing.T) {
	m := newTestModel()
	m.viewport.SetContent(strings.Repeat("line\n", 100))
	m.viewport.GotoBottom()

	wheelUp := tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonWheelUp,
		Type:   tea.MouseWheelUp,
	}
	for i := 0; i < 10; i++ {
		m.Update(wheelUp)
	}

	if m.viewport.AtBottom() {
		t.Fatal("wheel up did not move the viewport")
	}

	// Let the debounce window elapse so the position commits.
	m.scroll.Settle(time.Now().Add(200 * time.Millisecond))
	if m.scroll.OnNewContent() {
		t.Error("new content still auto-scrolls after the reader wheeled up")
	}
	if !m.scroll.ShowJumpButton() {
		t.Error("jump button not offered after wheeling away from the bottom")
	}
}

func TestEmptySubmitShowsNotice(t *testing.T) {
	m := newTestModel()

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	toasts := m.toasts.Active()
	if len(toasts) != 1 {
		t.Fatalf("expected one toast for an empty submit, got %d", len(toasts))
	}
	if !strings.Contains(toasts[0].Message, "attach an image") {
		t.Errorf("unexpected notice text: %q", toasts[0].Message)
	}
}
