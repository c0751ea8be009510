// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func TestMessageBubbleUser(t *testing.T) {
	msg := model.NewUserMessage("what goes with white sneakers", "/tmp/fit.png")
	b := NewMessageBubble(msg, testTheme())
	b.SetWidth(60)

	out := b.View()
	if !strings.Contains(out, "what goes with white sneakers") {
		t.Error("content missing from bubble")
	}
	if !strings.Contains(out, "You") {
		t.Error("role label missing")
	}
	if !strings.Contains(out, "[image]") {
		t.Error("attachment note missing")
	}
}

func TestMessageBubbleError(t *testing.T) {
	msg := model.NewErrorMessage("Request timed out", "the request took too long", "retry me", "")
	b := NewMessageBubble(msg, testTheme())

	out := b.View()
	if !strings.Contains(out, "Request timed out") {
		t.Error("error title missing")
	}
	if !strings.Contains(out, "retry") {
		t.Error("retry hint missing")
	}
}

func TestOutfitCard(t *testing.T) {
	outfit := model.NewOutfit("o1", []model.OutfitItem{
		{ID: "i1", Name: "Wool Coat", Price: 240, Category: model.CategoryJacket, Brand: "Acme"},
		{ID: "i2", Name: "Chelsea Boots", Price: 160, Category: model.CategoryShoes,
			Availability: model.AvailabilityOutOfStock},
	})

	card := NewOutfitCard(outfit, testTheme())
	card.SetWidth(70)

	out := card.View()
	for _, want := range []string{"Outfit (2 items)", "Wool Coat", "Acme", "$400.00", "sold out"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q", want)
		}
	}
}

func TestOutfitCardExplanationStates(t *testing.T) {
	outfit := model.NewOutfit("o1", []model.OutfitItem{
		{ID: "i1", Name: "Shirt", Price: 35, Category: model.CategoryShirt},
	})
	card := NewOutfitCard(outfit, testTheme())

	if strings.Contains(card.View(), "fetching explanation") {
		t.Error("loading hint shown when not loading")
	}

	card.SetLoading(true)
	if !strings.Contains(card.View(), "fetching explanation") {
		t.Error("loading hint missing")
	}

	card.SetLoading(false)
	outfit.Explanation = "The neutral palette keeps it flexible."
	if !strings.Contains(card.View(), "neutral palette") {
		t.Error("explanation missing")
	}
}

func TestSidebarSelection(t *testing.T) {
	s := NewSidebar(testTheme())
	s.SetEntries([]model.HistoryEntry{
		{ID: "a", Title: "Older", UpdatedAt: time.Now().Add(-time.Hour)},
		{ID: "b", Title: "Newest", UpdatedAt: time.Now()},
	})

	// Entries are sorted most recent first.
	if got := s.SelectedEntry(); got == nil || got.ID != "b" {
		t.Errorf("initial selection = %+v", got)
	}

	s.MoveDown()
	if got := s.SelectedEntry(); got.ID != "a" {
		t.Errorf("after MoveDown selection = %+v", got)
	}

	s.MoveDown() // already at bottom
	if got := s.SelectedEntry(); got.ID != "a" {
		t.Error("selection ran past the end")
	}

	s.MoveUp()
	if got := s.SelectedEntry(); got.ID != "b" {
		t.Errorf("after MoveUp selection = %+v", got)
	}
}

func TestSidebarEmpty(t *testing.T) {
	s := NewSidebar(testTheme())
	if s.SelectedEntry() != nil {
		t.Error("empty sidebar has a selection")
	}
	if !strings.Contains(s.View(), "no chats yet") {
		t.Error("empty placeholder missing")
	}
}

func TestToastLifecycle(t *testing.T) {
	m := NewToastManager(testTheme())

	m.Error("could not rename chat")
	m.Info("chat archived")

	active := m.Active()
	if len(active) != 2 {
		t.Fatalf("got %d toasts", len(active))
	}
	if active[0].Kind != ToastKindError || active[1].Kind != ToastKindInfo {
		t.Errorf("kinds = %v, %v", active[0].Kind, active[1].Kind)
	}

	out := m.View()
	if !strings.Contains(out, "could not rename chat") || !strings.Contains(out, "chat archived") {
		t.Error("toast text missing from view")
	}

	m.DismissAll()
	if m.Prune() {
		t.Error("toasts remain after DismissAll")
	}
}

func TestToastExpiry(t *testing.T) {
	toast := Toast{CreatedAt: time.Now().Add(-10 * time.Second), Duration: ErrorToastDuration}
	if !toast.Expired(time.Now()) {
		t.Error("old toast not expired")
	}

	fresh := Toast{CreatedAt: time.Now(), Duration: ErrorToastDuration}
	if fresh.Expired(time.Now()) {
		t.Error("fresh toast expired")
	}
}

func TestStatusBar(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.Width = 100
	bar.UserEmail = "x@y.z"
	bar.ChatTitle = "Beach wedding"
	bar.Sending = true

	out := bar.View()
	for _, want := range []string{"x@y.z", "Beach wedding", "sending..."} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q", want)
		}
	}

	bar.UserEmail = ""
	bar.Sending = false
	if !strings.Contains(bar.View(), "not logged in") {
		t.Error("logged-out state missing")
	}
}
