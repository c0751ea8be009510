// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/stylist-tui/internal/model"
)

func testArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleMessages() []model.ChatMessage {
	user := model.NewUserMessage("what should I wear to a gallery opening", "")
	user.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	reply := model.NewAssistantMessage("Go monochrome with one strong texture.")
	reply.Outfit = model.NewOutfit("o1", []model.OutfitItem{
		{ID: "i1", Name: "Wool Coat", Price: 240, Category: model.CategoryJacket, Brand: "Acme"},
		{ID: "i2", Name: "Chelsea Boots", Price: 160, Category: model.CategoryShoes},
	})

	return []model.ChatMessage{*user, *reply}
}

func TestSaveAndLoadChat(t *testing.T) {
	a := testArchive(t)

	if err := a.SaveChat("c1", "Gallery opening", sampleMessages()); err != nil {
		t.Fatalf("SaveChat failed: %v", err)
	}

	title, msgs, err := a.LoadChat("c1")
	if err != nil {
		t.Fatalf("LoadChat failed: %v", err)
	}
	if title != "Gallery opening" {
		t.Errorf("title = %q", title)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages", len(msgs))
	}
	if msgs[0].Role != model.RoleUser {
		t.Errorf("first role = %q", msgs[0].Role)
	}

	outfit := msgs[1].Outfit
	if outfit == nil {
		t.Fatal("outfit lost in round trip")
	}
	if outfit.TotalPrice != 400 {
		t.Errorf("TotalPrice = %v", outfit.TotalPrice)
	}
	if outfit.Items[0].Brand != "Acme" {
		t.Errorf("brand = %q", outfit.Items[0].Brand)
	}
}

func TestSaveChatReplacesPrevious(t *testing.T) {
	a := testArchive(t)
	msgs := sampleMessages()

	if err := a.SaveChat("c1", "First", msgs); err != nil {
		t.Fatal(err)
	}
	if err := a.SaveChat("c1", "Renamed", msgs[:1]); err != nil {
		t.Fatal(err)
	}

	title, got, err := a.LoadChat("c1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Renamed" {
		t.Errorf("title = %q", title)
	}
	if len(got) != 1 {
		t.Errorf("got %d messages after re-save, want 1", len(got))
	}
}

func TestSaveChatSkipsErrorEntries(t *testing.T) {
	a := testArchive(t)
	msgs := sampleMessages()
	msgs = append(msgs, *model.NewErrorMessage("Failed", "timeout", "retry me", ""))

	if err := a.SaveChat("c1", "With error", msgs); err != nil {
		t.Fatal(err)
	}
	_, got, err := a.LoadChat("c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("error entry archived; got %d messages", len(got))
	}
}

func TestListChatsOrder(t *testing.T) {
	a := testArchive(t)

	if err := a.SaveChat("old", "Old chat", nil); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := a.SaveChat("new", "New chat", nil); err != nil {
		t.Fatal(err)
	}

	entries, err := a.ListChats()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID != "new" {
		t.Errorf("most recent chat not first: %+v", entries)
	}
}

func TestDeleteChat(t *testing.T) {
	a := testArchive(t)
	if err := a.SaveChat("c1", "Doomed", sampleMessages()); err != nil {
		t.Fatal(err)
	}

	if err := a.DeleteChat("c1"); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	if _, _, err := a.LoadChat("c1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadChat after delete = %v", err)
	}
	if err := a.DeleteChat("c1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete = %v", err)
	}
}

func TestRenameChat(t *testing.T) {
	a := testArchive(t)
	if err := a.SaveChat("c1", "Old title", sampleMessages()); err != nil {
		t.Fatal(err)
	}

	if err := a.RenameChat("c1", "Gallery opening looks"); err != nil {
		t.Fatalf("RenameChat failed: %v", err)
	}
	title, _, err := a.LoadChat("c1")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Gallery opening looks" {
		t.Errorf("title = %q after rename", title)
	}

	if err := a.RenameChat("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename of missing chat = %v", err)
	}
}

func TestSearch(t *testing.T) {
	a := testArchive(t)
	if err := a.SaveChat("c1", "Gallery opening", sampleMessages()); err != nil {
		t.Fatal(err)
	}

	results, err := a.Search("monochrome")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].ChatID != "c1" || !strings.Contains(results[0].Snippet, "monochrome") {
		t.Errorf("result = %+v", results[0])
	}

	// LIKE metacharacters in the query are literal.
	if results, err = a.Search("100%"); err != nil {
		t.Fatal(err)
	} else if len(results) != 0 {
		t.Errorf("metacharacter query matched %d rows", len(results))
	}

	if results, err = a.Search("  "); err != nil || results != nil {
		t.Errorf("blank query = %v, %v", results, err)
	}
}

func TestExportMarkdown(t *testing.T) {
	a := testArchive(t)
	if err := a.SaveChat("c1", "Gallery opening", sampleMessages()); err != nil {
		t.Fatal(err)
	}

	md, err := a.ExportMarkdown("c1")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# Gallery opening",
		"## You",
		"## Stylist",
		"| Wool Coat | Acme | jacket | $240.00 |",
		"**Total: $400.00**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportJSON(t *testing.T) {
	a := testArchive(t)
	if err := a.SaveChat("c1", "Gallery opening", sampleMessages()); err != nil {
		t.Fatal(err)
	}

	data, err := a.ExportJSON("c1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title": "Gallery opening"`) {
		t.Error("JSON export missing title")
	}

	if _, err := a.ExportJSON("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("export of missing chat = %v", err)
	}
}
