package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/qrdine-app/qrdine-api/models"
)

func TestBuildSystemPromptContents(t *testing.T) {
	ctx := RestaurantContext{Name: "Demo Trattoria", Cuisine: "Italian", Description: "Family kitchen"}
	menu := []models.MenuItem{
		{ID: "item-1", Name: "Margherita Pizza", Price: 12.99, Description: "Classic", Category: "Main Course", Allergens: models.StringList{"gluten"}},
	}
	cart := []models.CartLine{
		{MenuItemID: "item-1", Name: "Margherita Pizza", Price: 12.99, Quantity: 2},
	}

	prompt := BuildSystemPrompt(ctx, menu, cart)

	for _, want := range []string{
		"Demo Trattoria",
		"Italian",
		"Margherita Pizza - $12.99 (ID: item-1)",
		"Allergens: gluten",
		"Margherita Pizza x2 - $25.98",
		"Total: $25.98",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q", want)
		}
	}
}

func TestBuildSystemPromptDefaults(t *testing.T) {
	prompt := BuildSystemPrompt(RestaurantContext{}, nil, nil)

	if !strings.Contains(prompt, "No items available right now") {
		t.Fatal("expected empty-menu marker")
	}
	if !strings.Contains(prompt, "Cart is empty") {
		t.Fatal("expected empty-cart marker")
	}
	if !strings.Contains(prompt, "Name: Restaurant") {
		t.Fatal("expected fallback restaurant name")
	}
	if !strings.Contains(prompt, "Cuisine: Various") {
		t.Fatal("expected fallback cuisine")
	}
}

func TestTruncateHistoryKeepsMostRecent(t *testing.T) {
	history := make([]HistoryEntry, 20)
	for i := range history {
		history[i] = HistoryEntry{Text: strings.Repeat("x", i+1), Sender: "user"}
	}

	got := TruncateHistory(history)
	if len(got) != maxHistoryEntries {
		t.Fatalf("expected %d entries, got %d", maxHistoryEntries, len(got))
	}
	// The survivors are the most recent ones.
	if len(got[0].Text) != 6 {
		t.Fatalf("expected oldest survivor to be entry 6, got length %d", len(got[0].Text))
	}
}

func TestTruncateHistoryCapsEntryLength(t *testing.T) {
	history := []HistoryEntry{
		{Text: strings.Repeat("a", 900), Sender: "assistant"},
	}
	got := TruncateHistory(history)
	if len(got[0].Text) != maxHistoryChars {
		t.Fatalf("expected text capped at %d chars, got %d", maxHistoryChars, len(got[0].Text))
	}
}

func TestTruncateHistoryKeepsRunesIntact(t *testing.T) {
	// Multi-byte text must be capped on character boundaries; slicing bytes
	// would hand the model invalid UTF-8.
	history := []HistoryEntry{
		{Text: strings.Repeat("é", 600), Sender: "user"},
	}
	got := TruncateHistory(history)

	if n := utf8.RuneCountInString(got[0].Text); n != maxHistoryChars {
		t.Fatalf("expected %d runes, got %d", maxHistoryChars, n)
	}
	if !utf8.ValidString(got[0].Text) {
		t.Fatal("expected truncated text to remain valid UTF-8")
	}
}

func TestTruncateHistoryDropsEmptyEntries(t *testing.T) {
	history := []HistoryEntry{
		{Text: "", Sender: "user"},
		{Text: "hello", Sender: "user"},
	}
	got := TruncateHistory(history)
	if len(got) != 1 || got[0].Text != "hello" {
		t.Fatalf("expected empty entries dropped, got %+v", got)
	}
}
