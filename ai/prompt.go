package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/qrdine-app/qrdine-api/models"
)

const (
	// Bounds on the conversation context included in the prompt. Both exist
	// purely to cap prompt size and cost.
	maxHistoryEntries = 15
	maxHistoryChars   = 500
)

// RestaurantContext is the identity block embedded in the system prompt.
type RestaurantContext struct {
	Name        string `json:"name"`
	Cuisine     string `json:"cuisine"`
	Description string `json:"description"`
}

// HistoryEntry is one prior transcript entry supplied by the client.
type HistoryEntry struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// BuildSystemPrompt grounds the assistant in the restaurant's identity, the
// complete available menu, and the live cart state.
func BuildSystemPrompt(ctx RestaurantContext, menu []models.MenuItem, cart []models.CartLine) string {
	name := ctx.Name
	if name == "" {
		name = "Restaurant"
	}
	cuisine := ctx.Cuisine
	if cuisine == "" {
		cuisine = "Various"
	}

	return fmt.Sprintf(`You are a friendly and knowledgeable restaurant assistant helping customers at %s.

**Your Role:**
- Answer questions about menu items (ingredients, allergens, preparation)
- Help customers discover dishes based on preferences (dietary restrictions, cuisine types)
- Assist with ordering by adding items to their cart
- Provide friendly, conversational service

**Restaurant Information:**
- Name: %s
- Cuisine: %s
- Description: %s

**Menu Items Available:**
%s

**Current Cart:**
%s
Total: $%.2f

**Guidelines:**
- Be friendly, helpful, and concise
- If asked about items not on the menu, politely say they're not available
- Always confirm quantities when adding items to cart
- When unsure, ask clarifying questions
- For dietary restrictions, highlight relevant menu items
- Show prices in responses: "Margherita Pizza - $12.99"
- When adding items, confirm clearly: "Added 2x Margherita Pizza ($25.98) to your cart"`,
		name, name, cuisine, ctx.Description,
		formatMenuForPrompt(menu),
		formatCartForPrompt(cart),
		models.CartTotal(cart),
	)
}

func formatMenuForPrompt(menu []models.MenuItem) string {
	if len(menu) == 0 {
		return "No items available right now"
	}
	var b strings.Builder
	for _, item := range menu {
		fmt.Fprintf(&b, "\n- %s - $%.2f (ID: %s)\n  Description: %s\n  Category: %s",
			item.Name, item.Price, item.ID, item.Description, item.Category)
		if len(item.Allergens) > 0 {
			fmt.Fprintf(&b, "\n  Allergens: %s", strings.Join(item.Allergens, ", "))
		}
	}
	return b.String()
}

func formatCartForPrompt(cart []models.CartLine) string {
	if len(cart) == 0 {
		return "Cart is empty"
	}
	var b strings.Builder
	for i, line := range cart {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s x%d - $%.2f", line.Name, line.Quantity, line.Price*float64(line.Quantity))
	}
	return b.String()
}

// TruncateHistory keeps the most recent entries and caps each entry's text,
// dropping empty ones. The cap counts characters, not bytes, so a multi-byte
// rune is never split into invalid UTF-8.
func TruncateHistory(history []HistoryEntry) []HistoryEntry {
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	out := make([]HistoryEntry, 0, len(history))
	for _, entry := range history {
		text := entry.Text
		if utf8.RuneCountInString(text) > maxHistoryChars {
			text = string([]rune(text)[:maxHistoryChars])
		}
		if text == "" {
			continue
		}
		out = append(out, HistoryEntry{Text: text, Sender: entry.Sender})
	}
	return out
}
