package ai

import (
	"strings"
	"testing"
	"time"

	"github.com/qrdine-app/qrdine-api/models"
	"google.golang.org/genai"
)

func resolverMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "item-1", Name: "Margherita Pizza", Price: 12.99, Description: "Classic pizza", Category: "Main Course", Allergens: models.StringList{"gluten", "dairy"}},
		{ID: "item-2", Name: "Caesar Salad", Price: 8.99, Description: "Crisp romaine", Category: "Appetizers"},
	}
}

func TestResolveNoToolCall(t *testing.T) {
	comp := &Completion{
		Text:         "We have a lovely pizza today!",
		Model:        "gemini-2.0-flash",
		TotalTokens:  120,
		FinishReason: "STOP",
		ResponseTime: 250 * time.Millisecond,
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionNone {
		t.Fatalf("expected action none, got %q", resp.Action)
	}
	if resp.Text != comp.Text {
		t.Fatalf("expected reply text preserved, got %q", resp.Text)
	}
	if resp.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", resp.Confidence)
	}
	if resp.Metadata.ResponseTime != 250 {
		t.Fatalf("expected responseTime 250ms, got %d", resp.Metadata.ResponseTime)
	}
}

func TestResolveAddToCart(t *testing.T) {
	comp := &Completion{
		Text:  "Added 2x Margherita Pizza to your cart!",
		Model: "gemini-2.0-flash",
		FunctionCall: &genai.FunctionCall{
			Name: ActionAddToCart,
			Args: map[string]any{
				"items": []any{
					map[string]any{"menuItemId": "item-1", "quantity": float64(2)},
				},
			},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionAddToCart {
		t.Fatalf("expected add_to_cart, got %q", resp.Action)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 resolved item, got %d", len(resp.Items))
	}
	item := resp.Items[0]
	if item.Name != "Margherita Pizza" || item.Price != 12.99 {
		t.Fatalf("expected menu snapshot on resolved item, got %+v", item)
	}
	if item.Quantity == nil || *item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", item.Quantity)
	}
}

func TestResolveDropsUnknownMenuItems(t *testing.T) {
	comp := &Completion{
		Text: "Adding those for you!",
		FunctionCall: &genai.FunctionCall{
			Name: ActionAddToCart,
			Args: map[string]any{
				"items": []any{
					map[string]any{"menuItemId": "ghost"},
					map[string]any{"menuItemId": "item-2"},
				},
			},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if len(resp.Items) != 1 || resp.Items[0].MenuItemID != "item-2" {
		t.Fatalf("expected unknown item dropped, got %+v", resp.Items)
	}
	if resp.Text != comp.Text {
		t.Fatal("expected reply text preserved when items drop")
	}
}

func TestResolveAddDefaultsQuantityToOne(t *testing.T) {
	comp := &Completion{
		FunctionCall: &genai.FunctionCall{
			Name: ActionAddToCart,
			Args: map[string]any{
				"items": []any{map[string]any{"menuItemId": "item-1"}},
			},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Items[0].Quantity == nil || *resp.Items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %+v", resp.Items[0].Quantity)
	}
}

func TestResolveMalformedArgsKeepsText(t *testing.T) {
	comp := &Completion{
		Text: "Let me add that for you.",
		FunctionCall: &genai.FunctionCall{
			Name: ActionAddToCart,
			Args: map[string]any{"items": "not-an-array"},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionAddToCart {
		t.Fatalf("expected action kept, got %q", resp.Action)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("expected no items from malformed args, got %+v", resp.Items)
	}
	if resp.Text != comp.Text {
		t.Fatal("expected reply text preserved on malformed args")
	}
}

func TestResolveRemoveWithoutQuantity(t *testing.T) {
	comp := &Completion{
		FunctionCall: &genai.FunctionCall{
			Name: ActionRemoveFromCart,
			Args: map[string]any{"menuItemId": "item-1"},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionRemoveFromCart {
		t.Fatalf("expected remove_from_cart, got %q", resp.Action)
	}
	item := resp.Items[0]
	if item.Quantity != nil {
		t.Fatalf("expected nil quantity (remove all), got %d", *item.Quantity)
	}
	if item.Name != "Margherita Pizza" {
		t.Fatalf("expected resolved name, got %q", item.Name)
	}
}

func TestResolveRemoveWithQuantity(t *testing.T) {
	comp := &Completion{
		FunctionCall: &genai.FunctionCall{
			Name: ActionRemoveFromCart,
			Args: map[string]any{"menuItemId": "item-1", "quantity": float64(1)},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Items[0].Quantity == nil || *resp.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", resp.Items[0].Quantity)
	}
}

func TestResolveShowCart(t *testing.T) {
	comp := &Completion{
		Text:         "Here's what you have so far.",
		FunctionCall: &genai.FunctionCall{Name: ActionShowCart, Args: map[string]any{}},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionShowCart {
		t.Fatalf("expected show_cart, got %q", resp.Action)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("expected no items for show_cart, got %+v", resp.Items)
	}
}

func TestResolveMenuItemInfoAppendsCard(t *testing.T) {
	comp := &Completion{
		Text: "Great choice!",
		FunctionCall: &genai.FunctionCall{
			Name: ActionGetMenuItemInfo,
			Args: map[string]any{"menuItemId": "item-1"},
		},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionGetMenuItemInfo {
		t.Fatalf("expected get_menu_item_info, got %q", resp.Action)
	}
	if resp.Metadata.MenuItemID != "item-1" {
		t.Fatalf("expected menuItemId in metadata, got %q", resp.Metadata.MenuItemID)
	}
	for _, want := range []string{"Margherita Pizza", "$12.99", "Main Course", "gluten, dairy"} {
		if !strings.Contains(resp.Text, want) {
			t.Fatalf("expected item card to contain %q, got %q", want, resp.Text)
		}
	}
}

func TestResolveUnknownToolIgnored(t *testing.T) {
	comp := &Completion{
		Text:         "Sure thing.",
		FunctionCall: &genai.FunctionCall{Name: "book_a_flight", Args: map[string]any{}},
	}
	resp := Resolve(comp, resolverMenu())

	if resp.Action != ActionNone {
		t.Fatalf("expected unknown tool to resolve to none, got %q", resp.Action)
	}
}
