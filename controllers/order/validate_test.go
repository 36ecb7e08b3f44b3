package orderControllers

import (
	"strings"
	"testing"

	"github.com/qrdine-app/qrdine-api/models"
)

func testMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "item-1", Name: "Margherita Pizza", Price: 12.99, Available: true},
		{ID: "item-2", Name: "Caesar Salad", Price: 8.99, Available: true},
		{ID: "item-3", Name: "Tiramisu", Price: 6.99, Available: false},
	}
}

func TestValidateAcceptsWellFormedOrder(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "item-1", Price: 12.99, Quantity: 2},
		{MenuItemID: "item-2", Price: 8.99, Quantity: 1},
	})

	if !result.OK() {
		t.Fatalf("expected valid order, got errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 validated items, got %d", len(result.Items))
	}
	want := 12.99*2 + 8.99
	if result.Total != want {
		t.Fatalf("expected total %v, got %v", want, result.Total)
	}
}

func TestValidateRejectsEmptyOrder(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), nil)
	if result.OK() {
		t.Fatal("expected empty order to fail validation")
	}
}

func TestValidateReportsMissingItemByIndex(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "item-1", Price: 12.99, Quantity: 1},
		{MenuItemID: "ghost", Price: 5.00, Quantity: 1},
	})

	if result.OK() {
		t.Fatal("expected validation failure for unknown item")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Item 2 not found in menu" {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateReportsUnavailableByName(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "item-3", Price: 6.99, Quantity: 1},
	})

	if result.OK() {
		t.Fatal("expected validation failure for unavailable item")
	}
	if result.Errors[0] != "Tiramisu is currently unavailable" {
		t.Fatalf("unexpected error: %q", result.Errors[0])
	}
}

func TestValidatePriceMismatchNamesBothPrices(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "item-1", Price: 11.99, Quantity: 1},
	})

	if result.OK() {
		t.Fatal("expected validation failure for stale price")
	}
	got := result.Errors[0]
	if !strings.Contains(got, "Margherita Pizza") ||
		!strings.Contains(got, "$12.99") ||
		!strings.Contains(got, "$11.99") {
		t.Fatalf("expected both prices named, got %q", got)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "ghost", Price: 1.00, Quantity: 1},
		{MenuItemID: "item-3", Price: 6.99, Quantity: 1},
		{MenuItemID: "item-1", Price: 10.00, Quantity: 1},
		{MenuItemID: "item-2", Price: 8.99, Quantity: 2},
	})

	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 collected errors, got %v", result.Errors)
	}
	// The valid line still validates and totals from the menu price.
	if len(result.Items) != 1 || result.Items[0].MenuItemID != "item-2" {
		t.Fatalf("expected the salad to validate, got %+v", result.Items)
	}
	if result.Total != 8.99*2 {
		t.Fatalf("expected total %v, got %v", 8.99*2, result.Total)
	}
}

func TestValidateClampsQuantityAndUsesMenuPrice(t *testing.T) {
	result := ValidateAgainstMenu(testMenu(), []OrderItemInput{
		{MenuItemID: "item-1", Price: 12.99, Quantity: 0},
	})

	if !result.OK() {
		t.Fatalf("expected valid order, got %v", result.Errors)
	}
	if result.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", result.Items[0].Quantity)
	}
	if result.Items[0].Price != 12.99 {
		t.Fatalf("expected menu price on the order item, got %v", result.Items[0].Price)
	}
}
