package models

import "testing"

func pizza() MenuItem {
	return MenuItem{ID: "item-1", Name: "Margherita Pizza", Price: 12.99, ImageURL: "/img/pizza.png"}
}

func salad() MenuItem {
	return MenuItem{ID: "item-2", Name: "Caesar Salad", Price: 8.99}
}

func TestAddLineMergesSameItemAndInstructions(t *testing.T) {
	lines := AddLine(nil, pizza(), 1, "")
	lines = AddLine(lines, pizza(), 1, "")

	if len(lines) != 1 {
		t.Fatalf("expected 1 line after duplicate add, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", lines[0].Quantity)
	}
	if got := CartTotal(lines); got != 25.98 {
		t.Fatalf("expected total 25.98, got %v", got)
	}
}

func TestAddLineKeepsDistinctInstructionsSeparate(t *testing.T) {
	lines := AddLine(nil, pizza(), 1, "")
	lines = AddLine(lines, pizza(), 1, "extra cheese")

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for distinct instructions, got %d", len(lines))
	}
}

func TestAddLineClampsQuantityToOne(t *testing.T) {
	lines := AddLine(nil, pizza(), 0, "")
	if lines[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", lines[0].Quantity)
	}
	lines = AddLine(nil, pizza(), -3, "")
	if lines[0].Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", lines[0].Quantity)
	}
}

func TestSetLineQuantity(t *testing.T) {
	lines := AddLine(nil, pizza(), 2, "")
	lines = AddLine(lines, salad(), 1, "")

	lines = SetLineQuantity(lines, "item-1", 5)
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}

	// Unknown item is a no-op.
	before := len(lines)
	lines = SetLineQuantity(lines, "missing", 3)
	if len(lines) != before {
		t.Fatalf("expected no change for unknown item, got %d lines", len(lines))
	}
}

func TestSetLineQuantityZeroRemovesAllVariants(t *testing.T) {
	lines := AddLine(nil, pizza(), 1, "")
	lines = AddLine(lines, pizza(), 1, "no basil")
	lines = AddLine(lines, salad(), 1, "")

	lines = SetLineQuantity(lines, "item-1", 0)
	if len(lines) != 1 || lines[0].MenuItemID != "item-2" {
		t.Fatalf("expected only the salad to survive, got %+v", lines)
	}
}

func TestSetLineQuantityFirstMatchWins(t *testing.T) {
	lines := AddLine(nil, pizza(), 1, "")
	lines = AddLine(lines, pizza(), 1, "no basil")

	lines = SetLineQuantity(lines, "item-1", 4)
	if lines[0].Quantity != 4 {
		t.Fatalf("expected first variant updated to 4, got %d", lines[0].Quantity)
	}
	if lines[1].Quantity != 1 {
		t.Fatalf("expected second variant untouched, got %d", lines[1].Quantity)
	}
}

func TestRemoveLineRemovesAllVariants(t *testing.T) {
	lines := AddLine(nil, pizza(), 1, "")
	lines = AddLine(lines, pizza(), 2, "extra cheese")
	lines = AddLine(lines, salad(), 1, "")

	lines = RemoveLine(lines, "item-1")
	if len(lines) != 1 || lines[0].MenuItemID != "item-2" {
		t.Fatalf("expected only the salad to survive, got %+v", lines)
	}

	// Removing from an empty cart is a no-op.
	if got := RemoveLine(nil, "item-1"); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestReduceLineQuantity(t *testing.T) {
	lines := AddLine(nil, pizza(), 3, "")

	lines = ReduceLineQuantity(lines, "item-1", 1)
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 after reduce, got %d", lines[0].Quantity)
	}

	lines = ReduceLineQuantity(lines, "item-1", 5)
	if len(lines) != 0 {
		t.Fatalf("expected line removed when reduced past zero, got %+v", lines)
	}
}

func TestCartTotal(t *testing.T) {
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("expected empty cart total 0, got %v", got)
	}

	lines := AddLine(nil, pizza(), 2, "")
	lines = AddLine(lines, salad(), 1, "")
	want := 12.99*2 + 8.99
	if got := CartTotal(lines); got != want {
		t.Fatalf("expected total %v, got %v", want, got)
	}
}
