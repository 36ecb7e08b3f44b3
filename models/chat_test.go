package models

import "testing"

func TestActiveSessionKey(t *testing.T) {
	key := ActiveSessionKey("rest-1", "table-uuid")
	if key != "rest-1:table-uuid" {
		t.Fatalf("unexpected key %q", key)
	}
	// Same table, same key: concurrent scans collide on the unique index.
	if key != ActiveSessionKey("rest-1", "table-uuid") {
		t.Fatal("expected deterministic key")
	}
}

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"orderRef": "20260828-abc", "total": 25.98}

	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var got JSONMap
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got["orderRef"] != "20260828-abc" {
		t.Fatalf("expected orderRef preserved, got %v", got["orderRef"])
	}
	if got["total"] != 25.98 {
		t.Fatalf("expected total preserved, got %v", got["total"])
	}
}

func TestJSONMapNil(t *testing.T) {
	var m JSONMap
	v, err := m.Value()
	if err != nil || v != nil {
		t.Fatalf("expected nil value for nil map, got %v, %v", v, err)
	}

	var got JSONMap
	if err := got.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
}

func TestStringListRoundTrip(t *testing.T) {
	s := StringList{"gluten", "dairy"}

	v, err := s.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "gluten,dairy" {
		t.Fatalf("expected comma-joined value, got %v", v)
	}

	var got StringList
	if err := got.Scan("gluten, dairy"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(got) != 2 || got[0] != "gluten" || got[1] != "dairy" {
		t.Fatalf("expected trimmed parts, got %v", got)
	}
}

func TestStringListEmpty(t *testing.T) {
	var s StringList
	v, err := s.Value()
	if err != nil || v != "" {
		t.Fatalf("expected empty string for empty list, got %v, %v", v, err)
	}

	var got StringList
	if err := got.Scan(""); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty column, got %v", got)
	}
}
