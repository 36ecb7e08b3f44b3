package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from  OrderStatus
		to    OrderStatus
		valid bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPreparing, false},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusReady, false},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusCompleted, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		// No self-transitions
		{OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range cases {
		if got := CanTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("CanTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestFullKitchenFlow(t *testing.T) {
	chain := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusCompleted,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Fatalf("expected %q -> %q to be allowed", chain[i], chain[i+1])
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{"pending", OrderStatusPending, false},
		{"Confirmed", OrderStatusConfirmed, false},
		{"PREPARING", OrderStatusPreparing, false},
		{"ready", OrderStatusReady, false},
		{"completed", OrderStatusCompleted, false},
		{"cancelled", OrderStatusCancelled, false},
		{"delivered", "", true},
		{"", "", true},
	}

	for _, tt := range cases {
		got, err := ParseOrderStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseOrderStatus(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseOrderStatus(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
