package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	// Order lifecycle (kitchen flow)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Accepted by the restaurant
	OrderStatusPreparing OrderStatus = "preparing" // In the kitchen
	OrderStatusReady     OrderStatus = "ready"     // Ready to be served
	OrderStatusCompleted OrderStatus = "completed" // Delivered to the table
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before it was ready
)

// allowedTransitions is the forward-only status machine. Completed and
// cancelled are terminal; cancellation is only reachable while the order has
// not been served.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal status update.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a request string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusConfirmed):
		return OrderStatusConfirmed, nil
	case string(OrderStatusPreparing):
		return OrderStatusPreparing, nil
	case string(OrderStatusReady):
		return OrderStatusReady, nil
	case string(OrderStatusCompleted):
		return OrderStatusCompleted, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Order is an immutable snapshot of a cart at submission time. Items are
// never mutated after creation; only status and notes may change, through
// the transition machine above.
type Order struct {
	ID                  string      `gorm:"primaryKey" json:"id"`
	OrderRef            string      `gorm:"uniqueIndex" json:"order_ref"`
	RestaurantID        string      `gorm:"index;not null" json:"restaurant_id"`
	TableID             string      `gorm:"index" json:"table_id"`
	TableNumber         int         `json:"table_number"`
	ChatID              string      `gorm:"index" json:"chat_id,omitempty"`
	Items               []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status              OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	TotalAmount         float64     `json:"total_amount"`
	SpecialInstructions string      `json:"special_instructions"`
	Notes               string      `json:"notes"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID                  uint    `gorm:"primaryKey" json:"-"`
	OrderID             string  `gorm:"index" json:"-"`
	MenuItemID          string  `json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions"`
}
