package orderControllers

import (
	"fmt"

	"github.com/qrdine-app/qrdine-api/models"
	"gorm.io/gorm"
)

// OrderItemInput is one requested order line as the client submitted it,
// carrying the price the customer saw so stale prices are caught instead of
// silently charged.
type OrderItemInput struct {
	MenuItemID          string  `json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions"`
}

// ValidationResult carries every problem found in a submission, not just the
// first, so the customer can fix their order in one round trip.
type ValidationResult struct {
	Errors []string
	Items  []models.OrderItem
	Total  float64
}

func (r *ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// ValidateOrderItems checks every submitted line against the restaurant's
// current menu: the item must exist, be available, and carry the price the
// menu currently charges. The order total is always computed from current
// menu prices, never from client-submitted ones.
func ValidateOrderItems(db *gorm.DB, restaurantID string, items []OrderItemInput) (*ValidationResult, error) {
	if len(items) == 0 {
		return ValidateAgainstMenu(nil, items), nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.MenuItemID)
	}

	var menuItems []models.MenuItem
	if err := db.Where("restaurant_id = ? AND id IN ?", restaurantID, ids).Find(&menuItems).Error; err != nil {
		return nil, err
	}
	return ValidateAgainstMenu(menuItems, items), nil
}

// ValidateAgainstMenu is the pure validation core: every line is checked and
// every problem collected, so the customer fixes the whole order in one pass.
// Price comparison is strict equality; the menu price always wins for totals.
func ValidateAgainstMenu(menuItems []models.MenuItem, items []OrderItemInput) *ValidationResult {
	result := &ValidationResult{}
	if len(items) == 0 {
		result.Errors = append(result.Errors, "Order must contain at least one item")
		return result
	}

	menuByID := make(map[string]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		menuByID[mi.ID] = mi
	}

	for i, item := range items {
		menuItem, found := menuByID[item.MenuItemID]
		if !found {
			result.Errors = append(result.Errors, fmt.Sprintf("Item %d not found in menu", i+1))
			continue
		}
		if !menuItem.Available {
			result.Errors = append(result.Errors, fmt.Sprintf("%s is currently unavailable", menuItem.Name))
			continue
		}
		if item.Price != menuItem.Price {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Price mismatch for %s: expected $%.2f, got $%.2f",
				menuItem.Name, menuItem.Price, item.Price))
			continue
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		result.Items = append(result.Items, models.OrderItem{
			MenuItemID:          menuItem.ID,
			Name:                menuItem.Name,
			Price:               menuItem.Price,
			Quantity:            quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
		result.Total += menuItem.Price * float64(quantity)
	}

	return result
}
