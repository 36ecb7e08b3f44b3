package models

import "time"

// Cart is the single in-progress cart for one chat session. Writes replace
// the whole line set; Version is an optimistic-concurrency token bumped on
// every replace so that concurrent writers (customer UI and the AI assistant)
// cannot silently overwrite each other.
type Cart struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID string     `gorm:"index;not null" json:"restaurant_id"`
	ChatID       string     `gorm:"uniqueIndex;not null" json:"chat_id"`
	Version      int        `gorm:"not null;default:0" json:"version"`
	Lines        []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CartLine captures a name/price snapshot taken when the item was added; the
// snapshot may drift from the current MenuItem and is re-validated at checkout.
type CartLine struct {
	ID                  uint    `gorm:"primaryKey" json:"-"`
	CartID              uint    `gorm:"index" json:"-"`
	MenuItemID          string  `gorm:"not null" json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions"`
	ImageURL            string  `json:"imageUrl,omitempty"`
}

// AddLine merges an item into the line set. Two lines are the same line iff
// (MenuItemID, SpecialInstructions) match exactly; a duplicate add increments
// quantity instead of appending. Quantities below 1 count as 1.
func AddLine(lines []CartLine, item MenuItem, quantity int, specialInstructions string) []CartLine {
	if quantity < 1 {
		quantity = 1
	}
	for i := range lines {
		if lines[i].MenuItemID == item.ID && lines[i].SpecialInstructions == specialInstructions {
			lines[i].Quantity += quantity
			return lines
		}
	}
	return append(lines, CartLine{
		MenuItemID:          item.ID,
		Name:                item.Name,
		Price:               item.Price,
		Quantity:            quantity,
		SpecialInstructions: specialInstructions,
		ImageURL:            item.ImageURL,
	})
}

// SetLineQuantity overwrites the quantity of the first line matching
// menuItemID. Matching is by menuItemID only, so when several lines share a
// menuItemID with different instructions the first one wins. A quantity of
// zero or less removes every line for that menuItemID, same as RemoveLine.
func SetLineQuantity(lines []CartLine, menuItemID string, quantity int) []CartLine {
	if quantity <= 0 {
		return RemoveLine(lines, menuItemID)
	}
	for i := range lines {
		if lines[i].MenuItemID == menuItemID {
			lines[i].Quantity = quantity
			return lines
		}
	}
	return lines
}

// RemoveLine deletes all lines matching menuItemID, instruction variants
// included.
func RemoveLine(lines []CartLine, menuItemID string) []CartLine {
	out := lines[:0:0]
	for _, line := range lines {
		if line.MenuItemID != menuItemID {
			out = append(out, line)
		}
	}
	return out
}

// ReduceLineQuantity subtracts quantity from the first line matching
// menuItemID, removing the line when it reaches zero. Used by the assistant's
// remove action when a quantity is given.
func ReduceLineQuantity(lines []CartLine, menuItemID string, quantity int) []CartLine {
	for i := range lines {
		if lines[i].MenuItemID == menuItemID {
			if lines[i].Quantity <= quantity {
				return append(lines[:i:i], lines[i+1:]...)
			}
			lines[i].Quantity -= quantity
			return lines
		}
	}
	return lines
}

// CartTotal sums price*quantity over the lines.
func CartTotal(lines []CartLine) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
