package ai

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/qrdine-app/qrdine-api/models"
)

// ResolvedItem is one cart mutation target resolved against the available
// menu. For remove actions a nil Quantity means "remove all of this item".
type ResolvedItem struct {
	MenuItemID          string  `json:"menuItemId"`
	Quantity            *int    `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
	Name                string  `json:"name,omitempty"`
	Price               float64 `json:"price,omitempty"`
	ImageURL            string  `json:"imageUrl,omitempty"`
}

type Metadata struct {
	Model        string `json:"model"`
	Tokens       int32  `json:"tokens"`
	FinishReason string `json:"finishReason"`
	ResponseTime int64  `json:"responseTime"` // milliseconds
	MenuItemID   string `json:"menuItemId,omitempty"`
	Cost         *Cost  `json:"cost,omitempty"`
}

// Response is the resolver's full answer for one turn: a natural-language
// reply plus at most one structured action.
type Response struct {
	Text        string         `json:"text"`
	Action      string         `json:"action"`
	Items       []ResolvedItem `json:"items"`
	Suggestions []string       `json:"suggestions"`
	Confidence  float64        `json:"confidence"`
	Metadata    Metadata       `json:"metadata"`
}

// Resolve maps a completion's tool call, if any, onto a structured action
// grounded in the available-menu snapshot. Items that fail to resolve are
// dropped and logged, never escalated to a turn failure; the reply text is
// preserved in every case.
func Resolve(comp *Completion, menu []models.MenuItem) *Response {
	resp := &Response{
		Text:        comp.Text,
		Action:      ActionNone,
		Items:       []ResolvedItem{},
		Suggestions: []string{},
		Confidence:  0.9,
		Metadata: Metadata{
			Model:        comp.Model,
			Tokens:       comp.TotalTokens,
			FinishReason: comp.FinishReason,
			ResponseTime: comp.ResponseTime.Milliseconds(),
		},
	}
	if cost := CalculateCost(comp.PromptTokens, comp.CompletionTokens, comp.TotalTokens, comp.Model); cost.Tokens > 0 {
		resp.Metadata.Cost = &cost
	}

	if comp.FunctionCall == nil {
		return resp
	}

	switch comp.FunctionCall.Name {
	case ActionAddToCart:
		var args AddToCartArgs
		decodeArgs(comp.FunctionCall.Args, &args)
		resp.Action = ActionAddToCart
		for _, item := range args.Items {
			menuItem := findMenuItem(menu, item.MenuItemID)
			if menuItem == nil {
				log.Printf("ai: menu item not found, dropping from action: %s", item.MenuItemID)
				continue
			}
			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			resp.Items = append(resp.Items, ResolvedItem{
				MenuItemID:          item.MenuItemID,
				Quantity:            &quantity,
				SpecialInstructions: item.SpecialInstructions,
				Name:                menuItem.Name,
				Price:               menuItem.Price,
				ImageURL:            menuItem.ImageURL,
			})
		}

	case ActionRemoveFromCart:
		var args RemoveFromCartArgs
		decodeArgs(comp.FunctionCall.Args, &args)
		resp.Action = ActionRemoveFromCart
		item := ResolvedItem{MenuItemID: args.MenuItemID, Quantity: args.Quantity}
		if menuItem := findMenuItem(menu, args.MenuItemID); menuItem != nil {
			item.Name = menuItem.Name
		}
		resp.Items = append(resp.Items, item)

	case ActionShowCart:
		resp.Action = ActionShowCart

	case ActionGetMenuItemInfo:
		var args MenuItemInfoArgs
		decodeArgs(comp.FunctionCall.Args, &args)
		resp.Action = ActionGetMenuItemInfo
		resp.Metadata.MenuItemID = args.MenuItemID
		if menuItem := findMenuItem(menu, args.MenuItemID); menuItem != nil {
			resp.Text = resp.Text + formatItemCard(menuItem)
		}

	default:
		log.Printf("ai: model called unknown tool %q, ignoring", comp.FunctionCall.Name)
	}

	return resp
}

// decodeArgs round-trips the tool-call arguments through JSON into a typed
// struct. Malformed arguments degrade to the zero value so the reply text
// survives even when the action is dropped.
func decodeArgs(args map[string]any, dst interface{}) {
	data, err := json.Marshal(args)
	if err != nil {
		log.Printf("ai: failed to encode tool-call arguments: %v", err)
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("ai: failed to parse tool-call arguments: %v", err)
	}
}

func findMenuItem(menu []models.MenuItem, id string) *models.MenuItem {
	for i := range menu {
		if menu[i].ID == id {
			return &menu[i]
		}
	}
	return nil
}

func formatItemCard(item *models.MenuItem) string {
	card := fmt.Sprintf("\n\n**%s** - $%.2f\n%s\nCategory: %s",
		item.Name, item.Price, item.Description, item.Category)
	if len(item.Allergens) > 0 {
		card += "\nAllergens: " + strings.Join(item.Allergens, ", ")
	}
	return card
}
