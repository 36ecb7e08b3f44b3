package ai

import "google.golang.org/genai"

// Action tags emitted by the resolver. At most one per turn; the model may
// also call no tool at all.
const (
	ActionNone            = "none"
	ActionAddToCart       = "add_to_cart"
	ActionRemoveFromCart  = "remove_from_cart"
	ActionShowCart        = "show_cart"
	ActionGetMenuItemInfo = "get_menu_item_info"
)

// AddToCartArgs mirrors the add_to_cart tool schema.
type AddToCartArgs struct {
	Items []AddItemArgs `json:"items"`
}

type AddItemArgs struct {
	MenuItemID          string `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
}

// RemoveFromCartArgs mirrors the remove_from_cart tool schema. A nil
// Quantity means "remove all of this item".
type RemoveFromCartArgs struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   *int   `json:"quantity"`
}

type MenuItemInfoArgs struct {
	MenuItemID string `json:"menuItemId"`
}

// OrderingTools is the fixed function schema exposed to the model. It
// constrains the model's output to a finite, parseable action space.
func OrderingTools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "add_to_cart",
					Description: "Add menu items to the customer's cart. Use this when the customer wants to order items.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"items": {
								Type:        genai.TypeArray,
								Description: "Array of menu items to add to cart",
								Items: &genai.Schema{
									Type: genai.TypeObject,
									Properties: map[string]*genai.Schema{
										"menuItemId": {
											Type:        genai.TypeString,
											Description: "The ID of the menu item to add (must match a menu item ID from the menu)",
										},
										"quantity": {
											Type:        genai.TypeInteger,
											Description: "Number of this item to add (default: 1, minimum: 1)",
										},
										"specialInstructions": {
											Type:        genai.TypeString,
											Description: "Any special instructions or modifications for this item (e.g., \"no onions\", \"extra cheese\")",
										},
									},
									Required: []string{"menuItemId"},
								},
							},
						},
						Required: []string{"items"},
					},
				},
				{
					Name:        "remove_from_cart",
					Description: "Remove items from the customer's cart. Use this when the customer wants to remove or cancel items.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"menuItemId": {
								Type:        genai.TypeString,
								Description: "The ID of the menu item to remove from cart",
							},
							"quantity": {
								Type:        genai.TypeInteger,
								Description: "Quantity to remove (if not specified, removes all of this item)",
							},
						},
						Required: []string{"menuItemId"},
					},
				},
				{
					Name:        "show_cart",
					Description: "Show the current cart contents to the customer. Use this when the customer asks about their cart, what they ordered, or wants to review their order.",
					Parameters: &genai.Schema{
						Type:       genai.TypeObject,
						Properties: map[string]*genai.Schema{},
					},
				},
				{
					Name:        "get_menu_item_info",
					Description: "Get detailed information about a specific menu item. Use this when the customer asks about ingredients, allergens, description, or price of a menu item.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"menuItemId": {
								Type:        genai.TypeString,
								Description: "The ID of the menu item to get information about",
							},
						},
						Required: []string{"menuItemId"},
					},
				},
			},
		},
	}
}
