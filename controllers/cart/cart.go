package cartControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

type CartItemInput struct {
	MenuItemID          string `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
}

type SetQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items   []models.CartLine `json:"items"`
	Version int               `json:"version"`
	Total   float64           `json:"total"`
}

func toResponse(cart *models.Cart) cartResponse {
	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return cartResponse{Items: lines, Version: cart.Version, Total: models.CartTotal(lines)}
}

func loadSession(db *gorm.DB, chatID string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := db.First(&session, "id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GET /sessions/:chatID/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		cart, err := LoadCart(db, session)
		if err != nil {
			// Degraded read from the local fallback cache, same scope the
			// degraded write used.
			if lines, ok := FallbackLines(session.RestaurantID, session.TableID); ok {
				c.JSON(http.StatusOK, cartResponse{Items: lines, Total: models.CartTotal(lines)})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, toResponse(cart))
	}
}

type ReplaceCartInput struct {
	Items []CartItemInput `json:"items" binding:"required"`
}

// ReplaceCart swaps the whole line set for the one submitted, re-snapshotting
// every line from the current menu. This is the bulk form the customer UI
// uses when restoring a cached cart.
//
// PUT /sessions/:chatID/cart
func ReplaceCart(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var input ReplaceCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		ids := make([]string, 0, len(input.Items))
		for _, item := range input.Items {
			ids = append(ids, item.MenuItemID)
		}
		menuByID := make(map[string]models.MenuItem, len(ids))
		if len(ids) > 0 {
			var menuItems []models.MenuItem
			if err := db.Where("restaurant_id = ? AND id IN ?", session.RestaurantID, ids).Find(&menuItems).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate menu items"})
				return
			}
			for _, mi := range menuItems {
				menuByID[mi.ID] = mi
			}
		}

		items := input.Items
		cart, degraded, err := ApplyCartMutation(db, hub, session, func([]models.CartLine) []models.CartLine {
			var lines []models.CartLine
			for _, item := range items {
				menuItem, ok := menuByID[item.MenuItemID]
				if !ok {
					// Unknown lines (deleted items in a stale cached cart)
					// are dropped rather than failing the restore.
					log.Printf("cart: dropping unknown menu item %s from replace", item.MenuItemID)
					continue
				}
				lines = models.AddLine(lines, menuItem, item.Quantity, item.SpecialInstructions)
			}
			return lines
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace cart"})
			return
		}
		respondCart(c, cart, degraded)
	}
}

// POST /sessions/:chatID/cart/items
func AddCartItem(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		var menuItem models.MenuItem
		if err := db.First(&menuItem, "id = ? AND restaurant_id = ?", input.MenuItemID, session.RestaurantID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate menu item"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Menu item does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		cart, degraded, err := ApplyCartMutation(db, hub, session, func(lines []models.CartLine) []models.CartLine {
			return models.AddLine(lines, menuItem, input.Quantity, input.SpecialInstructions)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		respondCart(c, cart, degraded)
	}
}

// PUT /sessions/:chatID/cart/items/:menuItemID
func SetCartItemQuantity(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		menuItemID := c.Param("menuItemID")

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		cart, degraded, err := ApplyCartMutation(db, hub, session, func(lines []models.CartLine) []models.CartLine {
			return models.SetLineQuantity(lines, menuItemID, *input.Quantity)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		respondCart(c, cart, degraded)
	}
}

// DELETE /sessions/:chatID/cart/items/:menuItemID
func RemoveCartItem(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		menuItemID := c.Param("menuItemID")

		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		cart, degraded, err := ApplyCartMutation(db, hub, session, func(lines []models.CartLine) []models.CartLine {
			return models.RemoveLine(lines, menuItemID)
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		respondCart(c, cart, degraded)
	}
}

// DELETE /sessions/:chatID/cart
func ClearCart(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")

		session, err := loadSession(db, chatID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		cart, degraded, err := ApplyCartMutation(db, hub, session, func([]models.CartLine) []models.CartLine {
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		respondCart(c, cart, degraded)
	}
}

func respondCart(c *gin.Context, cart *models.Cart, degraded bool) {
	resp := toResponse(cart)
	if degraded {
		log.Printf("cart: serving degraded (locally cached) cart for chat %s", cart.ChatID)
	}
	c.JSON(http.StatusOK, resp)
}
