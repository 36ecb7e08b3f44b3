package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartControllers "github.com/qrdine-app/qrdine-api/controllers/cart"
	chatControllers "github.com/qrdine-app/qrdine-api/controllers/chat"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

const maxListedOrders = 100

type PlaceOrderInput struct {
	TableID             string           `json:"tableId" binding:"required"`
	ChatID              string           `json:"chatId"`
	Items               []OrderItemInput `json:"items" binding:"required"`
	SpecialInstructions string           `json:"specialInstructions"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// orderDTO formats timestamps as RFC3339, with the zero time rendered as
// null instead of year one.
type orderDTO struct {
	ID                  string             `json:"id"`
	OrderRef            string             `json:"order_ref"`
	RestaurantID        string             `json:"restaurant_id"`
	TableID             string             `json:"table_id"`
	TableNumber         int                `json:"table_number"`
	ChatID              string             `json:"chat_id,omitempty"`
	Items               []models.OrderItem `json:"items"`
	Status              models.OrderStatus `json:"status"`
	TotalAmount         float64            `json:"total_amount"`
	SpecialInstructions string             `json:"special_instructions"`
	Notes               string             `json:"notes"`
	CreatedAt           *string            `json:"created_at"`
	UpdatedAt           *string            `json:"updated_at"`
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toOrderDTO(order *models.Order) orderDTO {
	items := order.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return orderDTO{
		ID:                  order.ID,
		OrderRef:            order.OrderRef,
		RestaurantID:        order.RestaurantID,
		TableID:             order.TableID,
		TableNumber:         order.TableNumber,
		ChatID:              order.ChatID,
		Items:               items,
		Status:              order.Status,
		TotalAmount:         order.TotalAmount,
		SpecialInstructions: order.SpecialInstructions,
		Notes:               order.Notes,
		CreatedAt:           formatTime(order.CreatedAt),
		UpdatedAt:           formatTime(order.UpdatedAt),
	}
}

// PlaceOrder turns a submitted cart into a pending order. Every line is
// re-validated against the current menu and all problems are reported
// together; the total always comes from current menu prices.
//
// POST /restaurants/:restaurantID/orders
func PlaceOrder(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := ValidateOrderItems(db, restaurantID, input.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate order"})
			return
		}
		if !result.OK() {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Order validation failed",
				"errors": result.Errors,
			})
			return
		}

		// Table number is informational on the ticket; a lookup failure must
		// not block the order.
		tableNumber := 0
		var table models.Table
		if err := db.First(&table, "id = ? AND restaurant_id = ?", input.TableID, restaurantID).Error; err == nil {
			tableNumber = table.TableNumber
		} else {
			log.Printf("order: table lookup failed for %s: %v", input.TableID, err)
		}

		order := models.Order{
			ID:                  uuid.New().String(),
			OrderRef:            generateOrderRef(),
			RestaurantID:        restaurantID,
			TableID:             input.TableID,
			TableNumber:         tableNumber,
			ChatID:              input.ChatID,
			Items:               result.Items,
			Status:              models.OrderStatusPending,
			TotalAmount:         result.Total,
			SpecialInstructions: input.SpecialInstructions,
		}
		if err := db.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		if input.ChatID != "" {
			go confirmOrderInChat(db, hub, &order)
			go clearSessionCart(db, hub, input.ChatID)
		}

		hub.Broadcast(realtime.RestaurantTopic(restaurantID), "order_created", toOrderDTO(&order))

		c.JSON(http.StatusCreated, toOrderDTO(&order))
	}
}

// confirmOrderInChat appends the order confirmation to the session
// transcript. The order already exists, so this must never surface a failure
// to the customer.
func confirmOrderInChat(db *gorm.DB, hub *realtime.Hub, order *models.Order) {
	text := fmt.Sprintf("Your order has been placed! Order #%s, total $%.2f. The kitchen will confirm it shortly.",
		order.OrderRef, order.TotalAmount)
	metadata := models.JSONMap{
		"orderId":  order.ID,
		"orderRef": order.OrderRef,
		"total":    order.TotalAmount,
		"status":   string(order.Status),
	}
	if err := chatControllers.RecordSystemMessage(db, hub, order.RestaurantID, order.ChatID, text, models.MessageTypeOrder, metadata); err != nil {
		log.Printf("order: failed to record confirmation for chat %s: %v", order.ChatID, err)
	}
}

func clearSessionCart(db *gorm.DB, hub *realtime.Hub, chatID string) {
	var session models.ChatSession
	if err := db.First(&session, "id = ?", chatID).Error; err != nil {
		log.Printf("order: failed to load session %s for cart clear: %v", chatID, err)
		return
	}
	if _, _, err := cartControllers.ApplyCartMutation(db, hub, &session, func([]models.CartLine) []models.CartLine {
		return nil
	}); err != nil {
		log.Printf("order: failed to clear cart for chat %s: %v", chatID, err)
	}
}

// ListOrders returns the restaurant's orders newest first, optionally
// filtered by status and table.
//
// GET /restaurants/:restaurantID/orders?status=&tableId=
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")

		query := db.Preload("Items").Where("restaurant_id = ?", restaurantID)
		if raw := c.Query("status"); raw != "" {
			status, err := models.ParseOrderStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
				return
			}
			query = query.Where("status = ?", status)
		}
		if tableID := c.Query("tableId"); tableID != "" {
			query = query.Where("table_id = ?", tableID)
		}

		var orders []models.Order
		if err := query.Order("created_at desc").Limit(maxListedOrders).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		dtos := make([]orderDTO, 0, len(orders))
		for i := range orders {
			dtos = append(dtos, toOrderDTO(&orders[i]))
		}
		c.JSON(http.StatusOK, gin.H{"orders": dtos})
	}
}

// GetOrder fetches one order by ID or order ref.
//
// GET /orders/:orderID
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		var order models.Order
		err := db.Preload("Items").Where("id = ? OR order_ref = ?", id, id).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, toOrderDTO(&order))
	}
}

// UpdateOrderStatus advances an order through the kitchen flow. Only forward
// transitions are allowed; completed and cancelled orders never change again.
//
// PATCH /orders/:orderID
func UpdateOrderStatus(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		var input UpdateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		newStatus, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Where("id = ? OR order_ref = ?", id, id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		oldStatus := order.Status
		if !models.CanTransition(oldStatus, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("cannot update order with status %s", oldStatus),
			})
			return
		}

		updates := map[string]interface{}{"status": newStatus}
		if input.Notes != "" {
			updates["notes"] = input.Notes
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		if order.ChatID != "" {
			go notifyStatusChange(db, hub, &order, oldStatus, newStatus)
		}
		hub.Broadcast(realtime.RestaurantTopic(order.RestaurantID), "order_updated", toOrderDTO(&order))

		c.JSON(http.StatusOK, toOrderDTO(&order))
	}
}

func notifyStatusChange(db *gorm.DB, hub *realtime.Hub, order *models.Order, oldStatus, newStatus models.OrderStatus) {
	text := fmt.Sprintf("Order #%s is now %s.", order.OrderRef, newStatus)
	metadata := models.JSONMap{
		"orderId":   order.ID,
		"orderRef":  order.OrderRef,
		"oldStatus": string(oldStatus),
		"newStatus": string(newStatus),
	}
	if err := chatControllers.RecordSystemMessage(db, hub, order.RestaurantID, order.ChatID, text, models.MessageTypeOrderStatus, metadata); err != nil {
		log.Printf("order: failed to record status change for chat %s: %v", order.ChatID, err)
	}
}
