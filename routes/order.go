package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/qrdine-app/qrdine-api/controllers/order"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

// SetupOrderRoutes registers order placement, tracking, and the kitchen's
// status updates. Status updates stay open like the rest of the surface; the
// admin console authenticates at the websocket/console level, not per order.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	r.POST("/restaurants/:restaurantID/orders", orderControllers.PlaceOrder(db, hub))
	r.GET("/restaurants/:restaurantID/orders", orderControllers.ListOrders(db))
	r.GET("/orders/:orderID", orderControllers.GetOrder(db))
	r.PATCH("/orders/:orderID", orderControllers.UpdateOrderStatus(db, hub))

	r.GET("/ws/restaurants/:restaurantID/orders", orderControllers.OrderWebSocket(db, hub))
}
