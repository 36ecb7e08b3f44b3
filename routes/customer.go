package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/qrdine-app/qrdine-api/ai"
	aiControllers "github.com/qrdine-app/qrdine-api/controllers/ai"
	cartControllers "github.com/qrdine-app/qrdine-api/controllers/cart"
	chatControllers "github.com/qrdine-app/qrdine-api/controllers/chat"
	menuControllers "github.com/qrdine-app/qrdine-api/controllers/menu"
	restaurantControllers "github.com/qrdine-app/qrdine-api/controllers/restaurant"
	tableControllers "github.com/qrdine-app/qrdine-api/controllers/table"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

// SetupCustomerRoutes registers everything a customer's device touches after
// scanning a table QR: restaurant/menu browsing, chat sessions, the cart, and
// the assistant endpoint.
func SetupCustomerRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, aiClient *ai.Client) {
	restaurants := r.Group("/restaurants/:restaurantID")
	{
		restaurants.GET("", restaurantControllers.GetRestaurant(db))
		restaurants.GET("/menu", menuControllers.ListMenuItems(db))
		restaurants.GET("/menu/:itemID", menuControllers.GetMenuItem(db))
		restaurants.GET("/tables", tableControllers.ListTables(db))
		restaurants.GET("/tables/:tableID", tableControllers.GetTable(db))
		restaurants.POST("/sessions", chatControllers.StartSession(db))
	}

	sessions := r.Group("/sessions/:chatID")
	{
		sessions.GET("", chatControllers.GetSession(db))
		sessions.POST("/close", chatControllers.CloseSession(db))

		sessions.GET("/messages", chatControllers.ListMessages(db))
		sessions.POST("/messages", chatControllers.AppendMessage(db, hub))

		sessions.GET("/cart", cartControllers.GetCart(db))
		sessions.PUT("/cart", cartControllers.ReplaceCart(db, hub))
		sessions.POST("/cart/items", cartControllers.AddCartItem(db, hub))
		sessions.PUT("/cart/items/:menuItemID", cartControllers.SetCartItemQuantity(db, hub))
		sessions.DELETE("/cart/items/:menuItemID", cartControllers.RemoveCartItem(db, hub))
		sessions.DELETE("/cart", cartControllers.ClearCart(db, hub))
	}

	r.POST("/ai/chat-action", aiControllers.ChatAction(db, hub, aiClient))

	r.GET("/ws/sessions/:chatID", chatControllers.SessionWebSocket(db, hub))
}
