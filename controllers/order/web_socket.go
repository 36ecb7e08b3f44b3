package orderControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderWebSocket streams a restaurant's order feed to the admin console. The
// connection gets the current open orders as a snapshot, then order_created
// and order_updated events as they happen.
//
// GET /ws/restaurants/:restaurantID/orders
func OrderWebSocket(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("order: websocket upgrade failed: %v", err)
			return
		}

		topic := realtime.RestaurantTopic(restaurantID)
		hub.Subscribe(topic, conn)
		defer hub.Unsubscribe(topic, conn)

		var orders []models.Order
		err = db.Preload("Items").
			Where("restaurant_id = ? AND status NOT IN ?", restaurantID,
				[]models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled}).
			Order("created_at desc").
			Limit(maxListedOrders).
			Find(&orders).Error
		if err == nil {
			dtos := make([]orderDTO, 0, len(orders))
			for i := range orders {
				dtos = append(dtos, toOrderDTO(&orders[i]))
			}
			hub.Send(conn, "orders_snapshot", dtos)
		} else {
			log.Printf("order: failed to load snapshot for restaurant %s: %v", restaurantID, err)
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
