package chatControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	cartControllers "github.com/qrdine-app/qrdine-api/controllers/cart"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionWebSocket subscribes the connection to one chat session's event
// stream (cart updates and transcript messages) and pushes the current cart
// as an initial snapshot.
//
// GET /ws/sessions/:chatID
func SessionWebSocket(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var session models.ChatSession
		if err := db.First(&session, "id = ?", chatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("chat: websocket upgrade failed: %v", err)
			return
		}

		topic := realtime.SessionTopic(chatID)
		hub.Subscribe(topic, conn)
		defer hub.Unsubscribe(topic, conn)

		if cart, err := cartControllers.LoadCart(db, &session); err == nil {
			lines := cart.Lines
			if lines == nil {
				lines = []models.CartLine{}
			}
			hub.Send(conn, "cart_snapshot", map[string]interface{}{
				"chatId": chatID,
				"items":  lines,
				"total":  models.CartTotal(lines),
			})
		}

		// Inbound frames are ignored; the socket exists for server pushes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
