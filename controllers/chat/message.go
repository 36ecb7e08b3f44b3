package chatControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

const defaultMessageLimit = 100

type MessageInput struct {
	Text     string         `json:"text" binding:"required"`
	Sender   string         `json:"sender" binding:"required"`
	Type     string         `json:"type"`
	Metadata models.JSONMap `json:"metadata"`
}

// GET /sessions/:chatID/messages?limit=N
func ListMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var session models.ChatSession
		if err := db.First(&session, "id = ?", chatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		limit := defaultMessageLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		var messages []models.Message
		err := db.Where("chat_id = ?", chatID).
			Order("timestamp asc, id asc").
			Limit(limit).
			Find(&messages).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

// POST /sessions/:chatID/messages
func AppendMessage(db *gorm.DB, hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var input MessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Sender != models.MessageSenderUser && input.Sender != models.MessageSenderAssistant {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sender must be 'user' or 'assistant'"})
			return
		}

		var session models.ChatSession
		if err := db.First(&session, "id = ?", chatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		msgType := input.Type
		if msgType == "" {
			msgType = models.MessageTypeMessage
		}

		message := models.Message{
			RestaurantID: session.RestaurantID,
			ChatID:       chatID,
			Text:         input.Text,
			Sender:       input.Sender,
			Type:         msgType,
			Metadata:     input.Metadata,
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
			return
		}

		hub.Broadcast(realtime.SessionTopic(chatID), "message", message)
		c.JSON(http.StatusCreated, message)
	}
}

// RecordSystemMessage writes an assistant-sender transcript entry outside a
// request cycle, for order confirmations and status changes. Best-effort:
// callers fire it in a goroutine and a failure only logs.
func RecordSystemMessage(db *gorm.DB, hub *realtime.Hub, restaurantID, chatID, text, msgType string, metadata models.JSONMap) error {
	return RecordSystemMessageAs(db, hub, restaurantID, chatID, text, models.MessageSenderAssistant, msgType, metadata)
}

// RecordSystemMessageAs is RecordSystemMessage with an explicit sender, used
// when the server writes the user's side of an exchange to the transcript.
func RecordSystemMessageAs(db *gorm.DB, hub *realtime.Hub, restaurantID, chatID, text, sender, msgType string, metadata models.JSONMap) error {
	message := models.Message{
		RestaurantID: restaurantID,
		ChatID:       chatID,
		Text:         text,
		Sender:       sender,
		Type:         msgType,
		Metadata:     metadata,
	}
	if err := db.Create(&message).Error; err != nil {
		return err
	}
	if hub != nil {
		hub.Broadcast(realtime.SessionTopic(chatID), "message", message)
	}
	return nil
}
