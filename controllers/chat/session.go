package chatControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qrdine-app/qrdine-api/models"
	"gorm.io/gorm"
)

type StartSessionInput struct {
	TableID string `json:"tableId" binding:"required"`
}

// StartSession returns the table's active chat session, creating one if none
// exists. The session key carries a unique index, so two devices scanning the
// same table at once converge on a single session: the loser of the insert
// race re-reads the winner's row.
//
// POST /restaurants/:restaurantID/sessions
func StartSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		var input StartSessionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tableId is required"})
			return
		}

		table, err := resolveTable(db, restaurantID, input.TableID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up table"})
			return
		}

		key := models.ActiveSessionKey(restaurantID, table.ID)

		var session models.ChatSession
		err = db.First(&session, "session_key = ? AND status = ?", key, models.SessionStatusActive).Error
		if err == nil {
			c.JSON(http.StatusOK, session)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up session"})
			return
		}

		session = models.ChatSession{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			TableID:      table.ID,
			TableNumber:  table.TableNumber,
			Status:       models.SessionStatusActive,
			SessionKey:   key,
		}
		if err := db.Create(&session).Error; err != nil {
			// Unique violation on session_key: another device created the
			// session between our read and insert. Re-read and return theirs.
			var existing models.ChatSession
			if rerr := db.First(&existing, "session_key = ?", key).Error; rerr == nil {
				c.JSON(http.StatusOK, existing)
				return
			}
			log.Printf("chat: failed to create session for table %s: %v", table.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		c.JSON(http.StatusCreated, session)
	}
}

// resolveTable accepts either a table record ID or a "table-<number>" slug,
// which is what older QR codes encode.
func resolveTable(db *gorm.DB, restaurantID, tableID string) (*models.Table, error) {
	var table models.Table
	err := db.First(&table, "id = ? AND restaurant_id = ?", tableID, restaurantID).Error
	if err == nil {
		return &table, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if numStr, ok := strings.CutPrefix(tableID, "table-"); ok {
		if num, convErr := strconv.Atoi(numStr); convErr == nil {
			err = db.First(&table, "restaurant_id = ? AND table_number = ?", restaurantID, num).Error
			if err == nil {
				return &table, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// GET /sessions/:chatID
func GetSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session models.ChatSession
		if err := db.First(&session, "id = ?", c.Param("chatID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// CloseSession marks the session closed and rewrites its key so the table's
// active slot frees up for the next party.
//
// POST /sessions/:chatID/close
func CloseSession(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatID")
		var session models.ChatSession
		if err := db.First(&session, "id = ?", chatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}
		if session.Status == models.SessionStatusClosed {
			c.JSON(http.StatusOK, session)
			return
		}

		updates := map[string]interface{}{
			"status":      models.SessionStatusClosed,
			"session_key": "closed:" + session.ID,
		}
		if err := db.Model(&session).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
