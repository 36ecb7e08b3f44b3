package aiControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qrdine-app/qrdine-api/ai"
	cartControllers "github.com/qrdine-app/qrdine-api/controllers/cart"
	chatControllers "github.com/qrdine-app/qrdine-api/controllers/chat"
	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

type ChatActionInput struct {
	RestaurantID        string            `json:"restaurantId"`
	TableID             string            `json:"tableId"`
	ChatID              string            `json:"chatId"`
	Message             string            `json:"message"`
	ConversationHistory []ai.HistoryEntry `json:"conversationHistory"`

	// Optional snapshots; when absent the server fetches current state.
	Menu    []MenuSnapshotItem    `json:"menu"`
	Cart    []models.CartLine     `json:"cart"`
	Context *ai.RestaurantContext `json:"context"`
}

// MenuSnapshotItem is one menu entry as the client submitted it. Available is
// a pointer so that an entry omitting the field counts as available rather
// than binding to false and vanishing from the prompt.
type MenuSnapshotItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Category    string            `json:"category"`
	Available   *bool             `json:"available"`
	Allergens   models.StringList `json:"allergens"`
	ImageURL    string            `json:"image_url"`
}

// ChatAction is the assistant turn endpoint: it grounds the model in the
// restaurant's live menu and cart, asks for a completion with the ordering
// tools enabled, applies any resolved cart action server-side, and returns
// the reply plus the updated cart.
//
// POST /ai/chat-action
func ChatAction(db *gorm.DB, hub *realtime.Hub, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ChatActionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if input.RestaurantID == "" || input.TableID == "" || input.ChatID == "" || input.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantId, tableId, chatId and message are required"})
			return
		}

		if client == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI assistant is not configured"})
			return
		}

		var session models.ChatSession
		if err := db.First(&session, "id = ?", input.ChatID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat session not found"})
			return
		}

		restaurantCtx := ai.RestaurantContext{}
		if input.Context != nil {
			restaurantCtx = *input.Context
		} else {
			var restaurant models.Restaurant
			if err := db.First(&restaurant, "id = ?", input.RestaurantID).Error; err == nil {
				restaurantCtx = ai.RestaurantContext{
					Name:        restaurant.Name,
					Cuisine:     restaurant.Cuisine,
					Description: restaurant.Description,
				}
			}
		}

		menu := menuFromSnapshot(input.Menu)
		if len(input.Menu) == 0 {
			if err := db.Where("restaurant_id = ? AND available = ?", input.RestaurantID, true).Find(&menu).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
				return
			}
		}

		cartLines := input.Cart
		if cartLines == nil {
			cart, err := cartControllers.LoadCart(db, &session)
			if err != nil {
				log.Printf("ai: failed to load cart for chat %s: %v", input.ChatID, err)
				if lines, ok := cartControllers.FallbackLines(session.RestaurantID, session.TableID); ok {
					cartLines = lines
				}
			} else {
				cartLines = cart.Lines
			}
		}

		history := ai.TruncateHistory(input.ConversationHistory)
		systemPrompt := ai.BuildSystemPrompt(restaurantCtx, menu, cartLines)
		model := client.SelectModel(input.Message)

		comp, err := client.Complete(c.Request.Context(), model, systemPrompt, history, input.Message)
		if err != nil {
			status, body := classifyCompletionError(err)
			go recordAssistantError(db, hub, &session)
			c.JSON(status, body)
			return
		}

		resp := ai.Resolve(comp, menu)

		go recordTurn(db, hub, &session, input.Message, resp)

		updatedCart := applyResolvedAction(db, hub, &session, resp)

		c.JSON(http.StatusOK, gin.H{
			"text":        resp.Text,
			"action":      resp.Action,
			"items":       resp.Items,
			"suggestions": resp.Suggestions,
			"confidence":  resp.Confidence,
			"metadata":    resp.Metadata,
			"cart": gin.H{
				"items": updatedCart,
				"total": models.CartTotal(updatedCart),
			},
		})
	}
}

// menuFromSnapshot converts a client-supplied menu snapshot, dropping only
// entries explicitly marked unavailable. An absent available field means the
// item is orderable.
func menuFromSnapshot(items []MenuSnapshotItem) []models.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Available != nil && !*item.Available {
			continue
		}
		out = append(out, models.MenuItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Category:    item.Category,
			Available:   true,
			Allergens:   item.Allergens,
			ImageURL:    item.ImageURL,
		})
	}
	return out
}

// recordAssistantError keeps the conversational surface intact on failure:
// the customer sees an apologetic chat message instead of a bare error.
func recordAssistantError(db *gorm.DB, hub *realtime.Hub, session *models.ChatSession) {
	text := "Sorry, I'm having trouble responding right now. Please try again in a moment."
	if err := chatControllers.RecordSystemMessage(db, hub, session.RestaurantID, session.ID, text, models.MessageTypeError, nil); err != nil {
		log.Printf("ai: failed to record error message for chat %s: %v", session.ID, err)
	}
}

// classifyCompletionError maps provider failures onto the client contract:
// quota exhaustion is retryable with backoff, configuration problems are not,
// everything else is a generic upstream failure.
func classifyCompletionError(err error) (int, gin.H) {
	switch {
	case ai.IsRateLimit(err):
		log.Printf("ai: rate limited by provider: %v", err)
		return http.StatusTooManyRequests, gin.H{
			"error":   "The assistant is receiving too many requests right now. Please try again in a moment.",
			"code":    "rate_limited",
			"details": err.Error(),
		}
	case ai.IsAuthError(err):
		log.Printf("ai: provider auth/config failure: %v", err)
		return http.StatusInternalServerError, gin.H{
			"error": "AI assistant is not configured correctly",
			"code":  "not_configured",
		}
	default:
		log.Printf("ai: completion failed: %v", err)
		return http.StatusInternalServerError, gin.H{
			"error": "Failed to generate a response",
			"code":  "upstream_error",
		}
	}
}

// applyResolvedAction mutates the session's persisted cart according to the
// resolved action and returns the resulting line set. Actions that do not
// touch the cart return it unchanged.
func applyResolvedAction(db *gorm.DB, hub *realtime.Hub, session *models.ChatSession, resp *ai.Response) []models.CartLine {
	var mutate func([]models.CartLine) []models.CartLine

	switch resp.Action {
	case ai.ActionAddToCart:
		if len(resp.Items) == 0 {
			break
		}
		items := resp.Items
		mutate = func(lines []models.CartLine) []models.CartLine {
			for _, item := range items {
				quantity := 1
				if item.Quantity != nil {
					quantity = *item.Quantity
				}
				lines = models.AddLine(lines, models.MenuItem{
					ID:       item.MenuItemID,
					Name:     item.Name,
					Price:    item.Price,
					ImageURL: item.ImageURL,
				}, quantity, item.SpecialInstructions)
			}
			return lines
		}

	case ai.ActionRemoveFromCart:
		if len(resp.Items) == 0 {
			break
		}
		item := resp.Items[0]
		mutate = func(lines []models.CartLine) []models.CartLine {
			if item.Quantity == nil {
				return models.RemoveLine(lines, item.MenuItemID)
			}
			return models.ReduceLineQuantity(lines, item.MenuItemID, *item.Quantity)
		}
	}

	if mutate == nil {
		cart, err := cartControllers.LoadCart(db, session)
		if err != nil {
			if lines, ok := cartControllers.FallbackLines(session.RestaurantID, session.TableID); ok {
				return lines
			}
			return []models.CartLine{}
		}
		if cart.Lines == nil {
			return []models.CartLine{}
		}
		return cart.Lines
	}

	cart, _, err := cartControllers.ApplyCartMutation(db, hub, session, mutate)
	if err != nil {
		log.Printf("ai: failed to apply %s action for chat %s: %v", resp.Action, session.ID, err)
		return []models.CartLine{}
	}
	if cart.Lines == nil {
		return []models.CartLine{}
	}
	return cart.Lines
}

// recordTurn appends both sides of the exchange to the transcript.
// Best-effort: the assistant's answer already went back over HTTP, so a
// transcript failure only logs.
func recordTurn(db *gorm.DB, hub *realtime.Hub, session *models.ChatSession, userText string, resp *ai.Response) {
	if err := chatControllers.RecordSystemMessageAs(db, hub, session.RestaurantID, session.ID, userText, models.MessageSenderUser, models.MessageTypeMessage, nil); err != nil {
		log.Printf("ai: failed to record user message for chat %s: %v", session.ID, err)
	}

	metadata := models.JSONMap{
		"model":        resp.Metadata.Model,
		"tokens":       resp.Metadata.Tokens,
		"responseTime": resp.Metadata.ResponseTime,
	}
	if resp.Action != ai.ActionNone {
		metadata["action"] = resp.Action
	}
	if err := chatControllers.RecordSystemMessageAs(db, hub, session.RestaurantID, session.ID, resp.Text, models.MessageSenderAssistant, models.MessageTypeMessage, metadata); err != nil {
		log.Printf("ai: failed to record assistant message for chat %s: %v", session.ID, err)
	}
}
