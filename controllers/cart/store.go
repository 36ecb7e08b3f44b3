package cartControllers

import (
	"errors"
	"log"
	"sync"

	"github.com/qrdine-app/qrdine-api/models"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

// Cart writes replace the whole line set. The version column is the
// optimistic-concurrency token: the replace only lands when the version it
// read is still current, otherwise the mutation is re-run against the fresh
// state. Three attempts cover the realistic contention window (customer UI
// and assistant writing in the same turn).
const maxVersionRetries = 3

var errVersionConflict = errors.New("cart version conflict")

// fallbackCarts keeps per-table cart state in process memory when the
// database is unavailable, keyed by restaurantID:tableID. Ordering must keep
// working through a storage outage even if the cached state is lost on
// restart.
var fallbackCarts sync.Map

func fallbackKey(restaurantID, tableID string) string {
	return restaurantID + ":" + tableID
}

// FallbackLines returns the locally cached cart for a table, if any.
func FallbackLines(restaurantID, tableID string) ([]models.CartLine, bool) {
	v, ok := fallbackCarts.Load(fallbackKey(restaurantID, tableID))
	if !ok {
		return nil, false
	}
	return v.([]models.CartLine), true
}

// LoadCart fetches the session's cart, creating an empty one on first touch.
func LoadCart(db *gorm.DB, session *models.ChatSession) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{ChatID: session.ID}).
		Attrs(models.Cart{RestaurantID: session.RestaurantID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := db.Where("cart_id = ?", cart.ID).Order("id").Find(&cart.Lines).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// ApplyCartMutation runs mutate against the current line set and persists the
// result as a whole-cart replace, retrying on version conflicts. On
// persistent storage failure it degrades to the in-process fallback cache so
// the customer can keep ordering; the degraded flag tells the handler the
// result was not durably stored.
func ApplyCartMutation(db *gorm.DB, hub *realtime.Hub, session *models.ChatSession, mutate func([]models.CartLine) []models.CartLine) (*models.Cart, bool, error) {
	var lastErr error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		cart, err := LoadCart(db, session)
		if err != nil {
			lastErr = err
			break
		}

		newLines := mutate(cloneLines(cart.Lines))
		err = replaceCartLines(db, cart, newLines)
		if err == nil {
			cart.Lines = newLines
			cart.Version++
			fallbackCarts.Store(fallbackKey(session.RestaurantID, session.TableID), cloneLines(newLines))
			broadcastCart(hub, session, cart)
			return cart, false, nil
		}
		if errors.Is(err, errVersionConflict) {
			log.Printf("cart: version conflict for chat %s, retrying (%d/%d)", session.ID, attempt+1, maxVersionRetries)
			lastErr = err
			continue
		}
		lastErr = err
		break
	}

	if errors.Is(lastErr, errVersionConflict) {
		return nil, false, lastErr
	}

	// Storage failed outright: mutate the cached copy so the session keeps
	// working while the database is down.
	log.Printf("cart: storage unavailable for chat %s, using in-memory fallback: %v", session.ID, lastErr)
	key := fallbackKey(session.RestaurantID, session.TableID)
	var lines []models.CartLine
	if v, ok := fallbackCarts.Load(key); ok {
		lines = cloneLines(v.([]models.CartLine))
	}
	lines = mutate(lines)
	fallbackCarts.Store(key, cloneLines(lines))

	cart := &models.Cart{RestaurantID: session.RestaurantID, ChatID: session.ID, Lines: lines}
	broadcastCart(hub, session, cart)
	return cart, true, nil
}

// replaceCartLines swaps the full line set inside one transaction, guarded by
// the version the caller read.
func replaceCartLines(db *gorm.DB, cart *models.Cart, newLines []models.CartLine) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Update("version", cart.Version+1)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errVersionConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}
		for i := range newLines {
			newLines[i].ID = 0
			newLines[i].CartID = cart.ID
		}
		if len(newLines) > 0 {
			if err := tx.Create(&newLines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func broadcastCart(hub *realtime.Hub, session *models.ChatSession, cart *models.Cart) {
	if hub == nil {
		return
	}
	lines := cart.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	hub.Broadcast(realtime.SessionTopic(session.ID), "cart_updated", map[string]interface{}{
		"chatId": session.ID,
		"items":  lines,
		"total":  models.CartTotal(lines),
	})
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	if lines == nil {
		return nil
	}
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
