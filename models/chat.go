package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// ChatSession is one table's active ordering conversation. SessionKey is a
// deterministic key derived from (restaurantID, tableID) and carries a unique
// index, so two devices scanning the same table concurrently converge on one
// session instead of racing a read-then-write lookup. Closing a session
// rewrites the key to free the slot for the next visit.
type ChatSession struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"index;not null" json:"restaurant_id"`
	TableID      string    `gorm:"index" json:"table_id"`
	TableNumber  int       `json:"table_number"`
	Status       string    `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	SessionKey   string    `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActiveSessionKey returns the deterministic key under which the single
// active session for a table lives.
func ActiveSessionKey(restaurantID, tableID string) string {
	return restaurantID + ":" + tableID
}

// JSONMap stores loosely structured message metadata as a JSON TEXT column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

const (
	MessageSenderUser      = "user"
	MessageSenderAssistant = "assistant"

	MessageTypeMessage     = "message"
	MessageTypeOrder       = "order"
	MessageTypeOrderStatus = "order_status"
	MessageTypeError       = "error"
)

// Message belongs to a ChatSession. Timestamp is server-assigned on insert;
// readers order by (timestamp, id) so messages within a session are stable.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"index;not null" json:"restaurant_id"`
	ChatID       string    `gorm:"index;not null" json:"chat_id"`
	Text         string    `json:"text"`
	Sender       string    `gorm:"type:VARCHAR(20);not null" json:"sender"`
	Type         string    `gorm:"type:VARCHAR(20);default:'message'" json:"type"`
	Metadata     JSONMap   `gorm:"type:text" json:"metadata,omitempty"`
	Timestamp    time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
