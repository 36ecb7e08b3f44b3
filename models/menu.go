package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// StringList stores a list of free-text tags as a comma-joined TEXT column
// while marshalling to a JSON array.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}
	return strings.Join(s, ","), nil
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if raw == "" {
		*s = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*s = out
	return nil
}

type MenuItem struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	RestaurantID string     `gorm:"index;not null" json:"restaurant_id"`
	Name         string     `gorm:"not null" json:"name"`
	Description  string     `json:"description"`
	Price        float64    `gorm:"not null" json:"price"`
	Category     string     `json:"category"`
	Available    bool       `gorm:"not null;default:true" json:"available"`
	Allergens    StringList `gorm:"type:text" json:"allergens"`
	ImageURL     string     `json:"image_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
