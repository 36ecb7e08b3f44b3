package models

import "time"

type Restaurant struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Cuisine     string    `json:"cuisine"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Table struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	RestaurantID string    `gorm:"not null;uniqueIndex:idx_restaurant_table" json:"restaurant_id"`
	TableNumber  int       `gorm:"not null;uniqueIndex:idx_restaurant_table" json:"table_number"`
	Status       string    `gorm:"type:VARCHAR(20);default:'available'" json:"status"`
	QRCodeURL    string    `json:"qr_code_url"`  // public URL of the rendered PNG
	QRCodeData   string    `json:"qr_code_data"` // the order-page URL encoded in the QR
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
