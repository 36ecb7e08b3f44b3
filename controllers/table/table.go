package tableControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qrdine-app/qrdine-api/models"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrImageSize = 512

type CreateTablesInput struct {
	Count int `json:"count" binding:"required"`
}

// QRConfig locates the generated QR PNGs on disk and in public URLs.
type QRConfig struct {
	UploadDir     string
	PublicBaseURL string
}

// orderPageURL is what the QR encodes: the customer-facing ordering page for
// one table.
func (cfg QRConfig) orderPageURL(restaurantID, tableID string) string {
	return fmt.Sprintf("%s/order?restaurantId=%s&tableId=%s", cfg.PublicBaseURL, restaurantID, tableID)
}

// GenerateTableQR renders the table's QR PNG under the upload dir and fills
// in the table's QR fields. The caller persists the table.
func GenerateTableQR(cfg QRConfig, table *models.Table) error {
	if err := os.MkdirAll(cfg.UploadDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create upload folder: %w", err)
	}

	data := cfg.orderPageURL(table.RestaurantID, table.ID)
	filename := fmt.Sprintf("qr_%s_table_%d.png", table.RestaurantID, table.TableNumber)
	savePath := filepath.Join(cfg.UploadDir, filename)

	if err := qrcode.WriteFile(data, qrcode.Medium, qrImageSize, savePath); err != nil {
		return fmt.Errorf("failed to render QR code: %w", err)
	}

	table.QRCodeData = data
	table.QRCodeURL = fmt.Sprintf("%s/uploads/%s", cfg.PublicBaseURL, filename)
	return nil
}

// CreateTables adds count tables to the restaurant, numbering from the
// highest existing table number. Numbers already taken are never duplicated.
//
// POST /admin/restaurants/:restaurantID/tables
func CreateTables(db *gorm.DB, cfg QRConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		var input CreateTablesInput
		if err := c.ShouldBindJSON(&input); err != nil || input.Count < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
			return
		}

		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ?", restaurantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}

		var maxNumber int
		row := db.Model(&models.Table{}).
			Where("restaurant_id = ?", restaurantID).
			Select("COALESCE(MAX(table_number), 0)").
			Row()
		if err := row.Scan(&maxNumber); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to inspect existing tables"})
			return
		}

		created := make([]models.Table, 0, input.Count)
		for i := 1; i <= input.Count; i++ {
			table := models.Table{
				ID:           uuid.New().String(),
				RestaurantID: restaurantID,
				TableNumber:  maxNumber + i,
				Status:       "available",
			}
			if err := GenerateTableQR(cfg, &table); err != nil {
				log.Printf("table: QR generation failed for table %d: %v", table.TableNumber, err)
			}
			if err := db.Create(&table).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tables"})
				return
			}
			created = append(created, table)
		}

		c.JSON(http.StatusCreated, gin.H{"tables": created})
	}
}

// GET /restaurants/:restaurantID/tables
func ListTables(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tables []models.Table
		err := db.Where("restaurant_id = ?", c.Param("restaurantID")).
			Order("table_number").
			Find(&tables).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tables"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
	}
}

// GET /restaurants/:restaurantID/tables/:tableID
func GetTable(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var table models.Table
		err := db.First(&table, "id = ? AND restaurant_id = ?",
			c.Param("tableID"), c.Param("restaurantID")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusOK, table)
	}
}

// RegenerateQR re-renders a table's QR PNG, for when the public base URL
// changes or the old file was lost.
//
// POST /admin/restaurants/:restaurantID/tables/:tableID/qr
func RegenerateQR(db *gorm.DB, cfg QRConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var table models.Table
		err := db.First(&table, "id = ? AND restaurant_id = ?",
			c.Param("tableID"), c.Param("restaurantID")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch table"})
			return
		}

		if err := GenerateTableQR(cfg, &table); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
			return
		}
		if err := db.Model(&table).Updates(map[string]interface{}{
			"qr_code_url":  table.QRCodeURL,
			"qr_code_data": table.QRCodeData,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save QR code"})
			return
		}
		c.JSON(http.StatusOK, table)
	}
}

// DELETE /admin/restaurants/:restaurantID/tables/:tableID
func DeleteTable(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND restaurant_id = ?",
			c.Param("tableID"), c.Param("restaurantID")).Delete(&models.Table{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete table"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
	}
}
