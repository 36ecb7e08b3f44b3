package menuControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qrdine-app/qrdine-api/models"
	"gorm.io/gorm"
)

type MenuItemInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" binding:"required"`
	Category    string   `json:"category"`
	Available   *bool    `json:"available"`
	Allergens   []string `json:"allergens"`
	ImageURL    string   `json:"image_url"`
}

type AvailabilityInput struct {
	Available *bool `json:"available" binding:"required"`
}

// GET /restaurants/:restaurantID/menu?available=true&category=
func ListMenuItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")

		query := db.Where("restaurant_id = ?", restaurantID)
		if c.Query("available") == "true" {
			query = query.Where("available = ?", true)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}

		var items []models.MenuItem
		if err := query.Order("category, name").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /restaurants/:restaurantID/menu/:itemID
func GetMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.MenuItem
		err := db.First(&item, "id = ? AND restaurant_id = ?",
			c.Param("itemID"), c.Param("restaurantID")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// POST /admin/restaurants/:restaurantID/menu
func CreateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantID")
		var input MenuItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}

		available := true
		if input.Available != nil {
			available = *input.Available
		}
		item := models.MenuItem{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			Name:         input.Name,
			Description:  input.Description,
			Price:        *input.Price,
			Category:     input.Category,
			Available:    available,
			Allergens:    input.Allergens,
			ImageURL:     input.ImageURL,
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /admin/restaurants/:restaurantID/menu/:itemID
func UpdateMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.MenuItem
		err := db.First(&item, "id = ? AND restaurant_id = ?",
			c.Param("itemID"), c.Param("restaurantID")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu item"})
			return
		}

		var input MenuItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}

		item.Name = input.Name
		item.Description = input.Description
		item.Price = *input.Price
		item.Category = input.Category
		item.Allergens = input.Allergens
		item.ImageURL = input.ImageURL
		if input.Available != nil {
			item.Available = *input.Available
		}

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// SetMenuItemAvailability flips availability without touching the rest of the
// record, so the kitchen can 86 a dish mid-service.
//
// PATCH /admin/restaurants/:restaurantID/menu/:itemID/availability
func SetMenuItemAvailability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AvailabilityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
			return
		}

		var item models.MenuItem
		err := db.First(&item, "id = ? AND restaurant_id = ?",
			c.Param("itemID"), c.Param("restaurantID")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}

		if err := db.Model(&item).Update("available", *input.Available).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /admin/restaurants/:restaurantID/menu/:itemID
func DeleteMenuItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND restaurant_id = ?",
			c.Param("itemID"), c.Param("restaurantID")).Delete(&models.MenuItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
	}
}
