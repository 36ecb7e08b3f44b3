package restaurantControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tableControllers "github.com/qrdine-app/qrdine-api/controllers/table"
	"github.com/qrdine-app/qrdine-api/models"
	"gorm.io/gorm"
)

type RestaurantInput struct {
	Name        string `json:"name" binding:"required"`
	Cuisine     string `json:"cuisine"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// POST /admin/restaurants
func CreateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RestaurantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		restaurant := models.Restaurant{
			ID:          uuid.New().String(),
			Name:        input.Name,
			Cuisine:     input.Cuisine,
			Description: input.Description,
			LogoURL:     input.LogoURL,
		}
		if err := db.Create(&restaurant).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
			return
		}
		c.JSON(http.StatusCreated, restaurant)
	}
}

// GET /restaurants/:restaurantID
func GetRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ?", c.Param("restaurantID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

// PUT /admin/restaurants/:restaurantID
func UpdateRestaurant(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var restaurant models.Restaurant
		if err := db.First(&restaurant, "id = ?", c.Param("restaurantID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurant"})
			return
		}

		var input RestaurantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		restaurant.Name = input.Name
		restaurant.Cuisine = input.Cuisine
		restaurant.Description = input.Description
		restaurant.LogoURL = input.LogoURL
		if err := db.Save(&restaurant).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant"})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

// sampleMenu is the starter menu seeded into a demo restaurant.
var sampleMenu = []models.MenuItem{
	{
		Name:        "Margherita Pizza",
		Description: "Classic pizza with fresh mozzarella, tomatoes, and basil",
		Price:       12.99,
		Category:    "Main Course",
		Allergens:   models.StringList{"gluten", "dairy"},
	},
	{
		Name:        "Caesar Salad",
		Description: "Crisp romaine lettuce with parmesan, croutons, and Caesar dressing",
		Price:       8.99,
		Category:    "Appetizers",
		Allergens:   models.StringList{"gluten", "dairy", "eggs"},
	},
	{
		Name:        "Spaghetti Carbonara",
		Description: "Spaghetti with pancetta, egg, and pecorino romano",
		Price:       14.99,
		Category:    "Main Course",
		Allergens:   models.StringList{"gluten", "dairy", "eggs"},
	},
	{
		Name:        "Tiramisu",
		Description: "Espresso-soaked ladyfingers layered with mascarpone cream",
		Price:       6.99,
		Category:    "Desserts",
		Allergens:   models.StringList{"gluten", "dairy", "eggs"},
	},
}

const sampleTableCount = 4

// SeedSampleRestaurant creates a demo restaurant with a starter menu and a
// few QR-coded tables, for trying the system without an onboarding flow.
//
// POST /admin/sample-restaurant
func SeedSampleRestaurant(db *gorm.DB, qrCfg tableControllers.QRConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurant := models.Restaurant{
			ID:          uuid.New().String(),
			Name:        "Demo Trattoria",
			Cuisine:     "Italian",
			Description: "A sample restaurant seeded for demos and local development",
		}

		var tables []models.Table
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}
			for _, item := range sampleMenu {
				item.ID = uuid.New().String()
				item.RestaurantID = restaurant.ID
				item.Available = true
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
			for n := 1; n <= sampleTableCount; n++ {
				table := models.Table{
					ID:           uuid.New().String(),
					RestaurantID: restaurant.ID,
					TableNumber:  n,
					Status:       "available",
				}
				if err := tableControllers.GenerateTableQR(qrCfg, &table); err != nil {
					log.Printf("restaurant: QR generation failed for sample table %d: %v", n, err)
				}
				if err := tx.Create(&table).Error; err != nil {
					return err
				}
				tables = append(tables, table)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed sample restaurant"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"restaurant": restaurant,
			"tables":     tables,
			"menuItems":  len(sampleMenu),
		})
	}
}
