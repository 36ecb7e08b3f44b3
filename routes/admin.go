package routes

import (
	"github.com/gin-gonic/gin"
	menuControllers "github.com/qrdine-app/qrdine-api/controllers/menu"
	restaurantControllers "github.com/qrdine-app/qrdine-api/controllers/restaurant"
	tableControllers "github.com/qrdine-app/qrdine-api/controllers/table"
	"github.com/qrdine-app/qrdine-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, qrCfg tableControllers.QRConfig) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.POST("/restaurants", restaurantControllers.CreateRestaurant(db))
		adminGroup.PUT("/restaurants/:restaurantID", restaurantControllers.UpdateRestaurant(db))
		adminGroup.POST("/sample-restaurant", restaurantControllers.SeedSampleRestaurant(db, qrCfg))

		menuAdmin := adminGroup.Group("/restaurants/:restaurantID/menu")
		{
			menuAdmin.POST("", menuControllers.CreateMenuItem(db))
			menuAdmin.PUT("/:itemID", menuControllers.UpdateMenuItem(db))
			menuAdmin.PATCH("/:itemID/availability", menuControllers.SetMenuItemAvailability(db))
			menuAdmin.DELETE("/:itemID", menuControllers.DeleteMenuItem(db))
			menuAdmin.POST("/import", menuControllers.ImportMenuFromExcel(db))
			menuAdmin.GET("/export", menuControllers.ExportMenuToExcel(db))
		}

		tableAdmin := adminGroup.Group("/restaurants/:restaurantID/tables")
		{
			tableAdmin.POST("", tableControllers.CreateTables(db, qrCfg))
			tableAdmin.POST("/:tableID/qr", tableControllers.RegenerateQR(db, qrCfg))
			tableAdmin.DELETE("/:tableID", tableControllers.DeleteTable(db))
		}
	}
}
