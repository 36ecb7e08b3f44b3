package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/qrdine-app/qrdine-api/ai"
	tableControllers "github.com/qrdine-app/qrdine-api/controllers/table"
	"github.com/qrdine-app/qrdine-api/realtime"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the customer, order,
// realtime, and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, hub *realtime.Hub, aiClient *ai.Client, qrCfg tableControllers.QRConfig) {
	// Customer surface (no auth; reachable straight from the QR scan)
	SetupCustomerRoutes(r, db, hub, aiClient)

	// Order surface (place + track)
	SetupOrderRoutes(r, db, hub)

	// Admin surface (API-key protected)
	SetupAdminRoutes(r, db, qrCfg)
}
