package routes

import (
	"github.com/gin-gonic/gin"

	"carhaul_tracker/internal/controllers"
	"carhaul_tracker/internal/services"
)

func ArchiveRoutes(r *gin.Engine, fleet *services.Fleet) {
	vc := &controllers.VehicleController{Fleet: fleet}

	r.GET("/archive", vc.ListArchive)
	r.POST("/deliveries", vc.DeliverByID)
}
