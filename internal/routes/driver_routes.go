package routes

import (
	"github.com/gin-gonic/gin"

	"carhaul_tracker/internal/controllers"
	"carhaul_tracker/internal/services"
)

func DriverRoutes(r *gin.Engine, fleet *services.Fleet) {
	dc := &controllers.DriverController{Fleet: fleet}
	vc := &controllers.VehicleController{Fleet: fleet}

	drivers := r.Group("/drivers")
	{
		drivers.GET("", dc.ListDrivers)
		drivers.POST("", dc.CreateDriver)
		drivers.GET("/:index", dc.GetDriver)
		drivers.PUT("/:index", dc.UpdateDriver)
		drivers.DELETE("/:index", dc.DeleteDriver)

		drivers.POST("/:index/vehicles", vc.AddVehicle)
		drivers.POST("/:index/vehicles/:vehicle/deliver", vc.DeliverVehicle)
	}
}
