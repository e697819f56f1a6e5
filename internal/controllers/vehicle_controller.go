package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/services"
)

// vehicleInput is the JSON accepted for a vehicle. The physical fields are
// required; dollar_per_mile defaults to 0.
type vehicleInput struct {
	ID            string   `json:"id"`
	MakeModelYear string   `json:"make_model_year"`
	Comment       string   `json:"comment"`
	Weight        *float64 `json:"weight" binding:"required"`
	Height        *float64 `json:"height" binding:"required"`
	Length        *float64 `json:"length" binding:"required"`
	Distance      *float64 `json:"distance" binding:"required"`
	DollarPerMile *float64 `json:"dollar_per_mile"`
}

func (in vehicleInput) toModel() models.Vehicle {
	v := models.Vehicle{
		ID:            in.ID,
		MakeModelYear: in.MakeModelYear,
		Comment:       in.Comment,
		Weight:        *in.Weight,
		Height:        *in.Height,
		Length:        *in.Length,
		Distance:      *in.Distance,
	}
	if in.DollarPerMile != nil {
		v.DollarPerMile = *in.DollarPerMile
	}
	return v
}

// VehicleController handles loading and delivering vehicles.
type VehicleController struct {
	Fleet *services.Fleet
}

// AddVehicle loads a new vehicle on the driver at :index.
func (vc *VehicleController) AddVehicle(c *gin.Context) {
	index, ok := parseIndex(c, "index", "driver")
	if !ok {
		return
	}

	var input vehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	vehicle, driver, err := vc.Fleet.Registry.AddVehicle(c.Request.Context(), index, input.toModel())
	if err != nil {
		respondError(c, err, "add vehicle")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"vehicle": vehicle,
		"driver":  toDriverResponse(index, driver),
	})
}

// DeliverVehicle archives vehicle :vehicle of driver :index. Positions of
// the driver's later vehicles shift down by one afterwards.
func (vc *VehicleController) DeliverVehicle(c *gin.Context) {
	driverIndex, ok := parseIndex(c, "index", "driver")
	if !ok {
		return
	}
	vehicleIndex, ok := parseIndex(c, "vehicle", "vehicle")
	if !ok {
		return
	}

	vehicle, err := vc.Fleet.Delivery.Deliver(c.Request.Context(), driverIndex, vehicleIndex)
	if err != nil {
		respondError(c, err, "deliver vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle delivered.",
		"vehicle": vehicle,
	})
}

// DeliverByID archives a vehicle addressed by driver and vehicle ids.
func (vc *VehicleController) DeliverByID(c *gin.Context) {
	var input struct {
		DriverID  string `json:"driver_id" binding:"required"`
		VehicleID string `json:"vehicle_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery input: " + err.Error()})
		return
	}

	vehicle, err := vc.Fleet.Delivery.DeliverByID(c.Request.Context(), input.DriverID, input.VehicleID)
	if err != nil {
		respondError(c, err, "deliver vehicle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle delivered.",
		"vehicle": vehicle,
	})
}

// ListArchive returns every delivered vehicle in delivery order.
func (vc *VehicleController) ListArchive(c *gin.Context) {
	archive, err := vc.Fleet.Delivery.ListArchive(c.Request.Context())
	if err != nil {
		respondError(c, err, "list archive")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": archive})
}
