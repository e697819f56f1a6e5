package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/services"
)

// driverInput defines the fields a client sends to create or replace a
// driver. Vehicles is a pointer so an edit can tell "not sent" from "empty".
type driverInput struct {
	Name               string          `json:"name" binding:"required"`
	VehicleCapacity    int             `json:"vehicle_capacity"`
	AllowedTotalWeight float64         `json:"allowed_total_weight"`
	AllowedCargoWeight float64         `json:"allowed_cargo_weight"`
	CarrierLengthLimit float64         `json:"carrier_length_limit"`
	SafeDistance       float64         `json:"safe_distance"`
	Vehicles           *[]vehicleInput `json:"vehicles" binding:"omitempty,dive"`
}

func (in driverInput) toModel() models.Driver {
	d := models.Driver{
		Name:               in.Name,
		VehicleCapacity:    in.VehicleCapacity,
		AllowedTotalWeight: in.AllowedTotalWeight,
		AllowedCargoWeight: in.AllowedCargoWeight,
		CarrierLengthLimit: in.CarrierLengthLimit,
		SafeDistance:       in.SafeDistance,
	}
	if in.Vehicles != nil {
		d.Vehicles = make([]models.Vehicle, 0, len(*in.Vehicles))
		for _, v := range *in.Vehicles {
			d.Vehicles = append(d.Vehicles, v.toModel())
		}
	}
	return d
}

// DriverController exposes the driver registry.
type DriverController struct {
	Fleet *services.Fleet
}

// ListDrivers returns every driver with its capacity summary.
func (dc *DriverController) ListDrivers(c *gin.Context) {
	drivers, err := dc.Fleet.Registry.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list drivers")
		return
	}

	out := make([]driverResponse, 0, len(drivers))
	for i, d := range drivers {
		out = append(out, toDriverResponse(i, d))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetDriver fetches a single driver by position.
func (dc *DriverController) GetDriver(c *gin.Context) {
	index, ok := parseIndex(c, "index", "driver")
	if !ok {
		return
	}

	driver, err := dc.Fleet.Registry.Get(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, "fetch driver")
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": toDriverResponse(index, driver)})
}

// CreateDriver appends a new driver to the fleet.
func (dc *DriverController) CreateDriver(c *gin.Context) {
	var input driverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver input: " + err.Error()})
		return
	}

	driver, index, err := dc.Fleet.Registry.Add(c.Request.Context(), input.toModel())
	if err != nil {
		respondError(c, err, "create driver")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": toDriverResponse(index, driver)})
}

// UpdateDriver replaces the driver at :index. When the body has no
// "vehicles" key the driver's current load is carried over.
func (dc *DriverController) UpdateDriver(c *gin.Context) {
	index, ok := parseIndex(c, "index", "driver")
	if !ok {
		return
	}

	var input driverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver input: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	var (
		driver models.Driver
		err    error
	)
	if input.Vehicles == nil {
		driver, err = dc.Fleet.Registry.UpdateDetails(ctx, index, input.toModel())
	} else {
		driver, err = dc.Fleet.Registry.Edit(ctx, index, input.toModel())
	}
	if err != nil {
		respondError(c, err, "update driver")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Driver updated successfully.",
		"driver":  toDriverResponse(index, driver),
	})
}

// DeleteDriver removes the driver at :index along with any vehicles it
// still carries.
func (dc *DriverController) DeleteDriver(c *gin.Context) {
	index, ok := parseIndex(c, "index", "driver")
	if !ok {
		return
	}

	removed, err := dc.Fleet.Registry.Delete(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, "delete driver")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":            "Driver deleted.",
		"discarded_vehicles": len(removed.Vehicles),
	})
}
