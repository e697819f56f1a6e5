package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/services"
)

// driverResponse is a driver as the API shows it: its position in the
// fleet, the stored record and the computed capacity summary.
type driverResponse struct {
	Index int `json:"index"`
	models.Driver
	Capacity capacityResponse `json:"capacity"`
}

// capacityResponse rounds the calculator's values for display.
type capacityResponse struct {
	Loaded          int     `json:"loaded"`
	VehicleCapacity int     `json:"vehicle_capacity"`
	RemainingWeight float64 `json:"remaining_weight"`
	RemainingLength float64 `json:"remaining_length"`
	TotalRate       float64 `json:"total_rate"`
	Overloaded      bool    `json:"overloaded"`
}

func toDriverResponse(index int, d models.Driver) driverResponse {
	c := services.ComputeCapacity(d)
	return driverResponse{
		Index:  index,
		Driver: d,
		Capacity: capacityResponse{
			Loaded:          c.Loaded,
			VehicleCapacity: c.VehicleCapacity,
			RemainingWeight: c.RemainingWeight,
			RemainingLength: c.DisplayLength(),
			TotalRate:       c.DisplayRate(),
			Overloaded:      c.Overloaded(),
		},
	}
}

// parseIndex reads a positional path parameter such as :index or :vehicle.
func parseIndex(c *gin.Context, param, what string) (int, bool) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " index format."})
		return 0, false
	}
	return n, true
}

// respondError maps service errors onto HTTP responses. Unknown positions and
// ids are the caller's problem; anything else is logged as a server fault.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrInvalidIndex), errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error(action + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + "."})
	}
}
