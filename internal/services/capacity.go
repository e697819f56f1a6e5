package services

import (
	"math"

	"carhaul_tracker/internal/models"
)

// Capacity is what is left of a driver's budgets given the current load.
type Capacity struct {
	Loaded          int     `json:"loaded"`
	VehicleCapacity int     `json:"vehicle_capacity"`
	RemainingWeight float64 `json:"remaining_weight"` // may be negative
	RemainingLength float64 `json:"remaining_length"` // never below zero
	TotalRate       float64 `json:"total_rate"`
}

// ComputeCapacity derives the load summary for d. Weight is reported raw so an
// overweight rig shows a negative number; length stops at zero.
func ComputeCapacity(d models.Driver) Capacity {
	c := Capacity{
		Loaded:          len(d.Vehicles),
		VehicleCapacity: d.VehicleCapacity,
	}

	var weight, length float64
	for _, v := range d.Vehicles {
		weight += v.Weight
		length += v.Length
		c.TotalRate += v.DollarPerMile
	}

	c.RemainingWeight = d.AllowedCargoWeight - weight
	used := length + float64(c.Loaded)*d.SafeDistance
	c.RemainingLength = math.Max(0, d.CarrierLengthLimit-used)
	return c
}

// Overloaded reports whether the load exceeds the vehicle count or cargo
// weight budget. It is informational; nothing refuses a load because of it.
func (c Capacity) Overloaded() bool {
	return c.Loaded > c.VehicleCapacity || c.RemainingWeight < 0
}

// DisplayRate is TotalRate rounded to cents for presentation.
func (c Capacity) DisplayRate() float64 {
	return roundTo(c.TotalRate, 2)
}

// DisplayLength is RemainingLength rounded to two places for presentation.
func (c Capacity) DisplayLength() float64 {
	return roundTo(c.RemainingLength, 2)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
