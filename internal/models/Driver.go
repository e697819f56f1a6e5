// internal/models/driver.go
package models

// Driver is one car carrier in the fleet together with the vehicles it is
// currently hauling. The capacity fields are budgets, not hard limits.
type Driver struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name               string    `json:"name"`
	VehicleCapacity    int       `json:"vehicle_capacity"`     // max vehicles carried at once
	AllowedTotalWeight float64   `json:"allowed_total_weight"` // lbs, rig + cargo
	AllowedCargoWeight float64   `json:"allowed_cargo_weight"` // lbs
	CarrierLengthLimit float64   `json:"carrier_length_limit"` // ft
	SafeDistance       float64   `json:"safe_distance"`        // ft of spacing per loaded vehicle
	Vehicles           []Vehicle `json:"vehicles" gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// Position keeps fleet order in the database; it is not part of the JSON record.
	Position int `json:"-" gorm:"index"`
}

// Normalize replaces a nil vehicle list with an empty one so that a driver
// always serializes as "vehicles": [].
func (d *Driver) Normalize() {
	if d.Vehicles == nil {
		d.Vehicles = []Vehicle{}
	}
}

// Clone returns a copy of the driver that shares no vehicle storage with d.
func (d Driver) Clone() Driver {
	out := d
	out.Vehicles = make([]Vehicle, len(d.Vehicles))
	for i, v := range d.Vehicles {
		out.Vehicles[i] = v.Clone()
	}
	return out
}
