// internal/models/vehicle.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Vehicle is a single car loaded on a driver. Once delivered it moves to the
// archive with DeliveredAt set and never changes again.
type Vehicle struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DriverID      string     `json:"-" gorm:"index;type:varchar(36)"` // owning driver while active
	MakeModelYear string     `json:"make_model_year"`
	Comment       string     `json:"comment"`
	Weight        float64    `json:"weight"`   // lbs
	Height        float64    `json:"height"`   // ft
	Length        float64    `json:"length"`   // ft
	Distance      float64    `json:"distance"` // miles
	DollarPerMile float64    `json:"dollar_per_mile"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`

	Position int `json:"-"`
}

// UnmarshalJSON accepts delivered_at with or without a zone offset; older
// archive files were written with naive ISO-8601 timestamps, read as UTC.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	// Alias to avoid infinite recursion during unmarshaling.
	type alias Vehicle
	aux := &struct {
		DeliveredAt *string `json:"delivered_at"`
		*alias
	}{alias: (*alias)(v)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	v.DeliveredAt = nil
	if aux.DeliveredAt == nil || *aux.DeliveredAt == "" {
		return nil
	}
	t, err := ParseTimestamp(*aux.DeliveredAt)
	if err != nil {
		return err
	}
	v.DeliveredAt = &t
	return nil
}

// ParseTimestamp parses an RFC 3339 timestamp, assuming UTC when the time
// carries no zone designator.
func ParseTimestamp(raw string) (time.Time, error) {
	ts := strings.TrimSpace(raw)
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		clock := ts[i+1:]
		if !strings.HasSuffix(clock, "Z") && !strings.ContainsAny(clock, "+-") {
			ts += "Z"
		}
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t, nil
}

// Delivered reports whether the vehicle has been stamped with a delivery time.
func (v Vehicle) Delivered() bool {
	return v.DeliveredAt != nil
}

// Clone copies the vehicle, including its own copy of DeliveredAt.
func (v Vehicle) Clone() Vehicle {
	out := v
	if v.DeliveredAt != nil {
		t := *v.DeliveredAt
		out.DeliveredAt = &t
	}
	return out
}
