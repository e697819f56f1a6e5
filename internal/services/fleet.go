// Package services holds the fleet's business rules: capacity accounting,
// the driver registry and the delivery transition. Every mutation is a full
// load, modify, save cycle against a store.Store, serialized by one lock
// shared between the registry and the delivery engine.
package services

import (
	"sync"
	"time"

	"carhaul_tracker/internal/store"
)

// Fleet bundles the registry and the delivery engine over one store.
type Fleet struct {
	Registry *DriverRegistry
	Delivery *DeliveryService
}

// NewFleet builds both services around st. Passing a nil clock uses time.Now.
func NewFleet(st store.Store, clock func() time.Time) *Fleet {
	if clock == nil {
		clock = time.Now
	}
	mu := &sync.RWMutex{}
	return &Fleet{
		Registry: &DriverRegistry{store: st, mu: mu},
		Delivery: &DeliveryService{store: st, mu: mu, now: clock},
	}
}
