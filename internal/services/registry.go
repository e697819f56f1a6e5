package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/store"
)

// DriverRegistry manages the drivers collection. Drivers are addressed by
// their position in the list; ids are stable across edits and deletions of
// other drivers.
type DriverRegistry struct {
	store store.Store
	mu    *sync.RWMutex
}

// List returns all drivers in fleet order.
func (r *DriverRegistry) List(ctx context.Context) ([]models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.LoadDrivers(ctx)
}

// Get returns the driver at index.
func (r *DriverRegistry) Get(ctx context.Context, index int) (models.Driver, error) {
	drivers, err := r.List(ctx)
	if err != nil {
		return models.Driver{}, err
	}
	if err := checkIndex(DriverIndex, index, len(drivers)); err != nil {
		return models.Driver{}, err
	}
	return drivers[index], nil
}

// GetByID returns the driver with the given id and its current position.
func (r *DriverRegistry) GetByID(ctx context.Context, id string) (models.Driver, int, error) {
	drivers, err := r.List(ctx)
	if err != nil {
		return models.Driver{}, -1, err
	}
	i := indexOfDriver(drivers, id)
	if i < 0 {
		return models.Driver{}, -1, fmt.Errorf("driver %q: %w", id, ErrNotFound)
	}
	return drivers[i], i, nil
}

// Add appends d to the fleet and returns it with fresh ids assigned, along
// with its position.
func (r *DriverRegistry) Add(ctx context.Context, d models.Driver) (models.Driver, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drivers, err := r.store.LoadDrivers(ctx)
	if err != nil {
		return models.Driver{}, -1, err
	}

	d = prepareDriver(d, nil)
	d.ID = uuid.NewString()
	drivers = append(drivers, d)
	if err := r.store.SaveDrivers(ctx, drivers); err != nil {
		return models.Driver{}, -1, fmt.Errorf("add driver: %w", err)
	}

	logrus.WithFields(logrus.Fields{"driver_id": d.ID, "name": d.Name}).Info("driver added")
	return d, len(drivers) - 1, nil
}

// Edit replaces the whole record at index, vehicles included. The driver
// keeps its id, and so does any passed vehicle whose id matches one already
// loaded on the driver; other vehicles get new ids. Callers that only mean
// to change header fields should use UpdateDetails.
func (r *DriverRegistry) Edit(ctx context.Context, index int, d models.Driver) (models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drivers, err := r.store.LoadDrivers(ctx)
	if err != nil {
		return models.Driver{}, err
	}
	if err := checkIndex(DriverIndex, index, len(drivers)); err != nil {
		return models.Driver{}, err
	}

	d = prepareDriver(d, drivers[index].Vehicles)
	d.ID = drivers[index].ID
	drivers[index] = d
	if err := r.store.SaveDrivers(ctx, drivers); err != nil {
		return models.Driver{}, fmt.Errorf("edit driver: %w", err)
	}

	logrus.WithFields(logrus.Fields{"driver_id": d.ID, "index": index}).Info("driver updated")
	return d, nil
}

// UpdateDetails replaces every field of the driver at index except its id
// and its current vehicle list.
func (r *DriverRegistry) UpdateDetails(ctx context.Context, index int, d models.Driver) (models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drivers, err := r.store.LoadDrivers(ctx)
	if err != nil {
		return models.Driver{}, err
	}
	if err := checkIndex(DriverIndex, index, len(drivers)); err != nil {
		return models.Driver{}, err
	}

	current := drivers[index]
	d = d.Clone()
	d.ID = current.ID
	d.Vehicles = current.Vehicles
	drivers[index] = d
	if err := r.store.SaveDrivers(ctx, drivers); err != nil {
		return models.Driver{}, fmt.Errorf("update driver: %w", err)
	}

	logrus.WithFields(logrus.Fields{"driver_id": d.ID, "index": index}).Info("driver details updated")
	return d, nil
}

// Delete removes the driver at index and returns it. Vehicles still loaded
// on the driver are dropped with it, not archived.
func (r *DriverRegistry) Delete(ctx context.Context, index int) (models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drivers, err := r.store.LoadDrivers(ctx)
	if err != nil {
		return models.Driver{}, err
	}
	if err := checkIndex(DriverIndex, index, len(drivers)); err != nil {
		return models.Driver{}, err
	}

	removed := drivers[index]
	drivers = append(drivers[:index], drivers[index+1:]...)
	if err := r.store.SaveDrivers(ctx, drivers); err != nil {
		return models.Driver{}, fmt.Errorf("delete driver: %w", err)
	}

	entry := logrus.WithFields(logrus.Fields{"driver_id": removed.ID, "name": removed.Name})
	if n := len(removed.Vehicles); n > 0 {
		entry.WithField("discarded_vehicles", n).Warn("driver deleted while still loaded")
	} else {
		entry.Info("driver deleted")
	}
	return removed, nil
}

// AddVehicle loads v on the driver at driverIndex and returns the stored
// vehicle together with the driver as saved. No capacity check is made; see
// ComputeCapacity for the resulting budgets.
func (r *DriverRegistry) AddVehicle(ctx context.Context, driverIndex int, v models.Vehicle) (models.Vehicle, models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drivers, err := r.store.LoadDrivers(ctx)
	if err != nil {
		return models.Vehicle{}, models.Driver{}, err
	}
	if err := checkIndex(DriverIndex, driverIndex, len(drivers)); err != nil {
		return models.Vehicle{}, models.Driver{}, err
	}

	d := &drivers[driverIndex]
	v = prepareVehicle(v, nil, map[string]struct{}{})
	v.DriverID = d.ID
	d.Vehicles = append(d.Vehicles, v)
	if err := r.store.SaveDrivers(ctx, drivers); err != nil {
		return models.Vehicle{}, models.Driver{}, fmt.Errorf("add vehicle: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver_id":  d.ID,
		"vehicle_id": v.ID,
		"loaded":     len(d.Vehicles),
		"capacity":   d.VehicleCapacity,
	}).Info("vehicle loaded")
	return v, d.Clone(), nil
}

// prepareDriver copies d, clears any delivery stamps and gives every vehicle
// an id. An id already used by a vehicle in current is kept for its first
// occurrence; anything else gets a fresh one so an archived vehicle can never
// reappear on a driver and no id appears twice.
func prepareDriver(d models.Driver, current []models.Vehicle) models.Driver {
	d = d.Clone()
	d.Normalize()
	seen := make(map[string]struct{}, len(d.Vehicles))
	for i := range d.Vehicles {
		d.Vehicles[i] = prepareVehicle(d.Vehicles[i], current, seen)
	}
	return d
}

func prepareVehicle(v models.Vehicle, current []models.Vehicle, seen map[string]struct{}) models.Vehicle {
	_, dup := seen[v.ID]
	if v.ID == "" || dup || indexOfVehicle(current, v.ID) < 0 {
		v.ID = uuid.NewString()
	}
	seen[v.ID] = struct{}{}
	v.DeliveredAt = nil
	return v
}

func indexOfDriver(drivers []models.Driver, id string) int {
	for i := range drivers {
		if drivers[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfVehicle(vehicles []models.Vehicle, id string) int {
	for i := range vehicles {
		if vehicles[i].ID == id {
			return i
		}
	}
	return -1
}
