package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/store"
)

// DeliveryService moves vehicles from a driver's load into the archive.
// The move is one-way: archived vehicles never return to a driver.
type DeliveryService struct {
	store store.Store
	mu    *sync.RWMutex
	now   func() time.Time
}

// Deliver archives the vehicle at vehicleIndex on the driver at driverIndex.
// Vehicles after it shift down one position. On an invalid index nothing is
// written and the returned error matches ErrInvalidIndex.
func (s *DeliveryService) Deliver(ctx context.Context, driverIndex, vehicleIndex int) (models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drivers, err := s.store.LoadDrivers(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	if err := checkIndex(DriverIndex, driverIndex, len(drivers)); err != nil {
		return models.Vehicle{}, err
	}
	if err := checkIndex(VehicleIndex, vehicleIndex, len(drivers[driverIndex].Vehicles)); err != nil {
		return models.Vehicle{}, err
	}
	return s.deliver(ctx, drivers, driverIndex, vehicleIndex)
}

// DeliverByID is Deliver addressed by stable ids instead of positions.
func (s *DeliveryService) DeliverByID(ctx context.Context, driverID, vehicleID string) (models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drivers, err := s.store.LoadDrivers(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}
	di := indexOfDriver(drivers, driverID)
	if di < 0 {
		return models.Vehicle{}, fmt.Errorf("driver %q: %w", driverID, ErrNotFound)
	}
	vi := indexOfVehicle(drivers[di].Vehicles, vehicleID)
	if vi < 0 {
		return models.Vehicle{}, fmt.Errorf("vehicle %q on driver %q: %w", vehicleID, driverID, ErrNotFound)
	}
	return s.deliver(ctx, drivers, di, vi)
}

// ListArchive returns every delivered vehicle in delivery order.
func (s *DeliveryService) ListArchive(ctx context.Context) ([]models.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.LoadArchive(ctx)
}

// deliver performs the transition on already validated positions and commits
// both collections together. Callers hold s.mu.
func (s *DeliveryService) deliver(ctx context.Context, drivers []models.Driver, di, vi int) (models.Vehicle, error) {
	archive, err := s.store.LoadArchive(ctx)
	if err != nil {
		return models.Vehicle{}, err
	}

	d := &drivers[di]
	v := d.Vehicles[vi].Clone()
	d.Vehicles = slices.Delete(d.Vehicles, vi, vi+1)

	stamp := s.now().UTC()
	v.DeliveredAt = &stamp
	v.DriverID = d.ID
	archive = append(archive, v)

	if err := s.store.Commit(ctx, drivers, archive); err != nil {
		return models.Vehicle{}, fmt.Errorf("deliver vehicle: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"driver_id":    d.ID,
		"vehicle_id":   v.ID,
		"vehicle":      v.MakeModelYear,
		"delivered_at": stamp.Format(time.RFC3339),
	}).Info("vehicle delivered")
	return v, nil
}
