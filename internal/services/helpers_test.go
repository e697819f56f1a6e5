package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/store"
	"carhaul_tracker/internal/store/jsonstore"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestFleet(t *testing.T) (*Fleet, *jsonstore.Store) {
	t.Helper()
	st, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)
	return NewFleet(st, func() time.Time { return fixedNow }), st
}

func vehicle(name string, weight, length, rate float64) models.Vehicle {
	return models.Vehicle{
		MakeModelYear: name,
		Weight:        weight,
		Height:        5.5,
		Length:        length,
		Distance:      420,
		DollarPerMile: rate,
	}
}

// failingStore wraps a real store and fails Commit or SaveDrivers on demand.
type failingStore struct {
	store.Store
	failCommit bool
	failSave   bool
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Commit(ctx context.Context, drivers []models.Driver, archive []models.Vehicle) error {
	if f.failCommit {
		return errDiskFull
	}
	return f.Store.Commit(ctx, drivers, archive)
}

func (f *failingStore) SaveDrivers(ctx context.Context, drivers []models.Driver) error {
	if f.failSave {
		return errDiskFull
	}
	return f.Store.SaveDrivers(ctx, drivers)
}
