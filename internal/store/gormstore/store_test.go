package gormstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"carhaul_tracker/internal/models"
)

// openTestStore connects to TEST_DATABASE_DSN and starts from empty tables.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test - set TEST_DATABASE_DSN to a disposable PostgreSQL database")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	s := New(db)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, db.Exec("TRUNCATE vehicles, drivers, archived_vehicles").Error)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fleet() []models.Driver {
	return []models.Driver{
		{
			ID:                 "11111111-1111-1111-1111-111111111111",
			Name:               "Alice",
			VehicleCapacity:    2,
			AllowedCargoWeight: 10000,
			CarrierLengthLimit: 40,
			SafeDistance:       2,
			Vehicles: []models.Vehicle{
				{ID: "aaaaaaaa-0000-0000-0000-000000000001", MakeModelYear: "Camry 2020", Weight: 3000, Length: 18, DollarPerMile: 1.2},
				{ID: "aaaaaaaa-0000-0000-0000-000000000002", MakeModelYear: "Civic 2019", Weight: 2800, Length: 15},
			},
		},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Bob", Vehicles: []models.Vehicle{}},
	}
}

func TestStore_DriversKeepOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDrivers(ctx, fleet()))

	loaded, err := s.LoadDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Alice", loaded[0].Name)
	assert.Equal(t, "Bob", loaded[1].Name)
	require.Len(t, loaded[0].Vehicles, 2)
	assert.Equal(t, "Camry 2020", loaded[0].Vehicles[0].MakeModelYear)
	assert.Equal(t, "Civic 2019", loaded[0].Vehicles[1].MakeModelYear)
	assert.NotNil(t, loaded[1].Vehicles)
}

func TestStore_CommitMovesVehicle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDrivers(ctx, fleet()))

	drivers := fleet()
	delivered := drivers[0].Vehicles[0]
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	delivered.DeliveredAt = &at
	delivered.DriverID = drivers[0].ID
	drivers[0].Vehicles = drivers[0].Vehicles[1:]

	require.NoError(t, s.Commit(ctx, drivers, []models.Vehicle{delivered}))
	// Re-committing the same archive must not duplicate rows.
	require.NoError(t, s.Commit(ctx, drivers, []models.Vehicle{delivered}))

	loaded, err := s.LoadDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded[0].Vehicles, 1)
	assert.Equal(t, "Civic 2019", loaded[0].Vehicles[0].MakeModelYear)

	archive, err := s.LoadArchive(ctx)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, delivered.ID, archive[0].ID)
	assert.Equal(t, drivers[0].ID, archive[0].DriverID)
	require.NotNil(t, archive[0].DeliveredAt)
	assert.True(t, archive[0].DeliveredAt.Equal(at))
}
