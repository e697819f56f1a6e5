package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carhaul_tracker/internal/models"
)

func TestRegistry_AddAssignsIDs(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	d := aliceDriver()
	added, index, err := fleet.Registry.Add(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, 0, index)
	assert.NotEmpty(t, added.ID)
	require.Len(t, added.Vehicles, 1)
	assert.NotEmpty(t, added.Vehicles[0].ID)
	assert.Empty(t, d.Vehicles[0].ID, "caller's driver must not be modified")

	drivers, err := fleet.Registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, added.ID, drivers[0].ID)
	assert.Equal(t, "Alice", drivers[0].Name)
}

func TestRegistry_AddAllowsDuplicateNames(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	first, _, err := fleet.Registry.Add(ctx, models.Driver{Name: "Bob"})
	require.NoError(t, err)
	second, index, err := fleet.Registry.Add(ctx, models.Driver{Name: "Bob"})
	require.NoError(t, err)

	assert.Equal(t, 1, index)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotNil(t, second.Vehicles)
}

func TestRegistry_Get(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	got, err := fleet.Registry.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	byID, pos, err := fleet.Registry.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Equal(t, added, byID)

	_, err = fleet.Registry.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, _, err = fleet.Registry.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_EditReplacesWholeRecord(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	edited, err := fleet.Registry.Edit(ctx, 0, models.Driver{
		ID:                 "some-other-id",
		Name:               "Alice B.",
		VehicleCapacity:    9,
		AllowedCargoWeight: 20000,
	})
	require.NoError(t, err)

	assert.Equal(t, added.ID, edited.ID, "id survives an edit")
	assert.Equal(t, "Alice B.", edited.Name)
	assert.Empty(t, edited.Vehicles, "edit without vehicles drops them")

	stored, err := fleet.Registry.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, edited, stored)
}

func TestRegistry_EditKeepsVehiclesWhenPassedBack(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	header := added
	header.Name = "Alice Cooper"
	edited, err := fleet.Registry.Edit(ctx, 0, header)
	require.NoError(t, err)

	assert.Equal(t, added.Vehicles, edited.Vehicles)
}

func TestRegistry_InvalidIndex(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	_, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 42} {
		_, err := fleet.Registry.Edit(ctx, index, models.Driver{Name: "x"})
		assert.ErrorIs(t, err, ErrInvalidIndex)

		_, err = fleet.Registry.Delete(ctx, index)
		assert.ErrorIs(t, err, ErrInvalidIndex)

		_, _, err = fleet.Registry.AddVehicle(ctx, index, vehicle("Kia Rio 2019", 2600, 14, 0.5))
		assert.ErrorIs(t, err, ErrInvalidIndex)

		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, DriverIndex, ie.Kind)
		assert.Equal(t, index, ie.Index)
		assert.Equal(t, 1, ie.Len)
	}

	drivers, err := fleet.Registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Len(t, drivers[0].Vehicles, 1)
}

func TestRegistry_DeleteDiscardsVehicles(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	alice, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)
	bob, _, err := fleet.Registry.Add(ctx, models.Driver{Name: "Bob"})
	require.NoError(t, err)

	removed, err := fleet.Registry.Delete(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, removed.ID)
	assert.Len(t, removed.Vehicles, 1)

	drivers, err := fleet.Registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, bob.ID, drivers[0].ID)

	archive, err := fleet.Delivery.ListArchive(ctx)
	require.NoError(t, err)
	assert.Empty(t, archive, "deleted vehicles are not archived")
}

func TestRegistry_AddVehicle(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	_, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	stale := time.Now()
	v := vehicle("Honda Civic 2020", 2900, 15, 0)
	v.DeliveredAt = &stale
	added, driver, err := fleet.Registry.AddVehicle(ctx, 0, v)
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	require.Len(t, driver.Vehicles, 2)
	assert.Equal(t, added.ID, driver.Vehicles[1].ID)
	assert.Nil(t, added.DeliveredAt)
	assert.Zero(t, added.DollarPerMile)

	d, err := fleet.Registry.Get(ctx, 0)
	require.NoError(t, err)
	require.Len(t, d.Vehicles, 2)
	assert.Equal(t, "Honda Civic 2020", d.Vehicles[1].MakeModelYear, "appended in load order")
	assert.Equal(t, added.ID, d.Vehicles[1].ID)
}

func TestRegistry_AddVehicleIgnoresCapacity(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	_, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _, err := fleet.Registry.AddVehicle(ctx, 0, vehicle("Tahoe 2022", 5600, 17, 1))
		require.NoError(t, err)
	}

	d, err := fleet.Registry.Get(ctx, 0)
	require.NoError(t, err)
	c := ComputeCapacity(d)
	assert.Equal(t, 4, c.Loaded)
	assert.True(t, c.Overloaded())
	assert.Less(t, c.RemainingWeight, 0.0)
	assert.Zero(t, c.RemainingLength)
}

func TestRegistry_SaveFailure(t *testing.T) {
	_, st := newTestFleet(t)
	fs := &failingStore{Store: st, failSave: true}
	fleet := NewFleet(fs, nil)

	_, _, err := fleet.Registry.Add(context.Background(), aliceDriver())
	assert.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "add driver")
}

func TestRegistry_UpdateDetailsKeepsLoad(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)

	updated, err := fleet.Registry.UpdateDetails(ctx, 0, models.Driver{
		Name:               "Alice",
		VehicleCapacity:    3,
		AllowedCargoWeight: 12000,
		Vehicles:           []models.Vehicle{vehicle("ignored", 1, 1, 1)},
	})
	require.NoError(t, err)

	assert.Equal(t, added.ID, updated.ID)
	assert.Equal(t, 3, updated.VehicleCapacity)
	assert.Equal(t, added.Vehicles, updated.Vehicles)

	_, err = fleet.Registry.UpdateDetails(ctx, 5, models.Driver{})
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRegistry_ArchivedVehicleCannotReturn(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)
	delivered, err := fleet.Delivery.Deliver(ctx, 0, 0)
	require.NoError(t, err)

	// A stale client sends the old load back with the archived vehicle in it.
	stale := added
	edited, err := fleet.Registry.Edit(ctx, 0, stale)
	require.NoError(t, err)
	require.Len(t, edited.Vehicles, 1)
	assert.NotEqual(t, delivered.ID, edited.Vehicles[0].ID)
	assert.Nil(t, edited.Vehicles[0].DeliveredAt)

	reused := vehicle("Reused", 1, 1, 1)
	reused.ID = delivered.ID
	v, _, err := fleet.Registry.AddVehicle(ctx, 0, reused)
	require.NoError(t, err)
	assert.NotEqual(t, delivered.ID, v.ID)
}

func TestRegistry_AddIgnoresClientIDs(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	d := aliceDriver()
	d.ID = "chosen-by-client"
	d.Vehicles[0].ID = "also-chosen"

	added, _, err := fleet.Registry.Add(ctx, d)
	require.NoError(t, err)
	assert.NotEqual(t, "chosen-by-client", added.ID)
	assert.NotEqual(t, "also-chosen", added.Vehicles[0].ID)
}

func TestRegistry_EditRepeatedVehicleGetsNewID(t *testing.T) {
	fleet, _ := newTestFleet(t)
	ctx := context.Background()

	added, _, err := fleet.Registry.Add(ctx, aliceDriver())
	require.NoError(t, err)
	loaded := added.Vehicles[0]

	twice := added
	twice.Vehicles = []models.Vehicle{loaded, loaded}
	edited, err := fleet.Registry.Edit(ctx, 0, twice)
	require.NoError(t, err)
	require.Len(t, edited.Vehicles, 2)
	assert.Equal(t, loaded.ID, edited.Vehicles[0].ID)
	assert.NotEqual(t, loaded.ID, edited.Vehicles[1].ID)

	delivered, err := fleet.Delivery.DeliverByID(ctx, added.ID, loaded.ID)
	require.NoError(t, err)

	d, err := fleet.Registry.Get(ctx, 0)
	require.NoError(t, err)
	require.Len(t, d.Vehicles, 1)
	assert.NotEqual(t, delivered.ID, d.Vehicles[0].ID)
}
