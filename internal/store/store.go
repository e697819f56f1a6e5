// Package store defines the persistence boundary for the two fleet
// collections: the drivers (with their active vehicles) and the archive of
// delivered vehicles. Both collections are loaded and saved whole.
package store

import (
	"context"

	"carhaul_tracker/internal/models"
)

// Store reads and writes the drivers and archive collections.
//
// Load methods must treat a missing or unreadable collection as empty rather
// than failing; errors are reserved for real I/O or database failures.
type Store interface {
	LoadDrivers(ctx context.Context) ([]models.Driver, error)
	SaveDrivers(ctx context.Context, drivers []models.Driver) error

	LoadArchive(ctx context.Context) ([]models.Vehicle, error)
	SaveArchive(ctx context.Context, archive []models.Vehicle) error

	// Commit persists both collections as a single unit: after it returns
	// nil, neither collection reflects a state the other does not.
	Commit(ctx context.Context, drivers []models.Driver, archive []models.Vehicle) error

	Close() error
}
