// Package gormstore keeps the fleet collections in PostgreSQL through GORM.
// Active vehicles live in the vehicles table under their driver; delivered
// vehicles are appended to archived_vehicles and never updated.
package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/store"
)

var _ store.Store = (*Store)(nil)

// archivedVehicle is the row shape of the archive table.
type archivedVehicle struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	SourceDriverID string `gorm:"type:varchar(36)"`
	MakeModelYear  string
	Comment        string
	Weight         float64
	Height         float64
	Length         float64
	Distance       float64
	DollarPerMile  float64
	DeliveredAt    *time.Time
	Position       int `gorm:"index"`
}

func (archivedVehicle) TableName() string { return "archived_vehicles" }

// Store is a GORM-backed store.Store.
type Store struct {
	db *gorm.DB
}

// New wraps an open GORM handle. Call Migrate before first use on a fresh
// database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the fleet tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Driver{}, &models.Vehicle{}, &archivedVehicle{}); err != nil {
		return fmt.Errorf("gormstore: auto-migration failed: %w", err)
	}
	return nil
}

func (s *Store) LoadDrivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := s.db.WithContext(ctx).
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("position ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, fmt.Errorf("gormstore: load drivers: %w", err)
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	for i := range drivers {
		drivers[i].Normalize()
	}
	return drivers, nil
}

func (s *Store) SaveDrivers(ctx context.Context, drivers []models.Driver) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDrivers(tx, drivers)
	})
}

func (s *Store) LoadArchive(ctx context.Context) ([]models.Vehicle, error) {
	var rows []archivedVehicle
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gormstore: load archive: %w", err)
	}
	archive := make([]models.Vehicle, len(rows))
	for i, r := range rows {
		archive[i] = models.Vehicle{
			ID:            r.ID,
			DriverID:      r.SourceDriverID,
			MakeModelYear: r.MakeModelYear,
			Comment:       r.Comment,
			Weight:        r.Weight,
			Height:        r.Height,
			Length:        r.Length,
			Distance:      r.Distance,
			DollarPerMile: r.DollarPerMile,
			DeliveredAt:   r.DeliveredAt,
			Position:      r.Position,
		}
	}
	return archive, nil
}

// SaveArchive inserts archive records not yet stored. Existing rows are left
// untouched since the archive is append-only.
func (s *Store) SaveArchive(ctx context.Context, archive []models.Vehicle) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendArchive(tx, archive)
	})
}

// Commit replaces the drivers and appends the archive in one transaction.
func (s *Store) Commit(ctx context.Context, drivers []models.Driver, archive []models.Vehicle) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendArchive(tx, archive); err != nil {
			return err
		}
		return replaceDrivers(tx, drivers)
	})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func replaceDrivers(tx *gorm.DB, drivers []models.Driver) error {
	if err := tx.Where("1 = 1").Delete(&models.Vehicle{}).Error; err != nil {
		return fmt.Errorf("gormstore: clear vehicles: %w", err)
	}
	if err := tx.Where("1 = 1").Delete(&models.Driver{}).Error; err != nil {
		return fmt.Errorf("gormstore: clear drivers: %w", err)
	}
	if len(drivers) == 0 {
		return nil
	}

	rows := make([]models.Driver, len(drivers))
	for i, d := range drivers {
		row := d.Clone()
		row.Position = i
		for j := range row.Vehicles {
			row.Vehicles[j].DriverID = row.ID
			row.Vehicles[j].Position = j
		}
		rows[i] = row
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("gormstore: insert drivers: %w", err)
	}
	return nil
}

func appendArchive(tx *gorm.DB, archive []models.Vehicle) error {
	if len(archive) == 0 {
		return nil
	}
	rows := make([]archivedVehicle, len(archive))
	for i, v := range archive {
		rows[i] = archivedVehicle{
			ID:             v.ID,
			SourceDriverID: v.DriverID,
			MakeModelYear:  v.MakeModelYear,
			Comment:        v.Comment,
			Weight:         v.Weight,
			Height:         v.Height,
			Length:         v.Length,
			Distance:       v.Distance,
			DollarPerMile:  v.DollarPerMile,
			DeliveredAt:    v.DeliveredAt,
			Position:       i,
		}
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 100).Error
	if err != nil {
		return fmt.Errorf("gormstore: append archive: %w", err)
	}
	return nil
}
