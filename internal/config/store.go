package config

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"carhaul_tracker/internal/store"
	"carhaul_tracker/internal/store/gormstore"
	"carhaul_tracker/internal/store/jsonstore"
)

// OpenStore opens the persistence backend selected by StoreDriver. The
// PostgreSQL schema is migrated before the store is returned.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case StoreJSON, "":
		st, err := jsonstore.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logrus.WithField("dir", st.Dir()).Info("Using JSON file store")
		return st, nil

	case StorePostgres:
		db, err := OpenDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		st := gormstore.New(db)
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"host":   cfg.DB.Host,
			"db":     cfg.DB.Name,
			"driver": cfg.DB.SQLDriver,
		}).Info("Connected to PostgreSQL store")
		return st, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", cfg.StoreDriver, StoreJSON, StorePostgres)
	}
}
