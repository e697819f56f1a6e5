// Package jsonstore keeps the fleet collections as indented JSON arrays on
// disk, one file per collection. Commits that touch both collections go
// through a journal file so an interrupted write is finished on next open.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"carhaul_tracker/internal/models"
	"carhaul_tracker/internal/store"
)

const (
	DriversFile = "drivers.json"
	ArchiveFile = "archived_vehicles.json"
	JournalFile = "commit.journal"
)

var _ store.Store = (*Store)(nil)

// Store is a file-backed store.Store rooted at a data directory.
type Store struct {
	dir string
	mu  sync.Mutex

	// rename moves a fully written temp file over its target.
	rename func(oldpath, newpath string) error
}

// journal holds both collections of an in-flight commit.
type journal struct {
	Drivers []models.Driver  `json:"drivers"`
	Archive []models.Vehicle `json:"archive"`
}

// Open prepares dir for use: it finishes any interrupted commit, seeds
// missing collection files with an empty list, sets malformed ones aside and
// assigns identifiers to records written before identifiers existed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create data dir %q: %w", dir, err)
	}

	s := &Store{dir: dir, rename: os.Rename}
	if err := s.replayJournal(); err != nil {
		return nil, err
	}
	for _, name := range []string{DriversFile, ArchiveFile} {
		if err := s.prepare(name); err != nil {
			return nil, err
		}
	}
	if err := s.backfillIDs(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) LoadDrivers(ctx context.Context) ([]models.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settle(); err != nil {
		return nil, err
	}
	drivers, err := readList[models.Driver](s.path(DriversFile))
	if err != nil {
		return nil, err
	}
	for i := range drivers {
		drivers[i].Normalize()
	}
	return drivers, nil
}

func (s *Store) SaveDrivers(ctx context.Context, drivers []models.Driver) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settle(); err != nil {
		return err
	}
	return writeList(s, DriversFile, drivers)
}

func (s *Store) LoadArchive(ctx context.Context) ([]models.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settle(); err != nil {
		return nil, err
	}
	return readList[models.Vehicle](s.path(ArchiveFile))
}

func (s *Store) SaveArchive(ctx context.Context, archive []models.Vehicle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settle(); err != nil {
		return err
	}
	return writeList(s, ArchiveFile, archive)
}

// Commit writes the journal first, then both collection files, then drops
// the journal. If a collection file cannot be replaced, the files already
// replaced are restored and the journal is dropped, so a failed commit
// changes nothing. Only a crash, or a failed restore, leaves the journal
// behind; it is then finished before the store is next read or written.
func (s *Store) Commit(ctx context.Context, drivers []models.Driver, archive []models.Vehicle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.settle(); err != nil {
		return err
	}

	before, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	j := journal{Drivers: nonNil(drivers), Archive: nonNil(archive)}
	if err := s.writeJSON(JournalFile, j); err != nil {
		return fmt.Errorf("commit: write journal: %w", err)
	}
	if written, err := s.apply(j); err != nil {
		if rerr := s.restore(before, written); rerr != nil {
			return fmt.Errorf("commit: %w (restore failed, journal kept: %v)", err, rerr)
		}
		if rerr := s.removeJournal(); rerr != nil {
			return fmt.Errorf("commit: %w (journal kept: %v)", err, rerr)
		}
		return fmt.Errorf("commit: %w", err)
	}
	if err := s.removeJournal(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// commitOrder is the order apply replaces files in.
var commitOrder = []string{ArchiveFile, DriversFile}

// apply replaces both collection files and returns the names it replaced
// before any error.
func (s *Store) apply(j journal) ([]string, error) {
	var written []string
	for _, name := range commitOrder {
		var err error
		if name == ArchiveFile {
			err = writeList(s, name, j.Archive)
		} else {
			err = writeList(s, name, j.Drivers)
		}
		if err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

// snapshot reads the raw content of both collection files.
func (s *Store) snapshot() (map[string][]byte, error) {
	out := make(map[string][]byte, len(commitOrder))
	for _, name := range commitOrder {
		data, err := os.ReadFile(s.path(name))
		if errors.Is(err, fs.ErrNotExist) {
			data = []byte("[]")
		} else if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

func (s *Store) restore(before map[string][]byte, names []string) error {
	for _, name := range names {
		if err := s.writeRaw(name, before[name]); err != nil {
			return err
		}
	}
	if len(names) > 0 {
		logrus.WithField("files", names).Warn("jsonstore: commit failed, restored previous collections")
	}
	return nil
}

// settle finishes a journal left by an earlier commit. Callers hold s.mu.
func (s *Store) settle() error {
	if _, err := os.Stat(s.path(JournalFile)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return s.replayJournal()
}

func (s *Store) removeJournal() error {
	if err := os.Remove(s.path(JournalFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove journal: %w", err)
	}
	return nil
}

func (s *Store) replayJournal() error {
	data, err := os.ReadFile(s.path(JournalFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonstore: read journal: %w", err)
	}

	var j journal
	if err := json.Unmarshal(data, &j); err != nil {
		// The journal is renamed into place only once fully written, so a
		// broken one never reached the collection files.
		logrus.WithError(err).Warn("jsonstore: discarding unreadable commit journal")
	} else {
		if _, err := s.apply(j); err != nil {
			return fmt.Errorf("jsonstore: replay journal: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"drivers":  len(j.Drivers),
			"archived": len(j.Archive),
		}).Info("jsonstore: replayed interrupted commit")
	}
	if err := s.removeJournal(); err != nil {
		return fmt.Errorf("jsonstore: %w", err)
	}
	return nil
}

// prepare seeds a missing collection file with an empty list and moves a
// malformed one aside so its content is kept while the store starts empty.
func (s *Store) prepare(name string) error {
	data, err := os.ReadFile(s.path(name))
	if err == nil {
		if decodes(name, data) {
			return nil
		}
		aside := fmt.Sprintf("%s.malformed-%d", name, time.Now().Unix())
		if err := os.Rename(s.path(name), s.path(aside)); err != nil {
			return fmt.Errorf("jsonstore: set aside malformed %s: %w", name, err)
		}
		logrus.WithField("kept_as", aside).Warnf("jsonstore: %s is malformed, starting with an empty list", name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("jsonstore: read %s: %w", name, err)
	}

	if err := os.WriteFile(s.path(name), []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("jsonstore: seed %s: %w", name, err)
	}
	return nil
}

func decodes(name string, data []byte) bool {
	var err error
	switch name {
	case DriversFile:
		err = json.Unmarshal(data, new([]models.Driver))
	default:
		err = json.Unmarshal(data, new([]models.Vehicle))
	}
	return err == nil
}

func (s *Store) backfillIDs() error {
	ctx := context.Background()
	drivers, err := s.LoadDrivers(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range drivers {
		if drivers[i].ID == "" {
			drivers[i].ID = uuid.NewString()
			changed = true
		}
		for j := range drivers[i].Vehicles {
			if drivers[i].Vehicles[j].ID == "" {
				drivers[i].Vehicles[j].ID = uuid.NewString()
				changed = true
			}
		}
	}
	if changed {
		if err := s.SaveDrivers(ctx, drivers); err != nil {
			return err
		}
	}

	archive, err := s.LoadArchive(ctx)
	if err != nil {
		return err
	}
	changed = false
	for i := range archive {
		if archive[i].ID == "" {
			archive[i].ID = uuid.NewString()
			changed = true
		}
	}
	if changed {
		return s.SaveArchive(ctx, archive)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readList decodes a JSON array. A missing or malformed file yields an
// empty list.
func readList[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", filepath.Base(path), err)
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		logrus.WithError(err).WithField("file", path).Warn("jsonstore: malformed collection, using empty list")
		return []T{}, nil
	}
	return nonNil(out), nil
}

func writeList[T any](s *Store, name string, list []T) error {
	return s.writeJSON(name, nonNil(list))
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("jsonstore: encode %s: %w", name, err)
	}
	return s.writeRaw(name, data)
}

// writeRaw replaces dir/name atomically via a temp file and rename.
func (s *Store) writeRaw(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonstore: create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonstore: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonstore: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonstore: close %s: %w", name, err)
	}
	if err := s.rename(tmpName, s.path(name)); err != nil {
		return fmt.Errorf("jsonstore: replace %s: %w", name, err)
	}
	return nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
