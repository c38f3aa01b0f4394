package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Tiliavir/tsheet/internal/model"
)

// Store loads and saves week documents by week key.
type Store interface {
	// LoadWeek returns the week for key; a week never saved loads empty.
	LoadWeek(key string) (model.Week, error)
	SaveWeek(w model.Week) error
	Close() error
}

var weekKeyRe = regexp.MustCompile(`^\d{1,6}-W\d{2}$`)

func checkKey(key string) error {
	if !weekKeyRe.MatchString(key) {
		return fmt.Errorf("invalid week key %q", key)
	}
	return nil
}

func emptyWeek(key string) model.Week {
	return model.Week{Key: key, Rows: []model.TimesheetRow{}}
}

// LoadWeeks loads several weeks in order.
func LoadWeeks(s Store, keys []string) ([]model.Week, error) {
	weeks := make([]model.Week, 0, len(keys))
	for _, k := range keys {
		w, err := s.LoadWeek(k)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}

// FileStore keeps one JSON file per week under <base>/weeks.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// weekFilePath returns the path for the given week's JSON file.
func (s *FileStore) weekFilePath(key string) string {
	return filepath.Join(s.base, "weeks", key+".json")
}

// LoadWeek loads the week file. Returns an empty week if not found.
func (s *FileStore) LoadWeek(key string) (model.Week, error) {
	if err := checkKey(key); err != nil {
		return model.Week{}, err
	}
	path := s.weekFilePath(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return emptyWeek(key), nil
	}
	if err != nil {
		return model.Week{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var w model.Week
	if err := json.Unmarshal(data, &w); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.Week{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if w.Key == "" {
		w.Key = key
	}
	return w, nil
}

// SaveWeek atomically writes the week file.
func (s *FileStore) SaveWeek(w model.Week) error {
	if err := checkKey(w.Key); err != nil {
		return err
	}
	path := s.weekFilePath(w.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error { return nil }
