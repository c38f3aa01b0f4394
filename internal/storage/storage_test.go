package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/tsheet/internal/model"
	"github.com/Tiliavir/tsheet/internal/storage"
)

func sampleWeek() model.Week {
	return model.Week{
		Key: "2026-W09",
		Rows: []model.TimesheetRow{{
			ID:      "row-1",
			Project: "ECM",
			Task:    "Review",
			Times:   map[string]model.DayEntry{"Mon, 23 Feb": {Time: "02:30", Description: "PR 12"}},
			Total:   "02:30",
		}},
		Imported: []string{"evt-1"},
	}
}

func openStores(t *testing.T) map[string]storage.Store {
	t.Helper()
	sqlStore, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "db", "tsheet.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })
	return map[string]storage.Store{
		"file":   storage.NewFileStore(t.TempDir()),
		"sqlite": sqlStore,
	}
}

func TestLoadWeekNotExist(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := s.LoadWeek("2026-W09")
			if err != nil {
				t.Fatalf("LoadWeek on missing week: %v", err)
			}
			if w.Key != "2026-W09" {
				t.Errorf("Key = %q, want %q", w.Key, "2026-W09")
			}
			if len(w.Rows) != 0 {
				t.Errorf("Rows = %d, want 0", len(w.Rows))
			}
		})
	}
}

func TestSaveWeekAndLoadWeek(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SaveWeek(sampleWeek()); err != nil {
				t.Fatalf("SaveWeek: %v", err)
			}
			// Overwrite to exercise the update path.
			w := sampleWeek()
			w.Rows[0].Times["Tue, 24 Feb"] = model.DayEntry{Time: "01:00"}
			w.Rows[0].Total = "03:30"
			if err := s.SaveWeek(w); err != nil {
				t.Fatalf("SaveWeek (update): %v", err)
			}

			loaded, err := s.LoadWeek("2026-W09")
			if err != nil {
				t.Fatalf("LoadWeek after save: %v", err)
			}
			if len(loaded.Rows) != 1 {
				t.Fatalf("Rows = %d, want 1", len(loaded.Rows))
			}
			row := loaded.Rows[0]
			if row.Project != "ECM" || row.Total != "03:30" {
				t.Errorf("row = %+v", row)
			}
			if row.Times["Mon, 23 Feb"].Description != "PR 12" {
				t.Errorf("description = %q, want %q", row.Times["Mon, 23 Feb"].Description, "PR 12")
			}
			if len(loaded.Imported) != 1 || loaded.Imported[0] != "evt-1" {
				t.Errorf("Imported = %v", loaded.Imported)
			}
		})
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.LoadWeek("../../etc/passwd"); err == nil {
				t.Error("LoadWeek accepted a path-like key")
			}
			if err := s.SaveWeek(model.Week{Key: "week nine"}); err == nil {
				t.Error("SaveWeek accepted a malformed key")
			}
		})
	}
}

func TestLoadWeekCorruptFile(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "weeks", "2026-W09.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewFileStore(base).LoadWeek("2026-W09")
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestLoadWeekLegacyEntries(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "weeks", "2026-W09.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	legacy := `{"rows":[{"id":"x","project":"P","task":"T","times":{"Mon, 23 Feb":"01:30"},"total":"01:30"}]}`
	if err := os.WriteFile(path, []byte(legacy), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := storage.NewFileStore(base).LoadWeek("2026-W09")
	if err != nil {
		t.Fatalf("LoadWeek: %v", err)
	}
	if w.Key != "2026-W09" {
		t.Errorf("Key = %q, want it filled from the file name", w.Key)
	}
	if got := w.Rows[0].Times["Mon, 23 Feb"].Time; got != "01:30" {
		t.Errorf("legacy time = %q, want %q", got, "01:30")
	}
}

func TestLoadWeeks(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	if err := s.SaveWeek(sampleWeek()); err != nil {
		t.Fatal(err)
	}
	weeks, err := storage.LoadWeeks(s, []string{"2026-W09", "2026-W10"})
	if err != nil {
		t.Fatalf("LoadWeeks: %v", err)
	}
	if len(weeks) != 2 || len(weeks[0].Rows) != 1 || len(weeks[1].Rows) != 0 {
		t.Errorf("LoadWeeks = %+v", weeks)
	}
}

// failingStore fails every call.
type failingStore struct{}

var errDown = errors.New("database down")

func (failingStore) LoadWeek(string) (model.Week, error) { return model.Week{}, errDown }
func (failingStore) SaveWeek(model.Week) error           { return errDown }
func (failingStore) Close() error                        { return nil }

func TestCachedStoreFallsBackToCache(t *testing.T) {
	primary := storage.NewFileStore(t.TempDir())
	cache := storage.NewFileStore(t.TempDir())
	s := &storage.CachedStore{Primary: primary, Cache: cache}

	if err := s.SaveWeek(sampleWeek()); err != nil {
		t.Fatalf("SaveWeek: %v", err)
	}
	if w, err := cache.LoadWeek("2026-W09"); err != nil || len(w.Rows) != 1 {
		t.Fatalf("cache not written: %v %+v", err, w)
	}

	down := &storage.CachedStore{Primary: failingStore{}, Cache: cache}
	w, err := down.LoadWeek("2026-W09")
	if err != nil {
		t.Fatalf("LoadWeek with primary down: %v", err)
	}
	if len(w.Rows) != 1 {
		t.Errorf("Rows = %d, want 1 from cache", len(w.Rows))
	}

	if err := down.SaveWeek(sampleWeek()); err != nil {
		t.Errorf("SaveWeek with primary down = %v, want nil (cache accepted)", err)
	}
}

func TestCachedStoreBothFail(t *testing.T) {
	s := &storage.CachedStore{Primary: failingStore{}, Cache: failingStore{}}
	if err := s.SaveWeek(sampleWeek()); !errors.Is(err, errDown) {
		t.Errorf("SaveWeek error = %v, want errDown", err)
	}
	if _, err := s.LoadWeek("2026-W09"); !errors.Is(err, errDown) {
		t.Errorf("LoadWeek error = %v, want errDown", err)
	}
}

// switchStore wraps a store and fails every call while down is set.
type switchStore struct {
	storage.Store
	down bool
}

func (s *switchStore) LoadWeek(key string) (model.Week, error) {
	if s.down {
		return model.Week{}, errDown
	}
	return s.Store.LoadWeek(key)
}

func (s *switchStore) SaveWeek(w model.Week) error {
	if s.down {
		return errDown
	}
	return s.Store.SaveWeek(w)
}

func TestCachedStoreWritesBackAfterOutage(t *testing.T) {
	primary := &switchStore{Store: storage.NewFileStore(t.TempDir()), down: true}
	cache := storage.NewFileStore(t.TempDir())
	s := &storage.CachedStore{Primary: primary, Cache: cache}

	if err := s.SaveWeek(sampleWeek()); err != nil {
		t.Fatalf("SaveWeek with primary down: %v", err)
	}
	primary.down = false

	w, err := s.LoadWeek("2026-W09")
	if err != nil {
		t.Fatalf("LoadWeek after recovery: %v", err)
	}
	if len(w.Rows) != 1 {
		t.Errorf("loaded rows = %d, want 1", len(w.Rows))
	}
	if c, _ := cache.LoadWeek("2026-W09"); len(c.Rows) != 1 {
		t.Errorf("cache rows = %d, want 1", len(c.Rows))
	}
	if p, _ := primary.Store.LoadWeek("2026-W09"); len(p.Rows) != 1 {
		t.Errorf("primary rows = %d, want the cached week written back", len(p.Rows))
	}
}

func TestCachedStoreNewerPrimaryWins(t *testing.T) {
	primary := storage.NewFileStore(t.TempDir())
	cache := storage.NewFileStore(t.TempDir())
	stale := sampleWeek()
	stale.UpdatedAt = time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	if err := cache.SaveWeek(stale); err != nil {
		t.Fatal(err)
	}
	fresh := sampleWeek()
	fresh.Rows = nil
	fresh.UpdatedAt = stale.UpdatedAt.Add(time.Hour)
	if err := primary.SaveWeek(fresh); err != nil {
		t.Fatal(err)
	}

	s := &storage.CachedStore{Primary: primary, Cache: cache}
	w, err := s.LoadWeek("2026-W09")
	if err != nil {
		t.Fatalf("LoadWeek: %v", err)
	}
	if len(w.Rows) != 0 {
		t.Errorf("rows = %d, want the primary's newer empty week", len(w.Rows))
	}
	if c, _ := cache.LoadWeek("2026-W09"); len(c.Rows) != 0 || !c.UpdatedAt.Equal(fresh.UpdatedAt) {
		t.Errorf("cache = %+v, want refreshed from primary", c)
	}
}

func TestCachedStoreStampsSaves(t *testing.T) {
	at := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	cache := storage.NewFileStore(t.TempDir())
	s := &storage.CachedStore{Primary: storage.Offline(errDown), Cache: cache, Now: func() time.Time { return at }}

	if err := s.SaveWeek(sampleWeek()); err != nil {
		t.Fatalf("SaveWeek: %v", err)
	}
	w, err := cache.LoadWeek("2026-W09")
	if err != nil {
		t.Fatal(err)
	}
	if !w.UpdatedAt.Equal(at) {
		t.Errorf("UpdatedAt = %v, want %v", w.UpdatedAt, at)
	}
	if _, err := s.LoadWeek("2026-W09"); err != nil {
		t.Errorf("LoadWeek with offline primary: %v", err)
	}
}
