package storage

import (
	"errors"
	"time"

	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/model"
)

// CachedStore reads from a primary store and falls back to a local cache when
// the primary fails. Writes go to both and are stamped with UpdatedAt, so a
// week saved while the primary was down is written back once it returns.
type CachedStore struct {
	Primary Store
	Cache   Store
	// Now stamps saved weeks. nil means time.Now.
	Now func() time.Time
}

func (s *CachedStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// LoadWeek prefers the primary store. A cached copy newer than the primary's
// is written back to the primary first; otherwise the cache is refreshed.
func (s *CachedStore) LoadWeek(key string) (model.Week, error) {
	w, err := s.Primary.LoadWeek(key)
	if err != nil {
		logger.Warn("primary store failed, reading cache", "key", key, "err", err)
		cached, cerr := s.Cache.LoadWeek(key)
		if cerr != nil {
			return model.Week{}, errors.Join(err, cerr)
		}
		return cached, nil
	}

	cached, cerr := s.Cache.LoadWeek(key)
	if cerr != nil {
		logger.Warn("could not read week cache", "key", key, "err", cerr)
	}
	if cerr == nil && cached.UpdatedAt.After(w.UpdatedAt) {
		if perr := s.Primary.SaveWeek(cached); perr != nil {
			logger.Warn("could not write cached week back", "key", key, "err", perr)
		} else {
			logger.Info("cached week written back", "key", key, "updated_at", cached.UpdatedAt)
		}
		return cached, nil
	}

	if cerr := s.Cache.SaveWeek(w); cerr != nil {
		logger.Warn("could not refresh week cache", "key", key, "err", cerr)
	}
	return w, nil
}

// SaveWeek stamps the week and writes both stores. It fails only if neither
// accepted the week.
func (s *CachedStore) SaveWeek(w model.Week) error {
	w.UpdatedAt = s.now()
	perr := s.Primary.SaveWeek(w)
	cerr := s.Cache.SaveWeek(w)
	switch {
	case perr != nil && cerr != nil:
		return errors.Join(perr, cerr)
	case perr != nil:
		logger.Warn("primary store failed, week kept in cache only", "key", w.Key, "err", perr)
	case cerr != nil:
		logger.Warn("could not write week cache", "key", w.Key, "err", cerr)
	}
	return nil
}

// Close closes both stores.
func (s *CachedStore) Close() error {
	return errors.Join(s.Primary.Close(), s.Cache.Close())
}

// offlineStore stands in for a backend that could not be opened.
type offlineStore struct {
	err error
}

// Offline returns a Store whose reads and writes fail with err. Put behind a
// CachedStore it keeps weeks stamped in the cache until the backend is back.
func Offline(err error) Store {
	return offlineStore{err: err}
}

func (s offlineStore) LoadWeek(string) (model.Week, error) { return model.Week{}, s.err }
func (s offlineStore) SaveWeek(model.Week) error           { return s.err }
func (s offlineStore) Close() error                        { return nil }
