package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/tsheet/internal/model"
)

// Driver names accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `CREATE TABLE IF NOT EXISTS timesheet_weeks (
	week_key   TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLStore keeps each week as a JSON document row.
type SQLStore struct {
	driver string
	db     *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return OpenSQL(DriverSQLite, path)
}

// OpenSQL opens a store on the given driver and data source and ensures the
// schema exists.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &SQLStore{driver: driver, db: db}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// rebind rewrites ? placeholders to $1, $2, … for postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadWeek returns the stored week, or an empty week if none is stored.
func (s *SQLStore) LoadWeek(key string) (model.Week, error) {
	if err := checkKey(key); err != nil {
		return model.Week{}, err
	}
	var doc string
	err := s.db.QueryRow(rebind(s.driver, `SELECT doc FROM timesheet_weeks WHERE week_key = ?`), key).Scan(&doc)
	if err == sql.ErrNoRows {
		return emptyWeek(key), nil
	}
	if err != nil {
		return model.Week{}, fmt.Errorf("failed to load week %s: %w", key, err)
	}

	var w model.Week
	if err := json.Unmarshal([]byte(doc), &w); err != nil {
		return model.Week{}, fmt.Errorf("failed to decode week %s: %w", key, err)
	}
	if w.Key == "" {
		w.Key = key
	}
	return w, nil
}

// SaveWeek inserts or replaces the week document.
func (s *SQLStore) SaveWeek(w model.Week) error {
	if err := checkKey(w.Key); err != nil {
		return err
	}
	doc, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode week %s: %w", w.Key, err)
	}
	_, err = s.db.Exec(rebind(s.driver, `
		INSERT INTO timesheet_weeks (week_key, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (week_key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`), w.Key, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save week %s: %w", w.Key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
