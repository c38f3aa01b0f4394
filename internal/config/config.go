package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration for tsheet, stored in ~/.tsheet/config.json
// or ~/.tsheet/config.toml. The JSON file supports single-line // comments.
type Config struct {
	Storage  StorageConfig  `json:"storage" toml:"storage"`
	Calendar CalendarConfig `json:"calendar" toml:"calendar"`
	Log      LogConfig      `json:"log" toml:"log"`
	Outlook  OutlookConfig  `json:"outlook" toml:"outlook"`
}

// StorageConfig selects where weeks are kept.
type StorageConfig struct {
	// Backend is "sqlite", "postgres" or "file".
	Backend string `json:"backend" toml:"backend"`
	// Path is the SQLite database file. Empty = <data dir>/tsheet.db.
	Path string `json:"path" toml:"path"`
	// Cache keeps a JSON copy of every week to fall back on.
	Cache bool `json:"cache" toml:"cache"`
}

// CalendarConfig controls week windowing.
type CalendarConfig struct {
	// UTCWeekKeys derives week keys from UTC calendar fields instead of local ones.
	UTCWeekKeys bool `json:"utc_week_keys" toml:"utc_week_keys"`
	// Timezone is the IANA zone used for "now". Empty = system local.
	Timezone string `json:"timezone" toml:"timezone"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Debug bool `json:"debug" toml:"debug"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id" toml:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id" toml:"client_id"`
	// DefaultProject is the project name assigned to imported Outlook events.
	DefaultProject string `json:"default_project" toml:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin").
	// Empty = the calendar timezone.
	Timezone string `json:"timezone" toml:"timezone"`
}

const (
	// BackendSQLite keeps weeks in a local SQLite database.
	BackendSQLite = "sqlite"
	// BackendPostgres keeps weeks in PostgreSQL; the DSN lives in the OS keyring.
	BackendPostgres = "postgres"
	// BackendFile keeps weeks as JSON files.
	BackendFile = "file"

	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project name used for imported events.
	DefaultProject = "Meetings"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Cache:   true,
		},
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultProject,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// tsheet configuration – ~/.tsheet/config.json
//
// All settings are optional. A config.toml next to this file wins if present.
{
  "storage": {
    // "sqlite" (default), "postgres" or "file".
    // For postgres store the DSN once with: tsheet db set-dsn <dsn>
    "backend": "sqlite",

    // SQLite database file. Empty = ~/.tsheet/tsheet.db
    "path": "",

    // Keep a JSON copy of every week and read it when the database fails.
    "cache": true
  },

  "calendar": {
    // Derive week keys ("2026-W09") from UTC dates instead of local dates.
    // Pick one and keep it: weeks are stored under this key.
    "utc_week_keys": false,

    // IANA timezone for "today", e.g. "Europe/Berlin". Empty = system zone.
    "timezone": ""
  },

  "log": {
    // Also print debug logs to stderr. Logs always go to ~/.tsheet/logs/.
    "debug": false
  },

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    "tenant_id": "common",
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Project assigned to imported meetings. Override with --project.
    "default_project": "Meetings",

    // IANA timezone for calendar event times. Empty = calendar.timezone.
    "timezone": ""
  }
}
`

// Dir returns the data directory (~/.tsheet).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tsheet"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the configuration from dir. config.toml takes precedence over
// config.json; when neither exists the annotated JSON template is written.
func Load(dir string) (Config, error) {
	tomlPath := filepath.Join(dir, "config.toml")
	if data, err := os.ReadFile(tomlPath); err == nil {
		cfg := Default()
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w", tomlPath, err)
		}
		return withDefaults(cfg), nil
	} else if !os.IsNotExist(err) {
		return Default(), fmt.Errorf("reading config file %s: %w", tomlPath, err)
	}

	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return withDefaults(cfg), nil
}

// withDefaults fills zero-value fields so callers always get a usable Config
// even if the user only partially fills in the file.
func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = def.Outlook.TenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = def.Outlook.ClientID
	}
	if cfg.Outlook.DefaultProject == "" {
		cfg.Outlook.DefaultProject = def.Outlook.DefaultProject
	}
	return cfg
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendPostgres, BackendFile:
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, postgres or file)", c.Storage.Backend)
	}
	return nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
