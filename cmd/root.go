package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/config"
	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/secrets"
	"github.com/Tiliavir/tsheet/internal/storage"
)

var (
	flagDebug   bool
	flagUTCKeys bool
	flagDataDir string
)

var (
	// clock is replaced in tests.
	clock calendar.Clock = calendar.SystemClock

	dataDir  string
	cfg      config.Config
	location = time.Local
)

var rootCmd = &cobra.Command{
	Use:   "tsheet",
	Short: "tsheet – a weekly timesheet for the terminal",
	Long: `tsheet keeps a weekly grid of HH:MM times per project and task.
Weeks are stored in ~/.tsheet/ (SQLite by default, PostgreSQL or JSON files
on request) and can be filled by hand or from an Outlook calendar.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagUTCKeys, "utc-keys", false, "Derive week keys from UTC dates")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.tsheet)")
	_ = rootCmd.PersistentFlags().MarkHidden("data-dir")

	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(dbCmd)
}

// setup loads the configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	dataDir = flagDataDir
	if dataDir == "" {
		d, err := config.Dir()
		if err != nil {
			return err
		}
		dataDir = d
	}

	c, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	if flagDebug {
		c.Log.Debug = true
	}
	if flagUTCKeys {
		c.Calendar.UTCWeekKeys = true
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: dataDir}); err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}
	loc, err := calendar.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return err
	}
	location = loc
	logger.Debug("configuration loaded", "dir", dataDir, "backend", cfg.Storage.Backend, "utc_keys", cfg.Calendar.UTCWeekKeys)
	return nil
}

// now is the current time in the configured calendar timezone.
func now() time.Time {
	return clock.Now().In(location)
}

// openStore opens the configured backend. With the cache enabled, a backend
// that cannot be opened is treated as offline and weeks go to the cache.
func openStore() (storage.Store, error) {
	cache := storage.NewFileStore(filepath.Join(dataDir, "cache"))

	var (
		primary storage.Store
		err     error
	)
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return storage.NewFileStore(dataDir), nil
	case config.BackendPostgres:
		primary, err = openPostgres()
	default:
		primary, err = openSQLite()
	}
	if err != nil {
		if !cfg.Storage.Cache {
			return nil, err
		}
		logger.Warn("database unavailable, using week cache only", "backend", cfg.Storage.Backend, "err", err)
		primary = storage.Offline(err)
	}
	if !cfg.Storage.Cache {
		return primary, nil
	}
	return &storage.CachedStore{Primary: primary, Cache: cache}, nil
}

func openSQLite() (storage.Store, error) {
	path := cfg.Storage.Path
	if path == "" {
		path = filepath.Join(dataDir, "tsheet.db")
	}
	s, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres() (storage.Store, error) {
	dsn, err := secrets.Get(secrets.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("reading postgres DSN: %w (store it with 'tsheet db set-dsn')", err)
	}
	s, err := storage.OpenSQL(storage.DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
