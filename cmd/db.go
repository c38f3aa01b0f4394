package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/config"
	"github.com/Tiliavir/tsheet/internal/secrets"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the PostgreSQL connection",
}

var dbSetDSNCmd = &cobra.Command{
	Use:   "set-dsn <dsn>",
	Short: "Store the PostgreSQL DSN in the OS keyring",
	Example: `  tsheet db set-dsn "postgres://me@db.example.com:5432/tsheet?sslmode=require"
  tsheet db set-dsn "host=localhost dbname=tsheet user=me"`,
	Args: cobra.ExactArgs(1),
	RunE: runDBSetDSN,
}

var dbClearDSNCmd = &cobra.Command{
	Use:   "clear-dsn",
	Short: "Remove the PostgreSQL DSN from the OS keyring",
	Args:  cobra.NoArgs,
	RunE:  runDBClearDSN,
}

func init() {
	dbCmd.AddCommand(dbSetDSNCmd)
	dbCmd.AddCommand(dbClearDSNCmd)
}

// checkDSN rejects URLs lib/pq cannot parse. Key=value DSNs pass unchanged.
func checkDSN(dsn string) error {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return errors.New("DSN cannot be empty")
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if _, err := pq.ParseURL(dsn); err != nil {
			return fmt.Errorf("invalid postgres URL: %w", err)
		}
	}
	return nil
}

func runDBSetDSN(cmd *cobra.Command, args []string) error {
	dsn := strings.TrimSpace(args[0])
	if err := checkDSN(dsn); err != nil {
		return err
	}
	if err := secrets.Set(secrets.PostgresDSN, dsn); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "PostgreSQL DSN saved to the OS keyring.")
	if cfg.Storage.Backend != config.BackendPostgres {
		fmt.Fprintln(cmd.OutOrStdout(), `Set "backend": "postgres" in the config to use it.`)
	}
	return nil
}

func runDBClearDSN(cmd *cobra.Command, args []string) error {
	err := secrets.Delete(secrets.PostgresDSN)
	if errors.Is(err, secrets.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), "No PostgreSQL DSN stored.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "PostgreSQL DSN removed.")
	return nil
}
