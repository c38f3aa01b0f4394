package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
)

var keyDate string

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Print the local and UTC week keys of a day",
	Long: `key prints both week keys a day can be stored under. They differ when
the local date and the UTC date fall into different weeks.`,
	Args: cobra.NoArgs,
	RunE: runKey,
}

func init() {
	keyCmd.Flags().StringVarP(&keyDate, "date", "d", "", "Day (YYYY-MM-DD, default now)")
}

func runKey(cmd *cobra.Command, args []string) error {
	t, err := parseDate(keyDate)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "local: %s\n", calendar.WeekKey(t, false))
	fmt.Fprintf(out, "utc:   %s\n", calendar.WeekKey(t, true))
	fmt.Fprintf(out, "store: %s\n", weekKeyFor(t))
	return nil
}
