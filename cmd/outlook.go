package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tsheet/internal/calendar"
	"github.com/Tiliavir/tsheet/internal/logger"
	"github.com/Tiliavir/tsheet/internal/msgraph"
)

var (
	outlookSyncOffset  int
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import a week of Outlook calendar events",
	Long: `sync books every busy, non-private calendar event of the week on the
project given by --project, one row per event subject. Events already imported
into the week are skipped.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

var outlookLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Microsoft sign-in",
	Args:  cobra.NoArgs,
	RunE:  runOutlookLogout,
}

func init() {
	outlookSyncCmd.Flags().IntVarP(&outlookSyncOffset, "offset", "o", 0, "Week offset from the current week")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned imports without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookCmd.AddCommand(outlookSyncCmd)
	outlookCmd.AddCommand(outlookLogoutCmd)
}

// eventLocation returns the IANA zone to ask Graph for and the location its
// times are read in: the flag, then the outlook setting, then the calendar
// timezone. With no IANA name configured Graph is asked for nothing and
// answers in UTC.
func eventLocation() (*time.Location, string, error) {
	name := outlookSyncTZ
	if name == "" {
		name = cfg.Outlook.Timezone
	}
	if name == "" {
		name = cfg.Calendar.Timezone
	}
	if name == "" || name == "Local" {
		return time.UTC, "", nil
	}
	loc, err := calendar.LoadLocation(name)
	if err != nil {
		return nil, "", err
	}
	return loc, name, nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	loc, tzName, err := eventLocation()
	if err != nil {
		return err
	}
	project := outlookSyncProject
	if project == "" {
		project = cfg.Outlook.DefaultProject
	}

	ref := now()
	from, to := calendar.WeekBounds(ref, outlookSyncOffset)
	days := calendar.WeekDays(ref, outlookSyncOffset)

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format(dateLayout), to.Format(dateLayout), dryTag)

	ctx := cmd.Context()
	tokens := msgraph.TokenStore{Dir: dataDir}
	tok, oauthCfg, err := msgraph.Authenticate(ctx, tokens, cfg.Outlook.TenantID, cfg.Outlook.ClientID)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	client := msgraph.NewClient(ctx, tok, oauthCfg, tokens)

	events, err := client.GetCalendarView(ctx, from, to.Add(time.Nanosecond), tzName)
	if err != nil {
		return fmt.Errorf("fetching calendar events: %w", err)
	}
	logger.Debug("calendar events fetched", "count", len(events), "from", from, "to", to)

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	key := weekKeyFor(from)
	w, err := s.LoadWeek(key)
	if err != nil {
		return err
	}
	res := msgraph.ImportEvents(&w, days, events, msgraph.ImportOptions{
		Project:     project,
		Location:    loc,
		DayLocation: location,
		DryRun:      outlookSyncDryRun,
		Out:         out,
	})
	if !outlookSyncDryRun && res.Imported > 0 {
		if err := s.SaveWeek(w); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", res.Imported)
	fmt.Fprintf(out, "  %d skipped\n", res.Skipped)
	if res.Errors > 0 {
		return fmt.Errorf("%d events could not be imported", res.Errors)
	}
	return nil
}

func runOutlookLogout(cmd *cobra.Command, args []string) error {
	if err := (msgraph.TokenStore{Dir: dataDir}).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out of Microsoft Graph.")
	return nil
}
