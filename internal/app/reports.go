package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actionpulse/actionpulse/internal/database"
	"github.com/actionpulse/actionpulse/internal/reporter"
)

var (
	reportsLimit int
	reportsJSON  bool
	reportsClear bool

	reportsCmd = &cobra.Command{
		Use:   "reports",
		Short: "List recently journalled reports",
		Long: `List the status reports this machine produced, newest first. Window
titles are shown exactly as they were sent, so private titles appear as
the placeholder.`,
		Example: `  actionpulse reports --limit 10
  actionpulse reports --json
  actionpulse reports --clear`,
		RunE: runReports,
	}
)

func init() {
	reportsCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "number of reports to show")
	reportsCmd.Flags().BoolVar(&reportsJSON, "json", false, "output JSON")
	reportsCmd.Flags().BoolVar(&reportsClear, "clear", false, "delete all journalled reports and errors")
}

func runReports(cmd *cobra.Command, args []string) error {
	if reportsLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", reportsLimit)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		return err
	}

	repo := database.NewRepository(db)
	if reportsClear {
		if err := repo.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Local report journal cleared.")
		return nil
	}

	records, err := repo.GetRecent(reportsLimit)
	if err != nil {
		return err
	}

	if reportsJSON {
		out, err := reporter.FormatRecordsJSON(records)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), reporter.FormatRecordsText(records))
	return nil
}
