package app

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/actionpulse/actionpulse/internal/auth"
	"github.com/actionpulse/actionpulse/internal/daemon"
	"github.com/actionpulse/actionpulse/internal/database"
	"github.com/actionpulse/actionpulse/internal/logging"
	"github.com/actionpulse/actionpulse/pkg/detector"
	"github.com/actionpulse/actionpulse/pkg/utils"
	"github.com/actionpulse/actionpulse/pkg/window"
)

const statusErrorCount = 3

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent, login and last report status",
	Long: `Display whether the agent is running, who it is logged in as, the
last journalled report and the window title it would see right now.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	running, pid, err := daemon.New(cfg.Daemon.PIDFile).IsRunning()
	if err != nil {
		return errors.Wrap(err, "failed to check agent status")
	}
	if running {
		fmt.Fprintf(out, "Agent:    running (PID %d)\n", pid)
	} else {
		fmt.Fprintln(out, "Agent:    not running")
	}

	tokens, err := newAuthManager(cfg, logging.Discard())
	if err != nil {
		return err
	}
	switch tok, err := tokens.Load(); {
	case err == nil:
		fmt.Fprintf(out, "Login:    %s\n", tok.User.Email)
	case errors.Is(err, auth.ErrNoToken):
		fmt.Fprintln(out, "Login:    not logged in")
	default:
		fmt.Fprintf(out, "Login:    unreadable token (%v)\n", err)
	}

	fmt.Fprintf(out, "Backend:  %s\n", cfg.ActivityURL())
	fmt.Fprintf(out, "Interval: %v\n", cfg.Tracker.PollInterval)

	if db, err := database.Connect(cfg.Database.Path); err == nil {
		defer db.Close()
		if err := db.Initialize(); err == nil {
			repo := database.NewRepository(db)
			if latest, err := repo.GetLatest(); err == nil && latest != nil {
				fmt.Fprintf(out, "Last:     %s, %q (%s ago, delivered=%v)\n",
					latest.Status,
					latest.WindowTitle,
					utils.FormatRoundedUnit(time.Since(latest.Timestamp)),
					latest.Delivered)
			}
			if failed, err := repo.CountUndelivered(time.Now().Add(-24 * time.Hour)); err == nil && failed > 0 {
				fmt.Fprintf(out, "Failed:   %d reports in the last 24h\n", failed)
			}
			if logs, err := repo.GetRecentErrors(statusErrorCount); err == nil && len(logs) > 0 {
				fmt.Fprintln(out, "Errors:")
				for _, l := range logs {
					fmt.Fprintf(out, "  %s ago  %-8s %s\n",
						utils.FormatRoundedUnit(time.Since(l.Timestamp)), l.Component, l.ErrorMsg)
				}
			}
		}
	}

	det, err := detector.New()
	if err != nil {
		fmt.Fprintf(out, "\nCould not detect current window: %v\n", err)
		return nil
	}
	defer det.Close()

	fmt.Fprintf(out, "\nCurrent window (%s): %s\n", det.GetDisplayServer(), window.ActiveTitle(det))
	return nil
}
