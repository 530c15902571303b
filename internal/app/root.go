package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/actionpulse/actionpulse/internal/config"
)

var (
	configPath string

	// RootCmd runs the monitoring agent in the foreground
	RootCmd = &cobra.Command{
		Use:   "actionpulse",
		Short: "Endpoint activity monitoring agent",
		Long: `actionpulse watches keyboard, mouse and foreground window activity,
classifies every interval as Active, Idle or Suspicious, masks private
window titles and reports the result to the activity backend.

Run without a subcommand to start the agent. The first start asks for
your backend credentials unless ACTIONPULSE_EMAIL and ACTIONPULSE_PASSWORD
are set.`,
		Example: `  # Start the agent
  actionpulse

  # Log in ahead of time
  actionpulse login

  # Show the last reports
  actionpulse reports --limit 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAgent,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $ACTIONPULSE_CONFIG)")
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(logoutCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(stopCmd)
	RootCmd.AddCommand(reportsCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig layers defaults, file and environment, then validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
