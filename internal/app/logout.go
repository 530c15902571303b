package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/actionpulse/actionpulse/internal/logging"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tokens, err := newAuthManager(cfg, logging.Discard())
		if err != nil {
			return err
		}
		if err := tokens.Logout(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}
