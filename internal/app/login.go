package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/actionpulse/actionpulse/internal/auth"
	"github.com/actionpulse/actionpulse/internal/logging"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the activity backend and store the token",
	Long: `Exchange your backend email and password for a token and store it in
~/.config/actionpulse/agent_token.json with owner-only permissions.

Credentials come from ACTIONPULSE_EMAIL and ACTIONPULSE_PASSWORD when both
are set, otherwise they are asked for on the terminal.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tokens, err := newAuthManager(cfg, logging.Discard())
	if err != nil {
		return err
	}

	creds := credentialSource(cfg)
	if creds == nil {
		return errors.New("no terminal to prompt on; set ACTIONPULSE_EMAIL and ACTIONPULSE_PASSWORD")
	}

	tok, err := tokens.Login(cmd.Context(), creds)
	if err != nil {
		var loginErr *auth.LoginError
		if errors.As(err, &loginErr) {
			return loginErr
		}
		return errors.Wrap(err, "login failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", tok.User.Email)
	return nil
}
