package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/actionpulse/actionpulse/internal/activity"
	"github.com/actionpulse/actionpulse/internal/auth"
	"github.com/actionpulse/actionpulse/internal/config"
	"github.com/actionpulse/actionpulse/internal/daemon"
	"github.com/actionpulse/actionpulse/internal/database"
	"github.com/actionpulse/actionpulse/internal/logging"
	"github.com/actionpulse/actionpulse/internal/metrics"
	"github.com/actionpulse/actionpulse/internal/reporter"
	"github.com/actionpulse/actionpulse/internal/tracker"
	"github.com/actionpulse/actionpulse/internal/web"
	"github.com/actionpulse/actionpulse/pkg/detector"
	"github.com/actionpulse/actionpulse/pkg/input"
	"github.com/actionpulse/actionpulse/pkg/window"
)

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	if err := dm.Acquire(); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			_, pid, _ := dm.IsRunning()
			return errors.Wrapf(err, "pid %d", pid)
		}
		return err
	}
	defer func() {
		if err := dm.Release(); err != nil {
			log.WithError(err).Warn("failed to release instance lock")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		return err
	}
	repo := database.NewRepository(db)

	tokens, err := newAuthManager(cfg, log)
	if err != nil {
		return err
	}
	if _, err := tokens.EnsureToken(ctx, credentialSource(cfg)); err != nil {
		return errors.Wrap(err, "authentication failed")
	}
	if err := tokens.Watch(ctx); err != nil {
		log.WithError(err).Warn("token file changes will not be picked up")
	}

	m := metrics.New()
	agg := activity.NewAggregator()
	agg.OnEvent(func(kind activity.EventKind) { m.IncInput(string(kind)) })

	if cfg.Input.Enabled {
		listeners := detector.InputListeners(cfg.Input.PollInterval, log)
		if started := input.StartAll(ctx, log, agg, listeners...); len(started) == 0 {
			log.Warn("no input listeners running; every cycle will look idle")
		}
	}

	var det window.Detector
	if d, err := detector.New(); err != nil {
		log.WithError(err).Warn("window detection unavailable; titles will be reported as Unknown")
	} else {
		det = d
		defer d.Close()
		log.WithField("display_server", d.GetDisplayServer()).Info("window detector initialized")
	}

	svc := tracker.NewService(cfg, tracker.Deps{
		Aggregator: agg,
		Titles:     window.TitleSource{Detector: det},
		Sink:       reporter.New(cfg.ActivityURL(), cfg.Backend.ReportTimeout, tokens),
		Journal:    repo,
		Metrics:    m,
		Log:        log,
		Out:        cmd.OutOrStdout(),
	})

	if cfg.Web.Enabled {
		srv := web.NewServer(cfg, web.NewHandler(cfg, svc, repo, log), m.Registry(), log)
		go func() {
			if err := srv.Start(); err != nil {
				log.WithError(err).Error("web server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("error shutting down web server")
			}
		}()
	}

	log.WithField("user", tokens.Current().User.Email).Info("agent started")
	log.Debugf("%s", cfg.String())

	return svc.Start(ctx)
}

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newAuthManager(cfg *config.Config, log logrus.FieldLogger) (*auth.Manager, error) {
	path, err := cfg.TokenFilePath()
	if err != nil {
		return nil, err
	}
	client := auth.NewClient(cfg.LoginURL(), cfg.Backend.ReportTimeout)
	return auth.NewManager(auth.NewStore(path), client, log), nil
}

// credentialSource prefers configured credentials and falls back to an
// interactive prompt. Without either, startup needs a stored token.
func credentialSource(cfg *config.Config) auth.CredentialSource {
	if cfg.Auth.Email != "" && cfg.Auth.Password != "" {
		return auth.StaticCredentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}
	}
	if stdinIsTerminal() {
		return auth.NewPrompter()
	}
	return nil
}
