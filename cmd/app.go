package cmd

import (
	"os"

	"urlcopier/pkg/clipboard"
	"urlcopier/pkg/config"
	"urlcopier/pkg/copier"
	"urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"
	"urlcopier/pkg/progress"
	"urlcopier/pkg/store"
	"urlcopier/pkg/tabs"

	"github.com/mattn/go-isatty"
)

// app is the wiring shared by the commands that copy.
type app struct {
	cfg   *config.Config
	store *store.Manager
	sink  *clipboard.Sink
	svc   *copier.Service
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(profileFlag)
	if err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" && !rootCmd.PersistentFlags().Changed("log-level") {
		logger.SetLevel(cfg.LogLevel)
	}
	return cfg, nil
}

// openStore opens the template database and seeds the defaults on first run.
func openStore(cfg *config.Config) (*store.Manager, error) {
	st, err := store.NewManager(cfg.StorePath())
	if err != nil {
		return nil, errors.StorageError(errors.ErrMsgStoreOpen, err)
	}
	seeded, err := st.EnsureDefaults()
	if err != nil {
		st.Close()
		return nil, errors.StorageError(errors.ErrMsgStoreOpen, err)
	}
	if seeded {
		logger.Info().Str("path", cfg.StorePath()).Msg("Seeded default templates")
	}
	return st, nil
}

// newApp builds the copy pipeline. A nil source reads tabs from the
// configured browser behind a terminal spinner.
func newApp(source tabs.Source) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	launcher, err := clipboard.LauncherFor(cfg.Clipboard.Helper)
	if err != nil {
		return nil, errors.ConfigError(err.Error())
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	if source == nil {
		source = tabs.NewDevToolsSource(cfg.Browser.DevToolsURL)
		if !quietFlag && isatty.IsTerminal(os.Stderr.Fd()) {
			source = progress.NewSource(source, os.Stderr, progress.DefaultDelay)
		}
	}

	notifier := copier.NewConsoleNotifier()
	notifier.Quiet = quietFlag

	sink := clipboard.NewSink(launcher)
	return &app{
		cfg:   cfg,
		store: st,
		sink:  sink,
		svc:   copier.NewService(st, source, sink, notifier),
	}, nil
}

func (a *app) Close() {
	if err := a.sink.Close(); err != nil {
		logger.Debug().Err(err).Msg("Clipboard helper did not stop cleanly")
	}
	if err := a.store.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to close template store")
	}
}

// useDaemon reports whether palette traffic goes to a running daemon.
func useDaemon(cfg *config.Config) bool {
	return cfg.Daemon.Use && !localFlag
}

func daemonClient(cfg *config.Config) *messaging.Client {
	return messaging.NewClient(cfg.Daemon.Listen, globalTimeout)
}
