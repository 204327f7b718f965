package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/server"
	"urlcopier/pkg/tabs"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	serveListen   string
	serveNoWatch  bool
	serveJSONLogs bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"daemon"},
	Short:   "Run the background daemon",
	Long: `Run a long-lived daemon that keeps one clipboard helper for its whole
lifetime, serves the palette and shortcut requests over HTTP on the
loopback interface and rebuilds the context menu whenever the template
store changes.

Endpoints:
  GET  /healthz
  POST /messages           typed palette messages
  POST /action             copy the active tab with the default template
  POST /shortcuts/{name}   run a shortcut command
  GET  /menu               the current menu
  POST /menu/{item}        click a menu item`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !serveJSONLogs {
			logger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr})
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(tabs.NewDevToolsSource(cfg.Browser.DevToolsURL))
		if err != nil {
			return err
		}
		defer a.Close()

		srv, err := server.New(a.svc)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !serveNoWatch {
			watcher, err := server.NewStoreWatcher(a.cfg.StorePath(), server.DefaultDebounce, func() {
				if err := srv.RebuildMenu(); err != nil {
					logger.Warn().Err(err).Msg("Failed to rebuild menu")
				}
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Template store changes will not refresh the menu")
			} else {
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Warn().Err(err).Msg("Store watcher stopped")
					}
				}()
			}
		}

		addr := a.cfg.Daemon.Listen
		if serveListen != "" {
			addr = serveListen
		}
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from daemon.listen)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not rebuild the menu when the store changes")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Write JSON log lines instead of console output")
}
