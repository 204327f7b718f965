package cmd

import (
	"context"
	"os"

	"urlcopier/pkg/copier"
	"urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"
	"urlcopier/pkg/palette"
	"urlcopier/pkg/tabs"

	"github.com/spf13/cobra"
)

var paletteInline bool

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Pick a template from a palette and copy the active tab",
	Long: `Open a keyboard and mouse driven list of templates. Arrow keys move the
selection, digits 1-9 pick an entry directly, Enter copies with the
selected template and Escape closes without copying.

When daemon.use is set the palette asks the running daemon for the
template list and the copy; otherwise it works in this process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runPalette(context.Background())
		if err != nil {
			return err
		}
		return out.Err()
	},
}

// runPalette opens the palette against the daemon or a local pipeline.
// The palette waits on the user, so only the requests it sends are bound
// by --timeout.
func runPalette(ctx context.Context) (copier.Outcome, error) {
	cfg, err := loadConfig()
	if err != nil {
		return copier.Outcome{}, err
	}

	opts := palette.Options{Output: os.Stderr, AltScreen: !paletteInline}

	if useDaemon(cfg) {
		client := daemonClient(cfg)
		logger.Debug().Str("daemon", client.BaseURL()).Msg("Palette using daemon")
		res, err := palette.Run(ctx, client, opts)
		if err != nil {
			return copier.Outcome{}, err
		}
		if res.Notice != "" {
			copier.NewConsoleNotifier().Notify(copier.LevelError, res.Notice)
			return copier.Outcome{Notice: res.Notice, Code: errors.ExitCodeGeneral}, nil
		}
		return paletteOutcome(res), nil
	}

	// No spinner: the palette owns the terminal.
	a, err := newApp(tabs.NewDevToolsSource(cfg.Browser.DevToolsURL))
	if err != nil {
		return copier.Outcome{}, err
	}
	defer a.Close()

	var last copier.Outcome
	h := messaging.HandlerFunc(func(ctx context.Context, msg messaging.Message) (messaging.Reply, error) {
		if m, ok := msg.(messaging.CopyTemplate); ok {
			ctx, cancel := GetContext()
			defer cancel()
			out, err := a.svc.CopyTemplate(ctx, m.TemplateID)
			if err != nil {
				return nil, err
			}
			last = out
			return messaging.Ack{Notice: out.Notice}, nil
		}
		return a.svc.Handle(ctx, msg)
	})

	res, err := palette.Run(ctx, messaging.NewLocalClient(h), opts)
	if err != nil {
		return copier.Outcome{}, err
	}
	if res.Template == nil {
		return copier.Outcome{}, nil
	}
	return last, nil
}

func paletteOutcome(res palette.Result) copier.Outcome {
	if res.Template == nil {
		return copier.Outcome{}
	}
	return copier.Outcome{Copied: true, Template: *res.Template}
}

func init() {
	paletteCmd.Flags().BoolVar(&paletteInline, "inline", false, "Draw below the prompt instead of on the alternate screen (keyboard only)")
}
