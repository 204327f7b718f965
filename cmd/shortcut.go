package cmd

import (
	"context"
	"fmt"

	"urlcopier/pkg/shortcuts"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var shortcutCmd = &cobra.Command{
	Use:   "shortcut [name]",
	Short: "Run a keyboard shortcut command",
	Long: `Run one of the commands meant to be bound to global hotkeys. Without a
name the available commands are listed.`,
	Example: `  # Bind these to hotkeys in your desktop environment
  urlcopier shortcut copy-last-used
  urlcopier shortcut open-palette
  urlcopier shortcut copy-slot-1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listShortcuts()
		}

		// The palette waits on the user and manages its own pipeline.
		if args[0] == shortcuts.OpenPalette {
			out, err := runPalette(context.Background())
			if err != nil {
				return err
			}
			return out.Err()
		}

		a, err := newApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := GetContext()
		defer cancel()

		out, err := shortcuts.Dispatcher{Copier: a.svc}.Dispatch(ctx, args[0])
		if err != nil {
			return err
		}
		return reportOutcome(out)
	},
}

func listShortcuts() error {
	output := NewOutputWriter(outputFormat)
	if output.IsStructured() {
		return output.Write(shortcuts.Commands())
	}

	cyan := color.New(color.FgCyan)
	for _, sc := range shortcuts.Commands() {
		cyan.Printf("  %-16s", sc.Name)
		fmt.Println(sc.Description)
	}
	return nil
}
