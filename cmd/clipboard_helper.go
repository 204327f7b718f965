package cmd

import (
	"os"

	"urlcopier/pkg/clipboard"

	"github.com/spf13/cobra"
)

var clipboardHelperCmd = &cobra.Command{
	Use:    clipboard.HelperCommand,
	Hidden: true,
	Short:  "Internal: own the clipboard for a parent urlcopier process (do not call directly)",
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return clipboard.ServeHelper(os.Stdin, os.Stdout)
	},
}
