package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)
	root.AddCommand(clipboardHelperCmd)

	root.AddCommand(copyCmd)
	root.AddCommand(menuCmd)
	root.AddCommand(shortcutCmd)
	root.AddCommand(paletteCmd)
	root.AddCommand(templatesCmd)
	root.AddCommand(configCmd)
	root.AddCommand(serveCmd)

	menuCmd.AddCommand(
		menuShowCmd,
		menuClickCmd,
	)

	templatesCmd.AddCommand(
		templatesListCmd,
		templatesAddCmd,
		templatesEditCmd,
		templatesRemoveCmd,
		templatesMoveCmd,
		templatesResetCmd,
		templatesImportCmd,
		templatesExportCmd,
		templatesBindSlotCmd,
		templatesUnbindSlotCmd,
	)
}
