package cmd

import (
	"fmt"

	"urlcopier/pkg/errors"
	"urlcopier/pkg/menu"
	"urlcopier/pkg/store"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show or click the context menu",
	Long: `The context menu has one entry per template, a Copy All Tabs entry that
uses the default template, and a Copy All Tabs As submenu with one entry
per template. Bind 'urlcopier menu click <item>' to a launcher or
hotkey to use it outside the daemon.`,
}

var menuShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the menu built from the current templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		m, err := currentMenu(st)
		if err != nil {
			return err
		}

		output := NewOutputWriter(outputFormat)
		if output.IsStructured() {
			return output.Write(m.Items)
		}
		fmt.Print(m.String())
		return nil
	},
}

var menuClickCmd = &cobra.Command{
	Use:   "click <item>",
	Short: "Run the action behind a menu item",
	Example: `  # Copy the active tab as HTML
  urlcopier menu click template_html

  # Copy all tabs with the default template
  urlcopier menu click copy_all

  # Copy all tabs as plain text
  urlcopier menu click copy_all_text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := currentMenu(a.store)
		if err != nil {
			return err
		}
		if _, ok := m.Lookup(args[0]); !ok {
			return errors.ValidationError(fmt.Sprintf("menu item %q does not exist; see 'urlcopier menu show'", args[0]))
		}

		ctx, cancel := GetContext()
		defer cancel()

		out, err := menu.Dispatch(ctx, a.svc, args[0])
		if err != nil {
			return err
		}
		return reportOutcome(out)
	},
}

func currentMenu(st store.Store) (menu.Menu, error) {
	templates, err := store.CurrentTemplates(st)
	if err != nil {
		return menu.Menu{}, errors.StorageError(errors.ErrMsgStoreOpen, err)
	}
	return menu.Build(templates), nil
}
