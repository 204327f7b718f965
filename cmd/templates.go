package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"urlcopier/pkg/copier"
	"urlcopier/pkg/errors"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/format"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"
	"urlcopier/pkg/settings"
	"urlcopier/pkg/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	templateID     string
	templateName   string
	templateFormat string
)

// TemplateOutput represents a template for structured output
type TemplateOutput struct {
	Position int    `json:"position" yaml:"position"`
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Format   string `json:"format" yaml:"format"`
	LastUsed bool   `json:"lastUsed,omitempty" yaml:"last_used,omitempty"`
	Slot     string `json:"slot,omitempty" yaml:"slot,omitempty"`
}

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template", "tpl"},
	Short:   "Manage copy templates",
	Long: `Templates are named formats in which {{title}} and {{url}} are replaced
by the tab's title and URL. Their order is the order of the menu and the
palette, and the first one is used until another has been used.`,
}

var templatesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEditor(false, func(ed *settings.Editor) error {
			rows := templateRows(ed.Templates(), ed.Selection())

			output := NewOutputWriter(outputFormat)
			if output.IsStructured() {
				return output.Write(rows)
			}

			if len(rows) == 0 {
				fmt.Println("No templates configured.")
				fmt.Println("Use 'urlcopier templates add' or 'urlcopier templates reset' to create some.")
				return nil
			}

			bold := color.New(color.Bold)
			dim := color.New(color.Faint)
			for _, r := range rows {
				marks := []string{}
				if r.LastUsed {
					marks = append(marks, "last used")
				}
				if r.Slot != "" {
					marks = append(marks, "slot "+r.Slot)
				}
				bold.Printf("%2d. %s", r.Position, r.Name)
				fmt.Printf("  [%s]", r.ID)
				if len(marks) > 0 {
					color.New(color.FgCyan).Printf("  (%s)", strings.Join(marks, ", "))
				}
				fmt.Println()
				dim.Printf("    %s\n", strings.ReplaceAll(r.Format, "\n", `\n`))
			}
			return nil
		})
	},
}

var templatesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a template at the end of the list",
	Example: `  # Add an Org-mode link template
  urlcopier templates add --name Org --pattern '[[{{url}}][{{title}}]]'

  # Add a template with a chosen id
  urlcopier templates add --id jira --name Jira --pattern '{{title}} ({{url}})'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEditor(true, func(ed *settings.Editor) error {
			t, err := ed.Add(templateID, templateName, templateFormat)
			if err != nil {
				return err
			}
			if !format.HasPlaceholders(t.Format) {
				logger.Warn().Str("template", t.ID).Msg("Template has no {{title}} or {{url}} placeholder")
			}
			fmt.Printf("Template '%s' added with id %s.\n", t.Name, t.ID)
			return nil
		})
	},
}

var templatesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a template's name or format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("pattern") {
			return errors.ValidationError("nothing to change; pass --name or --pattern")
		}
		return withEditor(true, func(ed *settings.Editor) error {
			current, ok := models.FindTemplate(ed.Templates(), args[0])
			if !ok {
				return templateNotFound(ed.Templates(), args[0])
			}
			name, tplFormat := current.Name, current.Format
			if cmd.Flags().Changed("name") {
				name = templateName
			}
			if cmd.Flags().Changed("pattern") {
				tplFormat = templateFormat
			}
			if err := ed.Update(args[0], name, tplFormat); err != nil {
				return err
			}
			fmt.Printf("Template '%s' updated.\n", args[0])
			return nil
		})
	},
}

var templatesRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEditor(true, func(ed *settings.Editor) error {
			t, ok := models.FindTemplate(ed.Templates(), args[0])
			if !ok {
				return templateNotFound(ed.Templates(), args[0])
			}
			if err := RequireConfirmation("remove a template", map[string]string{
				"ID":     t.ID,
				"Name":   t.Name,
				"Format": t.Format,
			}); err != nil {
				return err
			}
			if err := ed.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Template '%s' removed.\n", args[0])
			return nil
		})
	},
}

var templatesMoveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a template to a position (1 is the top)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.ValidationError(fmt.Sprintf("position must be a number, got %q", args[1]))
		}
		return withEditor(true, func(ed *settings.Editor) error {
			if err := ed.Move(args[0], pos-1); err != nil {
				return err
			}
			fmt.Printf("Template '%s' moved to position %d.\n", args[0], pos)
			return nil
		})
	},
}

var templatesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace all templates with the built-in set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEditor(true, func(ed *settings.Editor) error {
			if err := RequireConfirmation("replace every template with the defaults", map[string]string{
				"Templates": strconv.Itoa(len(ed.Templates())),
			}); err != nil {
				return err
			}
			ed.Reset()
			fmt.Println("Templates reset to defaults.")
			return nil
		})
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace templates and slot bindings from a YAML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.ValidationError(fmt.Sprintf("cannot read %s: %v", args[0], err))
			}
			defer f.Close()
			r = f
		}
		return withEditor(true, func(ed *settings.Editor) error {
			if err := ed.Import(r); err != nil {
				return err
			}
			fmt.Printf("Imported %d templates.\n", len(ed.Templates()))
			return nil
		})
	},
}

var templatesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write templates and slot bindings as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEditor(false, func(ed *settings.Editor) error {
			if len(args) == 0 || args[0] == "-" {
				return ed.Export(os.Stdout)
			}
			f, err := os.Create(args[0])
			if err != nil {
				return errors.ValidationError(fmt.Sprintf("cannot write %s: %v", args[0], err))
			}
			if err := ed.Export(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	},
}

var templatesBindSlotCmd = &cobra.Command{
	Use:   "bind-slot <slot> <id>",
	Short: "Bind a shortcut slot (1 or 2) to a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := models.ParseSlot(args[0])
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		return withEditor(true, func(ed *settings.Editor) error {
			if err := ed.AssignSlot(slot, args[1]); err != nil {
				return err
			}
			fmt.Printf("Slot %s now copies with '%s'.\n", slot, args[1])
			return nil
		})
	},
}

var templatesUnbindSlotCmd = &cobra.Command{
	Use:   "unbind-slot <slot>",
	Short: "Clear a shortcut slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := models.ParseSlot(args[0])
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		return withEditor(true, func(ed *settings.Editor) error {
			ed.ClearSlot(slot)
			fmt.Printf("Slot %s cleared.\n", slot)
			return nil
		})
	},
}

// withEditor loads the settings editor, runs fn and, when save is set and
// fn changed something, writes the result back. A failed save is shown as
// a notice.
func withEditor(save bool, fn func(ed *settings.Editor) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.NewManager(cfg.StorePath())
	if err != nil {
		return errors.StorageError(errors.ErrMsgStoreOpen, err)
	}
	defer st.Close()

	ed, err := settings.Load(st)
	if err != nil {
		return err
	}
	if err := fn(ed); err != nil {
		return err
	}
	if !save || !ed.Dirty() {
		return nil
	}

	if _, err := ed.Save(); err != nil {
		return reportSaveFailure(copier.NewConsoleNotifier(), err)
	}
	return nil
}

// reportSaveFailure shows a failed save as a notice and returns the quiet
// error that carries its exit code.
func reportSaveFailure(n copier.Notifier, err error) error {
	e, ok := err.(*errors.Error)
	if !ok {
		e = errors.WrapWithCode(err, errors.ExitCodeStorage, errors.ErrMsgStoreSave)
	}
	n.Notify(copier.LevelError, e.Error())
	return errors.Reported(e.Code, e.Error())
}

func templateNotFound(templates []models.Template, id string) error {
	return errors.TemplateNotFoundError(id, filter.SimilarTemplateIDs(templates, id, filter.SuggestionThreshold)...)
}

func templateRows(templates []models.Template, state models.SelectionState) []TemplateOutput {
	rows := make([]TemplateOutput, 0, len(templates))
	for i, t := range templates {
		row := TemplateOutput{
			Position: i + 1,
			ID:       t.ID,
			Name:     t.Name,
			Format:   t.Format,
			LastUsed: t.ID == state.LastUsedTemplateID,
		}
		for _, slot := range models.Slots() {
			if state.SlotTemplateID(slot) == t.ID {
				if row.Slot != "" {
					row.Slot += ","
				}
				row.Slot += slot.String()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func init() {
	templatesAddCmd.Flags().StringVar(&templateID, "id", "", "Template id (generated when empty)")
	templatesAddCmd.Flags().StringVar(&templateName, "name", "", "Display name (required)")
	templatesAddCmd.Flags().StringVar(&templateFormat, "pattern", "", "Format with {{title}} and {{url}} placeholders (required)")
	if err := templatesAddCmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	if err := templatesAddCmd.MarkFlagRequired("pattern"); err != nil {
		panic(err)
	}

	templatesEditCmd.Flags().StringVar(&templateName, "name", "", "New display name")
	templatesEditCmd.Flags().StringVar(&templateFormat, "pattern", "", "New format")
}
