package completions

import (
	"fmt"
	"strings"
	"sync"

	"urlcopier/pkg/config"
	"urlcopier/pkg/menu"
	"urlcopier/pkg/models"
	"urlcopier/pkg/shortcuts"
	"urlcopier/pkg/store"

	"github.com/spf13/cobra"
)

// TemplateLoader returns the current template list.
type TemplateLoader func() ([]models.Template, error)

type Completer struct {
	// Formats are the values offered for --format.
	Formats []string

	load      TemplateLoader
	templates []models.Template
	loaded    bool
	mu        sync.Mutex
}

func NewCompleter(load TemplateLoader) *Completer {
	if load == nil {
		load = loadFromStore
	}
	return &Completer{load: load}
}

// loadFromStore reads templates from the configured database without
// seeding it; completion must not create state.
func loadFromStore() ([]models.Template, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	st, err := store.NewManager(cfg.StorePath())
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return store.CurrentTemplates(st)
}

func (c *Completer) cachedTemplates() []models.Template {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		templates, err := c.load()
		if err != nil {
			return nil
		}
		c.templates = templates
		c.loaded = true
	}
	return c.templates
}

func (c *Completer) CompleteTemplateIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	templates := c.cachedTemplates()

	items := make([]string, 0, len(templates))
	for _, t := range templates {
		items = append(items, fmt.Sprintf("%s\t%s", t.ID, t.Name))
	}

	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// CompleteFirstTemplateID completes only the first positional argument.
func (c *Completer) CompleteFirstTemplateID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.CompleteTemplateIDs(cmd, args, toComplete)
}

func (c *Completer) CompleteMenuItems(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	m := menu.Build(c.cachedTemplates())
	items := []string{}
	for _, item := range m.Items {
		if item.Separator || item.ID == menu.ParentID || item.ID == menu.CopyAllAsID {
			continue
		}
		items = append(items, fmt.Sprintf("%s\t%s", item.ID, item.Title))
	}

	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteShortcuts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	items := []string{}
	for _, sc := range shortcuts.Commands() {
		items = append(items, fmt.Sprintf("%s\t%s", sc.Name, sc.Description))
	}

	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteSlots(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return c.CompleteTemplateIDs(cmd, args, toComplete)
	}

	items := []string{}
	for _, slot := range models.Slots() {
		items = append(items, fmt.Sprintf("%s\tSlot %s shortcut", slot, slot))
	}
	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		if len(args) == 1 && args[0] == "clipboard.helper" {
			return c.filterPrefix([]string{
				"process\tHelper process owns the clipboard",
				"local\tWrite from the calling process",
			}, toComplete), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.filterPrefix(config.Keys(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	results := c.filterPrefix(c.Formats, toComplete)

	for i, format := range results {
		results[i] = fmt.Sprintf("%s\t%s", format, getFormatDescription(format))
	}

	return results, cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) filterPrefix(items []string, prefix string) []string {
	var result []string
	for _, item := range items {
		itemName := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(itemName), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func getFormatDescription(format string) string {
	switch format {
	case "table":
		return "Human readable table"
	case "json":
		return "JSON document"
	case "yaml":
		return "YAML document"
	default:
		return ""
	}
}

// RegisterCompletions attaches completion functions to the commands that
// take template IDs, shortcut names or config keys.
func RegisterCompletions(rootCmd *cobra.Command, formats []string) {
	c := NewCompleter(nil)
	c.Formats = formats
	RegisterCompletionsWith(rootCmd, c)
}

func RegisterCompletionsWith(rootCmd *cobra.Command, completer *Completer) {
	rootCmd.RegisterFlagCompletionFunc("format", completer.CompleteFormat)

	if copyCmd, _, err := rootCmd.Find([]string{"copy"}); err == nil && copyCmd != rootCmd {
		copyCmd.RegisterFlagCompletionFunc("template", completer.CompleteTemplateIDs)
	}

	for _, path := range [][]string{
		{"templates", "edit"},
		{"templates", "remove"},
		{"templates", "move"},
	} {
		if cmd, _, err := rootCmd.Find(path); err == nil && cmd != rootCmd {
			cmd.ValidArgsFunction = completer.CompleteFirstTemplateID
		}
	}

	if cmd, _, err := rootCmd.Find([]string{"templates", "bind-slot"}); err == nil && cmd != rootCmd {
		cmd.ValidArgsFunction = completer.CompleteSlots
	}
	if cmd, _, err := rootCmd.Find([]string{"menu", "click"}); err == nil && cmd != rootCmd {
		cmd.ValidArgsFunction = completer.CompleteMenuItems
	}
	if cmd, _, err := rootCmd.Find([]string{"shortcut"}); err == nil && cmd != rootCmd {
		cmd.ValidArgsFunction = completer.CompleteShortcuts
	}
	for _, path := range [][]string{{"config", "set"}, {"config", "get"}} {
		if cmd, _, err := rootCmd.Find(path); err == nil && cmd != rootCmd {
			cmd.ValidArgsFunction = completer.CompleteConfigKeys
		}
	}
}
