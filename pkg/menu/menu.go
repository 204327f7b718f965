// Package menu builds the context menu offered by the daemon and maps menu
// item IDs back to copy actions.
package menu

import (
	"context"
	"fmt"
	"strings"

	"urlcopier/pkg/copier"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/models"
)

const (
	ParentID    = "parent"
	SeparatorID = "separator"
	CopyAllID   = "copy_all"
	CopyAllAsID = "all_tabs_as"

	templatePrefix = "template_"
	copyAllPrefix  = "copy_all_"
)

// Item is one menu entry. Items with a ParentID nest under that item.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	ParentID  string `json:"parentId,omitempty" yaml:"parent,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Separator bool   `json:"separator,omitempty" yaml:"separator,omitempty"`
}

// Menu is the flat, ordered list of items.
type Menu struct {
	Items []Item `json:"items" yaml:"items"`
}

// Build lays out the menu for templates: one item per template, then the
// copy-all entries.
func Build(templates []models.Template) Menu {
	items := []Item{{ID: ParentID, Title: "URL Copier"}}

	for _, t := range templates {
		items = append(items, Item{ID: templatePrefix + t.ID, ParentID: ParentID, Title: t.Name})
	}

	items = append(items,
		Item{ID: SeparatorID, ParentID: ParentID, Separator: true},
		Item{ID: CopyAllID, ParentID: ParentID, Title: "Copy All Tabs"},
	)

	if len(templates) > 0 {
		items = append(items, Item{ID: CopyAllAsID, ParentID: ParentID, Title: "Copy All Tabs As"})
		for _, t := range templates {
			items = append(items, Item{ID: copyAllPrefix + t.ID, ParentID: CopyAllAsID, Title: t.Name})
		}
	}

	return Menu{Items: items}
}

// Lookup returns the item with the given ID.
func (m Menu) Lookup(id string) (Item, bool) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Children returns the items nested directly under parentID.
func (m Menu) Children(parentID string) []Item {
	var out []Item
	for _, it := range m.Items {
		if it.ParentID == parentID {
			out = append(out, it)
		}
	}
	return out
}

// String renders the menu as an indented tree.
func (m Menu) String() string {
	var b strings.Builder
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, it := range m.Children(parent) {
			b.WriteString(strings.Repeat("  ", depth))
			if it.Separator {
				b.WriteString("----\n")
				continue
			}
			fmt.Fprintf(&b, "%s  [%s]\n", it.Title, it.ID)
			walk(it.ID, depth+1)
		}
	}
	walk("", 0)
	return b.String()
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCopyTemplate
	ActionCopyAll
)

// Action is what clicking an item does. An empty TemplateID on a copy-all
// action means the default template.
type Action struct {
	Kind       ActionKind
	TemplateID string
}

// ParseItem maps a clickable item ID to its Action.
func ParseItem(id string) (Action, error) {
	switch {
	case id == CopyAllID:
		return Action{Kind: ActionCopyAll}, nil
	case strings.HasPrefix(id, copyAllPrefix) && len(id) > len(copyAllPrefix):
		return Action{Kind: ActionCopyAll, TemplateID: strings.TrimPrefix(id, copyAllPrefix)}, nil
	case strings.HasPrefix(id, templatePrefix) && len(id) > len(templatePrefix):
		return Action{Kind: ActionCopyTemplate, TemplateID: strings.TrimPrefix(id, templatePrefix)}, nil
	default:
		return Action{}, fmt.Errorf("menu item %q is not clickable", id)
	}
}

// Copier is the part of copier.Service the menu drives.
type Copier interface {
	CopyTemplate(ctx context.Context, id string) (copier.Outcome, error)
	CopyAll(ctx context.Context, id string, f *filter.TabFilter) (copier.Outcome, error)
}

// Dispatch runs the action behind itemID.
func Dispatch(ctx context.Context, c Copier, itemID string) (copier.Outcome, error) {
	action, err := ParseItem(itemID)
	if err != nil {
		return copier.Outcome{}, err
	}

	switch action.Kind {
	case ActionCopyAll:
		return c.CopyAll(ctx, action.TemplateID, nil)
	default:
		return c.CopyTemplate(ctx, action.TemplateID)
	}
}
