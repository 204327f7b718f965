// Package shortcuts routes the named global keyboard commands.
package shortcuts

import (
	"context"
	"fmt"

	"urlcopier/pkg/copier"
	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"
)

const (
	CopyLastUsed = "copy-last-used"
	OpenPalette  = "open-palette"
	CopySlot1    = "copy-slot-1"
	CopySlot2    = "copy-slot-2"
)

type Command struct {
	Name        string
	Description string
	Slot        models.Slot
}

var commands = []Command{
	{Name: CopyLastUsed, Description: "Copy the active tab with the last used template"},
	{Name: OpenPalette, Description: "Open the template palette"},
	{Name: CopySlot1, Description: "Copy the active tab with the template bound to slot 1", Slot: models.Slot1},
	{Name: CopySlot2, Description: "Copy the active tab with the template bound to slot 2", Slot: models.Slot2},
}

// Commands lists every shortcut in display order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// Names lists the shortcut names, for completion.
func Names() []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name)
	}
	return names
}

func lookup(name string) (Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Copier is the part of copier.Service shortcuts drive.
type Copier interface {
	CopyDefault(ctx context.Context) (copier.Outcome, error)
	CopySlot(ctx context.Context, slot models.Slot) (copier.Outcome, error)
}

// Dispatcher runs shortcuts. OpenPalette may be nil where no terminal is
// attached; the shortcut is then logged and ignored.
type Dispatcher struct {
	Copier      Copier
	OpenPalette func(ctx context.Context) (copier.Outcome, error)
}

func (d Dispatcher) Dispatch(ctx context.Context, name string) (copier.Outcome, error) {
	cmd, ok := lookup(name)
	if !ok {
		return copier.Outcome{}, apperrors.ValidationError(fmt.Sprintf("unknown shortcut %q", name))
	}

	logger.Debug().Str("shortcut", cmd.Name).Msg("Dispatching shortcut")

	switch {
	case cmd.Slot.Valid():
		return d.Copier.CopySlot(ctx, cmd.Slot)
	case cmd.Name == OpenPalette:
		if d.OpenPalette == nil {
			logger.Warn().Msg("Palette cannot be opened without a terminal; run 'urlcopier palette'")
			return copier.Outcome{}, nil
		}
		return d.OpenPalette(ctx)
	default:
		return d.Copier.CopyDefault(ctx)
	}
}
