package palette

import (
	"context"
	"fmt"
	"io"

	"urlcopier/pkg/logger"
	"urlcopier/pkg/messaging"
	"urlcopier/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

// Result is what a palette session did. Template is nil when the palette
// was closed without a choice.
type Result struct {
	Template *models.Template
	Notice   string
}

type Options struct {
	Input  io.Reader
	Output io.Writer
	// AltScreen draws the palette on the alternate screen. Mouse input is
	// only enabled there.
	AltScreen bool
}

// Run fetches the template list through h, lets the user pick one and
// asks h to copy the active tab with it.
func Run(ctx context.Context, h messaging.Handler, opts Options) (Result, error) {
	templates, err := messaging.FetchTemplates(ctx, h)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load templates: %w", err)
	}

	model := New(templates)
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen(), tea.WithMouseAllMotion())
	} else {
		model = model.WithoutMouse()
	}

	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil {
		return Result{}, fmt.Errorf("palette failed: %w", err)
	}

	chosen := final.(Model).Chosen()
	if chosen == nil {
		logger.Debug().Msg("Palette closed without a selection")
		return Result{}, nil
	}

	ack, err := messaging.RequestCopy(ctx, h, chosen.ID)
	if err != nil {
		return Result{Template: chosen}, err
	}
	return Result{Template: chosen, Notice: ack.Notice}, nil
}
