// Package copier runs the capture, render and clipboard pipeline behind
// every entry point.
package copier

import (
	"context"
	"fmt"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/format"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/models"
	"urlcopier/pkg/resolve"
	"urlcopier/pkg/store"
	"urlcopier/pkg/tabs"
)

// Writer commits text to the clipboard. *clipboard.Sink implements it.
type Writer interface {
	Write(ctx context.Context, text string) (bool, error)
}

// Outcome describes what a copy request did. Code is non-zero when a
// notice reported a failure; a silent no-op leaves Copied false and Code
// zero.
type Outcome struct {
	Copied   bool
	Text     string
	Template models.Template
	Records  int
	Notice   string
	Code     apperrors.ExitCode
}

// Err converts a reported failure into a quiet error carrying its exit code.
func (o Outcome) Err() error {
	if o.Code == apperrors.ExitCodeSuccess {
		return nil
	}
	return apperrors.Reported(o.Code, o.Notice)
}

type Service struct {
	store    store.Store
	source   tabs.Source
	sink     Writer
	notifier Notifier
}

func NewService(st store.Store, source tabs.Source, sink Writer, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NewConsoleNotifier()
	}
	return &Service{store: st, source: source, sink: sink, notifier: notifier}
}

// Templates returns the current template list.
func (s *Service) Templates() ([]models.Template, error) {
	templates, err := store.CurrentTemplates(s.store)
	if err != nil {
		return nil, apperrors.StorageError(apperrors.ErrMsgStoreOpen, err)
	}
	return templates, nil
}

func (s *Service) load() ([]models.Template, models.SelectionState, error) {
	templates, err := s.Templates()
	if err != nil {
		return nil, models.SelectionState{}, err
	}
	state, err := s.store.Selection()
	if err != nil {
		return nil, models.SelectionState{}, apperrors.StorageError(apperrors.ErrMsgStoreOpen, err)
	}
	return templates, state, nil
}

// CopyTemplate copies the active tab with the template named by id and
// records it as last used.
func (s *Service) CopyTemplate(ctx context.Context, id string) (Outcome, error) {
	templates, _, err := s.load()
	if err != nil {
		return Outcome{}, err
	}
	return s.copyActive(ctx, templates, resolve.Explicit(templates, id), true)
}

// CopyDefault copies the active tab with the last-used template, falling
// back to the first one.
func (s *Service) CopyDefault(ctx context.Context) (Outcome, error) {
	templates, state, err := s.load()
	if err != nil {
		return Outcome{}, err
	}
	return s.copyActive(ctx, templates, resolve.Default(templates, state), true)
}

// CopySlot copies the active tab with the template bound to slot. An
// unbound slot does nothing. Slot copies leave the last-used pointer alone.
func (s *Service) CopySlot(ctx context.Context, slot models.Slot) (Outcome, error) {
	templates, state, err := s.load()
	if err != nil {
		return Outcome{}, err
	}
	return s.copyActive(ctx, templates, resolve.Slot(templates, state, slot), false)
}

// CopyAll copies every tab of the focused window that passes f, rendered
// with the template named by id or the default template when id is empty.
func (s *Service) CopyAll(ctx context.Context, id string, f *filter.TabFilter) (Outcome, error) {
	templates, state, err := s.load()
	if err != nil {
		return Outcome{}, err
	}

	res := resolve.Request(templates, state, id)
	if out, done := s.unresolved(res, templates); done {
		return out, nil
	}

	rf, err := f.Compile()
	if err != nil {
		return Outcome{}, apperrors.ValidationError(err.Error())
	}

	records, err := s.source.All(ctx)
	if err != nil {
		return Outcome{}, apperrors.BrowserError(err)
	}
	records = rf.Apply(records)
	if len(records) == 0 {
		logger.Debug().Msg("No tabs to copy")
		return Outcome{Template: res.Template}, nil
	}

	text := format.RenderAll(res.Template.Format, records)
	out := Outcome{Template: res.Template, Records: len(records), Text: text}
	if !s.write(ctx, text, &out) {
		return out, nil
	}

	s.notifier.Notify(LevelInfo, fmt.Sprintf("Copied %d tabs as %s", len(records), res.Template.Name))
	return out, nil
}

func (s *Service) copyActive(ctx context.Context, templates []models.Template, res resolve.Result, recordLastUsed bool) (Outcome, error) {
	if out, done := s.unresolved(res, templates); done {
		return out, nil
	}

	rec, ok, err := s.source.Active(ctx)
	if err != nil {
		return Outcome{}, apperrors.BrowserError(err)
	}
	if !ok {
		logger.Debug().Msg("No active tab")
		return Outcome{Template: res.Template}, nil
	}

	text := format.RenderRecord(res.Template.Format, rec)
	out := Outcome{Template: res.Template, Records: 1, Text: text}
	if !s.write(ctx, text, &out) {
		return out, nil
	}

	if recordLastUsed {
		if err := s.store.SetLastUsed(res.Template.ID); err != nil {
			logger.Warn().Err(err).Str("template", res.Template.ID).Msg("Failed to record last used template")
		}
	}

	s.notifier.Notify(LevelInfo, fmt.Sprintf("Copied %q as %s", rec.Title, res.Template.Name))
	return out, nil
}

// unresolved handles every resolution kind except Resolved.
func (s *Service) unresolved(res resolve.Result, templates []models.Template) (Outcome, bool) {
	switch res.Kind {
	case resolve.Resolved:
		return Outcome{}, false
	case resolve.Unbound:
		logger.Debug().Str("binding", res.RequestedID).Msg("Slot is not bound to a template")
		return Outcome{}, true
	case resolve.NotFound:
		return s.fail(apperrors.TemplateNotFoundError(res.RequestedID,
			filter.SimilarTemplateIDs(templates, res.RequestedID, filter.SuggestionThreshold)...)), true
	default:
		return s.fail(apperrors.NoTemplatesError()), true
	}
}

func (s *Service) write(ctx context.Context, text string, out *Outcome) bool {
	ok, err := s.sink.Write(ctx, text)
	if err != nil {
		logger.Error().Err(err).Msg(apperrors.ErrMsgClipboardFailed)
	}
	if err != nil || !ok {
		*out = s.fail(apperrors.ClipboardError(err))
		return false
	}
	out.Copied = true
	return true
}

func (s *Service) fail(e *apperrors.Error) Outcome {
	s.notifier.Notify(LevelError, e.Message)
	return Outcome{Notice: e.Message, Code: e.Code}
}
