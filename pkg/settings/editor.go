// Package settings edits the template list and slot bindings as a working
// copy that is written back wholesale on Save.
package settings

import (
	"fmt"
	"strings"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/models"
	"urlcopier/pkg/store"

	"github.com/google/uuid"
)

// CustomIDPrefix marks IDs generated for user-created templates.
const CustomIDPrefix = "custom_"

type Editor struct {
	store     store.Store
	templates []models.Template
	state     models.SelectionState
	dirty     bool
}

// Load starts an editing session from the stored list.
func Load(st store.Store) (*Editor, error) {
	templates, err := store.CurrentTemplates(st)
	if err != nil {
		return nil, apperrors.StorageError(apperrors.ErrMsgStoreOpen, err)
	}
	state, err := st.Selection()
	if err != nil {
		return nil, apperrors.StorageError(apperrors.ErrMsgStoreOpen, err)
	}
	return &Editor{store: st, templates: templates, state: state}, nil
}

func (e *Editor) Templates() []models.Template {
	return models.CloneTemplates(e.templates)
}

func (e *Editor) Selection() models.SelectionState {
	return e.state
}

// Dirty reports unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) index(id string) int {
	for i, t := range e.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func validateFields(name, format string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationError("template name cannot be empty")
	}
	if format == "" {
		return apperrors.ValidationError("template format cannot be empty")
	}
	return nil
}

// Add appends a new template. An empty id gets a generated one.
func (e *Editor) Add(id, name, format string) (models.Template, error) {
	if err := validateFields(name, format); err != nil {
		return models.Template{}, err
	}
	if id == "" {
		id = CustomIDPrefix + uuid.NewString()
	}
	if e.index(id) >= 0 {
		return models.Template{}, apperrors.ValidationError(fmt.Sprintf("template id %q already exists", id))
	}

	t := models.Template{ID: id, Name: name, Format: format}
	e.templates = append(e.templates, t)
	e.dirty = true
	return t, nil
}

// Update replaces the name and format of template id.
func (e *Editor) Update(id, name, format string) error {
	i := e.index(id)
	if i < 0 {
		return e.notFound(id)
	}
	if err := validateFields(name, format); err != nil {
		return err
	}
	e.templates[i].Name = name
	e.templates[i].Format = format
	e.dirty = true
	return nil
}

func (e *Editor) Delete(id string) error {
	i := e.index(id)
	if i < 0 {
		return e.notFound(id)
	}
	e.templates = append(e.templates[:i], e.templates[i+1:]...)
	e.dirty = true
	return nil
}

func (e *Editor) notFound(id string) error {
	return apperrors.TemplateNotFoundError(id, filter.SimilarTemplateIDs(e.templates, id, filter.SuggestionThreshold)...)
}

// Move puts template id at position pos (zero-based).
func (e *Editor) Move(id string, pos int) error {
	i := e.index(id)
	if i < 0 {
		return e.notFound(id)
	}
	if pos < 0 || pos >= len(e.templates) {
		return apperrors.ValidationError(fmt.Sprintf("position %d out of range (1-%d)", pos+1, len(e.templates)))
	}

	t := e.templates[i]
	e.templates = append(e.templates[:i], e.templates[i+1:]...)
	e.templates = append(e.templates[:pos], append([]models.Template{t}, e.templates[pos:]...)...)
	e.dirty = true
	return nil
}

// AssignSlot binds slot to template id.
func (e *Editor) AssignSlot(slot models.Slot, id string) error {
	if !slot.Valid() {
		return apperrors.ValidationError(fmt.Sprintf("invalid slot %d", slot))
	}
	if e.index(id) < 0 {
		return e.notFound(id)
	}
	e.state = e.state.WithSlot(slot, id)
	e.dirty = true
	return nil
}

func (e *Editor) ClearSlot(slot models.Slot) {
	e.state = e.state.WithSlot(slot, "")
	e.dirty = true
}

// Reset restores the built-in templates.
func (e *Editor) Reset() {
	e.templates = models.DefaultTemplates()
	e.dirty = true
}

// Save replaces the stored list and writes the slot bindings that still
// point at a template.
func (e *Editor) Save() (models.SelectionState, error) {
	if err := models.ValidateList(e.templates); err != nil {
		return models.SelectionState{}, apperrors.ValidationError(err.Error())
	}

	stored, err := e.store.ReplaceTemplates(e.templates)
	if err != nil {
		return models.SelectionState{}, apperrors.StorageError(apperrors.ErrMsgStoreSave, err)
	}

	wanted := e.state.Revalidate(e.templates)
	for _, slot := range models.Slots() {
		id := wanted.SlotTemplateID(slot)
		if id == stored.SlotTemplateID(slot) {
			continue
		}
		if err := e.store.SetSlot(slot, id); err != nil {
			return models.SelectionState{}, apperrors.StorageError(apperrors.ErrMsgStoreSave, err)
		}
	}

	state, err := e.store.Selection()
	if err != nil {
		return models.SelectionState{}, apperrors.StorageError(apperrors.ErrMsgStoreOpen, err)
	}
	e.state = state
	e.dirty = false
	return state, nil
}
