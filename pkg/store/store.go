package store

import (
	"urlcopier/pkg/models"
)

// Settings keys of the persisted selection state.
const (
	KeyLastUsedTemplateID   = "lastUsedTemplateId"
	KeySlot1TemplateID      = "slot1TemplateId"
	KeySlot2TemplateID      = "slot2TemplateId"
	KeyTemplatesInitialized = "templatesInitialized"
)

// Store persists the ordered template list and the selection pointers.
// Writes are last-writer-wins.
type Store interface {
	// Templates returns the stored list. ok is false when no list has ever
	// been stored, which is distinct from a deliberately emptied list.
	Templates() (templates []models.Template, ok bool, err error)
	// ReplaceTemplates rewrites the whole list and clears slot pointers that
	// no longer reference a template. It returns the revalidated state.
	ReplaceTemplates(templates []models.Template) (models.SelectionState, error)
	Selection() (models.SelectionState, error)
	SetLastUsed(id string) error
	SetSlot(slot models.Slot, id string) error
	// EnsureDefaults seeds the built-in templates on first run and reports
	// whether it did.
	EnsureDefaults() (bool, error)
	Close() error
}

// CurrentTemplates returns the stored list, or the built-in defaults when
// nothing has been stored yet.
func CurrentTemplates(s Store) ([]models.Template, error) {
	templates, ok, err := s.Templates()
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.DefaultTemplates(), nil
	}
	return templates, nil
}

func slotKey(slot models.Slot) string {
	if slot == models.Slot2 {
		return KeySlot2TemplateID
	}
	return KeySlot1TemplateID
}
