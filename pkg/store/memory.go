package store

import (
	"fmt"
	"sync"

	"urlcopier/pkg/models"
)

// MemoryStore is an in-process Store used by tests and the --ephemeral flag.
type MemoryStore struct {
	mu          sync.Mutex
	templates   []models.Template
	initialized bool
	state       models.SelectionState
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store already holding templates and state.
func NewMemoryStoreWith(templates []models.Template, state models.SelectionState) *MemoryStore {
	return &MemoryStore{
		templates:   models.CloneTemplates(templates),
		initialized: true,
		state:       state,
	}
}

func (s *MemoryStore) Templates() ([]models.Template, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil, false, nil
	}
	out := models.CloneTemplates(s.templates)
	if out == nil {
		out = []models.Template{}
	}
	return out, true, nil
}

func (s *MemoryStore) ReplaceTemplates(templates []models.Template) (models.SelectionState, error) {
	if err := models.ValidateList(templates); err != nil {
		return models.SelectionState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = models.CloneTemplates(templates)
	s.initialized = true
	s.state = s.state.Revalidate(templates)
	return s.state, nil
}

func (s *MemoryStore) Selection() (models.SelectionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *MemoryStore) SetLastUsed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastUsedTemplateID = id
	return nil
}

func (s *MemoryStore) SetSlot(slot models.Slot, id string) error {
	if !slot.Valid() {
		return fmt.Errorf("invalid slot %d", slot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithSlot(slot, id)
	return nil
}

func (s *MemoryStore) EnsureDefaults() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return false, nil
	}
	s.templates = models.DefaultTemplates()
	s.initialized = true
	return true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
