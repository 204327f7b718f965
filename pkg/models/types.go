package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder tokens recognized in a template format.
const (
	TitleToken = "{{title}}"
	URLToken   = "{{url}}"
)

// Template is a named format with title and URL substitution points.
type Template struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Format string `json:"format" yaml:"format"`
}

// Validate rejects templates that cannot be stored.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("template id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("template %q: name is required", t.ID)
	}
	if t.Format == "" {
		return fmt.Errorf("template %q: format is required", t.ID)
	}
	return nil
}

// ValidateList validates every template and checks ID uniqueness.
func ValidateList(templates []Template) error {
	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// FindTemplate returns the template with the given ID.
func FindTemplate(templates []Template, id string) (Template, bool) {
	if id == "" {
		return Template{}, false
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Slot identifies a shortcut bound directly to a template.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// Slots lists every slot in order.
func Slots() []Slot {
	return []Slot{Slot1, Slot2}
}

func (s Slot) String() string {
	return strconv.Itoa(int(s))
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	return s == Slot1 || s == Slot2
}

// ParseSlot accepts "1", "2", "slot1" or "slot-2".
func ParseSlot(s string) (Slot, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "slot"), "-")
	n, err := strconv.Atoi(trimmed)
	if err != nil || !Slot(n).Valid() {
		return 0, fmt.Errorf("invalid slot %q (expected 1 or 2)", s)
	}
	return Slot(n), nil
}

// SelectionState holds the persisted selection pointers. Empty means unset.
// Pointers may dangle after the template list changes; consumers treat a
// dangling pointer as unset.
type SelectionState struct {
	LastUsedTemplateID string `json:"lastUsedTemplateId,omitempty" yaml:"last_used,omitempty"`
	Slot1TemplateID    string `json:"slot1TemplateId,omitempty" yaml:"slot1,omitempty"`
	Slot2TemplateID    string `json:"slot2TemplateId,omitempty" yaml:"slot2,omitempty"`
}

// SlotTemplateID returns the pointer bound to slot.
func (s SelectionState) SlotTemplateID(slot Slot) string {
	switch slot {
	case Slot1:
		return s.Slot1TemplateID
	case Slot2:
		return s.Slot2TemplateID
	default:
		return ""
	}
}

// WithSlot returns a copy of s with slot bound to id.
func (s SelectionState) WithSlot(slot Slot, id string) SelectionState {
	switch slot {
	case Slot1:
		s.Slot1TemplateID = id
	case Slot2:
		s.Slot2TemplateID = id
	}
	return s
}

// Revalidate clears slot pointers that do not reference a template in
// templates. The last-used pointer is left alone; resolution already falls
// back when it dangles.
func (s SelectionState) Revalidate(templates []Template) SelectionState {
	for _, slot := range Slots() {
		id := s.SlotTemplateID(slot)
		if id == "" {
			continue
		}
		if _, ok := FindTemplate(templates, id); !ok {
			s = s.WithSlot(slot, "")
		}
	}
	return s
}

// CaptureRecord is the title and URL of one tab at invocation time.
type CaptureRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DefaultTemplates returns the built-in template set seeded on first run.
func DefaultTemplates() []Template {
	return []Template{
		{ID: "markdown", Name: "Markdown", Format: "[{{title}}]({{url}})"},
		{ID: "markdown2", Name: "Markdown 2", Format: "{{title}} <{{url}}>"},
		{ID: "html", Name: "HTML", Format: `<a href="{{url}}">{{title}}</a>`},
		{ID: "text", Name: "Text", Format: "{{title}} {{url}}"},
		{ID: "text2", Name: "Two line text", Format: "{{title}}\n{{url}}"},
	}
}

// CloneTemplates returns a copy of templates that never aliases the input.
func CloneTemplates(templates []Template) []Template {
	if templates == nil {
		return nil
	}
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}
