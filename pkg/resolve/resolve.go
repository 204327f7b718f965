// Package resolve picks the template a copy request should use.
//
// The order is explicit ID, then the last-used pointer, then the first
// template in the list. An explicit miss is a user-visible error while an
// unbound slot is a silent no-op; callers rely on the distinct result kinds
// to tell the two apart.
package resolve

import (
	"urlcopier/pkg/models"
)

// Kind tags a resolution result.
type Kind int

const (
	Resolved Kind = iota
	NotFound
	NoTemplatesConfigured
	Unbound
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not-found"
	case NoTemplatesConfigured:
		return "no-templates"
	case Unbound:
		return "unbound"
	default:
		return "unknown"
	}
}

// Result is the outcome of a resolution. Template is set only when Kind is
// Resolved; RequestedID echoes the ID that was looked up, if any.
type Result struct {
	Kind        Kind
	Template    models.Template
	RequestedID string
}

func (r Result) OK() bool {
	return r.Kind == Resolved
}

func resolved(t models.Template) Result {
	return Result{Kind: Resolved, Template: t, RequestedID: t.ID}
}

// Explicit looks up id in templates.
func Explicit(templates []models.Template, id string) Result {
	if t, ok := models.FindTemplate(templates, id); ok {
		return resolved(t)
	}
	return Result{Kind: NotFound, RequestedID: id}
}

// Default uses the last-used pointer, falling back to the first template
// when the pointer is unset or dangling.
func Default(templates []models.Template, state models.SelectionState) Result {
	if t, ok := models.FindTemplate(templates, state.LastUsedTemplateID); ok {
		return resolved(t)
	}
	if len(templates) == 0 {
		return Result{Kind: NoTemplatesConfigured}
	}
	return resolved(templates[0])
}

// Request resolves id explicitly when given, otherwise by Default.
func Request(templates []models.Template, state models.SelectionState, id string) Result {
	if id != "" {
		return Explicit(templates, id)
	}
	return Default(templates, state)
}

// Slot resolves the template bound to slot. An unset or dangling binding
// yields Unbound, never a fallback.
func Slot(templates []models.Template, state models.SelectionState, slot models.Slot) Result {
	id := state.SlotTemplateID(slot)
	if t, ok := models.FindTemplate(templates, id); ok {
		return resolved(t)
	}
	return Result{Kind: Unbound, RequestedID: id}
}
