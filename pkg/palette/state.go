// Package palette is the keyboard- and pointer-driven template picker.
//
// State holds the navigation rules and knows nothing about terminals; Model
// drives it from bubbletea events.
package palette

import (
	"strconv"

	"urlcopier/pkg/models"
)

// Key names understood by State.Key.
const (
	KeyUp     = "up"
	KeyDown   = "down"
	KeyEnter  = "enter"
	KeyEscape = "esc"
)

// NoTemplatesMessage is shown when there is nothing to pick.
const NoTemplatesMessage = "No templates configured. Add one with 'urlcopier templates add'."

// MaxDigit is the highest digit shortcut.
const MaxDigit = 9

// State is the palette state machine. Closed is the zero value.
type State struct {
	Open      bool
	Selected  int
	Templates []models.Template
	Err       string
}

// Outcome reports what a transition did. Selected is set only when a
// template was chosen; choosing always closes the palette.
type Outcome struct {
	Selected *models.Template
	Closed   bool
}

// Open returns an open palette with the first item selected.
func Open(templates []models.Template) State {
	s := State{Open: true, Templates: models.CloneTemplates(templates)}
	if len(templates) == 0 {
		s.Err = NoTemplatesMessage
	}
	return s
}

// Key applies a key press. Keys that mean nothing to the palette are
// swallowed without effect.
func (s *State) Key(name string) Outcome {
	if !s.Open {
		return Outcome{}
	}

	n := len(s.Templates)
	switch name {
	case KeyEscape:
		return s.close()
	case KeyEnter:
		if n == 0 {
			return Outcome{}
		}
		return s.choose(s.Selected)
	case KeyDown:
		if n > 0 {
			s.Selected = (s.Selected + 1) % n
		}
		return Outcome{}
	case KeyUp:
		if n > 0 {
			s.Selected = (s.Selected - 1 + n) % n
		}
		return Outcome{}
	}

	if d, err := strconv.Atoi(name); err == nil && len(name) == 1 && d >= 1 && d <= MaxDigit && d <= n {
		return s.choose(d - 1)
	}
	return Outcome{}
}

// Hover moves the selection to item i.
func (s *State) Hover(i int) {
	if s.Open && i >= 0 && i < len(s.Templates) {
		s.Selected = i
	}
}

// Click chooses item i.
func (s *State) Click(i int) Outcome {
	if !s.Open || i < 0 || i >= len(s.Templates) {
		return Outcome{}
	}
	return s.choose(i)
}

// ClickOutside closes the palette without choosing.
func (s *State) ClickOutside() Outcome {
	if !s.Open {
		return Outcome{}
	}
	return s.close()
}

func (s *State) choose(i int) Outcome {
	t := s.Templates[i]
	s.Selected = i
	s.Open = false
	return Outcome{Selected: &t, Closed: true}
}

func (s *State) close() Outcome {
	s.Open = false
	return Outcome{Closed: true}
}
