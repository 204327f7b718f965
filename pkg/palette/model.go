package palette

import (
	"fmt"
	"strings"

	"urlcopier/pkg/models"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Rows above the first item: top border, header, blank line.
const listStartY = 3

const maxFormatWidth = 32

// Model is the bubbletea model around State. Every key press is consumed
// by the palette.
type Model struct {
	state  State
	keys   KeyMap
	styles Styles
	chosen *models.Template
	mouse  bool
}

func New(templates []models.Template) Model {
	return Model{
		state:  Open(templates),
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		mouse:  true,
	}
}

// WithoutMouse ignores mouse events. Item rows are only known when the box
// is drawn at the top of the screen.
func (m Model) WithoutMouse() Model {
	m.mouse = false
	return m
}

// State returns the underlying state machine.
func (m Model) State() State {
	return m.state
}

// Chosen returns the picked template, or nil when the palette was closed
// without a choice.
func (m Model) Chosen() *models.Template {
	return m.chosen
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.apply(m.state.Key(m.keyName(msg)))
	case tea.MouseMsg:
		if !m.mouse {
			return m, nil
		}
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) keyName(msg tea.KeyMsg) string {
	switch {
	case key.Matches(msg, m.keys.Close):
		return KeyEscape
	case key.Matches(msg, m.keys.Select):
		return KeyEnter
	case key.Matches(msg, m.keys.Up):
		return KeyUp
	case key.Matches(msg, m.keys.Down):
		return KeyDown
	case key.Matches(msg, m.keys.Digit):
		return msg.String()
	default:
		return ""
	}
}

// itemAt maps a screen position to an item index, or -1.
func (m Model) itemAt(x, y int) int {
	i := y - listStartY
	if x < 0 || x >= lipgloss.Width(m.View()) || i < 0 || i >= len(m.state.Templates) {
		return -1
	}
	return i
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	i := m.itemAt(msg.X, msg.Y)

	if msg.Action == tea.MouseActionMotion {
		m.state.Hover(i)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if i < 0 {
		return m.apply(m.state.ClickOutside())
	}
	return m.apply(m.state.Click(i))
}

func (m Model) apply(out Outcome) (tea.Model, tea.Cmd) {
	if out.Selected != nil {
		m.chosen = out.Selected
	}
	if out.Closed {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if !m.state.Open {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Copy the current tab as…"))
	b.WriteString("\n\n")

	if m.state.Err != "" {
		b.WriteString(m.styles.Error.Render(m.state.Err))
		b.WriteString("\n")
	}

	for i, t := range m.state.Templates {
		shortcut := " "
		if i < MaxDigit {
			shortcut = fmt.Sprintf("%d", i+1)
		}
		line := fmt.Sprintf("%s  %s  %s",
			m.styles.Key.Render(shortcut),
			t.Name,
			m.styles.Format.Render(preview(t.Format)),
		)
		if i == m.state.Selected {
			line = m.styles.Selected.Render(line)
		} else {
			line = m.styles.Item.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())

	return m.styles.Box.Render(b.String())
}

func (m Model) helpView() string {
	var parts []string
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.Help.Render(strings.Join(parts, " • "))
}

// preview flattens a format onto one line and shortens it.
func preview(format string) string {
	flat := strings.ReplaceAll(format, "\n", "⏎")
	r := []rune(flat)
	if len(r) > maxFormatWidth {
		return string(r[:maxFormatWidth-1]) + "…"
	}
	return flat
}
