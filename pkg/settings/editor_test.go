package settings

import (
	"bytes"
	"strings"
	"testing"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/models"
	"urlcopier/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(templates []models.Template) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, t.ID)
	}
	return out
}

func newEditor(t *testing.T, st store.Store) *Editor {
	t.Helper()
	e, err := Load(st)
	require.NoError(t, err)
	return e
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	e := newEditor(t, store.NewMemoryStore())
	assert.Equal(t, ids(models.DefaultTemplates()), ids(e.Templates()))
	assert.False(t, e.Dirty())
}

func TestAddGeneratesCustomID(t *testing.T) {
	e := newEditor(t, store.NewMemoryStore())

	tpl, err := e.Add("", "Org", "* [[{{url}}][{{title}}]]")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tpl.ID, CustomIDPrefix))
	assert.Len(t, tpl.ID, len(CustomIDPrefix)+36)
	assert.True(t, e.Dirty())

	_, err = e.Add("html", "Dup", "x")
	assert.True(t, apperrors.IsExitCode(err, apperrors.ExitCodeValidation))

	_, err = e.Add("", "", "x")
	assert.Error(t, err)
	_, err = e.Add("", "Name", "")
	assert.Error(t, err)
}

func TestUpdateDeleteMove(t *testing.T) {
	e := newEditor(t, store.NewMemoryStore())

	require.NoError(t, e.Update("text", "Plain", "{{url}}"))
	tpl, _ := models.FindTemplate(e.Templates(), "text")
	assert.Equal(t, "Plain", tpl.Name)
	assert.Error(t, e.Update("text", "", "{{url}}"))
	assert.True(t, apperrors.IsExitCode(e.Update("nope", "a", "b"), apperrors.ExitCodeTemplateNotFound))

	require.NoError(t, e.Delete("markdown2"))
	assert.Equal(t, []string{"markdown", "html", "text", "text2"}, ids(e.Templates()))
	assert.Error(t, e.Delete("markdown2"))

	require.NoError(t, e.Move("text2", 0))
	assert.Equal(t, []string{"text2", "markdown", "html", "text"}, ids(e.Templates()))
	require.NoError(t, e.Move("text2", 3))
	assert.Equal(t, []string{"markdown", "html", "text", "text2"}, ids(e.Templates()))
	assert.Error(t, e.Move("text2", 4))
	assert.Error(t, e.Move("text2", -1))
}

func TestNotFoundSuggestsSimilarIDs(t *testing.T) {
	e := newEditor(t, store.NewMemoryStore())

	for name, err := range map[string]error{
		"update": e.Update("markdwn", "a", "b"),
		"delete": e.Delete("markdwn"),
		"move":   e.Move("markdwn", 0),
		"slot":   e.AssignSlot(models.Slot1, "markdwn"),
	} {
		assert.True(t, apperrors.IsExitCode(err, apperrors.ExitCodeTemplateNotFound), name)
		assert.Contains(t, err.Error(), "did you mean 'markdown", name)
	}

	err := e.Delete("zzzz")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSaveReplacesAndRevalidatesSlots(t *testing.T) {
	st := store.NewMemoryStoreWith(models.DefaultTemplates(), models.SelectionState{
		LastUsedTemplateID: "html",
		Slot1TemplateID:    "html",
		Slot2TemplateID:    "text",
	})
	e := newEditor(t, st)

	require.NoError(t, e.Delete("html"))
	require.NoError(t, e.AssignSlot(models.Slot2, "markdown"))

	state, err := e.Save()
	require.NoError(t, err)
	assert.Empty(t, state.Slot1TemplateID, "dangling slot is cleared")
	assert.Equal(t, "markdown", state.Slot2TemplateID)
	assert.Equal(t, "html", state.LastUsedTemplateID)
	assert.False(t, e.Dirty())

	stored, ok, err := st.Templates()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"markdown", "markdown2", "text", "text2"}, ids(stored))
}

func TestSlotAssignment(t *testing.T) {
	st := store.NewMemoryStore()
	e := newEditor(t, st)

	assert.True(t, apperrors.IsExitCode(e.AssignSlot(models.Slot1, "missing"), apperrors.ExitCodeTemplateNotFound))
	assert.Error(t, e.AssignSlot(models.Slot(3), "html"))

	require.NoError(t, e.AssignSlot(models.Slot1, "html"))
	_, err := e.Save()
	require.NoError(t, err)

	e.ClearSlot(models.Slot1)
	state, err := e.Save()
	require.NoError(t, err)
	assert.Empty(t, state.Slot1TemplateID)
}

func TestSaveEmptiedList(t *testing.T) {
	st := store.NewMemoryStore()
	e := newEditor(t, st)
	for _, tpl := range e.Templates() {
		require.NoError(t, e.Delete(tpl.ID))
	}
	_, err := e.Save()
	require.NoError(t, err)

	seeded, err := st.EnsureDefaults()
	require.NoError(t, err)
	assert.False(t, seeded, "a deliberately emptied list is not reseeded")

	e.Reset()
	_, err = e.Save()
	require.NoError(t, err)
	stored, _, _ := st.Templates()
	assert.Len(t, stored, len(models.DefaultTemplates()))
}

func TestExportImport(t *testing.T) {
	st := store.NewMemoryStoreWith(models.DefaultTemplates()[:2], models.SelectionState{Slot1TemplateID: "markdown2"})
	e := newEditor(t, st)

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf))
	out := buf.String()
	assert.Contains(t, out, "id: markdown2")
	assert.Contains(t, out, "slot1: markdown2")
	assert.NotContains(t, out, "slot2")

	other := newEditor(t, store.NewMemoryStore())
	require.NoError(t, other.Import(strings.NewReader(out)))
	assert.Equal(t, []string{"markdown", "markdown2"}, ids(other.Templates()))
	assert.Equal(t, "markdown2", other.Selection().Slot1TemplateID)
}

func TestImportRejectsAndCleans(t *testing.T) {
	e := newEditor(t, store.NewMemoryStore())

	doc := `
templates:
  - name: No id
    format: "{{url}}"
  - id: keep
    name: Keep
    format: "{{title}}"
slot1: keep
slot2: ghost
`
	require.NoError(t, e.Import(strings.NewReader(doc)))
	got := e.Templates()
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0].ID, CustomIDPrefix))
	assert.Equal(t, "keep", e.Selection().Slot1TemplateID)
	assert.Empty(t, e.Selection().Slot2TemplateID)

	assert.Error(t, e.Import(strings.NewReader("")))
	assert.Error(t, e.Import(strings.NewReader("templates: [")))
	assert.Error(t, e.Import(strings.NewReader("templates:\n  - id: x\n    name: X\n")))
}
