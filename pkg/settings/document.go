package settings

import (
	"fmt"
	"io"

	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/models"

	"gopkg.in/yaml.v3"
)

// Document is the YAML form of the settings used by import and export.
type Document struct {
	Templates []models.Template `yaml:"templates"`
	Slot1     string            `yaml:"slot1,omitempty"`
	Slot2     string            `yaml:"slot2,omitempty"`
}

// Export writes the working copy as YAML.
func (e *Editor) Export(w io.Writer) error {
	doc := Document{
		Templates: e.Templates(),
		Slot1:     e.state.Slot1TemplateID,
		Slot2:     e.state.Slot2TemplateID,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return enc.Close()
}

// Import replaces the working copy with a YAML document. Templates without
// an id get a generated one; slot bindings naming unknown templates are
// dropped.
func (e *Editor) Import(r io.Reader) error {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return apperrors.ValidationError("settings document is empty")
		}
		return apperrors.ValidationError(fmt.Sprintf("invalid settings document: %v", err))
	}

	imported := &Editor{store: e.store}
	for _, t := range doc.Templates {
		if _, err := imported.Add(t.ID, t.Name, t.Format); err != nil {
			return err
		}
	}

	state := models.SelectionState{
		LastUsedTemplateID: e.state.LastUsedTemplateID,
		Slot1TemplateID:    doc.Slot1,
		Slot2TemplateID:    doc.Slot2,
	}
	e.templates = imported.templates
	e.state = state.Revalidate(e.templates)
	e.dirty = true
	return nil
}
