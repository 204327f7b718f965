package models

import (
	"testing"
)

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name    string
		tpl     Template
		wantErr bool
	}{
		{name: "valid", tpl: Template{ID: "a", Name: "A", Format: "{{url}}"}},
		{name: "missing id", tpl: Template{Name: "A", Format: "x"}, wantErr: true},
		{name: "empty name", tpl: Template{ID: "a", Format: "x"}, wantErr: true},
		{name: "empty format", tpl: Template{ID: "a", Name: "A"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tpl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateListRejectsDuplicates(t *testing.T) {
	list := []Template{
		{ID: "a", Name: "A", Format: "x"},
		{ID: "a", Name: "B", Format: "y"},
	}
	if err := ValidateList(list); err == nil {
		t.Error("ValidateList() expected duplicate id error")
	}
	if err := ValidateList(DefaultTemplates()); err != nil {
		t.Errorf("ValidateList(defaults) = %v", err)
	}
}

func TestDefaultTemplatesOrder(t *testing.T) {
	defaults := DefaultTemplates()
	if len(defaults) != 5 {
		t.Fatalf("len(DefaultTemplates()) = %d, want 5", len(defaults))
	}
	if defaults[0].ID != "markdown" || defaults[0].Format != "[{{title}}]({{url}})" {
		t.Errorf("first default = %+v, want markdown link", defaults[0])
	}

	defaults[0].ID = "changed"
	if DefaultTemplates()[0].ID != "markdown" {
		t.Error("DefaultTemplates() must return a fresh slice")
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{in: "1", want: Slot1},
		{in: "2", want: Slot2},
		{in: "slot1", want: Slot1},
		{in: "Slot-2", want: Slot2},
		{in: "3", wantErr: true},
		{in: "", wantErr: true},
		{in: "one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlot(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSlot(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSlot(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelectionStateRevalidate(t *testing.T) {
	templates := []Template{{ID: "keep", Name: "K", Format: "x"}}
	state := SelectionState{
		LastUsedTemplateID: "gone",
		Slot1TemplateID:    "keep",
		Slot2TemplateID:    "gone",
	}

	got := state.Revalidate(templates)

	if got.Slot1TemplateID != "keep" {
		t.Errorf("Slot1TemplateID = %q, want keep", got.Slot1TemplateID)
	}
	if got.Slot2TemplateID != "" {
		t.Errorf("Slot2TemplateID = %q, want cleared", got.Slot2TemplateID)
	}
	if got.LastUsedTemplateID != "gone" {
		t.Errorf("LastUsedTemplateID = %q, want untouched", got.LastUsedTemplateID)
	}
}

func TestFindTemplate(t *testing.T) {
	list := DefaultTemplates()
	if tpl, ok := FindTemplate(list, "html"); !ok || tpl.Name != "HTML" {
		t.Errorf("FindTemplate(html) = %+v, %v", tpl, ok)
	}
	if _, ok := FindTemplate(list, ""); ok {
		t.Error("FindTemplate(\"\") should miss")
	}
	if _, ok := FindTemplate(list, "missing"); ok {
		t.Error("FindTemplate(missing) should miss")
	}
}
