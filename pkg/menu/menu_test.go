package menu

import (
	"context"
	"strings"
	"testing"

	"urlcopier/pkg/copier"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/models"
)

func TestBuild(t *testing.T) {
	m := Build(models.DefaultTemplates()[:2])

	var ids []string
	for _, it := range m.Items {
		ids = append(ids, it.ID)
	}
	want := []string{
		ParentID,
		"template_markdown", "template_markdown2",
		SeparatorID, CopyAllID, CopyAllAsID,
		"copy_all_markdown", "copy_all_markdown2",
	}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Fatalf("Build() ids = %v, want %v", ids, want)
	}

	if it, ok := m.Lookup("template_markdown2"); !ok || it.Title != "Markdown 2" || it.ParentID != ParentID {
		t.Errorf("Lookup(template_markdown2) = %+v, %v", it, ok)
	}
	if got := len(m.Children(CopyAllAsID)); got != 2 {
		t.Errorf("Children(all_tabs_as) = %d items, want 2", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	m := Build(nil)
	if _, ok := m.Lookup(CopyAllAsID); ok {
		t.Error("empty template list should not offer copy-all variants")
	}
	if _, ok := m.Lookup(CopyAllID); !ok {
		t.Error("copy all entry should always exist")
	}
}

func TestString(t *testing.T) {
	out := Build(models.DefaultTemplates()[:1]).String()
	for _, want := range []string{"URL Copier  [parent]", "  Markdown  [template_markdown]", "  ----", "    Markdown  [copy_all_markdown]"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		id      string
		want    Action
		wantErr bool
	}{
		{id: "copy_all", want: Action{Kind: ActionCopyAll}},
		{id: "copy_all_html", want: Action{Kind: ActionCopyAll, TemplateID: "html"}},
		{id: "template_markdown", want: Action{Kind: ActionCopyTemplate, TemplateID: "markdown"}},
		{id: "template_copy_all_x", want: Action{Kind: ActionCopyTemplate, TemplateID: "copy_all_x"}},
		{id: "template_", wantErr: true},
		{id: "parent", wantErr: true},
		{id: "separator", wantErr: true},
		{id: "copy_all_as", want: Action{Kind: ActionCopyAll, TemplateID: "as"}},
		{id: "all_tabs_as", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseItem(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseItem(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseItem(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

type recordingCopier struct {
	calls []string
}

func (r *recordingCopier) CopyTemplate(ctx context.Context, id string) (copier.Outcome, error) {
	r.calls = append(r.calls, "template:"+id)
	return copier.Outcome{Copied: true}, nil
}

func (r *recordingCopier) CopyAll(ctx context.Context, id string, f *filter.TabFilter) (copier.Outcome, error) {
	r.calls = append(r.calls, "all:"+id)
	return copier.Outcome{Copied: true}, nil
}

func TestDispatch(t *testing.T) {
	c := &recordingCopier{}
	for _, id := range []string{"template_html", "copy_all", "copy_all_text"} {
		if _, err := Dispatch(context.Background(), c, id); err != nil {
			t.Fatalf("Dispatch(%q) error = %v", id, err)
		}
	}
	if _, err := Dispatch(context.Background(), c, "parent"); err == nil {
		t.Error("Dispatch(parent) should fail")
	}

	want := "template:html,all:,all:text"
	if got := strings.Join(c.calls, ","); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}
