package filter

import (
	"strings"
	"testing"

	"urlcopier/pkg/models"
)

func TestNewStringFilter(t *testing.T) {
	if _, err := NewStringFilter("[invalid(", FilterModeRegex); err == nil || !strings.Contains(err.Error(), "invalid regex pattern") {
		t.Errorf("NewStringFilter() error = %v, want invalid regex pattern", err)
	}
	for _, mode := range []FilterMode{FilterModeContains, FilterModeRegex, FilterModeFuzzy} {
		if f, err := NewStringFilter("test", mode); err != nil || f == nil {
			t.Errorf("NewStringFilter(mode %d) = %v, %v", mode, f, err)
		}
	}
}

func TestStringFilter_Match(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		mode    FilterMode
		input   string
		want    bool
	}{
		{name: "contains match", pattern: "TEST", mode: FilterModeContains, input: "this is a test string", want: true},
		{name: "contains no match", pattern: "xyz", mode: FilterModeContains, input: "this is a test string", want: false},
		{name: "regex match", pattern: "^test.*", mode: FilterModeRegex, input: "testing", want: true},
		{name: "regex no match", pattern: "^test$", mode: FilterModeRegex, input: "testing", want: false},
		{name: "fuzzy match", pattern: "api", mode: FilterModeFuzzy, input: "application programming interface", want: true},
		{name: "fuzzy no match", pattern: "xyz", mode: FilterModeFuzzy, input: "test", want: false},
		{name: "empty contains - always matches", pattern: "", mode: FilterModeContains, input: "anything", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewStringFilter(tt.pattern, tt.mode)
			if err != nil {
				t.Fatalf("NewStringFilter() failed: %v", err)
			}

			got := filter.Match(tt.input)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{pattern: "", text: "anything", want: true},
		{pattern: "abc", text: "", want: false},
		{pattern: "TEST", text: "test", want: true},
		{pattern: "md2", text: "markdown2", want: true},
		{pattern: "cba", text: "abc", want: false},
		{pattern: "abcdef", text: "abc", want: false},
		{pattern: "123", text: "test-123-abc", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			got := FuzzyMatch(tt.pattern, tt.text)
			if got != tt.want {
				t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tt.pattern, tt.text, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1   string
		s2   string
		want int
	}{
		{s1: "", s2: "", want: 0},
		{s1: "", s2: "test", want: 4},
		{s1: "test", s2: "tent", want: 1},
		{s1: "tests", s2: "test", want: 1},
		{s1: "Test", s2: "test", want: 0},
		{s1: "kitten", s2: "sitting", want: 3},
	}

	for _, tt := range tests {
		got := LevenshteinDistance(tt.s1, tt.s2)
		if got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

func TestFuzzyMatchRanked(t *testing.T) {
	if !FuzzyMatchRanked("test", "tested", 0.5) {
		t.Error("FuzzyMatchRanked(test, tested, 0.5) = false")
	}
	if FuzzyMatchRanked("test", "completely different", 0.8) {
		t.Error("FuzzyMatchRanked(test, completely different, 0.8) = true")
	}
	if !FuzzyMatchRanked("", "anything", 0.5) {
		t.Error("empty pattern should match")
	}
	if FuzzyMatchRanked("test", "", 0.5) {
		t.Error("empty text should not match")
	}
}

func TestSimilarTemplateIDs(t *testing.T) {
	got := SimilarTemplateIDs(models.DefaultTemplates(), "markdwn", SuggestionThreshold)
	if len(got) == 0 || got[0] != "markdown" {
		t.Errorf("SimilarTemplateIDs(markdwn) = %v, want markdown first", got)
	}
	if got := SimilarTemplateIDs(models.DefaultTemplates(), "zzzz", SuggestionThreshold); len(got) != 0 {
		t.Errorf("SimilarTemplateIDs(zzzz) = %v, want none", got)
	}
}

func TestTabFilter_Apply(t *testing.T) {
	records := []models.CaptureRecord{
		{Title: "Go Documentation", URL: "https://go.dev/doc"},
		{Title: "GitHub", URL: "https://github.com/golang/go"},
		{Title: "News", URL: "https://news.example.com"},
	}

	tests := []struct {
		name    string
		filter  *TabFilter
		want    []string
		wantErr bool
	}{
		{name: "nil filter keeps all", filter: nil, want: []string{"Go Documentation", "GitHub", "News"}},
		{name: "url contains", filter: &TabFilter{URLContains: "GO"}, want: []string{"Go Documentation", "GitHub"}},
		{name: "url regex", filter: &TabFilter{URLRegex: `^https://go\.dev/`}, want: []string{"Go Documentation"}},
		{name: "title fuzzy", filter: &TabFilter{TitleFuzzy: "ghb"}, want: []string{"GitHub"}},
		{name: "title regex", filter: &TabFilter{TitleRegex: "^N"}, want: []string{"News"}},
		{name: "combined", filter: &TabFilter{URLContains: "go", TitleRegex: "Doc"}, want: []string{"Go Documentation"}},
		{name: "invalid regex", filter: &TabFilter{URLRegex: "("}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(records)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Apply() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() returned %d records, want %d", len(got), len(tt.want))
			}
			for i, rec := range got {
				if rec.Title != tt.want[i] {
					t.Errorf("record[%d] = %q, want %q", i, rec.Title, tt.want[i])
				}
			}
		})
	}
}

func TestTabFilter_Compile(t *testing.T) {
	if _, err := (&TabFilter{TitleRegex: "["}).Compile(); err == nil || !strings.Contains(err.Error(), "title filter") {
		t.Errorf("Compile() error = %v, want title filter error", err)
	}
	if _, err := (&TabFilter{TitleFuzzy: "go", URLRegex: "("}).Compile(); err == nil || !strings.Contains(err.Error(), "url filter") {
		t.Errorf("Compile() error = %v, want url filter error", err)
	}

	var nilFilter *TabFilter
	rf, err := nilFilter.Compile()
	if err != nil {
		t.Fatalf("Compile() on nil filter error = %v", err)
	}
	if !rf.Match(models.CaptureRecord{Title: "x"}) {
		t.Error("nil filter should match every record")
	}
}

func TestRecordFilter_ReusesCompiledPatterns(t *testing.T) {
	rf, err := (&TabFilter{URLRegex: `^https://go\.dev/`, TitleFuzzy: "doc"}).Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(rf.url) != 1 || rf.url[0].regex == nil {
		t.Fatalf("url filters = %+v, want one compiled regex", rf.url)
	}
	re := rf.url[0].regex

	batches := [][]models.CaptureRecord{
		{{Title: "Go Documentation", URL: "https://go.dev/doc"}},
		{{Title: "Go Documentation", URL: "https://example.com"}, {Title: "Docs", URL: "https://go.dev/ref"}},
	}
	wantLens := []int{1, 1}
	for i, batch := range batches {
		if got := rf.Apply(batch); len(got) != wantLens[i] {
			t.Errorf("batch %d: Apply() = %d records, want %d", i, len(got), wantLens[i])
		}
	}
	if rf.url[0].regex != re {
		t.Error("Apply() recompiled the url regex")
	}
}
