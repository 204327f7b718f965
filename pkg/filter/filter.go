package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"urlcopier/pkg/models"
)

type FilterMode int

const (
	FilterModeContains FilterMode = iota
	FilterModeRegex
	FilterModeFuzzy
)

type StringFilter struct {
	Pattern string
	Mode    FilterMode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode FilterMode) (*StringFilter, error) {
	f := &StringFilter{
		Pattern: pattern,
		Mode:    mode,
	}

	if mode == FilterModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}

	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case FilterModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case FilterModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	case FilterModeFuzzy:
		return FuzzyMatch(f.Pattern, s)
	default:
		return true
	}
}

func FuzzyMatch(pattern, text string) bool {
	if pattern == "" {
		return true
	}
	if text == "" {
		return false
	}

	pattern = strings.ToLower(pattern)
	text = strings.ToLower(text)

	pIdx := 0
	for tIdx := 0; tIdx < len(text) && pIdx < len(pattern); tIdx++ {
		if pattern[pIdx] == text[tIdx] {
			pIdx++
		}
	}
	return pIdx == len(pattern)
}

func FuzzyMatchRanked(pattern, text string, threshold float64) bool {
	if pattern == "" {
		return true
	}
	if text == "" {
		return false
	}
	return Similarity(pattern, text) >= threshold
}

// Similarity is 1 minus the normalized Levenshtein distance.
func Similarity(a, b string) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1
	}
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	previousRow := make([]int, len(s2)+1)
	currentRow := make([]int, len(s2)+1)

	for i := 0; i <= len(s2); i++ {
		previousRow[i] = i
	}

	for i := 0; i < len(s1); i++ {
		currentRow[0] = i + 1

		for j := 0; j < len(s2); j++ {
			cost := 1
			if unicode.ToLower(rune(s1[i])) == unicode.ToLower(rune(s2[j])) {
				cost = 0
			}

			deletion := currentRow[j] + 1
			insertion := previousRow[j+1] + 1
			substitution := previousRow[j] + cost

			currentRow[j+1] = min(min(deletion, insertion), substitution)
		}

		previousRow, currentRow = currentRow, previousRow
	}

	return previousRow[len(s2)]
}

// SuggestionThreshold is the similarity above which an ID is offered as a
// "did you mean" hint.
const SuggestionThreshold = 0.7

// SimilarTemplateIDs returns IDs that look like id, for "did you mean" hints.
func SimilarTemplateIDs(templates []models.Template, id string, threshold float64) []string {
	var out []string
	for _, t := range templates {
		if FuzzyMatch(id, t.ID) || FuzzyMatchRanked(id, t.ID, threshold) {
			out = append(out, t.ID)
		}
	}
	return out
}

// TabFilter narrows a copy-all capture. Empty fields match everything.
type TabFilter struct {
	TitleRegex  string
	TitleFuzzy  string
	URLRegex    string
	URLContains string
}

// IsEmpty reports whether the filter would keep every record.
func (f *TabFilter) IsEmpty() bool {
	return f == nil || (f.TitleRegex == "" && f.TitleFuzzy == "" && f.URLRegex == "" && f.URLContains == "")
}

// RecordFilter is a compiled TabFilter.
type RecordFilter struct {
	title []*StringFilter
	url   []*StringFilter
}

// Compile checks every pattern once. A nil or empty filter compiles to one
// that keeps every record.
func (f *TabFilter) Compile() (*RecordFilter, error) {
	rf := &RecordFilter{}
	if f.IsEmpty() {
		return rf, nil
	}

	add := func(dst *[]*StringFilter, pattern string, mode FilterMode, field string) error {
		if pattern == "" {
			return nil
		}
		sf, err := NewStringFilter(pattern, mode)
		if err != nil {
			return fmt.Errorf("%s filter: %w", field, err)
		}
		*dst = append(*dst, sf)
		return nil
	}

	if err := add(&rf.title, f.TitleRegex, FilterModeRegex, "title"); err != nil {
		return nil, err
	}
	if err := add(&rf.title, f.TitleFuzzy, FilterModeFuzzy, "title"); err != nil {
		return nil, err
	}
	if err := add(&rf.url, f.URLRegex, FilterModeRegex, "url"); err != nil {
		return nil, err
	}
	if err := add(&rf.url, f.URLContains, FilterModeContains, "url"); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *RecordFilter) Match(rec models.CaptureRecord) bool {
	for _, sf := range rf.title {
		if !sf.Match(rec.Title) {
			return false
		}
	}
	for _, sf := range rf.url {
		if !sf.Match(rec.URL) {
			return false
		}
	}
	return true
}

// Apply keeps matching records in their original order.
func (rf *RecordFilter) Apply(records []models.CaptureRecord) []models.CaptureRecord {
	if len(rf.title) == 0 && len(rf.url) == 0 {
		return records
	}
	out := make([]models.CaptureRecord, 0, len(records))
	for _, rec := range records {
		if rf.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Apply compiles f and keeps matching records in their original order.
func (f *TabFilter) Apply(records []models.CaptureRecord) ([]models.CaptureRecord, error) {
	rf, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return rf.Apply(records), nil
}
