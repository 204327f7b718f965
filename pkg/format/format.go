// Package format renders templates against captured tabs.
//
// Rendering is a single left-to-right scan: each {{title}} or {{url}} token
// is replaced as it is found and the substituted text is never rescanned, so
// a title that itself contains "{{url}}" survives verbatim. There is no
// escaping mechanism and unrecognized tokens pass through unchanged.
package format

import (
	"strings"

	"urlcopier/pkg/models"
)

// RecordSeparator joins the renders of a multi-tab copy.
const RecordSeparator = "\n"

// Render substitutes title and url into format.
func Render(format, title, url string) string {
	var b strings.Builder
	b.Grow(len(format) + len(title) + len(url))

	rest := format
	for {
		i := strings.Index(rest, "{{")
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		rest = rest[i:]

		switch {
		case strings.HasPrefix(rest, models.TitleToken):
			b.WriteString(title)
			rest = rest[len(models.TitleToken):]
		case strings.HasPrefix(rest, models.URLToken):
			b.WriteString(url)
			rest = rest[len(models.URLToken):]
		default:
			// Not a token: emit one brace and keep scanning from the next
			// byte so "{{{title}}" still finds the inner token.
			b.WriteByte(rest[0])
			rest = rest[1:]
		}
	}
}

// RenderRecord renders a single capture record.
func RenderRecord(format string, rec models.CaptureRecord) string {
	return Render(format, rec.Title, rec.URL)
}

// RenderAll renders every record and joins them with RecordSeparator.
func RenderAll(format string, records []models.CaptureRecord) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, RenderRecord(format, rec))
	}
	return strings.Join(parts, RecordSeparator)
}

// HasPlaceholders reports whether format references either token.
func HasPlaceholders(format string) bool {
	return strings.Contains(format, models.TitleToken) || strings.Contains(format, models.URLToken)
}
