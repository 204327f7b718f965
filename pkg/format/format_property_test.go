//go:build property

package format

import (
	"strings"
	"testing"

	"urlcopier/pkg/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRenderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	pieces := gen.OneConstOf("{{title}}", "{{url}}", "{{", "}}", "{", "a", " ", "\n", "<b>", "{{other}}")
	formats := gen.SliceOf(pieces).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})
	plain := gen.AlphaString()

	properties.Property("rendering is deterministic", prop.ForAll(
		func(format, title, url string) bool {
			return Render(format, title, url) == Render(format, title, url)
		},
		formats, plain, plain,
	))

	properties.Property("no placeholder survives when values carry none", prop.ForAll(
		func(format, title, url string) bool {
			out := Render(format, title, url)
			if strings.Contains(format, "{{{") {
				// braces directly before a token can frame the substituted value
				return true
			}
			return !strings.Contains(out, models.TitleToken) && !strings.Contains(out, models.URLToken)
		},
		formats, plain, plain,
	))

	properties.Property("substituted values are never rescanned", prop.ForAll(
		func(url string) bool {
			return Render("{{title}}-{{url}}", "{{url}}", url) == "{{url}}-"+url
		},
		plain,
	))

	properties.TestingRun(t)
}
