package cmd

import (
	"fmt"

	"urlcopier/pkg/copier"
	"urlcopier/pkg/errors"
	"urlcopier/pkg/filter"
	"urlcopier/pkg/models"
	"urlcopier/pkg/tabs"

	"github.com/spf13/cobra"
)

var (
	copyTemplateID  string
	copyAll         bool
	copyTitle       string
	copyURL         string
	copyPrint       bool
	copyTitleRegex  string
	copyTitleFuzzy  string
	copyURLRegex    string
	copyURLContains string
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the active tab (or all tabs) to the clipboard",
	Long: `Copy the active tab's title and URL using the last used template, or
the first template when none has been used yet. With --all every tab of
the focused window is copied, one rendered line per tab.`,
	Example: `  # Copy the active tab with the last used template
  urlcopier copy

  # Copy with a specific template
  urlcopier copy --template html

  # Copy every tab of the focused window whose URL mentions github
  urlcopier copy --all --url-contains github

  # Format a title and URL without a browser
  urlcopier copy --title "Example" --url https://example.com --print`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var source tabs.Source
		if copyTitle != "" || copyURL != "" {
			if copyURL == "" {
				return errors.ValidationError("--url is required with --title")
			}
			source = tabs.NewStaticSource(models.CaptureRecord{Title: copyTitle, URL: copyURL})
		}

		tf := &filter.TabFilter{
			TitleRegex:  copyTitleRegex,
			TitleFuzzy:  copyTitleFuzzy,
			URLRegex:    copyURLRegex,
			URLContains: copyURLContains,
		}
		if !copyAll && !tf.IsEmpty() {
			return errors.ValidationError("tab filters only apply with --all")
		}

		a, err := newApp(source)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := GetContext()
		defer cancel()

		var out copier.Outcome
		switch {
		case copyAll:
			out, err = a.svc.CopyAll(ctx, copyTemplateID, tf)
		case copyTemplateID != "":
			out, err = a.svc.CopyTemplate(ctx, copyTemplateID)
		default:
			out, err = a.svc.CopyDefault(ctx)
		}
		if err != nil {
			return err
		}
		return reportOutcome(out)
	},
}

// reportOutcome prints the copied text when asked to and turns a reported
// failure into the command's exit code.
func reportOutcome(out copier.Outcome) error {
	if out.Copied && copyPrint {
		fmt.Println(out.Text)
	}
	return out.Err()
}

func init() {
	copyCmd.Flags().StringVarP(&copyTemplateID, "template", "t", "", "Template ID to use instead of the last used one")
	copyCmd.Flags().BoolVarP(&copyAll, "all", "a", false, "Copy every tab of the focused window")
	copyCmd.Flags().StringVar(&copyTitle, "title", "", "Use this title instead of reading the browser")
	copyCmd.Flags().StringVar(&copyURL, "url", "", "Use this URL instead of reading the browser")
	copyCmd.Flags().BoolVarP(&copyPrint, "print", "p", false, "Also print the copied text to stdout")
	copyCmd.Flags().StringVar(&copyTitleRegex, "title-regex", "", "Only copy tabs whose title matches this regex (with --all)")
	copyCmd.Flags().StringVar(&copyTitleFuzzy, "title-fuzzy", "", "Only copy tabs whose title fuzzy-matches (with --all)")
	copyCmd.Flags().StringVar(&copyURLRegex, "url-regex", "", "Only copy tabs whose URL matches this regex (with --all)")
	copyCmd.Flags().StringVar(&copyURLContains, "url-contains", "", "Only copy tabs whose URL contains this text (with --all)")
}
