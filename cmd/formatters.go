package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"urlcopier/pkg/errors"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how list and show commands print their rows.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ValidFormats lists the values accepted by --format.
func ValidFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML)}
}

func validateFormat(format string) error {
	if slices.Contains(ValidFormats(), format) {
		return nil
	}
	return errors.ValidationError(fmt.Sprintf("unknown output format %q; use one of %s",
		format, strings.Join(ValidFormats(), ", ")))
}

// OutputWriter encodes rows as JSON or YAML. Table output is left to the
// command, which knows its columns.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

func NewOutputWriter(format string) *OutputWriter {
	f := OutputFormat(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatTable
	}
	return &OutputWriter{
		format: f,
		writer: os.Stdout,
	}
}

func (w *OutputWriter) SetWriter(writer io.Writer) {
	w.writer = writer
}

// IsStructured reports whether Write produces output.
func (w *OutputWriter) IsStructured() bool {
	return w.format == FormatJSON || w.format == FormatYAML
}

func (w *OutputWriter) Write(data interface{}) error {
	switch w.format {
	case FormatJSON:
		encoder := json.NewEncoder(w.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w.writer)
		defer encoder.Close()
		return encoder.Encode(data)
	default:
		return nil
	}
}
