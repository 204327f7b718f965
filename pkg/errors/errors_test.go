package errors

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "basic error without underlying",
			err:      &Error{Code: ExitCodeGeneral, Message: "test error"},
			expected: "test error",
		},
		{
			name:     "error with underlying",
			err:      &Error{Code: ExitCodeConfig, Message: "config error", Underlying: errors.New("file not found")},
			expected: "config error: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{
		Code:       ExitCodeGeneral,
		Message:    "test error",
		Underlying: underlying,
	}

	if err.Unwrap() != underlying {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlying)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should find the underlying error")
	}
}

func TestNewWithError(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewWithError(ExitCodeStorage, "save failed", underlying)

	if err.Code != ExitCodeStorage {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeStorage)
	}
	if err.Message != "save failed" {
		t.Errorf("Message = %q, want %q", err.Message, "save failed")
	}
	if err.Underlying != underlying {
		t.Errorf("Underlying = %v, want %v", err.Underlying, underlying)
	}
}

func TestWrapWithCode(t *testing.T) {
	underlying := errors.New("database is locked")
	err := WrapWithCode(underlying, ExitCodeStorage, ErrMsgStoreSave)

	if err.Code != ExitCodeStorage {
		t.Errorf("Code = %d, want %d", err.Code, ExitCodeStorage)
	}
	if err.Message != "Failed to save templates: database is locked" {
		t.Errorf("Message = %q", err.Message)
	}
	if !errors.Is(err, underlying) {
		t.Error("WrapWithCode() should keep the original error")
	}
	if WrapWithCode(nil, ExitCodeStorage, "x") != nil {
		t.Error("WrapWithCode(nil) should return nil")
	}
}

func TestExitCodeOf(t *testing.T) {
	if code := ExitCodeOf(ValidationError("bad"), ExitCodeStorage); code != ExitCodeValidation {
		t.Errorf("ExitCodeOf(validation) = %d, want %d", code, ExitCodeValidation)
	}
	if code := ExitCodeOf(errors.New("plain"), ExitCodeStorage); code != ExitCodeStorage {
		t.Errorf("ExitCodeOf(plain) = %d, want %d", code, ExitCodeStorage)
	}
}

func TestIsExitCode(t *testing.T) {
	err := NoTemplatesError()

	if !IsExitCode(err, ExitCodeNoTemplates) {
		t.Error("IsExitCode() should return true for matching code")
	}
	if IsExitCode(err, ExitCodeConfig) {
		t.Error("IsExitCode() should return false for non-matching code")
	}
	if IsExitCode(nil, ExitCodeGeneral) {
		t.Error("IsExitCode() should return false for nil error")
	}
	if IsExitCode(errors.New("plain error"), ExitCodeGeneral) {
		t.Error("IsExitCode() should return false for plain error")
	}
}

func TestHandleReturn(t *testing.T) {
	if code := HandleReturn(nil); code != ExitCodeSuccess {
		t.Errorf("HandleReturn(nil) = %d, want %d", code, ExitCodeSuccess)
	}
	if code := HandleReturn(ClipboardError(errors.New("no display"))); code != ExitCodeClipboard {
		t.Errorf("HandleReturn() = %d, want %d", code, ExitCodeClipboard)
	}
	if code := HandleReturn(errors.New("plain")); code != ExitCodeGeneral {
		t.Errorf("HandleReturn() = %d, want %d", code, ExitCodeGeneral)
	}
}

func TestHandleReturnReported(t *testing.T) {
	err := Reported(ExitCodeTemplateNotFound, "Template 'x' not found")
	if code := HandleReturn(err); code != ExitCodeTemplateNotFound {
		t.Errorf("HandleReturn() = %d, want %d", code, ExitCodeTemplateNotFound)
	}
}

func TestPrint(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	Print(&buf, &Error{Code: ExitCodeConfig, Message: "bad config", Suggestion: "first line\n  - option a\nmore"})

	out := buf.String()
	for _, want := range []string{"Error: bad config", "Suggestion: first line", "  - option a", "           more"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	Print(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("Print(nil) wrote %q", buf.String())
	}
}

func TestTemplateNotFoundErrorSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		similar []string
		want    string
	}{
		{name: "no suggestions", want: "Template 'mdown' not found"},
		{name: "one suggestion", similar: []string{"markdown"}, want: "Template 'mdown' not found; did you mean 'markdown'?"},
		{name: "several suggestions", similar: []string{"markdown", "markdown2"}, want: "Template 'mdown' not found; did you mean 'markdown', 'markdown2'?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TemplateNotFoundError("mdown", tt.similar...)
			if err.Message != tt.want {
				t.Errorf("Message = %q, want %q", err.Message, tt.want)
			}
			if err.Code != ExitCodeTemplateNotFound {
				t.Errorf("Code = %d, want %d", err.Code, ExitCodeTemplateNotFound)
			}
		})
	}
}

func TestHelperFunctions(t *testing.T) {
	tests := []struct {
		name  string
		fn    func() *Error
		check func(*Error) bool
	}{
		{
			name:  "TemplateNotFoundError",
			fn:    func() *Error { return TemplateNotFoundError("x") },
			check: func(e *Error) bool { return e.Code == ExitCodeTemplateNotFound },
		},
		{
			name:  "NoTemplatesError",
			fn:    NoTemplatesError,
			check: func(e *Error) bool { return e.Code == ExitCodeNoTemplates },
		},
		{
			name:  "BrowserError",
			fn:    func() *Error { return BrowserError(errors.New("refused")) },
			check: func(e *Error) bool { return e.Code == ExitCodeBrowser && e.Suggestion != "" },
		},
		{
			name:  "StorageError",
			fn:    func() *Error { return StorageError(ErrMsgStoreSave, errors.New("locked")) },
			check: func(e *Error) bool { return e.Code == ExitCodeStorage },
		},
		{
			name:  "ConfigError",
			fn:    func() *Error { return ConfigError("invalid yaml") },
			check: func(e *Error) bool { return e.Code == ExitCodeConfig },
		},
		{
			name:  "CancelledError",
			fn:    func() *Error { return CancelledError("reset") },
			check: func(e *Error) bool { return e.Code == ExitCodeCancellation },
		},
		{
			name:  "DaemonError",
			fn:    func() *Error { return DaemonError(errors.New("refused")) },
			check: func(e *Error) bool { return e.Code == ExitCodeDaemon },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !tt.check(err) {
				t.Errorf("%s() returned error with unexpected code %d", tt.name, err.Code)
			}
		})
	}
}
