package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"urlcopier/pkg/logger"

	"github.com/fatih/color"
)

type ExitCode int

const (
	ExitCodeSuccess          ExitCode = 0
	ExitCodeGeneral          ExitCode = 1
	ExitCodeConfig           ExitCode = 2
	ExitCodeTemplateNotFound ExitCode = 3
	ExitCodeNoTemplates      ExitCode = 4
	ExitCodeClipboard        ExitCode = 5
	ExitCodeBrowser          ExitCode = 6
	ExitCodeValidation       ExitCode = 7
	ExitCodeStorage          ExitCode = 8
	ExitCodeCancellation     ExitCode = 9
	ExitCodeDaemon           ExitCode = 10
)

// Standardized error messages for consistent user-facing errors
const (
	ErrMsgStoreOpen       = "Failed to open template store"
	ErrMsgStoreSave       = "Failed to save templates"
	ErrMsgCaptureFailed   = "Failed to read tabs from the browser"
	ErrMsgClipboardFailed = "Failed to copy to clipboard"
)

type Error struct {
	Code       ExitCode
	Message    string
	Underlying error
	Suggestion string
	// Quiet errors were already shown to the user and only set the exit code.
	Quiet bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func New(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewWithError(code ExitCode, message string, err error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}

// Reported marks a condition that a notice has already surfaced.
func Reported(code ExitCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Quiet:   true,
	}
}

func WrapWithCode(err error, code ExitCode, message string) *Error {
	if err == nil {
		return nil
	}

	var errMsg string
	if wrapped, ok := err.(*Error); ok {
		errMsg = wrapped.Message
		if wrapped.Underlying != nil {
			errMsg += ": " + wrapped.Underlying.Error()
		}
	} else {
		errMsg = err.Error()
	}

	return &Error{
		Code:       code,
		Message:    message + ": " + errMsg,
		Underlying: err,
	}
}

// ExitCodeOf returns the code carried by err, or fallback for foreign errors.
func ExitCodeOf(err error, fallback ExitCode) ExitCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return fallback
}

func IsExitCode(err error, code ExitCode) bool {
	if err == nil {
		return false
	}

	if e, ok := err.(*Error); ok {
		return e.Code == code
	}

	return false
}

// Print writes a coloured, user-facing rendering of err to w.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}

	message := err.Error()
	suggestion := ""
	if e, ok := err.(*Error); ok {
		message = e.Message
		suggestion = e.Suggestion
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, message)

	if suggestion != "" {
		yellow.Fprint(w, "Suggestion: ")
		lines := strings.Split(suggestion, "\n")
		for i, line := range lines {
			if i == 0 {
				fmt.Fprintln(w, line)
				continue
			}
			if strings.HasPrefix(line, "  -") {
				cyan.Fprintln(w, line)
			} else {
				fmt.Fprintln(w, "           "+line)
			}
		}
	}

	fmt.Fprintln(w)
}

// HandleReturn processes an error and returns the appropriate exit code.
// It does not call os.Exit - the caller is responsible for exiting the program.
func HandleReturn(err error) ExitCode {
	if err == nil {
		return ExitCodeSuccess
	}

	exitCode := ExitCodeGeneral
	if e, ok := err.(*Error); ok {
		exitCode = e.Code
		if e.Quiet {
			logger.Debug().Int("code", int(e.Code)).Msg(e.Message)
			return exitCode
		}
		if e.Underlying != nil {
			logger.Error().Err(e.Underlying).Msg(e.Message)
		} else {
			logger.Error().Msg(e.Message)
		}
	} else {
		logger.Error().Msg(err.Error())
	}

	Print(os.Stderr, err)
	return exitCode
}

// TemplateNotFoundError names the missing ID. Any similar IDs are offered
// as a "did you mean" hint.
func TemplateNotFoundError(id string, similar ...string) *Error {
	msg := fmt.Sprintf("Template '%s' not found", id)
	if len(similar) > 0 {
		msg += fmt.Sprintf("; did you mean '%s'?", strings.Join(similar, "', '"))
	}
	return &Error{
		Code:       ExitCodeTemplateNotFound,
		Message:    msg,
		Suggestion: "Use 'urlcopier templates list' to see the configured templates.",
	}
}

func NoTemplatesError() *Error {
	return &Error{
		Code:       ExitCodeNoTemplates,
		Message:    "No templates configured",
		Suggestion: "Add one with 'urlcopier templates add' or restore the defaults with 'urlcopier templates reset'.",
	}
}

func ClipboardError(err error) *Error {
	return &Error{
		Code:       ExitCodeClipboard,
		Message:    ErrMsgClipboardFailed,
		Underlying: err,
	}
}

func BrowserError(err error) *Error {
	return &Error{
		Code:       ExitCodeBrowser,
		Message:    ErrMsgCaptureFailed,
		Underlying: err,
		Suggestion: "Start the browser with --remote-debugging-port=9222 or set URLCOPIER_DEVTOOLS_URL.",
	}
}

func StorageError(message string, err error) *Error {
	return &Error{
		Code:       ExitCodeStorage,
		Message:    message,
		Underlying: err,
	}
}

func ConfigError(message string) *Error {
	return &Error{
		Code:       ExitCodeConfig,
		Message:    message,
		Suggestion: "Check your configuration file or set the required environment variables.",
	}
}

func ValidationError(message string) *Error {
	return &Error{
		Code:    ExitCodeValidation,
		Message: message,
	}
}

func CancelledError(operation string) *Error {
	return &Error{
		Code:       ExitCodeCancellation,
		Message:    fmt.Sprintf("Operation cancelled: %s", operation),
		Suggestion: "The operation was interrupted. No changes were made.",
	}
}

func DaemonError(err error) *Error {
	return &Error{
		Code:       ExitCodeDaemon,
		Message:    "Could not reach the urlcopier daemon",
		Underlying: err,
		Suggestion: "Start it with 'urlcopier serve' or pass --local to run without it.",
	}
}
