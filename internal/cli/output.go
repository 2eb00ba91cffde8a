package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Success, including "no match" and "ambiguous" outcomes
	ExitFailure      = 1 // Data error or record not found
	ExitCommandError = 2 // Configuration or usage error
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message; empty to use Err's message alone
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results in the selected format and
// diagnostics to ErrWriter.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics; never mixed into structured output
	Styles    Styles
}

// CLIResponse is the envelope for json and yaml output.
type CLIResponse struct {
	Status string `json:"status" yaml:"status"` // "ok"
	Data   any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// Success writes data. In text mode text renders it instead; a nil text
// writes nothing to stdout.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	case "yaml":
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(CLIResponse{Status: "ok", Data: data}); err != nil {
			return err
		}
		return enc.Close()
	default:
		if text == nil {
			return nil
		}
		return text(f.Writer)
	}
}

// Notice writes a plain diagnostic line.
func (f *OutputFormatter) Notice(format string, args ...any) {
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

// Warnf writes a diagnostic line prefixed with WARN:.
func (f *OutputFormatter) Warnf(format string, args ...any) {
	fmt.Fprintf(f.errWriter(), "%s %s\n", f.Styles.Warning.Render("WARN:"), fmt.Sprintf(format, args...))
}

// Hint writes a titled list of suggestions as diagnostics.
func (f *OutputFormatter) Hint(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w := f.errWriter()
	fmt.Fprintln(w, f.Styles.Title.Render(title))
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", f.Styles.Muted.Render(item))
	}
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
