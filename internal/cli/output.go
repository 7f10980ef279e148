package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/49nord/humble/internal/compiler"
	"github.com/49nord/humble/internal/parser"
	"github.com/49nord/humble/internal/router"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitSchemaError  = 1 // Schema did not compile
	ExitCommandError = 2 // Command error (bad flags, unreadable paths, write failures)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics, so JSON output stays clean
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Errors []CLIError  `json:"errors,omitempty"`
}

// CLIError is one machine-readable diagnostic.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs one diagnostic in the configured format.
func (f *OutputFormatter) Error(diag CLIError) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "error", Errors: []CLIError{diag}})
	}
	fmt.Fprintf(f.GetErrWriter(), "%s %s\n", color.RedString("error[%s]:", diag.Code), diag.Message)
	if f.Verbose && diag.Details != nil {
		fmt.Fprintf(f.GetErrWriter(), "  %v\n", diag.Details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Diagnose converts a load or compile failure into a CLIError with a
// stable code per error kind.
func Diagnose(path string, err error) CLIError {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return CLIError{
			Code:    "parse",
			Message: fmt.Sprintf("%s:%s", path, parseErr.Error()),
			Details: parseErr,
		}
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return CLIError{Code: "load", Message: loadErr.Error()}
	}

	var unresolved *compiler.UnresolvedTypeError
	if errors.As(err, &unresolved) {
		return CLIError{Code: "unresolved-type", Message: err.Error(), Details: unresolved}
	}
	var dupName *compiler.DuplicateNameError
	if errors.As(err, &dupName) {
		return CLIError{Code: "duplicate-name", Message: err.Error(), Details: dupName}
	}
	var arity *compiler.TupleArityError
	if errors.As(err, &arity) {
		return CLIError{Code: "tuple-arity", Message: err.Error(), Details: arity}
	}
	var mapKey *compiler.InvalidMapKeyError
	if errors.As(err, &mapKey) {
		return CLIError{Code: "invalid-map-key", Message: err.Error(), Details: mapKey}
	}
	var dupVariant *compiler.DuplicateVariantError
	if errors.As(err, &dupVariant) {
		return CLIError{Code: "duplicate-variant", Message: err.Error(), Details: dupVariant}
	}
	var cyclic *compiler.CyclicTypeError
	if errors.As(err, &cyclic) {
		return CLIError{Code: "cyclic-type", Message: err.Error(), Details: cyclic}
	}
	var query *compiler.InvalidQueryTypeError
	if errors.As(err, &query) {
		return CLIError{Code: "invalid-query-type", Message: err.Error(), Details: query}
	}
	var ambiguous *router.RouteAmbiguityError
	if errors.As(err, &ambiguous) {
		return CLIError{Code: "ambiguous-routes", Message: err.Error(), Details: ambiguous}
	}
	return CLIError{Code: "internal", Message: err.Error()}
}
