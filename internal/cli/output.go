package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/gridwright/internal/engine"
	"github.com/roach88/gridwright/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (schema errors found, move denied)
	ExitCommandError = 2 // Command error (invalid paths, database not found)
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric  = "C001" // unclassified command error
	ErrCodeNotFound = "C002" // design dir / database / token not found
	ErrCodeCompile  = "C003" // design document failed to compile
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
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope every command emits in json mode.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter renders command results in the configured format. Each
// result kind has its own method so the text layout lives here, next to the
// JSON envelope it mirrors.
type OutputFormatter struct {
	format  string
	w       io.Writer
	errW    io.Writer
	verbose bool
}

// newFormatter builds a formatter from the global flags and the command's
// configured writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		format:  opts.Format,
		w:       cmd.OutOrStdout(),
		errW:    cmd.ErrOrStderr(),
		verbose: opts.Verbose,
	}
}

func (f *OutputFormatter) ok(data any) error {
	return json.NewEncoder(f.w).Encode(CLIResponse{Status: "ok", Data: data})
}

// ValidationReport renders a validate outcome: the JSON result struct, or a
// per-error text listing.
func (f *OutputFormatter) ValidationReport(result ValidationResult) error {
	if f.format == "json" {
		return f.ok(result)
	}
	if result.Valid {
		fmt.Fprintf(f.w, "design %q is valid\n", result.Design)
		return nil
	}
	fmt.Fprintf(f.w, "design %q has %d schema error(s):\n", result.Design, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Fprintf(f.w, "  %s\n", e.Error())
	}
	return nil
}

// MoveSet renders a valid-move computation. JSON mode embeds the move set's
// canonical serialization unchanged so the envelope's payload is
// byte-comparable across runs; text mode lists positions in coordinate
// order.
func (f *OutputFormatter) MoveSet(moves *engine.ValidMoveSet) error {
	if f.format == "json" {
		canonical, err := moves.MarshalCanonical()
		if err != nil {
			return WrapExitError(ExitCommandError, "serialize move set", err)
		}
		return f.ok(json.RawMessage(canonical))
	}

	fmt.Fprintf(f.w, "token %s at %s:\n", moves.TokenID, moves.Start)

	keys := make([]string, 0, len(moves.Positions))
	byKey := make(map[string]engine.Classification, len(moves.Positions))
	for c, cls := range moves.Positions {
		keys = append(keys, c.String())
		byKey[c.String()] = cls
	}
	sort.Strings(keys)

	for _, k := range keys {
		cls := byKey[k]
		if cls.State == engine.StateReachable {
			fmt.Fprintf(f.w, "  %s: reachable\n", k)
		} else {
			fmt.Fprintf(f.w, "  %s: blocked (%s)\n", k, cls.Reason)
		}
	}
	return nil
}

// DerivedConstraints renders a derive outcome.
func (f *OutputFormatter) DerivedConstraints(list []DerivedConstraint) error {
	if f.format == "json" {
		return f.ok(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(f.w, "no constraints derived")
		return nil
	}
	for _, dc := range list {
		fmt.Fprintf(f.w, "%s: budget %q / cost %q (from relation %s)\n",
			dc.Name, dc.Budget, dc.Cost, dc.RelationID)
	}
	return nil
}

// Sessions renders a session listing, one line per run in seq order.
func (f *OutputFormatter) Sessions(sessions []store.Session) error {
	if f.format == "json" {
		return f.ok(sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(f.w, "no sessions recorded")
		return nil
	}
	for _, s := range sessions {
		status := "valid"
		if s.ErrorCount > 0 {
			status = fmt.Sprintf("%d error(s)", s.ErrorCount)
		}
		fmt.Fprintf(f.w, "#%d %s %s %s (%s)\n",
			s.Seq, s.CreatedAt, s.DesignName, status, s.DesignHash[:12])
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.format == "json" {
		return json.NewEncoder(f.w).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.w, "Error [%s]: %s\n", code, message)
	if f.verbose && details != nil {
		fmt.Fprintf(f.w, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled. Diagnostics
// go to the error writer so they never corrupt JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.verbose {
		return
	}
	w := f.errW
	if w == nil {
		w = f.w
	}
	fmt.Fprintf(w, format+"\n", args...)
}
