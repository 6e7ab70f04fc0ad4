package graphmodel

// diagnostic.go defines the Diagnostic type returned by failed requests and transforms.
//
// © 2025 parcelgo authors. MIT License.

import (
	"fmt"
	"strings"
)

// Severity classifies a Diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is a user-facing compile/transform error with a message,
// source location, and severity. Produced by transformers, resolvers, and
// configuration loading; propagated unchanged through the pipeline and the
// builder.
type Diagnostic struct {
	Message  string
	FilePath Path
	Severity Severity
	Line     int
	Column   int
}

func (d Diagnostic) String() string {
	if d.FilePath == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s:%d:%d: %s", d.Severity, d.FilePath, d.Line, d.Column, d.Message)
}

// IOFailure builds the Diagnostic a file read or cache write error is
// converted into, tagged with the offending path.
func IOFailure(path Path, err error) Diagnostic {
	return Diagnostic{
		Message:  err.Error(),
		FilePath: path,
		Severity: SeverityError,
	}
}

// DiagnosticsError wraps one or more Diagnostics as a Go error, the shape
// returned from the top-level Build call on failure.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%d diagnostics:\n%s", len(e.Diagnostics), strings.Join(parts, "\n"))
}

// NewDiagnosticsError returns nil if diags is empty, else a *DiagnosticsError
// wrapping it — convenient at call sites that conditionally fail a build.
func NewDiagnosticsError(diags []Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	return &DiagnosticsError{Diagnostics: diags}
}
