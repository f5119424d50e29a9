// Package diag implements the Diagnostic Sink: an append-only collector of
// structured diagnostics produced by the lexer and the CLI's file-handling
// layer. It never aborts compilation itself; callers decide whether to
// continue after inspecting the sink.
package diag

import (
	"fmt"
	"strings"

	"github.com/woundrite/dakshin/internal/source"
)

// Kind classifies a diagnostic.
type Kind int

const (
	UnknownToken Kind = iota
	UnterminatedString
	UnterminatedComment
	IOError
	GenericError
)

func (k Kind) String() string {
	switch k {
	case UnknownToken:
		return "UnknownToken"
	case UnterminatedString:
		return "UnterminatedString"
	case UnterminatedComment:
		return "UnterminatedComment"
	case IOError:
		return "IOError"
	case GenericError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     source.Position
}

// String renders the diagnostic in the form mandated by spec §7:
// "<kind>: <detail> File: <path>, Line: L, Column: C", or, when no file is
// known, "<kind>: <detail> Line: L, Column: C".
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s ", d.Kind, d.Message)
	if d.Pos.File != "" {
		fmt.Fprintf(&sb, "File: %s, ", d.Pos.File)
	}
	fmt.Fprintf(&sb, "Line: %d, Column: %d", d.Pos.Line, d.Pos.Column)
	return sb.String()
}

// Sink accumulates diagnostics for a single compilation.
type Sink struct {
	diagnostics []Diagnostic
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends a diagnostic. It never panics or aborts.
func (s *Sink) Report(kind Kind, message string, pos source.Position) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Kind: kind, Message: message, Pos: pos})
}

// Diagnostics returns all diagnostics reported so far, oldest first.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diagnostics) > 0
}

// Clear discards all recorded diagnostics.
func (s *Sink) Clear() {
	s.diagnostics = nil
}

// Format renders every diagnostic, one per line.
func (s *Sink) Format() string {
	lines := make([]string, len(s.diagnostics))
	for i, d := range s.diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
