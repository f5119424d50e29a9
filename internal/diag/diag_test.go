package diag

import (
	"strings"
	"testing"

	"github.com/woundrite/dakshin/internal/source"
)

func TestSinkReportAndFormat(t *testing.T) {
	s := NewSink()
	if s.HasErrors() {
		t.Fatal("new sink should have no errors")
	}

	s.Report(UnknownToken, "unknown token '@'", source.Position{File: "a.dn", Line: 3, Column: 5})
	s.Report(UnterminatedComment, "unterminated multiline comment", source.Position{Line: 10, Column: 1})

	if !s.HasErrors() {
		t.Fatal("expected errors after Report")
	}
	if got := len(s.Diagnostics()); got != 2 {
		t.Fatalf("len(Diagnostics()) = %d, want 2", got)
	}

	first := s.Diagnostics()[0].String()
	if !strings.Contains(first, "UnknownToken: unknown token '@' File: a.dn, Line: 3, Column: 5") {
		t.Fatalf("unexpected diagnostic string: %q", first)
	}

	second := s.Diagnostics()[1].String()
	if strings.Contains(second, "File:") {
		t.Fatalf("diagnostic without a file should omit File:, got %q", second)
	}

	s.Clear()
	if s.HasErrors() {
		t.Fatal("expected no errors after Clear")
	}
}
