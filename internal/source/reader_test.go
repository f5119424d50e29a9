package source

import "testing"

func TestReaderAdvanceTracksLineAndColumn(t *testing.T) {
	r := NewReader("ab\ncd", "")

	wantPositions := []Position{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 1, Column: 2, Offset: 1},
		{Line: 1, Column: 3, Offset: 2},
		{Line: 2, Column: 1, Offset: 3},
		{Line: 2, Column: 2, Offset: 4},
	}

	for _, want := range wantPositions {
		got := r.Position()
		if got != want {
			t.Fatalf("Position() = %+v, want %+v", got, want)
		}
		r.Advance()
	}

	if !r.AtEnd() {
		t.Fatalf("expected reader to be at end")
	}
}

func TestReaderCurrentAndRemainder(t *testing.T) {
	r := NewReader("hello", "")
	ch, ok := r.Current()
	if !ok || ch != 'h' {
		t.Fatalf("Current() = %q, %v, want 'h', true", ch, ok)
	}
	if got := r.Remainder(); got != "hello" {
		t.Fatalf("Remainder() = %q, want %q", got, "hello")
	}
	r.AdvanceBytes(3)
	if got := r.Remainder(); got != "lo" {
		t.Fatalf("Remainder() after advance = %q, want %q", got, "lo")
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile("/nonexistent/path/for/dakshin/tests.dn")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
