package lexer

import (
	"testing"

	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.RawToken, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	l := New(src, "", sink)
	return l.Tokenize(), sink
}

func kinds(toks []token.RawToken) []token.RawKind {
	out := make([]token.RawKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerOperatorOrdering(t *testing.T) {
	// "/*" is exercised separately (TestLexerCommentTransparency /
	// TestLexerUnterminatedMultilineCommentStopsLexing): feeding it through
	// a full Tokenize() here would trigger comment-absorption and an
	// UnterminatedComment diagnostic, which isn't what this test checks.
	tests := []struct {
		src  string
		want []token.RawKind
	}{
		{"->", []token.RawKind{token.RawFunctionArrow}},
		{"=>", []token.RawKind{token.RawArrow}},
		{"<=", []token.RawKind{token.RawLessEqual}},
		{">=", []token.RawKind{token.RawGreaterEqual}},
		{"==", []token.RawKind{token.RawEqual}},
		{"!=", []token.RawKind{token.RawNotEqual}},
		{"&&", []token.RawKind{token.RawLogicalAnd}},
		{"||", []token.RawKind{token.RawLogicalOr}},
		{"<<", []token.RawKind{token.RawShiftLeft}},
		{">>", []token.RawKind{token.RawShiftRight}},
		{"**", []token.RawKind{token.RawExponent}},
	}

	for _, tt := range tests {
		toks, sink := tokenize(t, tt.src)
		if sink.HasErrors() {
			t.Fatalf("%q: unexpected diagnostics: %s", tt.src, sink.Format())
		}
		got := kinds(toks)[:len(toks)-1] // drop trailing EOF
		if len(got) != len(tt.want) {
			t.Fatalf("%q: got %v, want %v", tt.src, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%q: token %d = %v, want %v", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestLexerRegexWinsOverDivision(t *testing.T) {
	toks, sink := tokenize(t, "/abc/")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if len(toks) != 2 || toks[0].Kind != token.RawRegex {
		t.Fatalf("expected a single REGEX token, got %v", kinds(toks))
	}
}

func TestLexerStringBeforeRegex(t *testing.T) {
	toks, sink := tokenize(t, `"a/b"`)
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	if len(toks) != 2 || toks[0].Kind != token.RawString || toks[0].Text != `"a/b"` {
		t.Fatalf("expected a single STRING token with quotes, got %+v", toks)
	}
}

func TestLexerNumericBases(t *testing.T) {
	toks, sink := tokenize(t, "0b101 0xFF 3.14 42")
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", sink.Format())
	}
	want := []struct {
		kind  token.RawKind
		value int64
	}{
		{token.RawBinary, 5},
		{token.RawHex, 255},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind {
			t.Fatalf("token %d kind = %v, want %v", i, toks[i].Kind, w.kind)
		}
		if toks[i].Value.(int64) != w.value {
			t.Fatalf("token %d value = %v, want %v", i, toks[i].Value, w.value)
		}
	}
	if toks[2].Kind != token.RawFloat || toks[2].Value.(float64) != 3.14 {
		t.Fatalf("float token = %+v", toks[2])
	}
	if toks[3].Kind != token.RawInteger || toks[3].Value.(int64) != 42 {
		t.Fatalf("integer token = %+v", toks[3])
	}
}

func TestLexerUnterminatedMultilineCommentStopsLexing(t *testing.T) {
	toks, sink := tokenize(t, "let x = 1; /* never closes")
	if !sink.HasErrors() {
		t.Fatal("expected an UnterminatedComment diagnostic")
	}
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.UnterminatedComment {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnterminatedComment, got %+v", sink.Diagnostics())
	}
	// Tokens before the comment are still produced; lexing halts, so no EOF.
	if len(toks) == 0 {
		t.Fatal("expected tokens preceding the unterminated comment")
	}
	if toks[len(toks)-1].Kind == token.RawEOF {
		t.Fatal("lexing should terminate without appending EOF when a comment is unterminated")
	}
}

func TestLexerUnterminatedStringAtEOF(t *testing.T) {
	// The UNTERMINATED_STRING rule's regex anchors '$' to the absolute end
	// of input (no MULTILINE-style end-of-line matching), matching the
	// original implementation: an open quote is only flagged as
	// unterminated when no closing quote appears anywhere before EOF.
	toks, sink := tokenize(t, `let x = "never closes`)
	found := false
	for _, d := range sink.Diagnostics() {
		if d.Kind == diag.UnterminatedString {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnterminatedString diagnostic, got %+v", sink.Diagnostics())
	}
	last := toks[len(toks)-1]
	if last.Kind != token.RawEOF {
		t.Fatalf("lexing should still reach EOF after an unterminated string, got %+v", toks)
	}
}

func TestLexerCommentTransparency(t *testing.T) {
	withComments := "let x = 1; // trailing\n/* block\nspans lines */\nlet y = 2;"
	withoutComments := "let x = 1; \n\nlet y = 2;"

	a, sinkA := tokenize(t, withComments)
	b, sinkB := tokenize(t, withoutComments)
	if sinkA.HasErrors() || sinkB.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s / %s", sinkA.Format(), sinkB.Format())
	}

	filterSignificant := func(toks []token.RawToken) []token.RawKind {
		var out []token.RawKind
		for _, tok := range toks {
			switch tok.Kind {
			case token.RawWhitespace, token.RawNewline, token.RawComment, token.RawEOF:
				continue
			}
			out = append(out, tok.Kind)
		}
		return out
	}

	ka, kb := filterSignificant(a), filterSignificant(b)
	if len(ka) != len(kb) {
		t.Fatalf("comment removal changed token stream: %v vs %v", ka, kb)
	}
	for i := range ka {
		if ka[i] != kb[i] {
			t.Fatalf("token %d differs: %v vs %v", i, ka[i], kb[i])
		}
	}
}

func TestLexerUnknownTokenReportsAndAdvances(t *testing.T) {
	toks, sink := tokenize(t, "let x = 1 @ 2;")
	if !sink.HasErrors() {
		t.Fatal("expected an UnknownToken diagnostic")
	}
	last := toks[len(toks)-1]
	if last.Kind != token.RawEOF {
		t.Fatalf("lexing should reach EOF after an unknown token, got %+v", toks)
	}
}
