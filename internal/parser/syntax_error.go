package parser

import (
	"fmt"
	"strings"

	"github.com/woundrite/dakshin/internal/token"
)

// SyntaxError is raised — not sunk to a diag.Sink — on the first grammar
// violation; the parser never attempts resynchronisation (spec §4.5/§7).
// It carries the full token stream and the offending index so the driver
// can print a window of surrounding tokens without re-lexing.
type SyntaxError struct {
	Msg    string
	Tokens []token.Token
	Index  int // index into Tokens of the offending token
}

// Error renders "Syntax Error: <msg>. Got: <token-value>", the exact form
// spec §7 requires for user-visible syntax failures.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error: %s. Got: %s", e.Msg, e.offendingValue())
}

func (e *SyntaxError) offendingValue() string {
	if e.Index < 0 || e.Index >= len(e.Tokens) {
		return ""
	}
	tok := e.Tokens[e.Index]
	if tok.Kind == token.EOF {
		return "<EOF>"
	}
	return tok.Literal
}

// Context renders the error message followed by a window of up to three
// tokens before and three after the offending one, one per line, with the
// offending token marked — the "failing token and a window of three
// preceding and three following tokens" the driver is expected to print
// (spec §7).
func (e *SyntaxError) Context() string {
	var out strings.Builder
	out.WriteString(e.Error())
	out.WriteString("\n")

	start := e.Index - 3
	if start < 0 {
		start = 0
	}
	end := e.Index + 3
	if end >= len(e.Tokens) {
		end = len(e.Tokens) - 1
	}

	for i := start; i <= end; i++ {
		marker := "  "
		if i == e.Index {
			marker = "> "
		}
		out.WriteString(fmt.Sprintf("%s%3d: %-16s %q\n", marker, i, e.Tokens[i].Kind, e.Tokens[i].Literal))
	}
	return out.String()
}
