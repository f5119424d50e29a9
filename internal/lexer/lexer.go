// Package lexer implements the longest-match-by-priority tokenizer
// described in spec §4.3: an ordered table of (kind, regex) pairs, nested
// multiline comment handling, and numeric-base parsing.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/source"
	"github.com/woundrite/dakshin/internal/token"
)

// Lexer tokenizes a source buffer, reporting diagnostics to sink as it
// goes. It never panics; malformed input becomes a diagnostic, not an
// error return (spec §8 property 1: lexer totality).
type Lexer struct {
	reader *source.Reader
	sink   *diag.Sink
}

// New creates a Lexer over input. sink receives any lexical diagnostics.
func New(input, file string, sink *diag.Sink) *Lexer {
	return &Lexer{reader: source.NewReader(input, file), sink: sink}
}

// Tokenize runs the lexer to completion, returning every RawToken produced.
// Lexing always terminates: either at EOF, where a trailing RawEOF is
// appended, or at an unterminated multiline comment, where it stops without
// one, per spec §4.3.
func (l *Lexer) Tokenize() []token.RawToken {
	var tokens []token.RawToken

	for !l.reader.AtEnd() {
		pos := l.reader.Position()
		kind, text, ok := match(l.reader.Remainder())
		if !ok || kind == token.RawUnknown {
			ch, _ := l.reader.Current()
			l.sink.Report(diag.UnknownToken, fmt.Sprintf("unknown token '%c'", ch), pos)
			l.reader.Advance()
			continue
		}

		switch kind {
		case token.RawWhitespace, token.RawNewline, token.RawComment:
			l.reader.AdvanceBytes(len(text))

		case token.RawMultilineCommentStart:
			l.reader.AdvanceBytes(len(text))
			if !l.skipMultilineComment(pos) {
				return tokens
			}

		case token.RawUnterminatedString:
			l.sink.Report(diag.UnterminatedString, fmt.Sprintf("unterminated string: %s", text), pos)
			l.reader.AdvanceBytes(len(text))

		case token.RawInteger:
			v, _ := strconv.ParseInt(text, 10, 64)
			tokens = append(tokens, token.RawToken{Kind: kind, Text: text, Value: v, Pos: pos})
			l.reader.AdvanceBytes(len(text))

		case token.RawBinary:
			v, _ := strconv.ParseInt(text[2:], 2, 64)
			tokens = append(tokens, token.RawToken{Kind: kind, Text: text, Value: v, Pos: pos})
			l.reader.AdvanceBytes(len(text))

		case token.RawHex:
			v, _ := strconv.ParseInt(text[2:], 16, 64)
			tokens = append(tokens, token.RawToken{Kind: kind, Text: text, Value: v, Pos: pos})
			l.reader.AdvanceBytes(len(text))

		case token.RawFloat:
			v, _ := strconv.ParseFloat(text, 64)
			tokens = append(tokens, token.RawToken{Kind: kind, Text: text, Value: v, Pos: pos})
			l.reader.AdvanceBytes(len(text))

		default:
			tokens = append(tokens, token.RawToken{Kind: kind, Text: text, Pos: pos})
			l.reader.AdvanceBytes(len(text))
		}
	}

	tokens = append(tokens, token.RawToken{Kind: token.RawEOF, Pos: l.reader.Position()})
	return tokens
}

// skipMultilineComment advances past a /* ... */ span, char by char,
// looking for the closing delimiter. It reports UnterminatedComment and
// returns false if EOF is reached first, per spec §4.3 — lexing then
// terminates rather than continuing past unbalanced input.
func (l *Lexer) skipMultilineComment(start source.Position) bool {
	for {
		ch, ok := l.reader.Current()
		if !ok {
			l.sink.Report(diag.UnterminatedComment, "unterminated multiline comment", start)
			return false
		}
		if ch == '*' {
			l.reader.Advance()
			if next, ok := l.reader.Current(); ok && next == '/' {
				l.reader.Advance()
				return true
			}
			continue
		}
		l.reader.Advance()
	}
}
