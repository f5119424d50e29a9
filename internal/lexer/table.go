package lexer

import (
	"regexp"

	"github.com/woundrite/dakshin/internal/token"
)

// entry pairs a RawKind with its anchored regular expression. tokenTable is
// an ORDERED list; order is part of the contract (spec §4.3) because many
// of these patterns overlap a shorter neighbor. Do not reorder without
// re-reading the comment on each entry that explains why it must precede
// the next one.
type entry struct {
	kind token.RawKind
	re   *regexp.Regexp
}

// tokenTable mirrors, entry for entry, the ordering of the original
// Dakshin lexer's TOKEN_SPECIFICATION list (original_source/src/Lexer.py):
// comments before division, strings before regex, numeric bases from most
// to least specific, two-character operators before the single-character
// operator that is their prefix, and a final catch-all.
var tokenTable = []entry{
	// Comments must come before DIV, since both start with '/'.
	{token.RawMultilineCommentStart, regexp.MustCompile(`\A/\*`)},
	{token.RawMultilineCommentEnd, regexp.MustCompile(`\A\*/`)},
	{token.RawComment, regexp.MustCompile(`\A//[^\n]*`)},

	// String literals, then their unterminated fallback.
	{token.RawString, regexp.MustCompile(`\A("([^"\\]|\\.)*"|'([^'\\]|\\.)*')`)},
	{token.RawUnterminatedString, regexp.MustCompile(`\A("([^"\\]|\\.)*$|'([^'\\]|\\.)*$)`)},

	// Regex literals must come before DIV, so "/a/" lexes as REGEX, not
	// DIV IDENT DIV. This is the "regex wins over division" rule spec §9
	// flags as a documented wart, not a bug.
	{token.RawRegex, regexp.MustCompile(`\A/(?:[^/\n\\]|\\.)+/`)},

	// Numeric literals, most specific prefix first: BINARY/HEX before a
	// bare digit run could be mistaken for INTEGER, FLOAT before INTEGER
	// so "1.5" isn't lexed as INTEGER("1") DOT INTEGER("5").
	{token.RawBinary, regexp.MustCompile(`\A0b[01]+`)},
	{token.RawHex, regexp.MustCompile(`\A0x[0-9A-Fa-f]+`)},
	{token.RawFloat, regexp.MustCompile(`\A\d+\.\d+`)},
	{token.RawInteger, regexp.MustCompile(`\A\d+`)},

	// Multi-character operators before any single-character operator that
	// is one of their prefixes.
	{token.RawExponent, regexp.MustCompile(`\A\*\*`)},
	{token.RawShiftLeft, regexp.MustCompile(`\A<<`)},
	{token.RawShiftRight, regexp.MustCompile(`\A>>`)},
	{token.RawEqual, regexp.MustCompile(`\A==`)},
	{token.RawNotEqual, regexp.MustCompile(`\A!=`)},
	{token.RawLessEqual, regexp.MustCompile(`\A<=`)},
	{token.RawGreaterEqual, regexp.MustCompile(`\A>=`)},
	{token.RawLogicalAnd, regexp.MustCompile(`\A&&`)},
	{token.RawLogicalOr, regexp.MustCompile(`\A\|\|`)},

	{token.RawPlus, regexp.MustCompile(`\A\+`)},
	// FUNCTION_ARROW before MINUS, since "->" starts with '-'.
	{token.RawFunctionArrow, regexp.MustCompile(`\A->`)},
	{token.RawMinus, regexp.MustCompile(`\A-`)},
	{token.RawStar, regexp.MustCompile(`\A\*`)},
	{token.RawSlash, regexp.MustCompile(`\A/`)},
	{token.RawPercent, regexp.MustCompile(`\A%`)},
	// ARROW before ASSIGN, since "=>" starts with '='.
	{token.RawArrow, regexp.MustCompile(`\A=>`)},
	{token.RawAssign, regexp.MustCompile(`\A=`)},
	{token.RawLess, regexp.MustCompile(`\A<`)},
	{token.RawGreater, regexp.MustCompile(`\A>`)},
	{token.RawNot, regexp.MustCompile(`\A!`)},
	{token.RawBitAnd, regexp.MustCompile(`\A&`)},
	{token.RawBitOr, regexp.MustCompile(`\A\|`)},
	{token.RawBitXor, regexp.MustCompile(`\A\^`)},

	// Delimiters.
	{token.RawLParen, regexp.MustCompile(`\A\(`)},
	{token.RawRParen, regexp.MustCompile(`\A\)`)},
	{token.RawLBracket, regexp.MustCompile(`\A\[`)},
	{token.RawRBracket, regexp.MustCompile(`\A\]`)},
	{token.RawLBrace, regexp.MustCompile(`\A\{`)},
	{token.RawRBrace, regexp.MustCompile(`\A\}`)},
	{token.RawDot, regexp.MustCompile(`\A\.`)},
	{token.RawColon, regexp.MustCompile(`\A:`)},
	{token.RawSemicolon, regexp.MustCompile(`\A;`)},
	{token.RawComma, regexp.MustCompile(`\A,`)},

	{token.RawIdent, regexp.MustCompile(`\A[A-Za-z_]\w*`)},

	{token.RawNewline, regexp.MustCompile(`\A\n`)},
	{token.RawWhitespace, regexp.MustCompile(`\A[ \t]+`)},

	// Catch-all: anything else is a single unrecognized byte.
	{token.RawUnknown, regexp.MustCompile(`\A.`)},
}

// match returns the kind and verbatim text of the first table entry whose
// regex matches at the start of rem, honoring table order rather than
// overall longest match (this is what the original alternation-of-named-
// groups regex does too: the engine reports whichever alternative it tried
// first among those that match).
func match(rem string) (token.RawKind, string, bool) {
	for _, e := range tokenTable {
		if loc := e.re.FindStringIndex(rem); loc != nil {
			return e.kind, rem[loc[0]:loc[1]], true
		}
	}
	return token.RawIllegal, "", false
}
