package lexer

import "github.com/woundrite/dakshin/internal/token"

// rawToParserKind maps every RawKind that survives normalization to its
// parser Kind 1:1. Kinds absent from this map (NEWLINE, WHITESPACE,
// COMMENT, the multiline-comment markers, UNKNOWN) are dropped during
// normalization, and INTEGER/FLOAT/BINARY/HEX collapse to NUMBER via a
// special case in Normalize rather than living in this map.
var rawToParserKind = map[token.RawKind]token.Kind{
	token.RawString:        token.STRING_LITERAL,
	token.RawRegex:         token.REGEX,
	token.RawExponent:      token.EXPONENT,
	token.RawShiftLeft:     token.SHIFT_LEFT,
	token.RawShiftRight:    token.SHIFT_RIGHT,
	token.RawEqual:         token.EQUAL,
	token.RawNotEqual:      token.NEQUAL,
	token.RawLessEqual:     token.LTE,
	token.RawGreaterEqual:  token.GTE,
	token.RawLogicalAnd:    token.AND,
	token.RawLogicalOr:     token.OR,
	token.RawFunctionArrow: token.FUNCTION_ARROW,
	token.RawArrow:         token.ARROW,
	token.RawPlus:          token.PLUS,
	token.RawMinus:         token.MINUS,
	token.RawStar:          token.MUL,
	token.RawSlash:         token.DIV,
	token.RawPercent:       token.MOD,
	token.RawAssign:        token.ASSIGN,
	token.RawLess:          token.LT,
	token.RawGreater:       token.GT,
	token.RawNot:           token.NOT,
	token.RawBitAnd:        token.BITWISE_AND,
	token.RawBitOr:         token.BITWISE_OR,
	token.RawBitXor:        token.BITWISE_XOR,
	token.RawLParen:        token.LPAREN,
	token.RawRParen:        token.RPAREN,
	token.RawLBracket:      token.LBRACKET,
	token.RawRBracket:      token.RBRACKET,
	token.RawLBrace:        token.LBRACE,
	token.RawRBrace:        token.RBRACE,
	token.RawDot:           token.DOT,
	token.RawColon:         token.COLON,
	token.RawSemicolon:     token.SEMICOLON,
	token.RawComma:         token.COMMA,
}

func isNumeric(k token.RawKind) bool {
	switch k {
	case token.RawInteger, token.RawFloat, token.RawBinary, token.RawHex:
		return true
	default:
		return false
	}
}

// Normalize implements the Token Normalizer (spec §4.4): it turns every
// reserved-word IDENT into its keyword Kind, collapses the four numeric
// RawKinds into NUMBER, maps STRING to STRING_LITERAL, maps operators
// 1:1, drops NEWLINE/WHITESPACE/COMMENT/UNKNOWN, and appends a trailing
// EOF (the raw stream already ends in one, but Normalize does not assume
// that — it tolerates a raw stream with no EOF marker too).
func Normalize(raw []token.RawToken) []token.Token {
	out := make([]token.Token, 0, len(raw)+1)

	for _, rt := range raw {
		switch {
		case rt.Kind == token.RawEOF:
			out = append(out, token.Token{Kind: token.EOF, Pos: rt.Pos})

		case rt.Kind == token.RawIdent:
			if kw, ok := token.LookupKeyword(rt.Text); ok {
				out = append(out, token.Token{Kind: kw, Literal: rt.Text, Pos: rt.Pos})
			} else {
				out = append(out, token.Token{Kind: token.IDENTIFIER, Literal: rt.Text, Pos: rt.Pos})
			}

		case isNumeric(rt.Kind):
			out = append(out, token.Token{Kind: token.NUMBER, Literal: rt.Text, Value: rt.Value, Pos: rt.Pos})

		case rt.Kind == token.RawNewline, rt.Kind == token.RawWhitespace,
			rt.Kind == token.RawComment, rt.Kind == token.RawMultilineCommentStart,
			rt.Kind == token.RawMultilineCommentEnd, rt.Kind == token.RawUnknown,
			rt.Kind == token.RawUnterminatedString, rt.Kind == token.RawIllegal:
			// Dropped: these never reach the parser.

		default:
			if pk, ok := rawToParserKind[rt.Kind]; ok {
				out = append(out, token.Token{Kind: pk, Literal: rt.Text, Pos: rt.Pos})
			}
		}
	}

	if len(out) == 0 || out[len(out)-1].Kind != token.EOF {
		var pos token.Token
		if len(raw) > 0 {
			pos.Pos = raw[len(raw)-1].Pos
		}
		out = append(out, token.Token{Kind: token.EOF, Pos: pos.Pos})
	}

	return out
}
