// Package cli holds the source-loading, diagnostic-rendering and exit-code
// logic shared by cmd/dakshinc and cmd/dakshinparse, so neither binary
// duplicates file-handling — the same de-duplication the teacher applies
// by sharing internal/errors.FormatErrors across its compile/run commands.
package cli

import (
	"fmt"
	"io"

	"github.com/woundrite/dakshin/internal/ast"
	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/lexer"
	"github.com/woundrite/dakshin/internal/parser"
	"github.com/woundrite/dakshin/internal/source"
)

// Exit codes (spec §6: "Exit 0 on success; non-zero on any fatal error").
const (
	ExitOK = 0
	// ExitLexError covers diagnostics accumulated by the sink: unknown
	// tokens, unterminated strings/comments, I/O failures reading source.
	ExitLexError = 1
	// ExitSyntaxError is returned when the parser raises a SyntaxError.
	ExitSyntaxError = 2
)

// LoadSource reads path through internal/source, reporting the
// "file not found"/"unable to read file" distinction as a diag.IOError on
// sink so callers get the same diagnostic rendering as any other failure.
func LoadSource(path string, sink *diag.Sink) (string, bool) {
	content, err := source.ReadFile(path)
	if err != nil {
		sink.Report(diag.IOError, err.Error(), source.Position{File: path})
		return "", false
	}
	return content, true
}

// Pipeline result: the three compilation stages run in sequence, stopping
// at the first failure (spec §4's strictly-forward, single-pass pipeline).
type Pipeline struct {
	Verbose bool
	Stderr  io.Writer
}

// ParseResult carries everything a caller needs after a successful Parse:
// the Program plus the token count for the compilation-statistics banner.
type ParseResult struct {
	Program    *ast.Program
	TokenCount int
}

// Parse runs lexing, normalization and parsing over src, writing the
// "Lexical Analysis..."/"Syntactic Analysis..." stage banners to Stderr in
// verbose mode (mirroring the original compiler.py's stage prints). It
// returns the parsed Program, or false plus a rendered diagnostic/syntax
// error message ready to print to stderr.
func (p *Pipeline) Parse(src, file string, sink *diag.Sink) (ParseResult, string, bool) {
	p.banner("Lexical Analysis...")
	raw := lexer.New(src, file, sink).Tokenize()
	if sink.HasErrors() {
		return ParseResult{}, sink.Format(), false
	}
	tokens := lexer.Normalize(raw)

	p.banner("Syntactic Analysis...")
	prog, err := parser.New(tokens).Parse()
	if err != nil {
		if synErr, ok := err.(*parser.SyntaxError); ok {
			return ParseResult{}, synErr.Context(), false
		}
		return ParseResult{}, err.Error(), false
	}
	return ParseResult{Program: prog, TokenCount: len(tokens)}, "", true
}

func (p *Pipeline) banner(stage string) {
	if p.Verbose && p.Stderr != nil {
		fmt.Fprintln(p.Stderr, stage)
	}
}

// Stats holds the compilation counters the original compiler.py prints in
// its final report (SPEC_FULL.md's "Compilation statistics banner").
type Stats struct {
	SourceFile     string
	TokenCount     int
	NodeCount      int
	StringLiterals int
	AssemblyLines  int
}

// Format renders the stats banner in the teacher's verbose-report style.
func (s Stats) Format() string {
	return fmt.Sprintf(
		"Compilation statistics for %s:\n  Tokens: %d\n  AST nodes: %d\n  String literals: %d\n  Assembly lines: %d\n",
		s.SourceFile, s.TokenCount, s.NodeCount, s.StringLiterals, s.AssemblyLines,
	)
}
