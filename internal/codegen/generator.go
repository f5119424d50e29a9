// Package codegen lowers a parsed program straight to NASM x86-64 assembly
// text for the Windows x64 ABI — the single back end this compiler has
// (spec §4.6). It never re-enters the source: every declaration, statement
// and expression is visited exactly once, in source order.
package codegen

import (
	"strconv"
	"strings"

	"github.com/woundrite/dakshin/internal/ast"
	"github.com/woundrite/dakshin/internal/stdlib"
)

// coarseType is the three-way type tag the generator tracks per local
// variable, just enough to route print() to the right format string
// (spec §4.6's "coarse type tracking" — never a real type checker).
type coarseType int

const (
	typeInt coarseType = iota
	typeString
	typeDynamic
)

// frame is the per-function bookkeeping the teacher's original keeps as
// loose instance fields (self.local_vars, self.local_var_types,
// self.stack_offset); bundled into one struct here so a lambda body can
// save and restore its caller's frame instead of reaching into globals.
type frame struct {
	name        string
	stackOffset int
	locals      map[string]int // name -> byte offset below rbp
	types       map[string]coarseType
}

func newFrame(name string) *frame {
	return &frame{
		name:   name,
		locals: make(map[string]int),
		types:  make(map[string]coarseType),
	}
}

func (f *frame) slot(name string) string {
	return rbpOffset(f.locals[name])
}

func rbpOffset(off int) string {
	return "[rbp-" + strconv.Itoa(off) + "]"
}

type deferredLambda struct {
	name  string
	parms []ast.Param
	expr  ast.Expression
	block []ast.Statement
}

// Generator walks a Program and accumulates NASM text. Zero value is not
// usable; construct with New.
type Generator struct {
	stdlib *stdlib.Catalogue

	data strings.Builder
	text strings.Builder

	stringLabels map[string]string // literal value (with quotes) -> label
	stringOrder  []string          // source order, for deterministic data emission
	stringCount  int

	labelCount  int
	lambdaCount int

	fn       *frame
	deferred []deferredLambda
}

// New creates a Generator backed by the given builtin-function catalogue.
func New(catalogue *stdlib.Catalogue) *Generator {
	return &Generator{
		stdlib:       catalogue,
		stringLabels: make(map[string]string),
	}
}

// Generate lowers an entire program to NASM source text (spec §4.6's
// top-level "data section, then text section" layout).
func (g *Generator) Generate(prog *ast.Program) string {
	g.emitPrologue()

	for _, decl := range prog.Declarations {
		g.genTopLevel(decl)
	}
	g.genDeferredLambdas()

	var out strings.Builder
	out.WriteString(g.data.String())
	out.WriteString("\n")
	out.WriteString(g.text.String())
	return out.String()
}

func (g *Generator) emitData(lines ...string) {
	for _, l := range lines {
		g.data.WriteString(l)
		g.data.WriteString("\n")
	}
}

func (g *Generator) emit(lines ...string) {
	for _, l := range lines {
		g.text.WriteString(l)
		g.text.WriteString("\n")
	}
}

// StringLiteralCount reports how many distinct string literals were
// interned during the last Generate call (SPEC_FULL.md's compilation
// statistics banner).
func (g *Generator) StringLiteralCount() int {
	return g.stringCount
}

// nextLabel mints a unique label, defaulting to the generic "label_N" the
// original assigns switch/case/instanceof fallthrough targets.
func (g *Generator) nextLabel(prefix string) string {
	if prefix == "" {
		prefix = "label"
	}
	g.labelCount++
	return prefix + "_" + strconv.Itoa(g.labelCount-1)
}
