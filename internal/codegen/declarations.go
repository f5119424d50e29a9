package codegen

import (
	"strconv"

	"github.com/woundrite/dakshin/internal/ast"
)

// genTopLevel lowers one Program-level node (spec §4.6's generate_declaration
// dispatch): classes, functions and namespace members emit code;
// import/from_import are compile-time no-ops and an interface emits no code
// at all.
func (g *Generator) genTopLevel(node ast.Node) {
	switch n := node.(type) {
	case *ast.ClassDecl:
		g.genClass(n)
	case *ast.FunctionDecl:
		g.genFunction(n.Name, n.Params, n.Body)
	case *ast.NamespaceDecl:
		for _, d := range n.Body {
			g.genTopLevel(d)
		}
	case *ast.ImportDecl, *ast.FromImportDecl, *ast.InterfaceDecl:
		// Resolved at compile time only; nothing to emit.
	case *ast.VarDecl:
		// A bare top-level `let` is treated the same as inside main's frame
		// would be, but there is no enclosing function here; the original
		// has no such case either, so this is simply skipped.
	}
}

func (g *Generator) genClass(c *ast.ClassDecl) {
	g.emit("; Class: " + c.Name)
	for _, member := range c.Members {
		switch m := member.(type) {
		case *ast.ConstructorDecl:
			g.genConstructor(m, c.Name)
		case *ast.FunctionDecl:
			g.genFunction(c.Name+"_"+m.Name, m.Params, m.Body)
		}
	}
}

func (g *Generator) genConstructor(c *ast.ConstructorDecl, className string) {
	name := className + "_constructor"
	g.fn = newFrame(name)

	g.emit(name+":", "    push rbp", "    mov rbp, rsp", "")
	g.bindParamsAt(c.Params, 16)

	if c.Super != nil {
		g.emit("    ; Super constructor call")
	}
	for _, stmt := range c.Body {
		g.genStatement(stmt)
	}

	g.emit("", name+"_end:", "    mov rsp, rbp", "    pop rbp", "    ret", "")
}

// genFunction lowers a free function or a class method (methodName already
// carries the "Class_method" prefix by the time it reaches here). main gets
// the same frame as every other function: the original's special-cased
// "main" prologue turned out identical to the general one once both reserve
// 128 bytes of local space, so one path serves both.
func (g *Generator) genFunction(name string, params []ast.Param, body []ast.Statement) {
	g.fn = newFrame(name)

	g.emit(name+":", "    push rbp", "    mov rbp, rsp",
		"    sub rsp, 128    ; locals + shadow space", "")
	g.bindParamsAt(params, 32)

	for _, stmt := range body {
		g.genStatement(stmt)
	}

	g.emit("", name+"_end:", "    mov rsp, rbp", "    pop rbp", "    ret", "")
}

// argRegisters is the Windows x64 integer/pointer argument-register order.
var argRegisters = []string{"rcx", "rdx", "r8", "r9"}

// bindParams spills the first four parameters from their argument
// registers, and reads the rest from the caller's stack slots, into the
// current frame's locals (spec §4.6's fixed parameter-binding sequence).
// The caller's stack-argument slots sit at a frame-dependent base: regular
// functions and methods reserve 128 bytes of locals/shadow space below the
// saved rbp before the caller's pushed arguments begin, so stackBase is 32;
// constructors never reserve that space, so stackBase is 16.
func (g *Generator) bindParams(params []ast.Param) {
	g.bindParamsAt(params, 32)
}

func (g *Generator) bindParamsAt(params []ast.Param, stackBase int) {
	for i, p := range params {
		g.fn.stackOffset += 8
		off := g.fn.stackOffset
		g.fn.locals[p.Name] = off
		g.fn.types[p.Name] = typeInt

		if i < 4 {
			g.emit("    mov " + rbpOffset(off) + ", " + argRegisters[i])
		} else {
			stackSlot := "[rbp+" + strconv.Itoa(stackBase+8*i) + "]"
			g.emit("    mov rax, " + stackSlot)
			g.emit("    mov " + rbpOffset(off) + ", rax")
		}
	}
}
