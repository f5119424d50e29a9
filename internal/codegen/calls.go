package codegen

import (
	"strconv"

	"github.com/woundrite/dakshin/internal/ast"
	"github.com/woundrite/dakshin/internal/stdlib"
)

// genCall lowers a call expression: builtins dispatch by category to one of
// the routines below, everything else goes through the general Windows x64
// call sequence (spec §4.6).
func (g *Generator) genCall(c *ast.CallExpr) {
	name, ok := calleeName(c.Callee)
	if !ok {
		g.genGeneralCall("unknown", c.Args)
		return
	}

	if entry, isBuiltin := g.stdlib.Lookup(name); isBuiltin {
		g.genBuiltinCall(entry, c.Args)
		return
	}
	g.genGeneralCall(name, c.Args)
}

func calleeName(callee ast.Expression) (string, bool) {
	switch c := callee.(type) {
	case *ast.Identifier:
		return c.Value, true
	case *ast.MemberExpr:
		if obj, ok := c.Object.(*ast.Identifier); ok {
			return obj.Value + "." + c.Member, true
		}
	}
	return "", false
}

func (g *Generator) genBuiltinCall(entry stdlib.Entry, args []ast.Expression) {
	switch entry.Name {
	case "print":
		g.genPrintCall(args, false)
	case "println":
		g.genPrintCall(args, true)
	case "input":
		g.genArgsAndCall(args, "dakshin_input")
	default:
		g.genArgsAndCall(args, "dakshin_"+entry.Name)
	}
}

// genPrintCall routes to the int-formatted or string-formatted print
// wrapper based on the coarse type of the single argument, exactly the
// four-way "should_print_as_int" test of the original's
// generate_println_call: a known int-returning builtin call, a locally
// tracked int local, an arithmetic/comparison binary expression, or a bare
// number literal.
func (g *Generator) genPrintCall(args []ast.Expression, newline bool) {
	wrapper := "dakshin_print"
	if newline {
		wrapper = "dakshin_println"
	}
	if len(args) == 1 && g.looksLikeInt(args[0]) {
		wrapper += "_int"
	}
	g.genArgsAndCall(args, wrapper)
}

func (g *Generator) looksLikeInt(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return true
	case *ast.BinaryExpr:
		switch e.Op {
		case "+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=":
			return true
		}
		return false
	case *ast.CallExpr:
		if id, ok := e.Callee.(*ast.Identifier); ok {
			return g.stdlib.ReturnsInt(id.Value)
		}
		return false
	case *ast.Identifier:
		t, ok := g.fn.types[e.Value]
		return ok && t == typeInt
	default:
		return false
	}
}

// genArgsAndCall evaluates each argument straight into its Windows x64
// register (rcx/rdx/r8/r9), then calls the fixed wrapper symbol directly.
// Only the first four arguments are evaluated and passed; any further ones
// (possible for the variadic printf/scanf) are dropped. Builtin
// wrappers run inside the caller's own shadow space, so there is no
// caller-saved-register dance here; genGeneralCall is where that happens.
func (g *Generator) genArgsAndCall(args []ast.Expression, target string) {
	for i, arg := range args {
		if i >= 4 {
			break
		}
		g.genExpression(arg)
		g.emit("    mov " + argRegisters[i] + ", rax")
	}
	g.emit("    call " + target)
}

// genGeneralCall lowers a call to a user-defined function, method, or a
// local variable holding a lambda's address: save the caller-saved
// registers, reserve the Windows x64 shadow space (plus stack-alignment
// padding once arguments spill past the fourth), place arguments, call —
// directly by label, or indirectly through rax when name resolves to a
// local — then restore (spec §4.6's generate_general_call, the
// calling-convention core of §8 property 11).
func (g *Generator) genGeneralCall(name string, args []ast.Expression) {
	g.emit(
		"    ; save caller-saved registers",
		"    push rcx", "    push rdx", "    push r8", "    push r9", "    push r10", "    push r11",
		"    sub rsp, 32    ; shadow space",
	)

	stackArgs := len(args) - 4
	if stackArgs < 0 {
		stackArgs = 0
	}
	odd := stackArgs%2 == 1
	if odd {
		g.emit("    sub rsp, 8    ; align stack")
	}

	for i, arg := range args {
		g.genExpression(arg)
		if i < 4 {
			g.emit("    mov " + argRegisters[i] + ", rax")
		} else {
			g.emit("    push rax")
		}
	}

	if off, isLocal := g.fn.locals[name]; isLocal {
		g.emit("    mov rax, "+rbpOffset(off)+"    ; function pointer", "    call rax    ; indirect call")
	} else {
		g.emit("    call " + name)
	}

	if stackArgs > 0 {
		g.emit("    add rsp, " + strconv.Itoa(stackArgs*8))
	}
	if odd {
		g.emit("    add rsp, 8    ; restore alignment")
	}
	g.emit("    add rsp, 32    ; clean up shadow space")
	g.emit("    pop r11", "    pop r10", "    pop r9", "    pop r8", "    pop rdx", "    pop rcx")
}
