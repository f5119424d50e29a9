package codegen

import "github.com/woundrite/dakshin/internal/ast"

// genStatement lowers one statement (spec §4.6's generate_statement
// dispatch). Control-flow bodies are always *ast.BlockStmt in this AST
// (the parser normalizes a bare single statement into a one-element
// block), so there is no separate "single statement body" case to handle.
func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		if s.Expr != nil {
			g.genExpression(s.Expr)
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			g.genExpression(s.Value)
		}
		g.emit("    jmp " + g.fn.name + "_end")
	case *ast.VarDecl:
		g.genVarDecl(s)
	case *ast.Assignment:
		g.genAssignment(s)
	case *ast.MemberAssignment:
		g.genExpression(s.Value)
		g.emit("    ; Member assignment: " + s.Target.String())
	case *ast.IfStmt:
		g.genIf(s)
	case *ast.WhileStmt:
		g.genWhile(s)
	case *ast.DoWhileStmt:
		g.genDoWhile(s)
	case *ast.ForStmt:
		g.genFor(s)
	case *ast.SwitchStmt:
		g.genSwitch(s)
	case *ast.MatchStmt:
		g.genMatch(s)
	case *ast.TryStmt:
		g.genTry(s)
	case *ast.ThrowStmt:
		g.genExpression(s.Expr)
		g.emit("    ; throw")
	case *ast.BreakStmt:
		g.emit("    ; break statement - simplified")
	case *ast.ContinueStmt:
		g.emit("    ; continue statement - simplified")
	case *ast.BlockStmt:
		for _, inner := range s.Body {
			g.genStatement(inner)
		}
	case *ast.FunctionDecl:
		// A nested function declaration parsed inside a body; generate it
		// as its own top-level routine under the enclosing function's name.
		g.genFunction(g.fn.name+"_"+s.Name, s.Params, s.Body)
	default:
		g.emit("    ; unhandled statement")
	}
}

func (g *Generator) declareLocal(name string, t coarseType) int {
	if off, ok := g.fn.locals[name]; ok {
		g.fn.types[name] = t
		return off
	}
	g.fn.stackOffset += 8
	g.fn.locals[name] = g.fn.stackOffset
	g.fn.types[name] = t
	return g.fn.stackOffset
}

func (g *Generator) genVarDecl(v *ast.VarDecl) {
	if named, ok := v.VarType.(ast.NamedType); ok && named.Name == "dynamic" {
		off := g.declareLocal(v.Name, typeDynamic)
		g.emit("    mov qword " + rbpOffset(off) + ", 0    ; dynamic variable")
		return
	}

	if v.Init == nil {
		g.declareLocal(v.Name, typeInt)
		return
	}

	t := g.inferDeclType(v.Init)
	off := g.declareLocal(v.Name, t)
	g.genExpression(v.Init)
	g.emit("    mov " + rbpOffset(off) + ", rax")
}

func (g *Generator) genAssignment(a *ast.Assignment) {
	if _, ok := g.fn.locals[a.Name]; !ok {
		g.declareLocal(a.Name, typeInt)
	}

	current := g.fn.types[a.Name]
	newType := g.inferAssignType(a.Value, current)
	if current == typeDynamic || current != newType {
		g.fn.types[a.Name] = newType
	}

	g.genExpression(a.Value)
	g.emit("    mov " + g.fn.slot(a.Name) + ", rax")
}

// inferDeclType applies generate_variable_declaration's coarse, name-only
// heuristics: number/string literals and any arithmetic binary expression
// determine int/string directly, an int-returning builtin call or any
// other call defaults to int, an identifier keeps its existing tracked
// type, and anything else (bool/array/new/cast/member/unary initializers)
// defaults to string — the original's "default to string for unknown
// types" else-branch.
func (g *Generator) inferDeclType(expr ast.Expression) coarseType {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return typeInt
	case *ast.StringLiteral:
		return typeString
	case *ast.BinaryExpr:
		return typeInt
	case *ast.CallExpr:
		return typeInt
	case *ast.Identifier:
		if t, ok := g.fn.types[e.Value]; ok && t != typeDynamic {
			return t
		}
		return typeInt
	default:
		return typeString
	}
}

// inferAssignType applies generate_assignment's coarse heuristics, which
// differ from the var-decl rules in two ways: a binary expression is only
// int-typed when its operator is arithmetic (other operators fall to the
// else-branch), and the else-branch preserves the target's current tracked
// type instead of defaulting to string, falling back to int only when that
// current type is unknown or dynamic.
func (g *Generator) inferAssignType(expr ast.Expression, current coarseType) coarseType {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return typeInt
	case *ast.StringLiteral:
		return typeString
	case *ast.BinaryExpr:
		switch e.Op {
		case "+", "-", "*", "/", "%":
			return typeInt
		}
	case *ast.CallExpr:
		return typeInt
	case *ast.Identifier:
		if t, ok := g.fn.types[e.Value]; ok && t != typeDynamic {
			return t
		}
		return typeInt
	}
	if current == typeDynamic {
		return typeInt
	}
	return current
}

func (g *Generator) genIf(s *ast.IfStmt) {
	// Both labels share one number, so an if's pair reads else_N/end_if_N.
	n := itoa(g.labelCount)
	g.labelCount++
	elseLabel := "else_" + n
	endLabel := "end_if_" + n

	g.genExpression(s.Cond)
	g.emit("    test rax, rax", "    jz "+elseLabel)

	g.genStatement(s.Then)
	g.emit("    jmp " + endLabel)

	g.emit(elseLabel + ":")
	if s.Else != nil {
		g.genStatement(s.Else)
	}
	g.emit(endLabel + ":")
}

func (g *Generator) genWhile(s *ast.WhileStmt) {
	start := g.nextLabel("while_start")
	end := g.nextLabel("while_end")

	g.emit(start + ":")
	g.genExpression(s.Cond)
	g.emit("    test rax, rax", "    jz "+end)
	g.genStatement(s.Body)
	g.emit("    jmp "+start, end+":")
}

func (g *Generator) genDoWhile(s *ast.DoWhileStmt) {
	start := g.nextLabel("do_start")
	g.emit(start + ":")
	g.genStatement(s.Body)
	g.genExpression(s.Cond)
	g.emit("    test rax, rax", "    jnz "+start)
}

func (g *Generator) genFor(s *ast.ForStmt) {
	start := g.nextLabel("for_start")
	end := g.nextLabel("for_end")
	cont := g.nextLabel("for_continue")

	if s.Init != nil {
		g.genStatement(s.Init)
	}
	g.emit(start + ":")
	if s.Condition != nil {
		g.genExpression(s.Condition)
		g.emit("    test rax, rax", "    jz "+end)
	}
	g.genStatement(s.Body)
	g.emit(cont + ":")
	if s.Update != nil {
		g.genStatement(s.Update)
	}
	g.emit("    jmp "+start, end+":")
}

func (g *Generator) genSwitch(s *ast.SwitchStmt) {
	end := g.nextLabel("switch_end")

	g.genExpression(s.Expr)
	g.emit("    push rax    ; switch value")

	for _, c := range s.Cases {
		next := g.nextLabel("next_case")
		g.emit("    pop rax", "    push rax")
		g.genExpression(c.Value)
		g.emit(
			"    mov rbx, rax",
			"    pop rax",
			"    push rax",
			"    cmp rax, rbx",
			"    jne "+next,
		)
		for _, stmt := range c.Statements {
			g.genStatement(stmt)
		}
		g.emit(next + ":")
	}

	if s.Default != nil {
		for _, stmt := range s.Default {
			g.genStatement(stmt)
		}
	}

	g.emit("    pop rax    ; clean up switch value", end+":")
}

// genMatch lowers a match/else statement the same way genSwitch lowers a
// switch: the subject is evaluated once and kept on the stack, then each
// arm compares its pattern against that same subject value rather than
// truth-testing the pattern in isolation.
func (g *Generator) genMatch(s *ast.MatchStmt) {
	end := g.nextLabel("match_end")

	g.genExpression(s.Expr)
	g.emit("    push rax    ; match subject")

	for _, c := range s.Cases {
		next := g.nextLabel("match_next")
		g.emit("    pop rax", "    push rax")
		g.genExpression(c.Pattern)
		g.emit(
			"    mov rbx, rax",
			"    pop rax",
			"    push rax",
			"    cmp rax, rbx",
			"    jne "+next,
		)
		g.genStatement(c.Action)
		g.emit("    jmp " + end)
		g.emit(next + ":")
	}

	if s.Default != nil {
		g.genStatement(s.Default)
	}

	g.emit("    pop rax    ; clean up match subject", end+":")
}

func (g *Generator) genTry(s *ast.TryStmt) {
	end := g.nextLabel("try_end")

	g.emit("    ; try block")
	g.genStatement(s.TryBlock)
	g.emit("    jmp " + end)

	for _, c := range s.CatchBlocks {
		catch := g.nextLabel("catch")
		g.emit(catch + ":")
		g.genStatement(c.Body)
	}
	if s.FinallyBlock != nil {
		g.genStatement(s.FinallyBlock)
	}
	g.emit(end + ":")
}
