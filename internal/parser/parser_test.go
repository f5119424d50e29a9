package parser

import (
	"testing"

	"github.com/woundrite/dakshin/internal/ast"
	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/lexer"
)

func testParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	sink := diag.NewSink()
	raw := lexer.New(src, "", sink).Tokenize()
	if sink.HasErrors() {
		t.Fatalf("unexpected lexical diagnostics: %s", sink.Format())
	}
	toks := lexer.Normalize(raw)
	prog, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func testParseError(t *testing.T, src string) error {
	t.Helper()
	sink := diag.NewSink()
	raw := lexer.New(src, "", sink).Tokenize()
	toks := lexer.Normalize(raw)
	_, err := New(toks).Parse()
	return err
}

func TestParsePrecedenceAdditiveOverMultiplicative(t *testing.T) {
	prog := testParse(t, "function main() { return 1 + 2 * 3; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryExpr)
	if bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %q", bin.Op)
	}
	right := bin.Right.(*ast.BinaryExpr)
	if right.Op != "*" {
		t.Fatalf("expected right operand to be '*', got %q", right.Op)
	}
}

func TestParsePrecedenceEqualityOverLogicalAnd(t *testing.T) {
	prog := testParse(t, "function main() { return a == b && c == d; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	top := ret.Value.(*ast.BinaryExpr)
	if top.Op != "&&" {
		t.Fatalf("expected top-level '&&', got %q", top.Op)
	}
	if _, ok := top.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected left operand to be a binary '==' expression, got %T", top.Left)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected right operand to be a binary '==' expression, got %T", top.Right)
	}
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	prog := testParse(t, "function main() { a = b = 0; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	outer := fn.Body[0].(*ast.Assignment)
	if outer.Name != "a" {
		t.Fatalf("expected outer target 'a', got %q", outer.Name)
	}
	inner, ok := outer.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("expected right-associative nested assignment, got %T", outer.Value)
	}
	if inner.Name != "b" {
		t.Fatalf("expected inner target 'b', got %q", inner.Name)
	}
}

func TestParseUntypedLambdas(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantParams int
	}{
		{"two params", "function main() { let f = (x, y) => x + y; }", 2},
		{"no params", "function main() { let f = () => 0; }", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := testParse(t, tt.src)
			fn := prog.Declarations[0].(*ast.FunctionDecl)
			decl := fn.Body[0].(*ast.VarDecl)
			lambda, ok := decl.Init.(*ast.LambdaExpr)
			if !ok {
				t.Fatalf("expected a lambda initializer, got %T", decl.Init)
			}
			if len(lambda.Params) != tt.wantParams {
				t.Fatalf("expected %d params, got %d", tt.wantParams, len(lambda.Params))
			}
		})
	}
}

func TestParseTypedLambda(t *testing.T) {
	prog := testParse(t, "function main() { let f = (x: int) => x; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	decl := fn.Body[0].(*ast.VarDecl)
	lambda := decl.Init.(*ast.LambdaExpr)
	if len(lambda.Params) != 1 || lambda.Params[0].Name != "x" {
		t.Fatalf("expected a single param 'x', got %+v", lambda.Params)
	}
	if lambda.Params[0].Type == nil || lambda.Params[0].Type.String() != "int" {
		t.Fatalf("expected param type 'int', got %v", lambda.Params[0].Type)
	}
}

func TestParseGroupedExpressionIsNotALambda(t *testing.T) {
	prog := testParse(t, "function main() { let f = (x + y); }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	decl := fn.Body[0].(*ast.VarDecl)
	if _, ok := decl.Init.(*ast.LambdaExpr); ok {
		t.Fatalf("(x + y) should parse as a grouped expression, not a lambda")
	}
	if _, ok := decl.Init.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected a binary expression, got %T", decl.Init)
	}
}

func TestParseChainedPostfix(t *testing.T) {
	prog := testParse(t, "function main() { a.b(c).d; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	stmt := fn.Body[0].(*ast.ExprStmt)
	outer, ok := stmt.Expr.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected outer node to be a member access, got %T", stmt.Expr)
	}
	if outer.Member != "d" {
		t.Fatalf("expected outer member 'd', got %q", outer.Member)
	}
	call, ok := outer.Object.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected a.b(c) to be a call, got %T", outer.Object)
	}
	if _, ok := call.Callee.(*ast.MemberExpr); !ok {
		t.Fatalf("expected call callee to be a member access, got %T", call.Callee)
	}
}

func TestParseDeterminismIgnoresTrailingComments(t *testing.T) {
	a := testParse(t, "function main() { return 1; }")
	b := testParse(t, "function main() { return 1; } // trailing comment\n")
	if a.String() != b.String() {
		t.Fatalf("trailing comment changed the parsed AST:\n%s\nvs\n%s", a.String(), b.String())
	}
}

func TestParseClassWithExtendsAndColon(t *testing.T) {
	progExtends := testParse(t, "class Derived extends Base { }")
	classExtends := progExtends.Declarations[0].(*ast.ClassDecl)
	if len(classExtends.Base) != 1 || classExtends.Base[0] != "Base" {
		t.Fatalf("expected base [Base], got %v", classExtends.Base)
	}

	progColon := testParse(t, "class Derived : A, B { }")
	classColon := progColon.Declarations[0].(*ast.ClassDecl)
	if len(classColon.Base) != 2 || classColon.Base[0] != "A" || classColon.Base[1] != "B" {
		t.Fatalf("expected base [A B], got %v", classColon.Base)
	}
}

func TestParseConstructorWithSuper(t *testing.T) {
	prog := testParse(t, `class C extends Base {
		public C(x: int) : super(x) { }
	}`)
	class := prog.Declarations[0].(*ast.ClassDecl)
	ctor := class.Members[0].(*ast.ConstructorDecl)
	if ctor.Name != "C" {
		t.Fatalf("expected constructor name C, got %q", ctor.Name)
	}
	if ctor.Super == nil || len(ctor.Super.Args) != 1 {
		t.Fatalf("expected a super call with one arg, got %+v", ctor.Super)
	}
}

func TestParseAbstractFunctionHasNilBody(t *testing.T) {
	prog := testParse(t, "abstract function shape() -> int;")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	if fn.Body != nil {
		t.Fatalf("expected a nil body for an abstract function, got %v", fn.Body)
	}
}

func TestParseInterfaceRejectsNonFunctionMember(t *testing.T) {
	if err := testParseError(t, "interface Shape { let x; }"); err == nil {
		t.Fatal("expected a SyntaxError for a non-function interface member")
	}
}

func TestParseSwitchStatement(t *testing.T) {
	prog := testParse(t, `function main() {
		switch (x) {
			case 1: return 10;
			case 2: return 20;
			default: return 30;
		}
	}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	sw := fn.Body[0].(*ast.SwitchStmt)
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
	if sw.Default == nil {
		t.Fatal("expected a default block")
	}
}

func TestParseMatchStatement(t *testing.T) {
	prog := testParse(t, `function main() {
		match x {
			/a/ => return 1;
			else => return 2;
		}
	}`)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	m := fn.Body[0].(*ast.MatchStmt)
	if len(m.Cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(m.Cases))
	}
	if m.Default == nil {
		t.Fatal("expected a default action")
	}
}

func TestParseSyntaxErrorMessageFormat(t *testing.T) {
	err := testParseError(t, "function main( { }")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	got := se.Error()
	if got == "" || got[:13] != "Syntax Error:" {
		t.Fatalf("expected message to start with 'Syntax Error:', got %q", got)
	}
}

func TestParseDynamicVariableDefaultsType(t *testing.T) {
	prog := testParse(t, "function main() { let x; }")
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	decl := fn.Body[0].(*ast.VarDecl)
	if decl.VarType == nil || decl.VarType.String() != "dynamic" {
		t.Fatalf("expected dynamic type tag, got %v", decl.VarType)
	}
}
