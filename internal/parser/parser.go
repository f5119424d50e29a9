// Package parser implements the recursive-descent parser described in
// spec §4.5: one-token lookahead, bounded speculation for lambda detection,
// and a SyntaxError raised (never sunk) on the first grammar violation.
package parser

import (
	"fmt"

	"github.com/woundrite/dakshin/internal/ast"
	"github.com/woundrite/dakshin/internal/token"
)

var modifierKinds = map[token.Kind]bool{
	token.PUBLIC: true, token.PRIVATE: true, token.PROTECTED: true,
	token.STATIC: true, token.ABSTRACT: true, token.FINAL: true, token.OVERRIDE: true,
}

// typeAnnotationKinds is the fixed keyword set spec §4.5's param/type
// grammar accepts verbatim, plus IDENTIFIER for dotted user type names.
var typeAnnotationKinds = map[token.Kind]bool{
	token.INT: true, token.FLOAT_KW: true, token.DOUBLE: true, token.BOOL: true,
	token.VOID: true, token.ANY: true, token.PTR: true, token.STRING_KW: true,
	token.FUNCTION: true, token.CHAR: true,
}

// varNameKinds is the set of token kinds parse_variable_declaration accepts
// in the name slot — "a recognized source quirk" (spec §4.5) letting a
// type keyword double as a variable name.
var varNameKinds = map[token.Kind]bool{
	token.IDENTIFIER: true, token.INT: true, token.FLOAT_KW: true, token.DOUBLE: true,
	token.BOOL: true, token.VOID: true, token.ANY: true, token.PTR: true,
	token.STRING_KW: true, token.FUNCTION: true,
}

// primaryIdentifierKinds is the set of type keywords reused as plain
// identifiers in expression position (spec §4.5 "Primaries").
var primaryIdentifierKinds = map[token.Kind]bool{
	token.PTR: true, token.INT: true, token.FLOAT_KW: true, token.BOOL: true,
	token.ANY: true, token.VOID: true, token.THIS: true, token.DOUBLE: true,
	token.STRING_KW: true, token.CHAR: true,
}

// Parser turns a normalized token stream into a Program.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a Parser over tokens, which must end in an EOF token.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Kind == token.EOF
}

func (p *Parser) check(kinds ...token.Kind) bool {
	return containsKind(kinds, p.peek(0).Kind)
}

func containsKind(kinds []token.Kind, k token.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func (p *Parser) match(kinds ...token.Kind) bool {
	if p.check(kinds...) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) consume(kind token.Kind, msg string) token.Token {
	if p.peek(0).Kind != kind {
		panic(&SyntaxError{Msg: msg, Tokens: p.tokens, Index: p.pos})
	}
	tok := p.peek(0)
	p.pos++
	return tok
}

func (p *Parser) fail(msg string) {
	panic(&SyntaxError{Msg: msg, Tokens: p.tokens, Index: p.pos})
}

// Parse runs the parser to completion, returning the Program. A SyntaxError
// is returned (recovered from the internal panic) rather than propagated as
// a panic, so callers use ordinary Go error handling.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	prog = &ast.Program{}
	for !p.atEnd() {
		prog.Declarations = append(prog.Declarations, p.parseDeclaration())
	}
	return prog, nil
}

func (p *Parser) parseModifiers() []string {
	var mods []string
	for modifierKinds[p.peek(0).Kind] {
		mods = append(mods, p.peek(0).Literal)
		p.pos++
	}
	return mods
}

func (p *Parser) parseDeclaration() ast.Node {
	modifiers := p.parseModifiers()

	switch {
	case p.match(token.CLASS):
		return p.parseClass(modifiers)
	case p.match(token.INTERFACE):
		return p.parseInterface(modifiers)
	case p.match(token.FUNCTION):
		return p.parseFunction(modifiers)
	case p.match(token.LET):
		return p.parseVariable(modifiers)
	case p.match(token.IMPORT):
		return p.parseImport()
	case p.match(token.FROM):
		return p.parseFromImport()
	case p.match(token.NAMESPACE):
		return p.parseNamespace()
	case len(modifiers) > 0 && p.check(token.IDENTIFIER):
		return p.parseConstructor(modifiers)
	default:
		if len(modifiers) > 0 {
			p.fail(fmt.Sprintf("Expected declaration after modifiers, got %s", p.peek(0).Kind))
		}
		return p.parseStatement()
	}
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.match(token.RPAREN) {
		return params
	}
	for {
		name := p.consume(token.IDENTIFIER, "Expected parameter name")
		var typ ast.TypeAnnotation
		if p.match(token.COLON) {
			typ = p.parseTypeAnnotation()
		}
		params = append(params, ast.Param{Name: name.Literal, Type: typ})
		if p.match(token.RPAREN) {
			break
		}
		p.consume(token.COMMA, "Expected ',' or ')' in parameter list")
	}
	return params
}

func (p *Parser) parseConstructor(modifiers []string) *ast.ConstructorDecl {
	startTok := p.peek(0)
	name := p.consume(token.IDENTIFIER, "Expected constructor name")
	p.consume(token.LPAREN, "Expected '('")
	params := p.parseParamList()

	var super *ast.SuperCall
	if p.match(token.COLON) {
		p.consume(token.SUPER, "Expected 'super'")
		p.consume(token.LPAREN, "Expected '('")
		var args []ast.Expression
		if !p.match(token.RPAREN) {
			for {
				args = append(args, p.parseExpression())
				if p.match(token.RPAREN) {
					break
				}
				p.consume(token.COMMA, "Expected ',' or ')' in super arguments")
			}
		}
		super = &ast.SuperCall{Args: args}
	}

	body := p.parseBlock()
	return &ast.ConstructorDecl{Token: startTok, Name: name.Literal, Params: params, Modifiers: modifiers, Super: super, Body: body.Body}
}

func (p *Parser) parseDottedName(first token.Token) string {
	name := first.Literal
	for p.match(token.DOT) {
		part := p.consume(token.IDENTIFIER, "Expected identifier after '.'")
		name += "." + part.Literal
	}
	return name
}

func (p *Parser) parseClass(modifiers []string) *ast.ClassDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected class name")

	var base []string
	if p.match(token.COLON) {
		first := p.consume(token.IDENTIFIER, "Expected base class name")
		base = append(base, first.Literal)
		for p.match(token.COMMA) {
			next := p.consume(token.IDENTIFIER, "Expected base class name")
			base = append(base, next.Literal)
		}
	} else if p.match(token.EXTENDS) {
		first := p.consume(token.IDENTIFIER, "Expected base class name")
		base = append(base, p.parseDottedName(first))
	}

	p.consume(token.LBRACE, "Expected '{' after class name")
	var members []ast.Node
	for !p.match(token.RBRACE) {
		members = append(members, p.parseDeclaration())
	}
	return &ast.ClassDecl{Token: startTok, Name: name.Literal, Base: base, Modifiers: modifiers, Members: members}
}

func (p *Parser) parseInterface(modifiers []string) *ast.InterfaceDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected interface name")

	var base []string
	if p.match(token.COLON) {
		first := p.consume(token.IDENTIFIER, "Expected base interface name")
		base = append(base, first.Literal)
		for p.match(token.COMMA) {
			next := p.consume(token.IDENTIFIER, "Expected base interface name")
			base = append(base, next.Literal)
		}
	}

	p.consume(token.LBRACE, "Expected '{' after interface name")
	var members []*ast.InterfaceFunctionDecl
	for !p.match(token.RBRACE) {
		members = append(members, p.parseInterfaceMember())
	}
	return &ast.InterfaceDecl{Token: startTok, Name: name.Literal, Base: base, Modifiers: modifiers, Members: members}
}

func (p *Parser) parseInterfaceMember() *ast.InterfaceFunctionDecl {
	if !p.match(token.FUNCTION) {
		p.fail("Interface can only contain function signatures")
	}
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected function name")
	p.consume(token.LPAREN, "Expected '('")
	params := p.parseParamList()

	var ret ast.TypeAnnotation
	if p.match(token.FUNCTION_ARROW) {
		ret = p.parseTypeAnnotation()
	}
	p.consume(token.SEMICOLON, "Expected ';' after interface function signature")
	return &ast.InterfaceFunctionDecl{Token: startTok, Name: name.Literal, Params: params, ReturnType: ret}
}

func (p *Parser) parseFunction(modifiers []string) *ast.FunctionDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected function name")
	p.consume(token.LPAREN, "Expected '('")
	params := p.parseParamList()

	var ret ast.TypeAnnotation
	if p.match(token.FUNCTION_ARROW) {
		ret = p.parseTypeAnnotation()
	} else if p.match(token.COLON) {
		ret = p.parseTypeAnnotation()
	}

	isAbstract := false
	for _, m := range modifiers {
		if m == "abstract" {
			isAbstract = true
		}
	}
	if isAbstract {
		p.consume(token.SEMICOLON, "Expected ';' after abstract function")
		return &ast.FunctionDecl{Token: startTok, Name: name.Literal, Params: params, ReturnType: ret, Modifiers: modifiers, Body: nil}
	}
	body := p.parseBlock()
	stmts := body.Body
	if stmts == nil {
		stmts = []ast.Statement{} // an empty body is still a body, unlike an abstract one
	}
	return &ast.FunctionDecl{Token: startTok, Name: name.Literal, Params: params, ReturnType: ret, Modifiers: modifiers, Body: stmts}
}

func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	var base string
	switch {
	case p.check(token.IDENTIFIER):
		first := p.consume(token.IDENTIFIER, "Expected type")
		base = p.parseDottedName(first)
	case typeAnnotationKinds[p.peek(0).Kind]:
		tok := p.peek(0)
		p.pos++
		base = tok.Literal
	default:
		p.fail(fmt.Sprintf("Expected type annotation, got %s", p.peek(0).Kind))
	}

	if p.match(token.MUL) {
		return ast.PointerType{Base: ast.NamedType{Name: base}}
	}
	return ast.NamedType{Name: base}
}

func (p *Parser) parseVariable(modifiers []string) *ast.VarDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected variable name")
	var typ ast.TypeAnnotation
	var init ast.Expression
	if p.match(token.COLON) {
		typ = p.parseTypeAnnotation()
	}
	if p.match(token.ASSIGN) {
		init = p.parseExpression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after variable")
	_ = modifiers
	return &ast.VarDecl{Token: startTok, Name: name.Literal, VarType: typ, Init: init}
}

func (p *Parser) parseImport() *ast.ImportDecl {
	startTok := p.peek(-1)
	first := p.consume(token.IDENTIFIER, "Expected module name")
	module := p.parseDottedName(first)

	alias := ""
	if p.match(token.AS) {
		aliasTok := p.consume(token.IDENTIFIER, "Expected alias name")
		alias = aliasTok.Literal
	}
	p.consume(token.SEMICOLON, "Expected ';' after import statement")
	return &ast.ImportDecl{Token: startTok, Module: module, Alias: alias}
}

func (p *Parser) parseFromImport() *ast.FromImportDecl {
	startTok := p.peek(-1)
	first := p.consume(token.IDENTIFIER, "Expected module name")
	module := p.parseDottedName(first)

	p.consume(token.IMPORT, "Expected 'import' after module path")
	var imports []string
	firstImp := p.consume(token.IDENTIFIER, "Expected import item")
	imports = append(imports, firstImp.Literal)
	for p.match(token.COMMA) {
		next := p.consume(token.IDENTIFIER, "Expected import item")
		imports = append(imports, next.Literal)
	}
	p.consume(token.SEMICOLON, "Expected ';' after from import statement")
	return &ast.FromImportDecl{Token: startTok, Module: module, Imports: imports}
}

func (p *Parser) parseNamespace() *ast.NamespaceDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected namespace name")
	p.consume(token.LBRACE, "Expected '{' after namespace name")

	var body []ast.Node
	for !p.match(token.RBRACE) {
		body = append(body, p.parseDeclaration())
	}
	return &ast.NamespaceDecl{Token: startTok, Name: name.Literal, Body: body}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	startTok := p.consume(token.LBRACE, "Expected '{'")
	var body []ast.Statement
	for !p.match(token.RBRACE) {
		body = append(body, p.parseStatement())
	}
	return &ast.BlockStmt{Token: startTok, Body: body}
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.match(token.LET):
		return p.parseVariableDeclaration()
	case p.match(token.IF):
		return p.parseIf()
	case p.match(token.WHILE):
		return p.parseWhile()
	case p.match(token.DO):
		return p.parseDoWhile()
	case p.match(token.FOR):
		return p.parseFor()
	case p.match(token.SWITCH):
		return p.parseSwitch()
	case p.match(token.MATCH):
		return p.parseMatch()
	case p.match(token.TRY):
		return p.parseTry()
	case p.match(token.THROW):
		return p.parseThrow()
	case p.match(token.RETURN):
		return p.parseReturn()
	case p.match(token.BREAK):
		return p.parseBreak()
	case p.match(token.CONTINUE):
		return p.parseContinue()
	case p.check(token.LBRACE):
		return p.parseBlock()
	default:
		if p.check(token.IDENTIFIER) && p.peek(1).Kind == token.ASSIGN {
			return p.parseAssignment()
		}
		startTok := p.peek(0)
		expr := p.parseExpression()
		p.consume(token.SEMICOLON, "Expected ';'")
		return &ast.ExprStmt{Token: startTok, Expr: expr}
	}
}

func (p *Parser) parseAssignment() *ast.Assignment {
	name := p.consume(token.IDENTIFIER, "Expected identifier")
	p.consume(token.ASSIGN, "Expected '='")
	value := p.parseExpression()
	p.consume(token.SEMICOLON, "Expected ';'")
	return &ast.Assignment{Token: name, Name: name.Literal, Value: value}
}

// parseVariableDeclaration implements "let"'s statement form. Per spec
// §4.5/§3, a declaration with neither a type annotation nor an initializer
// gets the "dynamic" tag; here that's represented by a NamedType{"dynamic"}
// rather than a nil VarType, mirroring the original's literal string tag.
func (p *Parser) parseVariableDeclaration() *ast.VarDecl {
	startTok := p.peek(-1)
	var name token.Token
	if varNameKinds[p.peek(0).Kind] {
		name = p.peek(0)
		p.pos++
	} else {
		name = p.consume(token.IDENTIFIER, "Expected variable name")
	}

	var typ ast.TypeAnnotation
	if p.match(token.COLON) {
		typ = p.parseTypeAnnotation()
	}

	var value ast.Expression
	if p.match(token.ASSIGN) {
		value = p.parseExpression()
	} else if typ == nil {
		typ = ast.NamedType{Name: "dynamic"}
	}

	p.consume(token.SEMICOLON, "Expected ';'")
	return &ast.VarDecl{Token: startTok, Name: name.Literal, VarType: typ, Init: value}
}

func (p *Parser) parseIf() *ast.IfStmt {
	startTok := p.peek(-1)
	p.consume(token.LPAREN, "Expected '(' after 'if'")
	cond := p.parseExpression()
	p.consume(token.RPAREN, "Expected ')'")
	then := p.blockOrSingle()
	var els ast.Statement
	if p.match(token.ELSE) {
		els = p.parseStatement()
	}
	return &ast.IfStmt{Token: startTok, Cond: cond, Then: then, Else: els}
}

// blockOrSingle wraps a non-block single statement in a BlockStmt so IfStmt/
// WhileStmt/ForStmt can keep a uniform *BlockStmt body field; a literal
// brace block parses into itself without double-wrapping.
func (p *Parser) blockOrSingle() *ast.BlockStmt {
	if p.check(token.LBRACE) {
		return p.parseBlock()
	}
	tok := p.peek(0)
	stmt := p.parseStatement()
	return &ast.BlockStmt{Token: tok, Body: []ast.Statement{stmt}}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	startTok := p.peek(-1)
	p.consume(token.LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(token.RPAREN, "Expected ')'")
	body := p.blockOrSingle()
	return &ast.WhileStmt{Token: startTok, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() *ast.DoWhileStmt {
	startTok := p.peek(-1)
	body := p.blockOrSingle()
	p.consume(token.WHILE, "Expected 'while' after do body")
	p.consume(token.LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(token.RPAREN, "Expected ')'")
	p.consume(token.SEMICOLON, "Expected ';' after do-while statement")
	return &ast.DoWhileStmt{Token: startTok, Body: body, Cond: cond}
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	startTok := p.peek(-1)
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.parseExpression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after return statement")
	return &ast.ReturnStmt{Token: startTok, Value: value}
}

func (p *Parser) parseFor() *ast.ForStmt {
	startTok := p.peek(-1)
	p.consume(token.LPAREN, "Expected '(' after 'for'")

	var init ast.Statement
	if !p.check(token.SEMICOLON) {
		if p.match(token.LET) {
			init = p.parseForInitVar()
		} else {
			tok := p.peek(0)
			init = &ast.ExprStmt{Token: tok, Expr: p.parseExpression()}
		}
	}
	p.consume(token.SEMICOLON, "Expected ';'")

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.consume(token.SEMICOLON, "Expected ';'")

	var update ast.Statement
	if !p.check(token.RPAREN) {
		tok := p.peek(0)
		update = &ast.ExprStmt{Token: tok, Expr: p.parseExpression()}
	}
	p.consume(token.RPAREN, "Expected ')'")

	body := p.blockOrSingle()
	return &ast.ForStmt{Token: startTok, Init: init, Condition: cond, Update: update, Body: body}
}

// parseForInitVar parses a "let"-headed for-loop initializer without
// consuming the trailing ';' — the caller does, uniformly with the other
// two for-clause slots (mirrors original_source's inlined variant of
// parse_variable that stops short of the semicolon).
func (p *Parser) parseForInitVar() *ast.VarDecl {
	startTok := p.peek(-1)
	name := p.consume(token.IDENTIFIER, "Expected variable name")
	var typ ast.TypeAnnotation
	var init ast.Expression
	if p.match(token.COLON) {
		typ = p.parseTypeAnnotation()
	}
	if p.match(token.ASSIGN) {
		init = p.parseExpression()
	}
	return &ast.VarDecl{Token: startTok, Name: name.Literal, VarType: typ, Init: init}
}

func (p *Parser) parseSwitch() *ast.SwitchStmt {
	startTok := p.peek(-1)
	p.consume(token.LPAREN, "Expected '(' after 'switch'")
	expr := p.parseExpression()
	p.consume(token.RPAREN, "Expected ')'")
	p.consume(token.LBRACE, "Expected '{'")

	var cases []ast.SwitchCase
	var def []ast.Statement
	for !p.match(token.RBRACE) {
		switch {
		case p.match(token.CASE):
			value := p.parseExpression()
			p.consume(token.COLON, "Expected ':' after case value")
			var stmts []ast.Statement
			for !p.check(token.CASE, token.DEFAULT, token.RBRACE) {
				stmts = append(stmts, p.parseStatement())
			}
			cases = append(cases, ast.SwitchCase{Value: value, Statements: stmts})
		case p.match(token.DEFAULT):
			p.consume(token.COLON, "Expected ':' after 'default'")
			var stmts []ast.Statement
			for !p.check(token.CASE, token.DEFAULT, token.RBRACE) {
				stmts = append(stmts, p.parseStatement())
			}
			def = stmts
		default:
			p.fail("Expected 'case', 'default', or '}' in switch body")
		}
	}
	return &ast.SwitchStmt{Token: startTok, Expr: expr, Cases: cases, Default: def}
}

func (p *Parser) parseMatch() *ast.MatchStmt {
	startTok := p.peek(-1)
	expr := p.parseExpression()
	p.consume(token.LBRACE, "Expected '{' after match expression")

	var cases []ast.MatchCase
	var def ast.Statement
	for !p.match(token.RBRACE) {
		if p.match(token.ELSE) {
			p.consume(token.ARROW, "Expected '=>' after 'else'")
			def = p.parseStatement()
			continue
		}
		pattern := p.parseExpression()
		p.consume(token.ARROW, "Expected '=>' after pattern")
		action := p.parseStatement()
		cases = append(cases, ast.MatchCase{Pattern: pattern, Action: action})
	}
	return &ast.MatchStmt{Token: startTok, Expr: expr, Cases: cases, Default: def}
}

func (p *Parser) parseTry() *ast.TryStmt {
	startTok := p.peek(-1)
	tryBlock := p.parseBlock()

	var catches []ast.CatchBlock
	for p.match(token.CATCH) {
		p.consume(token.LPAREN, "Expected '(' after 'catch'")
		name := p.consume(token.IDENTIFIER, "Expected exception name")
		var typ ast.TypeAnnotation
		if p.match(token.COLON) {
			typ = p.parseTypeAnnotation()
		}
		p.consume(token.RPAREN, "Expected ')'")
		body := p.parseBlock()
		catches = append(catches, ast.CatchBlock{Name: name.Literal, Type: typ, Body: body})
	}

	var fin *ast.BlockStmt
	if p.match(token.FINALLY) {
		fin = p.parseBlock()
	}
	return &ast.TryStmt{Token: startTok, TryBlock: tryBlock, CatchBlocks: catches, FinallyBlock: fin}
}

func (p *Parser) parseThrow() *ast.ThrowStmt {
	startTok := p.peek(-1)
	expr := p.parseExpression()
	p.consume(token.SEMICOLON, "Expected ';' after throw statement")
	return &ast.ThrowStmt{Token: startTok, Expr: expr}
}

func (p *Parser) parseBreak() *ast.BreakStmt {
	startTok := p.peek(-1)
	p.consume(token.SEMICOLON, "Expected ';' after 'break'")
	return &ast.BreakStmt{Token: startTok}
}

func (p *Parser) parseContinue() *ast.ContinueStmt {
	startTok := p.peek(-1)
	p.consume(token.SEMICOLON, "Expected ';' after 'continue'")
	return &ast.ContinueStmt{Token: startTok}
}

// ---- Expressions ----

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignmentExpr()
}

// parseAssignmentExpr handles the lambda-vs-grouped-expression speculation
// (spec §4.5 "Lambda recognition", untyped form) before falling through to
// ordinary precedence climbing, then folds a trailing '=' into an
// assignment/member_assignment node (right-associative, per property 7).
func (p *Parser) parseAssignmentExpr() ast.Expression {
	if p.check(token.LPAREN) {
		if lambda, ok := p.tryParseUntypedLambda(); ok {
			return lambda
		}
	}

	expr := p.parseLogicalOr()

	if p.match(token.ASSIGN) {
		assignTok := p.peek(-1)
		value := p.parseAssignmentExpr()
		switch target := expr.(type) {
		case *ast.Identifier:
			return &ast.Assignment{Token: target.Token, Name: target.Value, Value: value}
		case *ast.MemberExpr:
			return &ast.MemberAssignment{Token: assignTok, Target: target, Value: value}
		case *ast.UnaryExpr:
			return &ast.MemberAssignment{Token: assignTok, Target: target, Value: value}
		default:
			p.fail("Invalid assignment target")
		}
	}
	return expr
}

// tryParseUntypedLambda speculatively parses "(ident, ident, ...) => ..." or
// "() => ...", restoring the cursor and returning ok=false on any deviation
// (spec §4.5, form 1). It never commits on a typed lambda "(x: T) => ..." —
// that form is caught later by parseParenOrTypedLambda via parsePrimary.
func (p *Parser) tryParseUntypedLambda() (*ast.LambdaExpr, bool) {
	saved := p.pos
	startTok := p.peek(0)
	p.pos++ // consume '('

	var names []string
	isLambda := false

	if p.check(token.RPAREN) {
		p.pos++
		isLambda = p.check(token.ARROW)
	} else {
		for {
			if !p.check(token.IDENTIFIER) {
				break
			}
			names = append(names, p.peek(0).Literal)
			p.pos++
			if p.check(token.RPAREN) {
				p.pos++
				isLambda = p.check(token.ARROW)
				break
			} else if p.check(token.COMMA) {
				p.pos++
			} else {
				break
			}
		}
	}

	if !isLambda {
		p.pos = saved
		return nil, false
	}

	p.pos++ // consume '=>'
	params := make([]ast.Param, len(names))
	for i, n := range names {
		params[i] = ast.Param{Name: n}
	}

	if p.check(token.LBRACE) {
		block := p.parseBlock()
		return &ast.LambdaExpr{Token: startTok, Params: params, BlockBody: block.Body}, true
	}
	return &ast.LambdaExpr{Token: startTok, Params: params, ExprBody: p.parseAssignmentExpr()}, true
}

func (p *Parser) parseLogicalOr() ast.Expression {
	expr := p.parseLogicalAnd()
	for p.match(token.OR) {
		op := p.peek(-1)
		right := p.parseLogicalAnd()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	expr := p.parseEquality()
	for p.match(token.AND) {
		op := p.peek(-1)
		right := p.parseEquality()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseEquality() ast.Expression {
	expr := p.parseComparison()
	for p.match(token.EQUAL, token.NEQUAL) {
		op := p.peek(-1)
		right := p.parseComparison()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseComparison() ast.Expression {
	expr := p.parseCast()
	for p.match(token.GT, token.GTE, token.LT, token.LTE, token.INSTANCEOF) {
		op := p.peek(-1)
		right := p.parseCast()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseCast() ast.Expression {
	expr := p.parseTerm()
	for p.match(token.AS) {
		castTok := p.peek(-1)
		first := p.consume(token.IDENTIFIER, "Expected type name after 'as'")
		typeName := p.parseDottedName(first)
		expr = &ast.CastExpr{Token: castTok, Expr: expr, TargetType: typeName}
	}
	return expr
}

func (p *Parser) parseTerm() ast.Expression {
	expr := p.parseFactor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.peek(-1)
		right := p.parseFactor()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseFactor() ast.Expression {
	expr := p.parseUnary()
	for p.match(token.MUL, token.DIV, token.MOD) {
		op := p.peek(-1)
		right := p.parseUnary()
		expr = &ast.BinaryExpr{Token: op, Op: op.Literal, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expression {
	if p.match(token.MINUS, token.NOT, token.MUL, token.BITWISE_AND) {
		op := p.peek(-1)
		right := p.parseUnary()
		return &ast.UnaryExpr{Token: op, Op: op.Literal, Right: right}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	switch {
	case p.match(token.NUMBER):
		tok := p.peek(-1)
		return &ast.NumberLiteral{Token: tok, Value: tok.Value}
	case p.match(token.STRING_LITERAL):
		tok := p.peek(-1)
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case p.match(token.REGEX):
		tok := p.peek(-1)
		return &ast.RegexLiteral{Token: tok, Value: tok.Literal}
	case p.match(token.TRUE):
		tok := p.peek(-1)
		return &ast.BooleanLiteral{Token: tok, Value: true}
	case p.match(token.FALSE):
		tok := p.peek(-1)
		return &ast.BooleanLiteral{Token: tok, Value: false}
	case p.match(token.NULL):
		return &ast.NullLiteral{Token: p.peek(-1)}
	case p.match(token.NEW):
		return p.parseNew()
	case p.match(token.IDENTIFIER):
		tok := p.peek(-1)
		return p.parsePostfix(&ast.Identifier{Token: tok, Value: tok.Literal})
	case primaryIdentifierKinds[p.peek(0).Kind]:
		tok := p.peek(0)
		p.pos++
		return p.parsePostfix(&ast.Identifier{Token: tok, Value: tok.Literal})
	case p.match(token.LPAREN):
		return p.parseParenOrTypedLambda()
	case p.match(token.LBRACKET):
		return p.parseArrayLiteral()
	}
	p.fail("Expected expression")
	panic("unreachable")
}

func (p *Parser) parseNew() *ast.NewExpr {
	startTok := p.peek(-1)
	first := p.consume(token.IDENTIFIER, "Expected class name after 'new'")
	className := p.parseDottedName(first)
	p.consume(token.LPAREN, "Expected '(' after class name")
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			args = append(args, p.parseExpression())
			if p.check(token.RPAREN) {
				break
			}
			p.consume(token.COMMA, "Expected ',' or ')' in constructor arguments")
		}
	}
	p.consume(token.RPAREN, "Expected ')'")
	return &ast.NewExpr{Token: startTok, Class: className, Args: args}
}

// parseParenOrTypedLambda implements lambda form 2 (spec §4.5): '(' is
// already consumed. Detects "(ident:" or "() =>" by one-token lookahead,
// then restores and either commits to a typed lambda or falls back to a
// parenthesised expression.
func (p *Parser) parseParenOrTypedLambda() ast.Expression {
	startTok := p.peek(-1)
	saved := p.pos
	isLambda := false

	if p.check(token.IDENTIFIER) {
		p.pos++
		if p.check(token.COLON) {
			isLambda = true
		}
	} else if p.check(token.RPAREN) {
		p.pos++
		if p.check(token.ARROW) {
			isLambda = true
		}
	}
	p.pos = saved

	if isLambda {
		return p.parseTypedLambda(startTok)
	}
	expr := p.parseExpression()
	p.consume(token.RPAREN, "Expected ')'")
	return expr
}

func (p *Parser) parseTypedLambda(startTok token.Token) *ast.LambdaExpr {
	var params []ast.Param
	if !p.match(token.RPAREN) {
		for {
			name := p.consume(token.IDENTIFIER, "Expected parameter name")
			p.consume(token.COLON, "Expected ':' after parameter name")
			typ := p.parseTypeAnnotation()
			params = append(params, ast.Param{Name: name.Literal, Type: typ})
			if p.match(token.RPAREN) {
				break
			}
			p.consume(token.COMMA, "Expected ',' or ')' in lambda parameters")
		}
	}
	p.consume(token.ARROW, "Expected '=>' after lambda parameters")

	if p.check(token.LBRACE) {
		block := p.parseBlock()
		return &ast.LambdaExpr{Token: startTok, Params: params, BlockBody: block.Body}
	}
	return &ast.LambdaExpr{Token: startTok, Params: params, ExprBody: p.parseExpression()}
}

func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	startTok := p.peek(-1)
	var elements []ast.Expression
	if !p.check(token.RBRACKET) {
		for {
			elements = append(elements, p.parseExpression())
			if p.check(token.RBRACKET) {
				break
			}
			p.consume(token.COMMA, "Expected ',' or ']' in array literal")
		}
	}
	p.consume(token.RBRACKET, "Expected ']'")
	return &ast.ArrayLiteral{Token: startTok, Elements: elements}
}

// parsePostfix handles the postfix chain of calls and member accesses that
// follows an identifier (spec §4.5 "Chained postfix": a.b(c).d parses as
// member ← call ← member).
func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.match(token.LPAREN):
			callTok := p.peek(-1)
			var args []ast.Expression
			if !p.check(token.RPAREN) {
				for {
					args = append(args, p.parseExpression())
					if p.check(token.RPAREN) {
						break
					}
					p.consume(token.COMMA, "Expected ',' or ')' in argument list")
				}
			}
			p.consume(token.RPAREN, "Expected ')'")
			expr = &ast.CallExpr{Token: callTok, Callee: expr, Args: args}
		case p.match(token.DOT):
			dotTok := p.peek(-1)
			member := p.consume(token.IDENTIFIER, "Expected member name")
			expr = &ast.MemberExpr{Token: dotTok, Object: expr, Member: member.Literal}
		default:
			return expr
		}
	}
}
