package codegen

import "github.com/woundrite/dakshin/internal/ast"

// genLambda defers the lambda body's code generation until after the
// enclosing declaration finishes (spec §4.6's deferred-lambda queue): at
// the use site it only needs to load the eventual function's address.
func (g *Generator) genLambda(l *ast.LambdaExpr) {
	name := "lambda_" + itoa(g.lambdaCount)
	g.lambdaCount++

	g.deferred = append(g.deferred, deferredLambda{
		name:  name,
		parms: l.Params,
		expr:  l.ExprBody,
		block: l.BlockBody,
	})

	g.emit("    mov rax, " + name + "    ; lambda function address")
}

// genDeferredLambdas emits every queued lambda body after the rest of the
// program, each as its own standalone routine with its own frame — lambdas
// never close over their defining function's locals in this back end, just
// as the original's generate_lambda_function builds a fresh
// current_locals/current_params pair per lambda.
func (g *Generator) genDeferredLambdas() {
	// Index loop: a lambda body may queue further lambdas while it is emitted.
	for i := 0; i < len(g.deferred); i++ {
		g.genLambdaFunction(g.deferred[i])
	}
}

func (g *Generator) genLambdaFunction(l deferredLambda) {
	saved := g.fn
	g.fn = newFrame(l.name)

	paramBytes := len(l.parms)*8 + 32
	if paramBytes < 32 {
		paramBytes = 32
	}
	g.emit(
		"; lambda function: "+l.name,
		l.name+":",
		"    push rbp",
		"    mov rbp, rsp",
		fmtf("    sub rsp, %d    ; locals + shadow space", paramBytes),
	)
	g.bindParams(l.parms)

	if l.expr != nil {
		g.genExpression(l.expr)
	} else {
		for _, stmt := range l.block {
			g.genStatement(stmt)
		}
	}

	g.emit(l.name+"_end:", "    mov rsp, rbp", "    pop rbp", "    ret", "")
	g.fn = saved
}
