package codegen_test

import (
	"strings"
	"testing"

	"github.com/woundrite/dakshin/internal/codegen"
	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/lexer"
	"github.com/woundrite/dakshin/internal/parser"
	"github.com/woundrite/dakshin/internal/stdlib"
)

// compile runs the full front end over src and returns the generated NASM
// text, failing the test on any lex/parse diagnostic.
func compile(t *testing.T, src string) string {
	t.Helper()

	sink := diag.NewSink()
	raw := lexer.New(src, "test.daksh", sink).Tokenize()
	tokens := lexer.Normalize(raw)

	prog, err := parser.New(tokens).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if sink.HasErrors() {
		t.Fatalf("lex diagnostics: %v", sink.Diagnostics())
	}

	gen := codegen.New(stdlib.Load())
	return gen.Generate(prog)
}

// S1: a single println of a string literal produces an interned string
// label, a main routine, and a call to the string println wrapper.
func TestScenarioHelloPrintsString(t *testing.T) {
	out := compile(t, `function main() { println("hello"); }`)

	if !strings.Contains(out, `str_0 db "hello", 0`) {
		t.Errorf("missing interned string literal:\n%s", out)
	}
	if !strings.Contains(out, "main:") {
		t.Errorf("missing main label:\n%s", out)
	}
	if !strings.Contains(out, "call dakshin_println") {
		t.Errorf("missing println call:\n%s", out)
	}
	if !strings.Contains(out, "main_end:") {
		t.Errorf("missing main_end label:\n%s", out)
	}
}

// S2: arithmetic into a let binding stores the result in the variable's
// stack slot and reloads it on use.
func TestScenarioArithmeticStoresAndReloads(t *testing.T) {
	out := compile(t, `function main() { let x = 1 + 2; println(x); }`)

	if !strings.Contains(out, "add rax, rbx") {
		t.Errorf("missing addition:\n%s", out)
	}
	if !strings.Contains(out, "mov [rbp-8], rax") {
		t.Errorf("missing store to local slot:\n%s", out)
	}
	if !strings.Contains(out, "mov rax, [rbp-8]") {
		t.Errorf("missing reload from local slot:\n%s", out)
	}
}

// S3: if/else lowers to a test-and-jump pair with distinct else/end labels.
func TestScenarioIfElseLabels(t *testing.T) {
	out := compile(t, `function main() {
		if (1 == 1) { println("yes"); } else { println("no"); }
	}`)

	if !strings.Contains(out, "else_0:") {
		t.Errorf("missing else label:\n%s", out)
	}
	if !strings.Contains(out, "end_if_0:") {
		t.Errorf("missing end_if label:\n%s", out)
	}
	if !strings.Contains(out, "jz else_0") {
		t.Errorf("missing conditional jump to else:\n%s", out)
	}
}

// S4: a lambda stored in a local is emitted as a standalone function after
// main_end, and calling through the local reloads its address and issues
// an indirect call rather than calling a fixed label.
func TestScenarioLambdaIndirectCall(t *testing.T) {
	out := compile(t, `function main() {
		let f = (x, y) => x + y;
		println(f(3, 4));
	}`)

	mainEnd := strings.Index(out, "main_end:")
	lambda := strings.Index(out, "lambda_0:")
	if mainEnd == -1 || lambda == -1 || lambda < mainEnd {
		t.Fatalf("expected lambda_0 after main_end:\n%s", out)
	}
	if !strings.Contains(out, "mov rax, lambda_0") {
		t.Errorf("missing lambda address load at definition site:\n%s", out)
	}
	if !strings.Contains(out, "call rax") {
		t.Errorf("missing indirect call through reloaded address:\n%s", out)
	}
}

// S5: a switch statement pushes the scrutinee once and compares it against
// each case's value before falling into the next case label.
func TestScenarioSwitchPushCompareCase(t *testing.T) {
	out := compile(t, `function main() {
		let x = 2;
		switch (x) {
			case 1: println("one"); break;
			case 2: println("two"); break;
			default: println("other");
		}
	}`)

	if !strings.Contains(out, "push rax    ; switch value") {
		t.Errorf("missing switch value push:\n%s", out)
	}
	if !strings.Contains(out, "cmp rax, rbx") {
		t.Errorf("missing case comparison:\n%s", out)
	}
	if !strings.Contains(out, "switch_end_0:") {
		t.Errorf("missing switch end label:\n%s", out)
	}
}

// S6: instantiating a class places the constructor argument in rcx and
// calls the class's generated constructor label.
func TestScenarioClassConstructorCall(t *testing.T) {
	out := compile(t, `
		class C {
			public constructor(n) { let v = n; }
		}
		function main() {
			let c = new C(5);
		}
	`)

	if !strings.Contains(out, "C_constructor:") {
		t.Errorf("missing constructor label:\n%s", out)
	}
	if !strings.Contains(out, "call C_constructor") {
		t.Errorf("missing constructor call:\n%s", out)
	}
}

// Property: identical string literals intern to the same label, and labels
// are handed out in source order, guaranteeing deterministic output across
// runs of the same program (spec §8 properties 9 and 10).
func TestStringInterningIsDeterministic(t *testing.T) {
	out := compile(t, `function main() {
		println("dup");
		println("other");
		println("dup");
	}`)

	if strings.Count(out, `db "dup", 0`) != 1 {
		t.Errorf("expected exactly one interned label for the repeated literal:\n%s", out)
	}
	if !strings.Contains(out, `str_0 db "dup", 0`) {
		t.Errorf("expected first-seen literal to get str_0:\n%s", out)
	}
	if !strings.Contains(out, `str_1 db "other", 0`) {
		t.Errorf("expected second literal to get str_1:\n%s", out)
	}
}

// Property: every generated call to a catalogue builtin resolves to a
// dakshin_* symbol that the prologue actually defines.
func TestEveryBuiltinCallResolvesToADefinedWrapper(t *testing.T) {
	out := compile(t, `function main() {
		print("a");
		println("b");
		let n = toint("3");
		let r = random();
	}`)

	for _, want := range []string{
		"dakshin_print:",
		"dakshin_println:",
		"dakshin_toint:",
		"dakshin_random:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected wrapper definition %q in prologue:\n%s", want, out)
		}
	}
}

// Property: println of an int-valued expression routes to the _int wrapper
// variant rather than the string variant.
func TestPrintlnRoutesIntExpressionsToIntWrapper(t *testing.T) {
	out := compile(t, `function main() { println(1 + 2); }`)

	if !strings.Contains(out, "call dakshin_println_int") {
		t.Errorf("expected int-formatted println wrapper:\n%s", out)
	}
}
