package astjson_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/woundrite/dakshin/internal/astjson"
	"github.com/woundrite/dakshin/internal/diag"
	"github.com/woundrite/dakshin/internal/lexer"
	"github.com/woundrite/dakshin/internal/parser"
)

func parseProgram(t *testing.T, src string) *parser.Parser {
	t.Helper()
	sink := diag.NewSink()
	raw := lexer.New(src, "test.daksh", sink).Tokenize()
	tokens := lexer.Normalize(raw)
	return parser.New(tokens)
}

func TestMarshalTagsNodeTypesAndSplicesMeta(t *testing.T) {
	p := parseProgram(t, `function main() { println("hi"); }`)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	out, err := astjson.Marshal(prog, "test.daksh")
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(out, &tree); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if tree["type"] != "Program" {
		t.Errorf("expected root type Program, got %v", tree["type"])
	}

	if got := gjson.GetBytes(out, "_meta.source_file").String(); got != "test.daksh" {
		t.Errorf("expected _meta.source_file = test.daksh, got %q", got)
	}
	if !gjson.GetBytes(out, "_meta.node_count").Exists() {
		t.Errorf("expected _meta.node_count to be present")
	}
	if !strings.Contains(string(out), `"FunctionDecl"`) {
		t.Errorf("expected a FunctionDecl node in the dump:\n%s", out)
	}
}

func TestCountNodesCountsNestedStructures(t *testing.T) {
	p := parseProgram(t, `function main() { let x = 1 + 2; }`)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	count := astjson.CountNodes(astjson.Dump(prog))
	if count < 3 {
		t.Errorf("expected at least 3 nodes (program, function, var decl), got %d", count)
	}
}
