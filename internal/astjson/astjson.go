// Package astjson renders a parsed Program as indented JSON for
// cmd/dakshinparse (spec §6's REPL/file-mode output), the Go equivalent of
// the original `main.py`'s `json.dumps(ast_result, indent=2)` over the
// Python parser's plain dict-based AST.
//
// The Go parser builds a typed tree instead of dicts, so there is no single
// MarshalJSON the whole tree can share: node types differ, and several
// fields hold the Node/Expression/Statement interfaces. Dump walks the tree
// with reflection instead, tagging every struct with a "type" field holding
// its Go type name — the same discriminator the Python dicts carried as
// their own "type" key.
package astjson

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/woundrite/dakshin/internal/ast"
)

// Dump converts node into a JSON-friendly tree of map[string]any and
// []any, ready for json.Marshal.
func Dump(node ast.Node) any {
	if node == nil {
		return nil
	}
	return dumpValue(reflect.ValueOf(node))
}

func dumpValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return dumpValue(v.Elem())

	case reflect.Struct:
		t := v.Type()
		m := make(map[string]any, t.NumField()+1)
		m["type"] = t.Name()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}
			if f.Name == "Token" {
				continue // source position, not AST shape
			}
			m[lowerFirst(f.Name)] = dumpValue(v.Field(i))
		}
		return m

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any{}
		}
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, dumpValue(v.Index(i)))
		}
		return out

	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return nil
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// CountNodes counts every map-shaped (i.e. AST node) entry dumped reaches,
// for the `_meta.node_count` side-channel and the compiler's verbose
// statistics banner (SPEC_FULL.md's "Compilation statistics banner").
func CountNodes(dumped any) int {
	switch val := dumped.(type) {
	case map[string]any:
		count := 1
		for key, v := range val {
			if key == "type" {
				continue
			}
			count += CountNodes(v)
		}
		return count
	case []any:
		count := 0
		for _, item := range val {
			count += CountNodes(item)
		}
		return count
	default:
		return 0
	}
}

// Marshal renders node as indented JSON with a "_meta" object spliced in
// via sjson (source file name and node count) — the debugging affordance
// SPEC_FULL.md adds on top of the original's bare `json.dumps` call.
func Marshal(node ast.Node, sourceFile string) ([]byte, error) {
	dumped := Dump(node)
	data, err := json.MarshalIndent(dumped, "", "  ")
	if err != nil {
		return nil, err
	}

	nodeCount := CountNodes(dumped)
	data, err = sjson.SetBytes(data, "_meta.source_file", sourceFile)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "_meta.node_count", nodeCount)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "_meta.generated_at", "unset")
	if err != nil {
		return nil, err
	}

	var pretty map[string]any
	if err := json.Unmarshal(data, &pretty); err != nil {
		return nil, err
	}
	return json.MarshalIndent(pretty, "", "  ")
}
