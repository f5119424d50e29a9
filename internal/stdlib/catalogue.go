// Package stdlib holds the catalogue of builtin functions the code
// generator recognizes without an import: which category each name
// belongs to, and therefore which lowering strategy in
// internal/codegen/calls.go handles it (spec §4.7).
package stdlib

import (
	_ "embed"

	"github.com/goccy/go-yaml"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// Category is one of the fixed lowering groups spec §4.7 enumerates.
type Category string

const (
	IO         Category = "io"
	File       Category = "file"
	String     Category = "string"
	Math       Category = "math"
	Memory     Category = "memory"
	System     Category = "system"
	Convert    Category = "convert"
	Collection Category = "collection"
	GUI        Category = "gui"
)

// Entry describes one builtin function's signature shape and routing.
type Entry struct {
	Name     string   `yaml:"name"`
	Category Category `yaml:"category"`
	Params   []string `yaml:"params"`
	Returns  string   `yaml:"returns"`
	AliasOf  string   `yaml:"alias_of"`
}

// Catalogue is an immutable, name-indexed view of catalogue.yaml.
type Catalogue struct {
	byName map[string]Entry
}

type catalogueFile struct {
	Entries []Entry `yaml:"entries"`
}

// Load parses the embedded catalogue.yaml. It panics on a malformed
// catalogue, since the file ships inside the binary and never varies
// at runtime.
func Load() *Catalogue {
	var doc catalogueFile
	if err := yaml.Unmarshal(catalogueYAML, &doc); err != nil {
		panic("stdlib: malformed embedded catalogue: " + err.Error())
	}
	c := &Catalogue{byName: make(map[string]Entry, len(doc.Entries))}
	for _, e := range doc.Entries {
		c.byName[e.Name] = e
	}
	return c
}

// Lookup reports whether name is a builtin and, if so, its entry with
// aliases resolved to the function that actually implements them.
func (c *Catalogue) Lookup(name string) (Entry, bool) {
	e, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	if e.AliasOf != "" {
		if target, ok := c.byName[e.AliasOf]; ok {
			target.Name = e.Name
			return target, true
		}
	}
	return e, true
}

// IsBuiltin reports whether name names a catalogue entry.
func (c *Catalogue) IsBuiltin(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// ReturnsInt reports whether calling name produces a value the code
// generator's coarse type tracker should treat as an int (spec §4.6's
// "integer-returning builtin" rule, grounded on the original's fixed
// name list `length, strlen, time, abs, min, max, toint`).
func (c *Catalogue) ReturnsInt(name string) bool {
	e, ok := c.Lookup(name)
	if !ok {
		return false
	}
	switch e.Returns {
	case "int", "number":
		return true
	default:
		return false
	}
}
