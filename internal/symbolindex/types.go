// Package symbolindex implements the symbol lookup table of spec.md §4.3: two
// non-owning views over one SymbolRecord set, with a fixed ranking cascade.
package symbolindex

// Kind is the closed set of symbol kinds a chunker or caller may report.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindVariable  Kind = "variable"
	KindInterface Kind = "interface"
	KindEnum      Kind = "enum"
	KindType      Kind = "type"
	KindOther     Kind = "other"
)

// Record is one named symbol occurrence.
type Record struct {
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	RelativePath string `json:"relativePath"`
	StartLine    int    `json:"startLine"`
	EndLine      int    `json:"endLine"`
	Signature    string `json:"signature,omitempty"`
}
