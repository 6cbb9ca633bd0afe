package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

const cQuery = `
(function_definition) @function
(struct_specifier body: (_)) @struct
(enum_specifier body: (_)) @enum
`

func init() {
	register("c", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(c.Language()), cQuery, nil
	})
	// C++ is not separately vendored in the corpus; .cpp/.hpp/.h files are
	// parsed with the C grammar, which covers the subset this chunker cares
	// about (function and struct boundaries) but not C++-only constructs
	// such as classes or templates. Spans the C grammar can't see are covered
	// only by gap-fill block chunks; a file falls back to the line chunker
	// only when the syntax pass yields no chunks at all.
	register("cpp", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(c.Language()), cQuery, nil
	})
}
