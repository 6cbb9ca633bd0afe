package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

const rustQuery = `
(function_item) @function
(impl_item) @impl
(struct_item) @struct
(enum_item) @enum
(trait_item) @trait
(mod_item) @module
`

func init() {
	register("rust", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(rust.Language()), rustQuery, nil
	})
}
