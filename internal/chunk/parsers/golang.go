package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

const goQuery = `
(function_declaration) @function
(method_declaration) @method
(type_spec type: (struct_type)) @struct
(type_spec type: (interface_type)) @interface
`

func init() {
	register("go", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(golang.Language()), goQuery, nil
	})
}
