package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const javaQuery = `
(method_declaration) @method
(constructor_declaration) @constructor
(class_declaration) @class
(interface_declaration) @interface
(enum_declaration) @enum
`

func init() {
	register("java", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(java.Language()), javaQuery, nil
	})
}
