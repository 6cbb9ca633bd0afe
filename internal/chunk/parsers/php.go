package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

const phpQuery = `
(function_definition) @function
(method_declaration) @method
(class_declaration) @class
(interface_declaration) @interface
`

func init() {
	register("php", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(php.LanguagePHP()), phpQuery, nil
	})
}
