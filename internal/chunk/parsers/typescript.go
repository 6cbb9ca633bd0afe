package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const tsQuery = `
(function_declaration) @function
(method_definition) @method
(arrow_function) @arrow_function
(class_declaration) @class
(interface_declaration) @interface
(type_alias_declaration) @type
`

func init() {
	register("typescript", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(typescript.LanguageTypescript()), tsQuery, nil
	})
	register("tsx", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(typescript.LanguageTSX()), tsQuery, nil
	})
	// JavaScript shares the TypeScript grammar's JS-compatible surface closely
	// enough for capture purposes; the corpus does not vendor a separate
	// tree-sitter-javascript grammar for this teacher, so JS files are parsed
	// with the TypeScript grammar (a strict superset of JS syntax).
	register("javascript", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(typescript.LanguageTypescript()), tsQuery, nil
	})
}
