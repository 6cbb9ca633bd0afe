package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const pythonQuery = `
(function_definition) @function
(class_definition) @class
`

func init() {
	register("python", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(python.Language()), pythonQuery, nil
	})
}
