package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

const rubyQuery = `
(method) @method
(class) @class
(module) @module
`

func init() {
	register("ruby", func() (*sitter.Language, string, error) {
		return sitter.NewLanguage(ruby.Language()), rubyQuery, nil
	})
}
