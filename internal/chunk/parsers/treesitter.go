// Package parsers is the lazily-populated catalogue of tree-sitter grammars
// used by the syntax-aware chunker. Each language registers a Grammar; a
// failed load is marked once so the chunker never retries a dead grammar
// within the same process.
package parsers

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Grammar pairs a compiled tree-sitter language with the capture query used
// to find chunk-worthy nodes. CaptureKind maps a query capture name to the
// chunk kind it should become, per the closed set in spec.md §4.1.
type Grammar struct {
	Tag         string
	Language    *sitter.Language
	Query       *sitter.Query
	CaptureKind map[string]string // capture name -> "function"|"class"|"block"
}

type entry struct {
	once    sync.Once
	grammar *Grammar
	err     error
}

var (
	registryMu sync.Mutex
	registry   = map[string]func() (*sitter.Language, string, error){}
	cache      = map[string]*entry{}
)

// register adds a language loader to the catalogue. Called from each
// language's init().
func register(tag string, load func() (*sitter.Language, string, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[tag] = load
}

// captureKindOf maps the closed capture-name vocabulary to a chunk kind,
// per spec.md §4.1's literal positional grouping: the first five names
// (function, method, arrow_function, constructor, class) map to "function";
// the next six (interface, struct, enum, trait, impl, module) map to
// "class"; type/statement map to "block".
func captureKindOf(capture string) (string, bool) {
	switch capture {
	case "function", "method", "arrow_function", "constructor", "class":
		return "function", true
	case "interface", "struct", "enum", "trait", "impl", "module":
		return "class", true
	case "type", "statement":
		return "block", true
	default:
		return "", false
	}
}

// Get returns the grammar for a language tag, lazily parsing and compiling
// its query on first use. A prior load failure is remembered and returned
// again without retrying.
func Get(tag string) (*Grammar, bool) {
	registryMu.Lock()
	load, ok := registry[tag]
	e, exists := cache[tag]
	if !exists && ok {
		e = &entry{}
		cache[tag] = e
	}
	registryMu.Unlock()

	if !ok {
		return nil, false
	}

	e.once.Do(func() {
		lang, queryText, err := load()
		if err != nil {
			e.err = err
			return
		}
		q, err := sitter.NewQuery(lang, queryText)
		if err != nil {
			e.err = fmt.Errorf("compile query for %s: %w", tag, err)
			return
		}
		kinds := map[string]string{}
		for _, name := range q.CaptureNames() {
			if k, ok := captureKindOf(name); ok {
				kinds[name] = k
			}
		}
		e.grammar = &Grammar{Tag: tag, Language: lang, Query: q, CaptureKind: kinds}
	})

	if e.err != nil {
		return nil, false
	}
	return e.grammar, true
}

// Capture is one match from running a Grammar's query over a parsed tree.
type Capture struct {
	NodeStartByte uint
	NodeEndByte   uint
	StartLine     int // 1-indexed
	EndLine       int // 1-indexed
	Kind          string
	Node          *sitter.Node
}

// Run parses source with the grammar and returns every capture produced by
// its query, in the order the query cursor reports its matches; the captures
// are not sorted.
func (g *Grammar) Run(source []byte) ([]Capture, *sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(g.Language); err != nil {
		return nil, nil, fmt.Errorf("set language %s: %w", g.Tag, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("parse failed for %s", g.Tag)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var captures []Capture
	matches := cursor.Matches(g.Query, tree.RootNode(), source)
	for m := matches.Next(); m != nil; m = matches.Next() {
		for _, c := range m.Captures {
			name := g.Query.CaptureNames()[c.Index]
			kind, ok := g.CaptureKind[name]
			if !ok {
				continue
			}
			node := c.Node
			captures = append(captures, Capture{
				NodeStartByte: node.StartByte(),
				NodeEndByte:   node.EndByte(),
				StartLine:     int(node.StartPosition().Row) + 1,
				EndLine:       int(node.EndPosition().Row) + 1,
				Kind:          kind,
				Node:          &node,
			})
		}
	}

	return captures, tree, nil
}
