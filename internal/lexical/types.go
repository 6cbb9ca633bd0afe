// Package lexical implements the BM25 document index of spec.md §4.2: a
// hand-rolled Okapi BM25 scorer (not a full-text search engine) because the
// exact tokenizer, idf formula, and symbol-name bonus are load-bearing.
package lexical

// Document is one indexed chunk, carrying enough shape to be serialized into
// the structural snapshot's `bm25.documents` array.
type Document struct {
	ID           string   `json:"id"`
	FilePath     string   `json:"filePath"`
	RelativePath string   `json:"relativePath"`
	Content      string   `json:"content"`
	StartLine    int      `json:"startLine"`
	EndLine      int      `json:"endLine"`
	Type         string   `json:"type"`
	Language     string   `json:"language"`
	Symbols      []string `json:"symbols"`

	TermFreq  map[string]int `json:"-"`
	DocLength int            `json:"-"`
}

// Result is one ranked search hit; Score is the published score (raw BM25
// divided by 10), per spec.md §4.2.
type Result struct {
	Document Document
	Score    float64
}

const (
	k1      = 1.2
	b       = 0.75
	epsilon = 1e-9
)
