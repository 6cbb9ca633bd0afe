// Package vectorstore implements the persistent columnar vector table of
// spec.md §4.4: a SQLite table for chunk metadata and content, paired with a
// sqlite-vec vec0 virtual table for embeddings, joined by chunk id.
package vectorstore

import "strings"

// Row is one stored chunk, mirroring the columnar table's schema.
type Row struct {
	ID        string
	AbsPath   string
	RelPath   string
	FileHash  string
	Content   string
	StartLine int
	EndLine   int
	Kind      string
	Language  string
	Symbols   []string
	Embedding []float32
}

func symbolsToCSV(symbols []string) string {
	return strings.Join(symbols, ",")
}

func symbolsFromCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// Stats reports the derived size of the store.
type Stats struct {
	RowCount  int
	FileCount int
}

// SearchResult is one ann_search or keyword_scan hit.
type SearchResult struct {
	Row   Row
	Score float64
}
