package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(id, relPath, content string, symbols ...string) Document {
	return Document{ID: id, FilePath: relPath, RelativePath: relPath, Content: content, Symbols: symbols}
}

func TestTokenizeDropsShortAndNumericTokens(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"hello", "world", "io"}, tokenize("Hello, World! a 1 99 io"))
}

func TestBuildAvgDocLengthInvariant(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddDocument(newDoc("1", "a.go", "alpha beta gamma"))
	idx.AddDocument(newDoc("2", "b.go", "alpha beta"))
	idx.Build()

	total := 0
	for _, id := range idx.order {
		total += idx.byID[id].DocLength
	}
	assert.InDelta(t, float64(total)/float64(len(idx.order)), idx.AvgDocLength(), 1e-9)
}

func TestSearchRanksByScoreAndAppliesSymbolBonus(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddDocument(newDoc("1", "a.go", "function parseConfig reads configuration values", "parseConfig"))
	idx.AddDocument(newDoc("2", "b.go", "configuration values are read elsewhere too"))
	idx.Build()

	results := idx.Search("parseConfig configuration", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "1", results[0].Document.ID)
}

func TestSearchBeforeBuildUsesZeroIDF(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddDocument(newDoc("1", "a.go", "alpha beta gamma"))

	results := idx.Search("alpha", 10)
	assert.Empty(t, results)
}

func TestDeleteFileRequiresRebuild(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddDocument(newDoc("1", "a.go", "alpha beta"))
	idx.AddDocument(newDoc("2", "b.go", "alpha gamma"))
	idx.Build()

	idx.DeleteFile("a.go")
	assert.Equal(t, 1, idx.Size())

	idx.Build()
	results := idx.Search("alpha", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Document.ID)
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddDocument(newDoc("1", "a.go", "alpha beta gamma delta"))
	idx.AddDocument(newDoc("2", "b.go", "alpha beta"))
	idx.Build()

	state := idx.Export()
	rehydrated := Import(state)

	assert.Equal(t, idx.Size(), rehydrated.Size())
	assert.InDelta(t, idx.AvgDocLength(), rehydrated.AvgDocLength(), 1e-9)
	assert.Equal(t, idx.Search("alpha beta", 10), rehydrated.Search("alpha beta", 10))
}
