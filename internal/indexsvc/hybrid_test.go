package indexsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adnify/retrieval/internal/lexical"
	"github.com/adnify/retrieval/internal/symbolindex"
	"github.com/adnify/retrieval/internal/vectorstore"
)

func row(relPath string) vectorstore.Row {
	return vectorstore.Row{RelPath: relPath, StartLine: 1, EndLine: 5}
}

// TestFuseSemanticRRFWorkedExample is spec.md §8 scenario 5, verified exactly:
// dense returns [X, Y, Z], keyword returns [Y, W]; with k_rrf=60 the fused
// order is Y, X, Z, W.
func TestFuseSemanticRRFWorkedExample(t *testing.T) {
	t.Parallel()

	dense := []vectorstore.SearchResult{
		{Row: row("X"), Score: 0.9},
		{Row: row("Y"), Score: 0.8},
		{Row: row("Z"), Score: 0.7},
	}
	keyword := []vectorstore.SearchResult{
		{Row: row("Y"), Score: 0.6},
		{Row: row("W"), Score: 0.5},
	}

	hits := fuseSemantic(dense, keyword, 10)
	require.Len(t, hits, 4)

	var order []string
	for _, h := range hits {
		order = append(order, h.FilePath)
	}
	assert.Equal(t, []string{"Y", "X", "Z", "W"}, order)

	byPath := map[string]float64{}
	for _, h := range hits {
		byPath[h.FilePath] = h.Score
	}
	assert.InDelta(t, 0.7/61, byPath["X"], 1e-12)
	assert.InDelta(t, 0.7/62+0.3/61, byPath["Y"], 1e-12)
	assert.InDelta(t, 0.7/63, byPath["Z"], 1e-12)
	assert.InDelta(t, 0.3/62, byPath["W"], 1e-12)
}

func TestFuseSemanticEmptyKeywordReturnsDenseTopK(t *testing.T) {
	t.Parallel()

	dense := []vectorstore.SearchResult{
		{Row: row("X"), Score: 0.9},
		{Row: row("Y"), Score: 0.8},
		{Row: row("Z"), Score: 0.7},
	}

	hits := fuseSemantic(dense, nil, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "X", hits[0].FilePath)
	assert.Equal(t, "Y", hits[1].FilePath)
}

func TestExtractKeywordsDropsShortAndNumericTokens(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"foo", "bar"}, extractKeywords("  foo, 123 a bar! "))
}

func TestFuseStructuralAddsRankBonusAndSymbolBonus(t *testing.T) {
	t.Parallel()

	lexResults := []lexical.Result{
		{Document: lexical.Document{RelativePath: "a.go", StartLine: 1, EndLine: 5}, Score: 1.0},
		{Document: lexical.Document{RelativePath: "b.go", StartLine: 1, EndLine: 5}, Score: 0.9},
	}
	symResults := []symbolindex.Result{
		{Record: symbolindex.Record{RelativePath: "b.go", StartLine: 1, EndLine: 5}},
	}

	hits := fuseStructural(lexResults, symResults, 10)
	require.Len(t, hits, 2)

	byPath := map[string]float64{}
	for _, h := range hits {
		byPath[h.FilePath] = h.Score
	}
	// a.go: rank 0 of 2 -> bonus (2-0)/2 = 1.0, no symbol bonus.
	assert.InDelta(t, 1.0+1.0, byPath["a.go"], 1e-9)
	// b.go: rank 1 of 2 -> bonus (2-1)/2 = 0.5, plus +0.5 symbol bonus.
	assert.InDelta(t, 0.9+0.5+0.5, byPath["b.go"], 1e-9)

	// b.go's combined score (1.9) beats a.go's (2.0)? No: a.go=2.0 > b.go=1.9, so a.go ranks first.
	assert.Equal(t, "a.go", hits[0].FilePath)
	assert.Equal(t, "b.go", hits[1].FilePath)
}

// TestFuseStructuralSymbolBonusIsPerBucketNotPerFile guards against
// crediting every chunk in a file with the symbol bonus when only one
// (file_path, start_line) bucket in that file actually matched.
func TestFuseStructuralSymbolBonusIsPerBucketNotPerFile(t *testing.T) {
	t.Parallel()

	lexResults := []lexical.Result{
		{Document: lexical.Document{RelativePath: "a.go", StartLine: 1, EndLine: 5}, Score: 1.0},
		{Document: lexical.Document{RelativePath: "a.go", StartLine: 50, EndLine: 55}, Score: 1.0},
	}
	symResults := []symbolindex.Result{
		{Record: symbolindex.Record{RelativePath: "a.go", StartLine: 1, EndLine: 5}},
	}

	hits := fuseStructural(lexResults, symResults, 10)
	require.Len(t, hits, 2)

	byStartLine := map[int]float64{}
	for _, h := range hits {
		byStartLine[h.StartLine] = h.Score
	}
	// line 1: lex 1.0 + rank bonus (2-0)/2=1.0 + symbol bonus 0.5 = 2.5.
	assert.InDelta(t, 2.5, byStartLine[1], 1e-9)
	// line 50: lex 1.0 + rank bonus (2-1)/2=0.5, no symbol bonus = 1.5.
	assert.InDelta(t, 1.5, byStartLine[50], 1e-9)
}

func TestFuseStructuralTopKTruncates(t *testing.T) {
	t.Parallel()

	lexResults := []lexical.Result{
		{Document: lexical.Document{RelativePath: "a.go", StartLine: 1}, Score: 1.0},
		{Document: lexical.Document{RelativePath: "b.go", StartLine: 1}, Score: 0.9},
		{Document: lexical.Document{RelativePath: "c.go", StartLine: 1}, Score: 0.8},
	}

	hits := fuseStructural(lexResults, nil, 1)
	require.Len(t, hits, 1)
	assert.Equal(t, "a.go", hits[0].FilePath)
}
