package symbolindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRankingCascade(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddBatch([]Record{
		{Name: "getUserName", Kind: KindFunction, RelativePath: "a.go", StartLine: 1, EndLine: 3},
		{Name: "User", Kind: KindClass, RelativePath: "a.go", StartLine: 5, EndLine: 20},
		{Name: "parseUser", Kind: KindFunction, RelativePath: "b.go", StartLine: 1, EndLine: 4},
		{Name: "UserRepository", Kind: KindClass, RelativePath: "b.go", StartLine: 6, EndLine: 30},
	})

	results := idx.Search("User", 10)
	require.Len(t, results, 4)
	assert.Equal(t, "User", results[0].Record.Name)
	assert.Equal(t, scoreExact, results[0].Score)
	assert.Equal(t, "UserRepository", results[1].Record.Name)
	assert.Equal(t, scorePrefix, results[1].Score)
	assert.Equal(t, "getUserName", results[2].Record.Name)
	assert.Equal(t, scoreSubstring, results[2].Score)
	assert.Equal(t, "parseUser", results[3].Record.Name)
	assert.Equal(t, scoreSubstring, results[3].Score)
}

func TestSearchTopKTruncates(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddBatch([]Record{
		{Name: "fooBar", RelativePath: "a.go"},
		{Name: "fooBaz", RelativePath: "a.go"},
		{Name: "fooQux", RelativePath: "a.go"},
	})

	results := idx.Search("foo", 2)
	assert.Len(t, results, 2)
}

func TestDeleteFileRemovesFromBothViews(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddBatch([]Record{
		{Name: "Shared", RelativePath: "a.go"},
		{Name: "Shared", RelativePath: "b.go"},
		{Name: "OnlyInA", RelativePath: "a.go"},
	})

	idx.DeleteFile("a.go")

	assert.Nil(t, idx.ByFile("a.go"))
	shared := idx.Search("Shared", 10)
	require.Len(t, shared, 1)
	assert.Equal(t, "b.go", shared[0].Record.RelativePath)

	assert.Empty(t, idx.Search("OnlyInA", 10))
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	idx := New()
	idx.AddBatch([]Record{
		{Name: "Alpha", RelativePath: "a.go", StartLine: 1, EndLine: 2},
		{Name: "Beta", RelativePath: "b.go", StartLine: 3, EndLine: 9},
	})

	state := idx.Export()
	rehydrated := Import(state)

	assert.Equal(t, idx.Size(), rehydrated.Size())
	assert.Equal(t, idx.Search("Alpha", 10), rehydrated.Search("Alpha", 10))
	assert.Equal(t, idx.ByFile("b.go"), rehydrated.ByFile("b.go"))
}

func TestTokenizeCamelAndSnake(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"get", "User", "Name"}, tokenize("getUserName"))
	assert.Equal(t, []string{"get", "user", "name"}, tokenize("get_user_name"))
	assert.Equal(t, []string{"HTTP", "Server"}, tokenize("HTTPServer"))
}
