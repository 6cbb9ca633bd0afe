package indexsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	svc := newService(dir, nil)
	cfg := DefaultConfig()
	require.NoError(t, svc.Initialize(cfg, nil))
	return svc, dir
}

const sampleGo = `package sample

func ParseConfig() string {
	return "config"
}

func helper() int {
	return 1
}
`

func TestIndexWorkspaceBuildsLexicalAndSymbolIndices(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", sampleGo)

	require.NoError(t, svc.IndexWorkspace(context.Background()))

	status := svc.Status()
	assert.False(t, status.IsIndexing)
	assert.Equal(t, 1, status.TotalFiles)
	assert.Greater(t, status.TotalChunks, 0)

	hits, err := svc.Search(context.Background(), "ParseConfig", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "a.go", hits[0].FilePath)

	results, err := svc.SearchSymbols("ParseConfig", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "ParseConfig", results[0].Record.Name)
}

func TestIndexWorkspaceTwiceIsIdempotent(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", sampleGo)

	require.NoError(t, svc.IndexWorkspace(context.Background()))
	first := svc.Status()

	require.NoError(t, svc.IndexWorkspace(context.Background()))
	second := svc.Status()

	assert.Equal(t, first.TotalFiles, second.TotalFiles)
	assert.Equal(t, first.TotalChunks, second.TotalChunks)
}

func TestConcurrentIndexWorkspaceIsNoOp(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", sampleGo)

	svc.mu.Lock()
	svc.state = StateIndexing
	svc.mu.Unlock()

	require.NoError(t, svc.IndexWorkspace(context.Background()))

	svc.mu.Lock()
	state := svc.state
	svc.mu.Unlock()
	assert.Equal(t, StateIndexing, state)
}

func TestUpdateFilesRenameRemovesOldSymbol(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", "package sample\n\nfunc foo() int {\n\treturn 1\n}\n")
	require.NoError(t, svc.IndexWorkspace(context.Background()))

	results, err := svc.SearchSymbols("foo", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	path := writeFile(t, dir, "a.go", "package sample\n\nfunc bar() int {\n\treturn 1\n}\n")
	require.NoError(t, svc.UpdateFiles([]string{path}))

	results, err = svc.SearchSymbols("foo", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.SearchSymbols("bar", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestDeleteFileIndexRemovesFromBothIndices(t *testing.T) {
	svc, dir := newTestService(t)
	path := writeFile(t, dir, "a.go", sampleGo)
	require.NoError(t, svc.IndexWorkspace(context.Background()))

	require.NoError(t, os.Remove(path))
	require.NoError(t, svc.DeleteFileIndex(path))

	syms, err := svc.FileSymbols("a.go")
	require.NoError(t, err)
	assert.Empty(t, syms)
}

func TestHybridSearchStructuralCombinesLexicalAndSymbolResults(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", sampleGo)
	require.NoError(t, svc.IndexWorkspace(context.Background()))

	hits, err := svc.HybridSearch(context.Background(), "ParseConfig", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
}

func TestClearIndexEmptiesState(t *testing.T) {
	svc, dir := newTestService(t)
	writeFile(t, dir, "a.go", sampleGo)
	require.NoError(t, svc.IndexWorkspace(context.Background()))
	require.NoError(t, svc.ClearIndex())

	hits, err := svc.Search(context.Background(), "ParseConfig", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchBeforeInitializeFails(t *testing.T) {
	svc := newService(t.TempDir(), nil)
	_, err := svc.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	var notInit *NotInitializedError
	assert.ErrorAs(t, err, &notInit)
}

func TestStructuralSearchOnEmptyIndexReturnsNoResults(t *testing.T) {
	svc, _ := newTestService(t)
	hits, err := svc.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRegistryReturnsSameServiceForNormalizedWorkspace(t *testing.T) {
	reg := NewRegistry(nil)
	dir := t.TempDir()

	a, err := reg.Get(dir)
	require.NoError(t, err)
	b, err := reg.Get(dir + string(os.PathSeparator))
	require.NoError(t, err)
	assert.Same(t, a, b)
}
