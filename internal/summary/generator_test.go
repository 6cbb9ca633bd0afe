package summary

import (
	"testing"

	"github.com/adnify/retrieval/internal/symbolindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCountsAndRanksSymbols(t *testing.T) {
	fileSymbols := map[string][]symbolindex.Record{
		"a.go": {{Name: "Foo", Kind: symbolindex.KindFunction}, {Name: "Bar", Kind: symbolindex.KindFunction}},
		"b.go": {{Name: "Foo", Kind: symbolindex.KindFunction}},
	}
	languages := map[string]int{"go": 2}

	s := Generate(fileSymbols, languages, 0)

	assert.Equal(t, 2, s.TotalFiles)
	assert.Equal(t, 2, s.Languages["go"])
	require.Len(t, s.TopSymbols, 2)
	assert.Equal(t, "Foo", s.TopSymbols[0], "Foo occurs twice and should rank first")
	assert.Equal(t, "Bar", s.TopSymbols[1])
	assert.NotZero(t, s.GeneratedAt)
}

func TestGenerateTopNTruncates(t *testing.T) {
	fileSymbols := map[string][]symbolindex.Record{}
	for i := 0; i < 5; i++ {
		fileSymbols[string(rune('a'+i))+".go"] = []symbolindex.Record{{Name: string(rune('A' + i))}}
	}

	s := Generate(fileSymbols, nil, 3)
	assert.Len(t, s.TopSymbols, 3)
}

func TestToTextIsStableAndHumanReadable(t *testing.T) {
	s := Summary{
		Languages:  map[string]int{"go": 3, "python": 1},
		TopSymbols: []string{"Foo", "Bar"},
		TotalFiles: 4,
	}
	text := ToText(s)
	assert.Contains(t, text, "Files indexed: 4")
	assert.Contains(t, text, "go: 3")
	assert.Contains(t, text, "Foo")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := Generate(map[string][]symbolindex.Record{"a.go": {{Name: "X"}}}, map[string]int{"go": 1}, 0)

	require.NoError(t, Save(dir, s))

	loaded, ok := Load(dir)
	require.True(t, ok)
	assert.Equal(t, s.TopSymbols, loaded.TopSymbols)
	assert.Equal(t, s.TotalFiles, loaded.TotalFiles)
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	_, ok := Load(t.TempDir())
	assert.False(t, ok)
}
