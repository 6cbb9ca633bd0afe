package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleGoSource = `package server

import (
	"fmt"
	"net/http"
)

const (
	DefaultPort    = 8080
	DefaultTimeout = 30
)

var globalConfig = Config{Port: DefaultPort}

type Config struct {
	Port    int
	Timeout int
}

type Handler struct {
	config *Config
}

func NewHandler(config *Config) *Handler {
	return &Handler{config: config}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Hello, World!")
}
`

func TestChunkSyntaxEmitsFunctionChunksWithSymbols(t *testing.T) {
	t.Parallel()

	c := New(DefaultLimits(), nil)
	chunks := c.Chunk("/repo/server.go", []byte(simpleGoSource), "/repo")
	require.NotEmpty(t, chunks)

	var funcs []Chunk
	for _, ch := range chunks {
		if ch.Kind == KindFunction {
			funcs = append(funcs, ch)
		}
	}
	require.Len(t, funcs, 2)
	assert.Equal(t, []string{"NewHandler"}, funcs[0].Symbols)
	assert.Equal(t, []string{"ServeHTTP"}, funcs[1].Symbols)

	for _, ch := range chunks {
		assert.GreaterOrEqual(t, ch.EndLine, ch.StartLine)
		assert.GreaterOrEqual(t, ch.StartLine, 1)
		assert.Equal(t, "server.go", ch.RelPath)
		assert.Equal(t, "go", ch.Language)
	}
}

func TestChunkSyntaxEmitsClassChunksForStructs(t *testing.T) {
	t.Parallel()

	c := New(DefaultLimits(), nil)
	chunks := c.Chunk("/repo/server.go", []byte(simpleGoSource), "/repo")

	var classes []Chunk
	for _, ch := range chunks {
		if ch.Kind == KindClass {
			classes = append(classes, ch)
		}
	}
	// Config and Handler both declare a struct type_spec, >= 3 lines.
	require.Len(t, classes, 2)
}

func TestChunkOversizedNodeSplitsWithoutTruncationMarker(t *testing.T) {
	t.Parallel()

	const ifBlock = "\tif true {\n" +
		"\t\tdoSomethingDescriptive(argumentNumberOne, argumentNumberTwo, argumentNumberThree)\n" +
		"\t\tdoSomethingDescriptive(argumentNumberOne, argumentNumberTwo, argumentNumberThree)\n" +
		"\t\tdoSomethingDescriptive(argumentNumberOne, argumentNumberTwo, argumentNumberThree)\n" +
		"\t}\n"

	var body strings.Builder
	body.WriteString("package big\n\nfunc Big() {\n")
	for i := 0; i < 10; i++ {
		body.WriteString(ifBlock)
	}
	body.WriteString("}\n")

	limits := DefaultLimits()
	limits.MaxChunkChars = 400 // smaller than the whole function, bigger than one if-block

	c := New(limits, nil)
	chunks := c.Chunk("/repo/big.go", []byte(body.String()), "/repo")
	require.Len(t, chunks, 10)

	for _, ch := range chunks {
		assert.Equal(t, KindBlock, ch.Kind)
		assert.LessOrEqual(t, len(ch.Content), limits.MaxChunkChars)
		assert.NotContains(t, ch.Content, TruncationMarker, "a splittable body should never need truncation")
	}
}

func TestChunkOversizedNodeWithNoSplittableSubstructureTruncates(t *testing.T) {
	t.Parallel()

	var args strings.Builder
	for i := 0; i < 200; i++ {
		args.WriteString("argumentNumber, ")
	}
	src := "package big\n\nfunc Big() {\n\tcall(" + args.String() + ")\n}\n"

	limits := DefaultLimits()
	limits.MaxChunkChars = 100 // far smaller than the single long call statement

	c := New(limits, nil)
	chunks := c.Chunk("/repo/big.go", []byte(src), "/repo")
	require.NotEmpty(t, chunks)

	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Content), limits.MaxChunkChars+len(TruncationMarker))
	}
}

func TestChunkLineFallbackSmallFileEmitsSingleFileChunk(t *testing.T) {
	t.Parallel()

	c := New(DefaultLimits(), nil) // chunk_size=80, 1.5x = 120 lines
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "some prose line that is not code")
	}
	src := strings.Join(lines, "\n")

	chunks := c.Chunk("/repo/readme.md", []byte(src), "/repo")
	require.Len(t, chunks, 1)
	assert.Equal(t, KindFile, chunks[0].Kind)
	assert.Equal(t, 1, chunks[0].StartLine)
	assert.Equal(t, 50, chunks[0].EndLine)
}

func TestChunkLineFallbackOverlappingWindows(t *testing.T) {
	t.Parallel()

	c := New(DefaultLimits(), nil) // chunk_size=80, overlap=10
	var lines []string
	for i := 1; i <= 400; i++ {
		lines = append(lines, "prose line that does not match any semantic boundary pattern")
	}
	src := strings.Join(lines, "\n")

	chunks := c.Chunk("/repo/readme.md", []byte(src), "/repo")

	wantRanges := [][2]int{{1, 80}, {71, 150}, {141, 220}, {211, 290}, {281, 360}, {351, 400}}
	require.Len(t, chunks, len(wantRanges))
	for i, want := range wantRanges {
		assert.Equal(t, want[0], chunks[i].StartLine, "chunk %d start", i)
		assert.Equal(t, want[1], chunks[i].EndLine, "chunk %d end", i)
		assert.Equal(t, KindBlock, chunks[i].Kind)
	}
}

func TestChunkSkipsOversizedFile(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	limits.MaxFileSize = 10
	c := New(limits, nil)

	chunks := c.Chunk("/repo/huge.go", []byte("package main\n\nfunc main() {}\n"), "/repo")
	assert.Empty(t, chunks)
}

func TestChunkAtExactMaxFileSizeIsIndexed(t *testing.T) {
	t.Parallel()

	src := []byte("package main\n\nfunc main() {}\n")
	limits := DefaultLimits()
	limits.MaxFileSize = int64(len(src))
	c := New(limits, nil)

	chunks := c.Chunk("/repo/main.go", src, "/repo")
	assert.NotEmpty(t, chunks)
}

func TestChunkUnknownLanguageFallsBackToLineChunker(t *testing.T) {
	t.Parallel()

	c := New(DefaultLimits(), nil)
	chunks := c.Chunk("/repo/data.unknownext", []byte("just some text\nacross two lines\n"), "/repo")
	require.Len(t, chunks, 1)
	assert.Equal(t, KindFile, chunks[0].Kind)
}
