// Package chunk turns a file's bytes into an ordered list of semantic chunks.
package chunk

import "fmt"

// Kind classifies the semantic shape of a chunk.
type Kind string

const (
	KindFile     Kind = "file"
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindBlock    Kind = "block"
)

// Chunk is a contiguous, 1-indexed inclusive line range of one file.
type Chunk struct {
	ID         string
	AbsPath    string
	RelPath    string
	FileHash   string // sha-256 hex of the whole file's bytes at chunk time
	Content    string
	StartLine  int
	EndLine    int
	Kind       Kind
	Language   string
	Symbols    []string
}

// NewID derives the stable chunk identity from (absolute path, start line).
func NewID(absPath string, startLine int) string {
	return fmt.Sprintf("%s:%d", absPath, startLine)
}

// TruncationMarker is appended to content that was cut down to MaxChunkChars.
const TruncationMarker = "\n/* ...truncated... */"

// Limits bundles the size knobs the chunker is configured with.
type Limits struct {
	// ChunkSize is the target chunk size in lines, used by the fallback line
	// chunker and to derive MaxChunkChars.
	ChunkSize int
	// ChunkOverlap is the overlapping window (in lines) used by the
	// fallback line chunker.
	ChunkOverlap int
	// MaxFileSize is the largest file (in bytes) the chunker will process.
	MaxFileSize int64
	// MaxChunkChars bounds the content length of any single chunk.
	MaxChunkChars int
}

// DefaultLimits matches spec.md §6's configuration defaults.
func DefaultLimits() Limits {
	const chunkSize = 80
	return Limits{
		ChunkSize:     chunkSize,
		ChunkOverlap:  10,
		MaxFileSize:   1 << 20, // 1 MiB
		MaxChunkChars: chunkSize * 50,
	}
}
