// Package indexsvc implements the per-workspace orchestrator of spec.md
// §4.9: the Index Service. It owns the Chunker, Lexical Index, Symbol
// Index, Summary, Vector Store handle, Embedder, Watcher subscription, and
// the semantic worker, and exposes the public operation surface of §6.
package indexsvc

import (
	"time"

	"github.com/adnify/retrieval/internal/embedder"
)

// Mode selects which indices the service maintains.
type Mode string

const (
	ModeStructural Mode = "structural"
	ModeSemantic   Mode = "semantic"
)

// State is the service's own lifecycle state machine (spec.md §4.9).
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitialized    State = "initialized"
	StateIndexing       State = "indexing"
	StateDestroyed       State = "destroyed"
)

// StateDirName is the fixed per-workspace state directory name, spec.md §6.
const StateDirName = ".adnify"

// Config is the enumerated configuration of spec.md §6.
type Config struct {
	Mode          Mode
	ChunkSize     int
	ChunkOverlap  int
	MaxFileSize   int64
	IgnoredDirs   []string
	IncludedExts  []string
	Embedding     embedder.Config
}

// DefaultIgnoredDirs and DefaultIncludedExts match spec.md §6's "standard"
// lists, also used by the structural full-index walk (spec.md §4.9 step 1).
var (
	DefaultIgnoredDirs = []string{"node_modules", ".git", "dist", "build", "vendor", "target", "__pycache__"}
	DefaultIncludedExts = []string{
		".ts", ".tsx", ".js", ".jsx", ".py", ".go", ".rs", ".java", ".cpp", ".c",
		".h", ".hpp", ".cs", ".rb", ".php", ".swift", ".kt", ".scala", ".vue", ".svelte",
	}
)

// DefaultConfig returns the defaults enumerated in spec.md §6.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeStructural,
		ChunkSize:    80,
		ChunkOverlap: 10,
		MaxFileSize:  1 << 20,
		IgnoredDirs:  append([]string{}, DefaultIgnoredDirs...),
		IncludedExts: append([]string{}, DefaultIncludedExts...),
	}
}

// Status is the immutable snapshot of spec.md §3's IndexStatus.
type Status struct {
	Mode          Mode
	IsIndexing    bool
	TotalFiles    int
	IndexedFiles  int
	TotalChunks   int
	LastIndexedAt *time.Time
	Error         string
}
