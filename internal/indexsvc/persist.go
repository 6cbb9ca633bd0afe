package indexsvc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adnify/retrieval/internal/lexical"
	"github.com/adnify/retrieval/internal/symbolindex"
)

// structuralSnapshotFile is the fixed file name under the workspace state
// directory, per spec.md §6.
const structuralSnapshotFile = "structural-index.json"

// structuralSnapshot is the stable, versioned-by-key-presence JSON schema of
// spec.md §6.
type structuralSnapshot struct {
	BM25       lexical.ExportState     `json:"bm25"`
	Symbols    symbolindex.ExportState `json:"symbols"`
	TotalFiles int                     `json:"totalFiles"`
	SavedAt    int64                   `json:"savedAt"`
}

// saveStructuralSnapshot writes the snapshot atomically where the platform
// permits (temp file + rename). Write failures are the caller's concern to
// log and tolerate, per spec.md §4.9/§7's non-fatal persistence policy.
func saveStructuralSnapshot(stateDir string, lex *lexical.Index, sym *symbolindex.Index, totalFiles int) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return &IOError{Path: stateDir, Err: err}
	}

	snap := structuralSnapshot{
		BM25:       lex.Export(),
		Symbols:    sym.Export(),
		TotalFiles: totalFiles,
		SavedAt:    time.Now().UnixMilli(),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return &IOError{Path: stateDir, Err: err}
	}

	path := filepath.Join(stateDir, structuralSnapshotFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// loadStructuralSnapshot reads and rehydrates a previously persisted
// snapshot. A missing or corrupt file is tolerated as "no cache" (spec.md
// §6), reported via ok=false rather than an error.
func loadStructuralSnapshot(stateDir string) (lex *lexical.Index, sym *symbolindex.Index, totalFiles int, ok bool) {
	data, err := os.ReadFile(filepath.Join(stateDir, structuralSnapshotFile))
	if err != nil {
		return nil, nil, 0, false
	}
	var snap structuralSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, 0, false
	}
	return lexical.Import(snap.BM25), symbolindex.Import(snap.Symbols), snap.TotalFiles, true
}
