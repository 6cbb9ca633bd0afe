package indexsvc

import (
	"context"
	"fmt"
	"os"

	"github.com/adnify/retrieval/internal/chunk"
	"github.com/adnify/retrieval/internal/embedder"
	"github.com/adnify/retrieval/internal/vectorstore"
)

// workerEventKind is the tag of the worker's event sum type, per spec.md
// §4.9/§9: the worker sends progress, then zero or more result batches,
// then exactly one complete or error.
type workerEventKind int

const (
	workerProgress workerEventKind = iota
	workerResult
	workerComplete
	workerError
)

// workerEvent is the tagged union sent from the semantic worker goroutine
// to the service's consuming loop. Only the field matching Kind is valid.
type workerEvent struct {
	Kind          workerEventKind
	IndexedFiles  int
	TotalFiles    int
	Rows          []vectorstore.Row
	TotalChunks   int
	Err           error
}

// runSemanticWorker walks the workspace, chunks every included file, embeds
// chunks whose file_hash changed relative to existingHashes, and streams
// batches of rows back on events. It never mutates the vector store
// directly: the service commits each result batch (spec.md §5: "the
// service consumes them in arrival order and treats each result as a
// commit point for its chunks").
func runSemanticWorker(ctx context.Context, cfg Config, workspace string, existingHashes map[string]string, chunker *chunk.Chunker, emb embedder.Provider, events chan<- workerEvent) {
	defer close(events)

	files, err := walkWorkspace(workspace, cfg.IgnoredDirs, cfg.IncludedExts)
	if err != nil {
		events <- workerEvent{Kind: workerError, Err: err}
		return
	}

	const batchRows = 64
	var pendingRows []vectorstore.Row
	var pendingTexts []string
	totalChunks := 0

	flush := func() bool {
		if len(pendingRows) == 0 {
			return true
		}
		vecs, err := emb.EmbedBatch(ctx, pendingTexts)
		if err != nil {
			events <- workerEvent{Kind: workerError, Err: fmt.Errorf("embed batch: %w", err)}
			return false
		}
		for i := range pendingRows {
			pendingRows[i].Embedding = vecs[i]
		}
		totalChunks += len(pendingRows)
		events <- workerEvent{Kind: workerResult, Rows: pendingRows, TotalChunks: totalChunks}
		pendingRows = nil
		pendingTexts = nil
		return true
	}

	for i, absPath := range files {
		select {
		case <-ctx.Done():
			events <- workerEvent{Kind: workerError, Err: ctx.Err()}
			return
		default:
		}

		if i%20 == 0 {
			events <- workerEvent{Kind: workerProgress, IndexedFiles: i, TotalFiles: len(files)}
		}

		info, err := os.Stat(absPath)
		if err != nil || info.Size() > cfg.MaxFileSize {
			continue
		}
		raw, err := os.ReadFile(absPath)
		if err != nil {
			continue
		}

		fileHash := chunk.Sha256Hex(raw)
		if existingHashes[absPath] == fileHash {
			continue
		}

		for _, c := range chunker.Chunk(absPath, raw, workspace) {
			pendingRows = append(pendingRows, vectorstore.Row{
				ID:        c.ID,
				AbsPath:   c.AbsPath,
				RelPath:   c.RelPath,
				FileHash:  c.FileHash,
				Content:   c.Content,
				StartLine: c.StartLine,
				EndLine:   c.EndLine,
				Kind:      string(c.Kind),
				Language:  c.Language,
				Symbols:   c.Symbols,
			})
			pendingTexts = append(pendingTexts, c.Content)

			if len(pendingRows) >= batchRows {
				if !flush() {
					return
				}
			}
		}
	}

	if !flush() {
		return
	}
	events <- workerEvent{Kind: workerComplete, IndexedFiles: len(files), TotalFiles: len(files), TotalChunks: totalChunks}
}
