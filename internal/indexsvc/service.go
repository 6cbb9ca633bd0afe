package indexsvc

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adnify/retrieval/internal/changebuffer"
	"github.com/adnify/retrieval/internal/chunk"
	"github.com/adnify/retrieval/internal/embedder"
	"github.com/adnify/retrieval/internal/lexical"
	"github.com/adnify/retrieval/internal/summary"
	"github.com/adnify/retrieval/internal/symbolindex"
	"github.com/adnify/retrieval/internal/vectorstore"
	"github.com/adnify/retrieval/internal/watcher"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// progressThrottle is the minimum interval between non-terminal Status
// events published to the observer, per spec.md §4.9/§6.
const progressThrottle = 100 * time.Millisecond

// Observer receives Status snapshots as an operation progresses, per
// spec.md §6's `index:progress(status)` event.
type Observer func(Status)

// Service is the per-workspace orchestrator of spec.md §4.9. The zero value
// is not usable; construct through a Registry.
type Service struct {
	workspace string
	logger    *log.Logger

	mu    sync.Mutex
	state State
	cfg   Config

	chunker *chunk.Chunker
	lex     *lexical.Index
	sym     *symbolindex.Index
	fileLang map[string]string // rel_path -> language, for the project summary

	vec  *vectorstore.Store
	emb  embedder.Provider

	buf *changebuffer.Buffer
	w   watcher.Watcher

	status     Status
	lastReport time.Time
	observer   Observer

	indexCancel context.CancelFunc
}

func newService(workspace string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		workspace: workspace,
		logger:    logger,
		state:     StateUninitialized,
		fileLang:  map[string]string{},
	}
}

// Initialize opens the chunker, loads the prior lexical/symbol snapshot if
// present, and opens the vector store when cfg.Mode is semantic, per
// spec.md §4.9. The cached summary is not loaded here; HasIndex and
// ProjectSummary read it from disk when called.
func (s *Service) Initialize(cfg Config, observer Observer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDestroyed {
		return errDestroyed
	}

	s.cfg = cfg
	s.observer = observer
	s.chunker = chunk.New(chunk.Limits{
		ChunkSize:     cfg.ChunkSize,
		ChunkOverlap:  cfg.ChunkOverlap,
		MaxFileSize:   cfg.MaxFileSize,
		MaxChunkChars: cfg.ChunkSize * 50,
	}, s.logger)

	stateDir := filepath.Join(s.workspace, StateDirName)
	if lex, sym, _, ok := loadStructuralSnapshot(stateDir); ok {
		s.lex, s.sym = lex, sym
	} else {
		s.lex, s.sym = lexical.New(), symbolindex.New()
	}

	if cfg.Mode == ModeSemantic {
		if err := s.initSemanticLocked(); err != nil {
			return err
		}
	}

	s.state = StateInitialized
	return nil
}

func (s *Service) initSemanticLocked() error {
	if s.vec != nil {
		return nil
	}
	dims := s.cfg.Embedding.Dimensions
	emb, err := embedder.New(s.cfg.Embedding, s.logger)
	if err != nil {
		return &ConfigError{Msg: err.Error()}
	}
	if dims <= 0 {
		dims = emb.Dimensions()
	}

	vecDir := filepath.Join(s.workspace, StateDirName, "index")
	if err := os.MkdirAll(vecDir, 0o755); err != nil {
		return &IOError{Path: vecDir, Err: err}
	}
	store, err := vectorstore.Initialize(filepath.Join(vecDir, "vectors.db"), dims)
	if err != nil {
		return &SchemaMismatchError{Msg: err.Error()}
	}

	s.emb = emb
	s.vec = store
	return nil
}

// SetMode switches mode, lazy-initializing semantic components; no data
// migration happens between modes, per spec.md §4.9.
func (s *Service) SetMode(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return errNotInitialized
	}
	s.cfg.Mode = mode
	if mode == ModeSemantic {
		return s.initSemanticLocked()
	}
	return nil
}

// HasIndex reports whether any index currently holds data, per spec.md
// §4.9: lexical size > 0, cached summary present, or (semantic mode) the
// vector store reports >= 1 row.
func (s *Service) HasIndex() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lex != nil && s.lex.Size() > 0 {
		return true, nil
	}
	if _, ok := summary.Load(filepath.Join(s.workspace, StateDirName, "summary")); ok {
		return true, nil
	}
	if s.cfg.Mode == ModeSemantic && s.vec != nil {
		has, err := s.vec.HasIndex()
		if err != nil {
			return false, &IOError{Path: s.workspace, Err: err}
		}
		return has, nil
	}
	return false, nil
}

// IndexWorkspace performs a full (re)index, refusing to start if one is
// already running, per spec.md §4.9.
func (s *Service) IndexWorkspace(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return errDestroyed
	}
	if s.state == StateIndexing {
		s.mu.Unlock()
		return nil // index_workspace is a no-op while already Indexing, spec.md §4.9/§8
	}
	s.state = StateIndexing
	s.status = Status{Mode: s.cfg.Mode, IsIndexing: true}
	ctx, cancel := context.WithCancel(ctx)
	s.indexCancel = cancel
	s.mu.Unlock()

	runID := uuid.NewString()
	s.logger.Printf("indexsvc[%s]: run %s starting (%s mode)", s.workspace, runID, s.cfg.Mode)

	defer func() {
		s.mu.Lock()
		s.state = StateInitialized
		s.status.IsIndexing = false
		s.indexCancel = nil
		s.reportLocked(true)
		s.mu.Unlock()
		s.logger.Printf("indexsvc[%s]: run %s finished", s.workspace, runID)
	}()

	if s.cfg.Mode == ModeSemantic {
		return s.indexSemantic(ctx)
	}
	return s.indexStructural(ctx)
}

// indexStructural implements spec.md §4.9's structural full-index steps.
func (s *Service) indexStructural(ctx context.Context) error {
	files, err := walkWorkspace(s.workspace, s.cfg.IgnoredDirs, s.cfg.IncludedExts)
	if err != nil {
		s.recordErrorLocked(err)
		return err
	}

	s.mu.Lock()
	s.lex = lexical.New()
	s.sym = symbolindex.New()
	s.fileLang = map[string]string{}
	s.mu.Unlock()

	languages := map[string]int{}
	fileSymbols := map[string][]symbolindex.Record{}
	totalChunks := 0

	for i, absPath := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if i%20 == 0 {
			s.mu.Lock()
			s.status.IndexedFiles = i
			s.status.TotalFiles = len(files)
			s.reportLocked(false)
			s.mu.Unlock()
		}

		info, err := os.Stat(absPath)
		if err != nil {
			s.logger.Printf("indexsvc: stat %s: %v", absPath, err)
			continue
		}
		if info.Size() > s.cfg.MaxFileSize {
			continue
		}
		raw, err := os.ReadFile(absPath)
		if err != nil {
			s.logger.Printf("indexsvc: read %s: %v", absPath, err)
			continue
		}

		chunks := s.chunker.Chunk(absPath, raw, s.workspace)
		if len(chunks) == 0 {
			continue
		}
		relPath := chunks[0].RelPath
		languages[chunks[0].Language]++
		s.fileLang[relPath] = chunks[0].Language

		for _, c := range chunks {
			s.lex.AddDocument(lexical.Document{
				ID: c.ID, FilePath: c.AbsPath, RelativePath: c.RelPath, Content: c.Content,
				StartLine: c.StartLine, EndLine: c.EndLine, Type: string(c.Kind),
				Language: c.Language, Symbols: c.Symbols,
			})
			recs := symbolsToRecords(c)
			s.sym.AddBatch(recs)
			fileSymbols[relPath] = append(fileSymbols[relPath], recs...)
		}
		totalChunks += len(chunks)
	}

	s.lex.Build()

	sum := summary.Generate(fileSymbols, languages, summary.DefaultTopN)
	if err := summary.Save(filepath.Join(s.workspace, StateDirName, "summary"), sum); err != nil {
		s.logger.Printf("indexsvc: persist summary: %v", err)
	}

	if err := saveStructuralSnapshot(filepath.Join(s.workspace, StateDirName), s.lex, s.sym, len(files)); err != nil {
		s.logger.Printf("indexsvc: persist structural snapshot: %v", err)
	}

	s.mu.Lock()
	s.status.IndexedFiles = len(files)
	s.status.TotalFiles = len(files)
	s.status.TotalChunks = totalChunks
	now := time.Now()
	s.status.LastIndexedAt = &now
	s.mu.Unlock()
	return nil
}

// indexSemantic implements spec.md §4.9's semantic full-index path: init
// vector store and embedder, read existing file_hashes, hand off to the
// worker, and commit each result batch as it arrives.
func (s *Service) indexSemantic(ctx context.Context) error {
	s.mu.Lock()
	if err := s.initSemanticLocked(); err != nil {
		s.mu.Unlock()
		s.recordErrorLocked(err)
		return err
	}
	vec, emb, chunker := s.vec, s.emb, s.chunker
	s.mu.Unlock()

	existingHashes, err := vec.FileHashes()
	if err != nil {
		s.recordErrorLocked(&IOError{Path: s.workspace, Err: err})
		return err
	}

	events := make(chan workerEvent, 8)
	go runSemanticWorker(ctx, s.cfg, s.workspace, existingHashes, chunker, emb, events)

	for ev := range events {
		switch ev.Kind {
		case workerProgress:
			s.mu.Lock()
			s.status.IndexedFiles = ev.IndexedFiles
			s.status.TotalFiles = ev.TotalFiles
			s.reportLocked(false)
			s.mu.Unlock()
		case workerResult:
			if err := vec.AddBatch(ev.Rows); err != nil {
				werr := &UpstreamFatalError{Err: err}
				s.recordErrorLocked(werr)
				return werr
			}
			s.mu.Lock()
			s.status.TotalChunks = ev.TotalChunks
			s.mu.Unlock()
		case workerComplete:
			s.mu.Lock()
			s.status.IndexedFiles = ev.IndexedFiles
			s.status.TotalFiles = ev.TotalFiles
			s.status.TotalChunks = ev.TotalChunks
			now := time.Now()
			s.status.LastIndexedAt = &now
			s.mu.Unlock()
		case workerError:
			werr := &UpstreamFatalError{Err: ev.Err}
			s.recordErrorLocked(werr)
			return werr
		}
	}
	return nil
}

func symbolsToRecords(c chunk.Chunk) []symbolindex.Record {
	recs := make([]symbolindex.Record, 0, len(c.Symbols))
	for _, name := range c.Symbols {
		recs = append(recs, symbolindex.Record{
			Name: name, Kind: kindFromChunk(c.Kind), RelativePath: c.RelPath,
			StartLine: c.StartLine, EndLine: c.EndLine,
		})
	}
	return recs
}

func kindFromChunk(k chunk.Kind) symbolindex.Kind {
	switch k {
	case chunk.KindFunction:
		return symbolindex.KindFunction
	case chunk.KindClass:
		return symbolindex.KindClass
	default:
		return symbolindex.KindOther
	}
}

// UpdateFiles performs incremental maintenance for the given paths, per
// spec.md §4.9: missing files are deleted from both indices; present files
// are re-chunked and their prior entries purged and replaced. Any per-file
// error is logged and does not halt the batch.
func (s *Service) UpdateFiles(paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return errNotInitialized
	}

	exts := make(map[string]bool, len(s.cfg.IncludedExts))
	for _, e := range s.cfg.IncludedExts {
		exts[e] = true
	}

	for _, absPath := range paths {
		if !exts[filepath.Ext(absPath)] {
			continue
		}
		relPath := chunkRelPath(s.workspace, absPath)

		if _, err := os.Stat(absPath); err != nil {
			s.lex.DeleteFile(relPath)
			s.sym.DeleteFile(relPath)
			delete(s.fileLang, relPath)
			if s.cfg.Mode == ModeSemantic && s.vec != nil {
				if err := s.vec.DeleteFile(absPath); err != nil {
					s.logger.Printf("indexsvc: delete vector file %s: %v", absPath, err)
				}
			}
			continue
		}

		info, err := os.Stat(absPath)
		if err != nil || info.Size() > s.cfg.MaxFileSize {
			continue
		}
		raw, err := os.ReadFile(absPath)
		if err != nil {
			s.logger.Printf("indexsvc: read %s: %v", absPath, err)
			continue
		}

		chunks := s.chunker.Chunk(absPath, raw, s.workspace)
		s.lex.DeleteFile(relPath)
		s.sym.DeleteFile(relPath)
		for _, c := range chunks {
			s.lex.AddDocument(lexical.Document{
				ID: c.ID, FilePath: c.AbsPath, RelativePath: c.RelPath, Content: c.Content,
				StartLine: c.StartLine, EndLine: c.EndLine, Type: string(c.Kind),
				Language: c.Language, Symbols: c.Symbols,
			})
			s.sym.AddBatch(symbolsToRecords(c))
		}
		if len(chunks) > 0 {
			s.fileLang[relPath] = chunks[0].Language
		}

		if s.cfg.Mode == ModeSemantic && s.vec != nil {
			rows := make([]vectorstore.Row, 0, len(chunks))
			var texts []string
			for _, c := range chunks {
				rows = append(rows, vectorstore.Row{
					ID: c.ID, AbsPath: c.AbsPath, RelPath: c.RelPath, FileHash: c.FileHash,
					Content: c.Content, StartLine: c.StartLine, EndLine: c.EndLine,
					Kind: string(c.Kind), Language: c.Language, Symbols: c.Symbols,
				})
				texts = append(texts, c.Content)
			}
			if len(rows) > 0 && s.emb != nil {
				vecs, err := s.emb.EmbedBatch(context.Background(), texts)
				if err != nil {
					s.logger.Printf("indexsvc: embed update for %s: %v", absPath, err)
				} else {
					for i := range rows {
						rows[i].Embedding = vecs[i]
					}
				}
			}
			if err := s.vec.UpsertFile(absPath, rows); err != nil {
				s.logger.Printf("indexsvc: upsert vector file %s: %v", absPath, err)
			}
		}
	}

	s.lex.Build()
	if err := saveStructuralSnapshot(filepath.Join(s.workspace, StateDirName), s.lex, s.sym, s.lex.Size()); err != nil {
		s.logger.Printf("indexsvc: persist structural snapshot: %v", err)
	}
	return nil
}

// DeleteFileIndex removes one file from both indices (and the vector store
// in semantic mode) once the file is gone from disk. It delegates to
// UpdateFiles, so a file that still exists is re-indexed rather than
// removed, and a file whose extension is not included is left untouched.
func (s *Service) DeleteFileIndex(absPath string) error {
	return s.UpdateFiles([]string{absPath})
}

func chunkRelPath(root, absPath string) string {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// Search runs lexical search in structural mode, dense ANN search in
// semantic mode (failing if semantic components are not initialized), per
// spec.md §4.9.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return nil, errNotInitialized
	}

	if s.cfg.Mode == ModeStructural {
		var out []SearchHit
		for _, r := range s.lex.Search(query, topK) {
			out = append(out, SearchHit{
				FilePath: r.Document.RelativePath, StartLine: r.Document.StartLine,
				EndLine: r.Document.EndLine, Content: r.Document.Content,
				Language: r.Document.Language, Kind: r.Document.Type,
				Symbols: r.Document.Symbols, Score: r.Score,
			})
		}
		return out, nil
	}

	if s.vec == nil || s.emb == nil {
		return nil, errSemanticRequired
	}
	vec, err := s.emb.Embed(ctx, query)
	if err != nil {
		return nil, &UpstreamFatalError{Err: err}
	}
	results, err := s.vec.AnnSearch(vec, topK)
	if err != nil {
		return nil, &IOError{Path: s.workspace, Err: err}
	}
	out := make([]SearchHit, 0, len(results))
	for _, r := range results {
		out = append(out, rowToHit(r.Row, r.Score))
	}
	return out, nil
}

// HybridSearch implements spec.md §4.9's structural and semantic fusion
// rules.
func (s *Service) HybridSearch(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	s.mu.Lock()
	mode := s.cfg.Mode
	s.mu.Unlock()

	if mode == ModeStructural {
		return s.hybridStructural(query, topK)
	}
	return s.hybridSemantic(ctx, query, topK)
}

func (s *Service) hybridStructural(query string, topK int) ([]SearchHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return nil, errNotInitialized
	}

	var lexRes []lexical.Result
	var symRes []symbolindex.Result
	var g errgroup.Group
	g.Go(func() error { lexRes = s.lex.Search(query, 2*topK); return nil })
	g.Go(func() error { symRes = s.sym.Search(query, topK); return nil })
	_ = g.Wait()

	return fuseStructural(lexRes, symRes, topK), nil
}

func (s *Service) hybridSemantic(ctx context.Context, query string, topK int) ([]SearchHit, error) {
	s.mu.Lock()
	if s.vec == nil || s.emb == nil {
		s.mu.Unlock()
		return nil, errSemanticRequired
	}
	vec, embProvider := s.vec, s.emb
	s.mu.Unlock()

	queryVec, err := embProvider.Embed(ctx, query)
	if err != nil {
		return nil, &UpstreamFatalError{Err: err}
	}

	keywords := extractKeywords(query)
	var dense, keywordResults []vectorstore.SearchResult
	var g errgroup.Group
	g.Go(func() error {
		var err error
		dense, err = vec.AnnSearch(queryVec, 2*topK)
		return err
	})
	g.Go(func() error {
		if len(keywords) == 0 {
			return nil
		}
		var err error
		keywordResults, err = vec.KeywordScan(keywords, 2*topK)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, &IOError{Path: s.workspace, Err: err}
	}

	return fuseSemantic(dense, keywordResults, topK), nil
}

// SearchSymbols runs the symbol index's ranked search.
func (s *Service) SearchSymbols(query string, topK int) ([]symbolindex.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return nil, errNotInitialized
	}
	return s.sym.Search(query, topK), nil
}

// ProjectSummary returns the cached summary, regenerating it from the
// current symbol/lexical state if no cache is present.
func (s *Service) ProjectSummary() (summary.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return summary.Summary{}, errNotInitialized
	}
	if sum, ok := summary.Load(filepath.Join(s.workspace, StateDirName, "summary")); ok {
		return sum, nil
	}
	languages := map[string]int{}
	for _, lang := range s.fileLang {
		languages[lang]++
	}
	return summary.Generate(s.sym.AllByFile(), languages, summary.DefaultTopN), nil
}

// ProjectSummaryText returns the rendered text form of ProjectSummary.
func (s *Service) ProjectSummaryText() (string, error) {
	sum, err := s.ProjectSummary()
	if err != nil {
		return "", err
	}
	return summary.ToText(sum), nil
}

// FileSymbols returns every symbol recorded for relPath.
func (s *Service) FileSymbols(relPath string) ([]symbolindex.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return nil, errNotInitialized
	}
	return s.sym.ByFile(relPath), nil
}

// ClearIndex drops all in-memory and persisted index state.
func (s *Service) ClearIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return errNotInitialized
	}
	s.lex = lexical.New()
	s.sym = symbolindex.New()
	s.fileLang = map[string]string{}
	if s.vec != nil {
		if err := s.vec.Clear(); err != nil {
			return &IOError{Path: s.workspace, Err: err}
		}
	}
	stateDir := filepath.Join(s.workspace, StateDirName)
	_ = os.Remove(filepath.Join(stateDir, structuralSnapshotFile))
	_ = os.Remove(filepath.Join(stateDir, "summary", "summary.json"))
	return nil
}

// UpdateEmbeddingConfig swaps the embedder provider, closing the old one.
func (s *Service) UpdateEmbeddingConfig(cfg embedder.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		return errNotInitialized
	}
	emb, err := embedder.New(cfg, s.logger)
	if err != nil {
		return &ConfigError{Msg: err.Error()}
	}
	if s.emb != nil {
		s.emb.Close()
	}
	s.cfg.Embedding = cfg
	s.emb = emb
	return nil
}

// TestEmbeddingConnection probes the configured provider without mutating
// any index state.
func (s *Service) TestEmbeddingConnection(ctx context.Context) (embedder.ConnectionResult, error) {
	s.mu.Lock()
	emb := s.emb
	s.mu.Unlock()
	if emb == nil {
		return embedder.ConnectionResult{}, errSemanticRequired
	}
	return emb.TestConnection(ctx), nil
}

// Status returns the current immutable Status snapshot.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// StartWatching wires the File Watcher and Change Buffer together so
// filesystem changes flow into UpdateFiles/DeleteFileIndex, per spec.md
// §4.7/§4.8/§4.9.
func (s *Service) StartWatching(ctx context.Context, userIgnorePatterns []string) error {
	s.mu.Lock()
	if s.state == StateUninitialized || s.state == StateDestroyed {
		s.mu.Unlock()
		return errNotInitialized
	}
	workspace := s.workspace
	s.mu.Unlock()

	s.buf = changebuffer.New(changebuffer.DefaultConfig(), s.onBatch, s.logger)

	w, err := watcher.New(workspace, StateDirName, userIgnorePatterns, s.logger)
	if err != nil {
		return &IOError{Path: workspace, Err: err}
	}
	s.w = w

	onChange := func(ev watcher.Event) {
		s.buf.Add(changebuffer.Event{Type: changebuffer.EventType(ev.Type), Path: ev.Path, Timestamp: ev.Timestamp})
	}
	return s.w.Start(ctx, onChange, nil)
}

func (s *Service) onBatch(batch changebuffer.Batch) error {
	for _, path := range batch.Deletes {
		if err := s.DeleteFileIndex(path); err != nil {
			s.logger.Printf("indexsvc: delete %s: %v", path, err)
		}
	}
	if len(batch.CreatesOrUpdates) > 0 {
		if err := s.UpdateFiles(batch.CreatesOrUpdates); err != nil {
			s.logger.Printf("indexsvc: update %v: %v", batch.CreatesOrUpdates, err)
		}
	}
	return nil
}

// Destroy terminates the worker (if any) and any running watcher, and
// refuses further operations, per spec.md §5.
func (s *Service) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexCancel != nil {
		s.indexCancel()
	}
	if s.w != nil {
		_ = s.w.Stop()
	}
	if s.vec != nil {
		_ = s.vec.Close()
	}
	if s.emb != nil {
		_ = s.emb.Close()
	}
	s.state = StateDestroyed
	return nil
}

// reportLocked publishes a Status snapshot to the observer, throttled to
// at most once per 100ms unless terminal=true, per spec.md §4.9/§6. Caller
// must hold s.mu.
func (s *Service) reportLocked(terminal bool) {
	if s.observer == nil {
		return
	}
	now := time.Now()
	if !terminal && now.Sub(s.lastReport) < progressThrottle {
		return
	}
	s.lastReport = now
	s.observer(s.status)
}

func (s *Service) recordErrorLocked(err error) {
	s.mu.Lock()
	s.status.Error = err.Error()
	s.reportLocked(true)
	s.mu.Unlock()
}
