package symbolindex

import (
	"sort"
	"strings"
	"sync"
)

// entry pairs a Record with its insertion sequence, used to break score ties
// in search and to preserve bucket order on delete.
type entry struct {
	seq    int
	record Record
}

// Index is the in-memory multi-map of spec.md §4.3: by_name and by_file are
// two non-owning views over the same set of records.
type Index struct {
	mu      sync.RWMutex
	byName  map[string][]entry
	byFile  map[string][]entry
	nextSeq int
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		byName: map[string][]entry{},
		byFile: map[string][]entry{},
	}
}

// Add inserts a record into both views.
func (idx *Index) Add(rec Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.add(rec)
}

// AddBatch inserts many records in one lock acquisition.
func (idx *Index) AddBatch(recs []Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, rec := range recs {
		idx.add(rec)
	}
}

func (idx *Index) add(rec Record) {
	e := entry{seq: idx.nextSeq, record: rec}
	idx.nextSeq++
	idx.byName[rec.Name] = append(idx.byName[rec.Name], e)
	idx.byFile[rec.RelativePath] = append(idx.byFile[rec.RelativePath], e)
}

// DeleteFile removes every record belonging to relativePath from both views,
// pruning any name bucket that becomes empty.
func (idx *Index) DeleteFile(relativePath string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed, ok := idx.byFile[relativePath]
	if !ok {
		return
	}
	delete(idx.byFile, relativePath)

	dead := map[int]bool{}
	for _, e := range removed {
		dead[e.seq] = true
	}

	for name, entries := range idx.byName {
		kept := entries[:0:0]
		for _, e := range entries {
			if !dead[e.seq] {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(idx.byName, name)
		} else {
			idx.byName[name] = kept
		}
	}
}

// Result is one ranked search hit.
type Result struct {
	Record Record
	Score  int
}

const (
	scoreExact        = 100
	scorePrefix       = 80
	scoreSubstring    = 50
	scoreTokenPrefix  = 30
)

// Search ranks every distinct symbol name by the fixed cascade of spec.md
// §4.3: exact match, case-insensitive prefix, substring, then camelCase /
// underscore token prefix. Ties break by first-insertion order.
func (idx *Index) Search(query string, topK int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if query == "" || topK <= 0 {
		return nil
	}
	lowerQuery := strings.ToLower(query)

	type scored struct {
		name    string
		score   int
		firstSeq int
	}

	var candidates []scored
	for name, entries := range idx.byName {
		score, matched := matchScore(name, query, lowerQuery)
		if !matched {
			continue
		}
		first := entries[0].seq
		for _, e := range entries {
			if e.seq < first {
				first = e.seq
			}
		}
		candidates = append(candidates, scored{name: name, score: score, firstSeq: first})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].firstSeq < candidates[j].firstSeq
	})

	var out []Result
	for _, c := range candidates {
		for _, e := range idx.byName[c.name] {
			out = append(out, Result{Record: e.record, Score: c.score})
			if len(out) >= topK {
				return out
			}
		}
	}
	return out
}

func matchScore(name, query, lowerQuery string) (int, bool) {
	lowerName := strings.ToLower(name)

	if name == query {
		return scoreExact, true
	}
	if strings.HasPrefix(lowerName, lowerQuery) {
		return scorePrefix, true
	}
	if strings.Contains(lowerName, lowerQuery) {
		return scoreSubstring, true
	}
	for _, tok := range tokenize(name) {
		if strings.HasPrefix(strings.ToLower(tok), lowerQuery) {
			return scoreTokenPrefix, true
		}
	}
	return 0, false
}

// tokenize splits a symbol name on underscores and camelCase boundaries.
func tokenize(name string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush()
			continue
		case i > 0 && isUpper(r) && !isUpper(runes[i-1]):
			// lower/digit -> upper: start of a new camelCase word.
			flush()
		case i > 0 && isUpper(r) && isUpper(runes[i-1]) && i+1 < len(runes) && !isUpper(runes[i+1]) && runes[i+1] != '_':
			// acronym followed by a new word, e.g. HTTPServer -> HTTP | Server.
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// ByFile returns a copy of the ordered records for a file, or nil.
func (idx *Index) ByFile(relativePath string) []Record {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	entries, ok := idx.byFile[relativePath]
	if !ok {
		return nil
	}
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}

// Size returns the total number of records currently held.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n := 0
	for _, entries := range idx.byFile {
		n += len(entries)
	}
	return n
}

// AllByFile returns every file's records keyed by relative path, used by the
// summary generator and by serialization.
func (idx *Index) AllByFile() map[string][]Record {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string][]Record, len(idx.byFile))
	for path, entries := range idx.byFile {
		recs := make([]Record, len(entries))
		for i, e := range entries {
			recs[i] = e.record
		}
		out[path] = recs
	}
	return out
}
