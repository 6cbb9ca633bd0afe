package lexical

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// Index is the BM25 lexical index of spec.md §4.2.
type Index struct {
	mu sync.RWMutex

	order []string // document IDs in insertion order
	byID  map[string]*Document

	avgDocLength float64
	idf          map[string]float64
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		byID: map[string]*Document{},
		idf:  map[string]float64{},
	}
}

// AddDocument computes token counts and document length for the chunk and
// appends it to the corpus. build() must be called afterward for the
// addition to affect avgdl/idf.
func (idx *Index) AddDocument(doc Document) {
	tokens := tokenize(doc.Content)
	freq, length := termFrequencies(tokens)
	doc.TermFreq = freq
	doc.DocLength = length

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.byID[doc.ID]; !exists {
		idx.order = append(idx.order, doc.ID)
	}
	d := doc
	idx.byID[doc.ID] = &d
}

// Build recomputes avgdl and the per-term idf table from the current
// document set. Idempotent: calling it repeatedly with no intervening
// mutation yields the same result.
func (idx *Index) Build() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := len(idx.order)
	if n == 0 {
		idx.avgDocLength = 0
		idx.idf = map[string]float64{}
		return
	}

	totalLength := 0
	docFreq := map[string]int{}
	for _, id := range idx.order {
		doc := idx.byID[id]
		totalLength += doc.DocLength
		for term := range doc.TermFreq {
			docFreq[term]++
		}
	}
	idx.avgDocLength = float64(totalLength) / float64(n)

	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		idf[term] = math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}
	idx.idf = idf
}

// DeleteFile removes every document whose relative path matches. The caller
// must call Build() afterward so idf reflects the new corpus.
func (idx *Index) DeleteFile(relativePath string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.order[:0:0]
	for _, id := range idx.order {
		doc := idx.byID[id]
		if doc.RelativePath == relativePath {
			delete(idx.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	idx.order = kept
}

// Search returns the top-k documents by BM25 score, published as raw/10,
// with score >= epsilon. A query term that case-insensitively substring-
// matches any of a document's known symbol names adds a flat +2 bonus to
// that document's raw score.
func (idx *Index) Search(query string, topK int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	terms := uniqueTerms(tokenize(query))
	if len(terms) == 0 || len(idx.order) == 0 {
		return nil
	}

	raw := make(map[string]float64, len(idx.order))
	for _, id := range idx.order {
		doc := idx.byID[id]
		score := idx.scoreDocument(doc, terms)
		if score > 0 {
			raw[id] = score
		}
	}

	type scoredID struct {
		id    string
		score float64
	}
	var scored []scoredID
	for id, s := range raw {
		if s/10 >= epsilon {
			scored = append(scored, scoredID{id: id, score: s})
		}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}

	out := make([]Result, 0, len(scored))
	for _, s := range scored {
		out = append(out, Result{Document: *idx.byID[s.id], Score: s.score / 10})
	}
	return out
}

func (idx *Index) scoreDocument(doc *Document, terms []string) float64 {
	if idx.avgDocLength == 0 {
		return 0
	}
	docLen := float64(doc.DocLength)
	var score float64
	for _, term := range terms {
		if symbolSubstringMatch(term, doc.Symbols) {
			score += 2
		}

		tf, ok := doc.TermFreq[term]
		if !ok {
			continue
		}
		idfVal := idx.idf[term]
		numerator := float64(tf) * (k1 + 1)
		denominator := float64(tf) + k1*(1-b+b*(docLen/idx.avgDocLength))
		score += idfVal * (numerator / denominator)
	}
	return score
}

func symbolSubstringMatch(term string, symbols []string) bool {
	for _, s := range symbols {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

// Size returns the number of documents currently indexed.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.order)
}

// AvgDocLength returns the last-computed avgdl (zero if never built).
func (idx *Index) AvgDocLength() float64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.avgDocLength
}
