package indexsvc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/adnify/retrieval/internal/lexical"
	"github.com/adnify/retrieval/internal/symbolindex"
	"github.com/adnify/retrieval/internal/vectorstore"
)

// kRRF is the Reciprocal Rank Fusion constant of spec.md §4.9.
const kRRF = 60

// bucketKey identifies a result bucket by (file_path, start_line), per
// spec.md §4.9's structural hybrid fusion.
type bucketKey struct {
	path      string
	startLine int
}

// SearchHit is one fused or plain search result returned to a caller.
type SearchHit struct {
	FilePath  string
	StartLine int
	EndLine   int
	Content   string
	Language  string
	Kind      string
	Symbols   []string
	Score     float64
}

// fuseStructural implements spec.md §4.9's structural hybrid search: lexical
// search(query, 2k) and symbol search(query, k) run in parallel by the
// caller; their results are bucketed by (file_path, start_line), scored as
// lexical-score + (N-rank)/N, with a +0.5 bonus for any bucket also present
// in the symbol results.
func fuseStructural(lexResults []lexical.Result, symResults []symbolindex.Result, topK int) []SearchHit {
	n := len(lexResults)
	buckets := map[bucketKey]*SearchHit{}
	order := []bucketKey{}

	for rank, r := range lexResults {
		key := bucketKey{path: r.Document.RelativePath, startLine: r.Document.StartLine}
		rankBonus := float64(n-rank) / float64(n)
		hit := &SearchHit{
			FilePath:  r.Document.RelativePath,
			StartLine: r.Document.StartLine,
			EndLine:   r.Document.EndLine,
			Content:   r.Document.Content,
			Language:  r.Document.Language,
			Kind:      r.Document.Type,
			Symbols:   r.Document.Symbols,
			Score:     r.Score + rankBonus,
		}
		buckets[key] = hit
		order = append(order, key)
	}

	symbolBuckets := map[bucketKey]bool{}
	for _, r := range symResults {
		symbolBuckets[bucketKey{path: r.Record.RelativePath, startLine: r.Record.StartLine}] = true
	}
	for key, hit := range buckets {
		if symbolBuckets[key] {
			hit.Score += 0.5
		}
	}

	return topHits(order, buckets, topK)
}

// fuseSemantic implements spec.md §4.9's semantic hybrid search: dense
// search(query, 2k) and vector_store.keyword_scan(keywords, 2k) run in
// parallel; if the keyword side is empty, returns the dense side's top-k
// unchanged. Otherwise fuses via RRF (k_rrf=60, weights 0.7 dense / 0.3
// keyword), missing sides contributing zero.
func fuseSemantic(dense, keyword []vectorstore.SearchResult, topK int) []SearchHit {
	if len(keyword) == 0 {
		var out []SearchHit
		for _, r := range dense {
			out = append(out, rowToHit(r.Row, r.Score))
			if len(out) >= topK {
				break
			}
		}
		return out
	}

	type bucket struct {
		row       vectorstore.Row
		rankDense int
		rankKw    int
		hasDense  bool
		hasKw     bool
	}
	buckets := map[bucketKey]*bucket{}
	var order []bucketKey

	keyOf := func(row vectorstore.Row) bucketKey {
		return bucketKey{path: row.RelPath, startLine: row.StartLine}
	}

	for rank, r := range dense {
		key := keyOf(r.Row)
		b := &bucket{row: r.Row, rankDense: rank, hasDense: true}
		buckets[key] = b
		order = append(order, key)
	}
	for rank, r := range keyword {
		key := keyOf(r.Row)
		if b, ok := buckets[key]; ok {
			b.rankKw = rank
			b.hasKw = true
		} else {
			buckets[key] = &bucket{row: r.Row, rankKw: rank, hasKw: true}
			order = append(order, key)
		}
	}

	hits := map[bucketKey]*SearchHit{}
	for _, key := range order {
		b := buckets[key]
		var score float64
		if b.hasDense {
			score += 0.7 / float64(kRRF+b.rankDense+1)
		}
		if b.hasKw {
			score += 0.3 / float64(kRRF+b.rankKw+1)
		}
		hit := rowToHit(b.row, score)
		hits[key] = &hit
	}

	return topHits(order, hits, topK)
}

func topHits(order []bucketKey, buckets map[bucketKey]*SearchHit, topK int) []SearchHit {
	seen := map[bucketKey]bool{}
	out := make([]SearchHit, 0, len(order))
	for _, key := range order {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, *buckets[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

func rowToHit(row vectorstore.Row, score float64) SearchHit {
	return SearchHit{
		FilePath:  row.RelPath,
		StartLine: row.StartLine,
		EndLine:   row.EndLine,
		Content:   row.Content,
		Language:  row.Language,
		Kind:      row.Kind,
		Symbols:   row.Symbols,
		Score:     score,
	}
}

var keywordSplit = regexp.MustCompile(`[^\w]+`)
var numericOnly = regexp.MustCompile(`^[0-9]+$`)

// extractKeywords splits a query on whitespace/punctuation, keeping tokens
// of length >= 2 that are not purely numeric, per spec.md §4.9.
func extractKeywords(query string) []string {
	var out []string
	for _, tok := range keywordSplit.Split(strings.ToLower(query), -1) {
		if len(tok) < 2 || numericOnly.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
