package lexical

import (
	"encoding/json"
	"fmt"
)

// TermCount is one (term, count) pair. It marshals to and from a 2-element
// JSON array (`[term, count]`), matching spec.md §6's `termFreq` wire
// schema exactly rather than a named object.
type TermCount struct {
	Term  string
	Count int
}

func (tc TermCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{tc.Term, tc.Count})
}

func (tc *TermCount) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshal termFreq pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &tc.Term); err != nil {
		return fmt.Errorf("unmarshal termFreq term: %w", err)
	}
	if err := json.Unmarshal(pair[1], &tc.Count); err != nil {
		return fmt.Errorf("unmarshal termFreq count: %w", err)
	}
	return nil
}

// DocumentSnapshot is one entry of the structural snapshot's
// `bm25.documents` array.
type DocumentSnapshot struct {
	Document
	TermFreq  []TermCount `json:"termFreq"`
	DocLength int         `json:"docLength"`
}

// ExportState is the serializable form of an Index, preserving the document
// set, avgdl, and idf table exactly as spec.md §4.2 requires.
type ExportState struct {
	Documents    []DocumentSnapshot `json:"documents"`
	AvgDocLength float64            `json:"avgDocLength"`
	IDF          []TermCountFloat   `json:"idf"`
}

// TermCountFloat is one (term, value) pair for the idf table, marshaling to
// and from a 2-element JSON array (`[term, value]`) for the same reason as
// TermCount.
type TermCountFloat struct {
	Term  string
	Value float64
}

func (tc TermCountFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{tc.Term, tc.Value})
}

func (tc *TermCountFloat) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshal idf pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &tc.Term); err != nil {
		return fmt.Errorf("unmarshal idf term: %w", err)
	}
	if err := json.Unmarshal(pair[1], &tc.Value); err != nil {
		return fmt.Errorf("unmarshal idf value: %w", err)
	}
	return nil
}

// Export snapshots the index in insertion order.
func (idx *Index) Export() ExportState {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	state := ExportState{AvgDocLength: idx.avgDocLength}
	for _, id := range idx.order {
		doc := idx.byID[id]
		snap := DocumentSnapshot{Document: *doc, DocLength: doc.DocLength}
		for term, count := range doc.TermFreq {
			snap.TermFreq = append(snap.TermFreq, TermCount{Term: term, Count: count})
		}
		snap.Document.TermFreq = nil
		state.Documents = append(state.Documents, snap)
	}
	for term, val := range idx.idf {
		state.IDF = append(state.IDF, TermCountFloat{Term: term, Value: val})
	}
	return state
}

// Import rehydrates an Index from a previously exported state without
// recomputing anything: the document set, avgdl, and idf are restored
// verbatim, matching spec.md §4.2's round-trip requirement.
func Import(state ExportState) *Index {
	idx := New()
	idx.avgDocLength = state.AvgDocLength
	for _, tc := range state.IDF {
		idx.idf[tc.Term] = tc.Value
	}
	for _, snap := range state.Documents {
		doc := snap.Document
		doc.TermFreq = make(map[string]int, len(snap.TermFreq))
		for _, tc := range snap.TermFreq {
			doc.TermFreq[tc.Term] = tc.Count
		}
		doc.DocLength = snap.DocLength
		idx.order = append(idx.order, doc.ID)
		d := doc
		idx.byID[doc.ID] = &d
	}
	return idx
}
