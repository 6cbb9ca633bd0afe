package symbolindex

import (
	"encoding/json"
	"fmt"
)

// namedBucket and fileBucket are the concrete pair shapes emitted to JSON.
// Each marshals to and from a 2-element JSON array (`[key, [...records]]`),
// matching the structural snapshot's `byName`/`byFile` wire schema of
// spec.md §6 exactly rather than a named object.
type namedBucket struct {
	Name    string
	Records []Record
}

func (nb namedBucket) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{nb.Name, nb.Records})
}

func (nb *namedBucket) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshal byName pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &nb.Name); err != nil {
		return fmt.Errorf("unmarshal byName name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &nb.Records); err != nil {
		return fmt.Errorf("unmarshal byName records: %w", err)
	}
	return nil
}

type fileBucket struct {
	RelativePath string
	Records      []Record
}

func (fb fileBucket) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{fb.RelativePath, fb.Records})
}

func (fb *fileBucket) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("unmarshal byFile pair: %w", err)
	}
	if err := json.Unmarshal(pair[0], &fb.RelativePath); err != nil {
		return fmt.Errorf("unmarshal byFile relativePath: %w", err)
	}
	if err := json.Unmarshal(pair[1], &fb.Records); err != nil {
		return fmt.Errorf("unmarshal byFile records: %w", err)
	}
	return nil
}

// ExportState is the serializable form consumed by the structural snapshot
// writer: byName/byFile as ordered arrays of buckets, matching the
// `[[key, [...records]], ...]` schema.
type ExportState struct {
	ByName []namedBucket `json:"byName"`
	ByFile []fileBucket  `json:"byFile"`
}

// Export snapshots the index for persistence. Bucket order follows each
// record's first insertion sequence, so re-importing reproduces identical
// search tie-breaking.
func (idx *Index) Export() ExportState {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	state := ExportState{}

	names := make([]string, 0, len(idx.byName))
	for name := range idx.byName {
		names = append(names, name)
	}
	sortByFirstSeq(names, idx.byName)
	for _, name := range names {
		entries := idx.byName[name]
		recs := make([]Record, len(entries))
		for i, e := range entries {
			recs[i] = e.record
		}
		state.ByName = append(state.ByName, namedBucket{Name: name, Records: recs})
	}

	files := make([]string, 0, len(idx.byFile))
	for path := range idx.byFile {
		files = append(files, path)
	}
	sortByFirstSeq(files, idx.byFile)
	for _, path := range files {
		entries := idx.byFile[path]
		recs := make([]Record, len(entries))
		for i, e := range entries {
			recs[i] = e.record
		}
		state.ByFile = append(state.ByFile, fileBucket{RelativePath: path, Records: recs})
	}

	return state
}

func sortByFirstSeq(keys []string, buckets map[string][]entry) {
	firstOf := func(k string) int {
		min := buckets[k][0].seq
		for _, e := range buckets[k] {
			if e.seq < min {
				min = e.seq
			}
		}
		return min
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && firstOf(keys[j-1]) > firstOf(keys[j]); j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

// Import rehydrates an Index from a previously exported state. The result
// is observably identical to the index that produced the snapshot: same
// by_name and by_file contents, same relative insertion order.
func Import(state ExportState) *Index {
	idx := New()
	for _, bucket := range state.ByFile {
		idx.AddBatch(bucket.Records)
	}
	// byName is redundant with byFile for a well-formed snapshot (every
	// record appears in exactly one file bucket); rebuilding from byFile
	// alone keeps Add's insertion-order bookkeeping single-sourced.
	return idx
}
