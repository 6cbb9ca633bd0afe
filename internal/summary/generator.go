package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adnify/retrieval/internal/symbolindex"
)

// Generate builds a ProjectSummary from the current symbol snapshot (a
// mapping from relative file path to the symbols defined in it) and a
// language histogram counting indexed files per language, per spec.md §4.6.
// topN <= 0 selects DefaultTopN.
func Generate(fileSymbols map[string][]symbolindex.Record, languages map[string]int, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	seq := 0
	for _, recs := range fileSymbols {
		for _, r := range recs {
			if _, ok := firstSeen[r.Name]; !ok {
				firstSeen[r.Name] = seq
				seq++
			}
			counts[r.Name]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return firstSeen[names[i]] < firstSeen[names[j]]
	})
	if len(names) > topN {
		names = names[:topN]
	}

	langs := make(map[string]int, len(languages))
	for lang, n := range languages {
		langs[lang] = n
	}

	return Summary{
		Languages:   langs,
		TopSymbols:  names,
		TotalFiles:  len(fileSymbols),
		GeneratedAt: time.Now().UnixMilli(),
	}
}

// ToText renders a Summary as a stable human-readable string. No consumer
// parses this back; it exists only as an external, eyeball-facing report.
func ToText(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Files indexed: %d\n", s.TotalFiles)

	if len(s.Languages) > 0 {
		b.WriteString("\nLanguages:\n")
		langs := make([]string, 0, len(s.Languages))
		for l := range s.Languages {
			langs = append(langs, l)
		}
		sort.Slice(langs, func(i, j int) bool {
			if s.Languages[langs[i]] != s.Languages[langs[j]] {
				return s.Languages[langs[i]] > s.Languages[langs[j]]
			}
			return langs[i] < langs[j]
		})
		for _, l := range langs {
			fmt.Fprintf(&b, "  - %s: %d\n", l, s.Languages[l])
		}
	}

	if len(s.TopSymbols) > 0 {
		b.WriteString("\nTop symbols:\n")
		n := len(s.TopSymbols)
		if n > 20 {
			n = 20
		}
		for _, name := range s.TopSymbols[:n] {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
		if len(s.TopSymbols) > n {
			fmt.Fprintf(&b, "  ... and %d more\n", len(s.TopSymbols)-n)
		}
	}

	return strings.TrimSpace(b.String())
}
