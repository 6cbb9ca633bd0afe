package chunk

import (
	"regexp"
	"strings"
	"sync"
)

var (
	semanticRegexCache = map[string][]*regexp.Regexp{}
	semanticRegexOnce  sync.Once
)

func compiledSemanticPatterns(lang string) []*regexp.Regexp {
	semanticRegexOnce.Do(func() {
		for key, patterns := range semanticKeywords {
			compiled := make([]*regexp.Regexp, 0, len(patterns))
			for _, p := range patterns {
				compiled = append(compiled, regexp.MustCompile(p))
			}
			semanticRegexCache[key] = compiled
		}
	})
	if patterns, ok := semanticRegexCache[lang]; ok {
		return patterns
	}
	return semanticRegexCache["default"]
}

// chunkLines is the grammar-free fallback of spec.md §4.1: a single file
// chunk for small files, a regex-boundary "semantic" pass for medium files,
// and overlapping line windows as the last resort.
func (c *Chunker) chunkLines(src []byte, absPath, relPath, fileHash, lang string) []Chunk {
	lines := strings.Split(string(src), "\n")
	total := len(lines)
	if total > 0 && lines[total-1] == "" {
		// A trailing newline produces a spurious empty final "line"; spec
		// example counts 400 lines for a 400-line file, not 401.
		total--
		lines = lines[:total]
	}

	if total == 0 {
		return nil
	}

	if float64(total) <= 1.5*float64(c.limits.ChunkSize) {
		return []Chunk{{
			ID: NewID(absPath, 1), AbsPath: absPath, RelPath: relPath, FileHash: fileHash,
			Content: strings.Join(lines, "\n"), StartLine: 1, EndLine: total, Kind: KindFile, Language: lang,
		}}
	}

	if boundaries := findBoundaries(lines, lang); len(boundaries) > 0 {
		return c.chunkBySemanticBoundaries(lines, boundaries, absPath, relPath, fileHash, lang)
	}

	return c.chunkByWindows(lines, absPath, relPath, fileHash, lang, 1, total)
}

func findBoundaries(lines []string, lang string) []int {
	patterns := compiledSemanticPatterns(lang)
	var boundaries []int
	for i, line := range lines {
		for _, p := range patterns {
			if p.MatchString(line) {
				boundaries = append(boundaries, i+1)
				break
			}
		}
	}
	return boundaries
}

func (c *Chunker) chunkBySemanticBoundaries(lines []string, boundaries []int, absPath, relPath, fileHash, lang string) []Chunk {
	total := len(lines)
	var out []Chunk
	for i, start := range boundaries {
		end := total
		if i+1 < len(boundaries) {
			end = boundaries[i+1] - 1
		}
		if end < start {
			continue
		}
		if end-start+1 > 2*c.limits.ChunkSize {
			out = append(out, c.chunkByWindows(lines, absPath, relPath, fileHash, lang, start, end)...)
			continue
		}
		text := strings.Join(lines[start-1:end], "\n")
		out = append(out, Chunk{
			ID: NewID(absPath, start), AbsPath: absPath, RelPath: relPath, FileHash: fileHash,
			Content: text, StartLine: start, EndLine: end, Kind: KindBlock, Language: lang,
		})
	}
	return out
}

// chunkByWindows emits overlapping windows of ChunkSize lines, strided by
// ChunkSize-ChunkOverlap, over the [from, to] inclusive range.
func (c *Chunker) chunkByWindows(lines []string, absPath, relPath, fileHash, lang string, from, to int) []Chunk {
	stride := c.limits.ChunkSize - c.limits.ChunkOverlap
	if stride <= 0 {
		stride = c.limits.ChunkSize
	}

	var out []Chunk
	start := from
	for start <= to {
		end := start + c.limits.ChunkSize - 1
		if end > to {
			end = to
		}

		text := strings.Join(lines[start-1:end], "\n")
		if strings.TrimSpace(text) != "" {
			out = append(out, Chunk{
				ID: NewID(absPath, start), AbsPath: absPath, RelPath: relPath, FileHash: fileHash,
				Content: text, StartLine: start, EndLine: end, Kind: KindBlock, Language: lang,
			})
		}

		if end >= to {
			break
		}
		start += stride
	}
	return out
}
