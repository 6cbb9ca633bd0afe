package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/adnify/retrieval/internal/chunk/parsers"
)

// Chunker maps a file's bytes to an ordered list of Chunks, per spec.md §4.1.
type Chunker struct {
	limits Limits
	logger *log.Logger

	failedOnce sync.Map // language tag -> struct{}; logs a parse failure once per language
}

// New creates a Chunker with the given size limits.
func New(limits Limits, logger *log.Logger) *Chunker {
	if logger == nil {
		logger = log.Default()
	}
	return &Chunker{limits: limits, logger: logger}
}

// Chunk classifies absPath by extension, attempts syntax-aware chunking, and
// falls back to line-based chunking. raw is the file's bytes; workspaceRoot
// is used to compute RelPath. Never returns an error: failures degrade to an
// empty or fallback result, per spec.md §4.1's failure semantics.
func (c *Chunker) Chunk(absPath string, raw []byte, workspaceRoot string) []Chunk {
	if int64(len(raw)) > c.limits.MaxFileSize {
		return nil
	}

	text := strings.ToValidUTF8(string(raw), "�")
	src := []byte(text)
	relPath := relativePath(workspaceRoot, absPath)
	fileHash := Sha256Hex(raw)
	lang := classifyLanguage(absPath)

	var chunks []Chunk
	if lang != "" {
		if grammar, ok := parsers.Get(lang); ok {
			chunks = c.chunkSyntax(grammar, src, absPath, relPath, fileHash, lang)
		} else {
			c.logParseFailureOnce(lang)
		}
	}

	if len(chunks) == 0 {
		chunks = c.chunkLines(src, absPath, relPath, fileHash, lang)
	}

	return chunks
}

func (c *Chunker) logParseFailureOnce(lang string) {
	if _, loaded := c.failedOnce.LoadOrStore(lang, struct{}{}); !loaded {
		c.logger.Printf("chunker: no grammar available for language %q, falling back to line chunking", lang)
	}
}

// chunkSyntax implements the capture-query path of spec.md §4.1 steps 1-5.
func (c *Chunker) chunkSyntax(g *parsers.Grammar, src []byte, absPath, relPath, fileHash, lang string) []Chunk {
	captures, tree, err := g.Run(src)
	if err != nil || len(captures) == 0 {
		if tree != nil {
			tree.Close()
		}
		return nil
	}
	defer tree.Close()

	sort.Slice(captures, func(i, j int) bool { return captures[i].NodeStartByte < captures[j].NodeStartByte })

	lines := strings.Split(string(src), "\n")
	var out []Chunk
	covered := map[int]bool{} // line number -> covered

	markCovered := func(start, end int) {
		for l := start; l <= end; l++ {
			covered[l] = true
		}
	}

	for _, cap := range captures {
		if cap.EndLine-cap.StartLine+1 < 3 {
			continue
		}
		nodeLen := int(cap.NodeEndByte - cap.NodeStartByte)
		if nodeLen > c.limits.MaxChunkChars {
			for _, piece := range c.splitOversized(cap.Node, src, c.limits.MaxChunkChars) {
				out = append(out, c.buildChunk(piece.text, piece.startLine, piece.endLine, KindBlock, absPath, relPath, fileHash, lang, piece.node, src))
				markCovered(piece.startLine, piece.endLine)
			}
			continue
		}

		text := string(src[cap.NodeStartByte:cap.NodeEndByte])
		out = append(out, c.buildChunk(text, cap.StartLine, cap.EndLine, Kind(cap.Kind), absPath, relPath, fileHash, lang, cap.Node, src))
		markCovered(cap.StartLine, cap.EndLine)
	}

	out = append(out, c.fillGaps(lines, covered, absPath, relPath, fileHash, lang)...)

	if len(out) == 0 && len(lines) < 3 {
		return []Chunk{{
			ID: NewID(absPath, 1), AbsPath: absPath, RelPath: relPath, FileHash: fileHash,
			Content: string(src), StartLine: 1, EndLine: maxInt(1, len(lines)), Kind: KindFile, Language: lang,
		}}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartLine < out[j].StartLine })
	return out
}

type splitPiece struct {
	text               string
	startLine, endLine int
	node               *sitter.Node
}

// splitOversized implements spec.md §4.1's iterative oversized-node split:
// an explicit work stack (never the call stack), pushing back children that
// are still too large and emitting well-sized children as block chunks. A
// node with no splittable substructure is emitted once, truncated.
func (c *Chunker) splitOversized(node *sitter.Node, src []byte, maxChars int) []splitPiece {
	var out []splitPiece
	stack := []*sitter.Node{node}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		length := int(n.EndByte() - n.StartByte())
		startLine := int(n.StartPosition().Row) + 1
		endLine := int(n.EndPosition().Row) + 1

		if length <= maxChars {
			if endLine-startLine+1 >= 3 {
				out = append(out, splitPiece{text: string(src[n.StartByte():n.EndByte()]), startLine: startLine, endLine: endLine, node: n})
			}
			continue
		}

		splittable := false
		childCount := int(n.ChildCount())
		for i := 0; i < childCount; i++ {
			child := n.Child(uint(i))
			if child == nil {
				continue
			}
			clen := int(child.EndByte() - child.StartByte())
			if clen <= 50 {
				continue
			}
			splittable = true
			if clen > maxChars {
				stack = append(stack, child)
				continue
			}
			cStart := int(child.StartPosition().Row) + 1
			cEnd := int(child.EndPosition().Row) + 1
			if cEnd-cStart+1 >= 3 {
				out = append(out, splitPiece{text: string(src[child.StartByte():child.EndByte()]), startLine: cStart, endLine: cEnd, node: child})
			}
		}

		if !splittable {
			truncated := string(src[n.StartByte():n.EndByte()])
			if len(truncated) > maxChars {
				truncated = truncated[:maxChars] + TruncationMarker
			}
			out = append(out, splitPiece{text: truncated, startLine: startLine, endLine: endLine, node: n})
		}
	}

	return out
}

// fillGaps implements spec.md §4.1 step 4: any uncovered span longer than 5
// lines and 50 non-whitespace characters becomes a block chunk.
func (c *Chunker) fillGaps(lines []string, covered map[int]bool, absPath, relPath, fileHash, lang string) []Chunk {
	var out []Chunk
	total := len(lines)
	line := 1
	for line <= total {
		if covered[line] {
			line++
			continue
		}
		start := line
		for line <= total && !covered[line] {
			line++
		}
		end := line - 1

		if end-start+1 > 5 {
			text := strings.Join(lines[start-1:end], "\n")
			if len(nonWhitespace(text)) > 50 {
				out = append(out, Chunk{
					ID: NewID(absPath, start), AbsPath: absPath, RelPath: relPath, FileHash: fileHash,
					Content: text, StartLine: start, EndLine: end, Kind: KindBlock, Language: lang,
				})
			}
		}
	}
	return out
}

func (c *Chunker) buildChunk(text string, startLine, endLine int, kind Kind, absPath, relPath, fileHash, lang string, node *sitter.Node, src []byte) Chunk {
	return Chunk{
		ID:        NewID(absPath, startLine),
		AbsPath:   absPath,
		RelPath:   relPath,
		FileHash:  fileHash,
		Content:   text,
		StartLine: startLine,
		EndLine:   endLine,
		Kind:      kind,
		Language:  lang,
		Symbols:   extractSymbol(node, src),
	}
}

func nonWhitespace(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !isSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Sha256Hex is the whole-file content hash stored as Chunk.FileHash, used both
// internally and by callers (e.g. the semantic indexing worker) that need to
// compare a file's current contents against a previously stored file_hash.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
