package chunk

import (
	"path/filepath"
	"strings"
)

// languageByExt classifies a file extension into the language tag used to
// look up a grammar in internal/chunk/parsers.
var languageByExt = map[string]string{
	".go":     "go",
	".py":     "python",
	".ts":     "typescript",
	".tsx":    "tsx",
	".js":     "javascript",
	".jsx":    "javascript",
	".mjs":    "javascript",
	".rs":     "rust",
	".java":   "java",
	".php":    "php",
	".rb":     "ruby",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".hpp":    "cpp",
	".cs":     "csharp",
	".swift":  "swift",
	".kt":     "kotlin",
	".scala":  "scala",
	".vue":    "vue",
	".svelte": "svelte",
}

// classifyLanguage maps a file path's extension to a language tag. An empty
// tag means the file's language is unknown to the chunker; it still falls
// back to line-based chunking.
func classifyLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return languageByExt[ext]
}

// semanticKeywords holds, per language, the regular expressions used by the
// fallback "semantic" line-chunker pass (spec.md §4.1) to find boundary
// keywords when no tree-sitter grammar is available or parsing failed.
var semanticKeywords = map[string][]string{
	"python":     {`^\s*(def|class)\s+\w`},
	"go":         {`^\s*func\s+`, `^\s*type\s+\w+\s+(struct|interface)\b`},
	"typescript": {`^\s*(export\s+)?(default\s+)?(async\s+)?function\s+`, `^\s*(export\s+)?class\s+`, `^\s*(export\s+)?interface\s+`, `^\s*(export\s+)?type\s+\w+`},
	"javascript": {`^\s*(export\s+)?(default\s+)?(async\s+)?function\s+`, `^\s*(export\s+)?class\s+`},
	"rust":       {`^\s*(pub\s+)?fn\s+`, `^\s*(pub\s+)?struct\s+`, `^\s*(pub\s+)?enum\s+`, `^\s*(pub\s+)?trait\s+`, `^\s*impl\b`},
	"java":       {`^\s*(public|private|protected)?\s*(static\s+)?(class|interface|enum)\s+\w`},
	"c":          {`^\s*\w[\w\s\*]*\([^;]*\)\s*\{`, `^\s*(struct|enum)\s+\w`},
	"cpp":        {`^\s*(class|struct|enum)\s+\w`},
	"php":        {`^\s*(function|class|interface|trait)\s+\w`},
	"ruby":       {`^\s*(def|class|module)\s+\w`},
	"default":    {`^\s*(function|class|interface|struct|trait|enum|impl|type|def)\b`},
}
