package vectorstore

import (
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// AnnSearch returns the top-k rows by cosine distance. The exposed score is
// 1 - distance, per spec.md §4.4.
func (s *Store) AnnSearch(queryVector []float32, topK int) ([]SearchResult, error) {
	queryBytes, err := sqlite_vec.SerializeFloat32(queryVector)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	const q = `
		SELECT c.chunk_id, c.abs_path, c.rel_path, c.file_hash, c.content,
		       c.start_line, c.end_line, c.kind, c.language, c.symbols,
		       v.distance
		FROM (
			SELECT chunk_id, vec_distance_cosine(embedding, ?) AS distance
			FROM chunks_vec
			ORDER BY distance
			LIMIT ?
		) v
		JOIN chunks c ON c.chunk_id = v.chunk_id
		ORDER BY v.distance
	`

	rows, err := s.db.Query(q, queryBytes, topK)
	if err != nil {
		return nil, fmt.Errorf("ann search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var row Row
		var symbolsCSV string
		var distance float64
		if err := rows.Scan(&row.ID, &row.AbsPath, &row.RelPath, &row.FileHash, &row.Content,
			&row.StartLine, &row.EndLine, &row.Kind, &row.Language, &symbolsCSV, &distance); err != nil {
			return nil, fmt.Errorf("scan ann result: %w", err)
		}
		row.Symbols = symbolsFromCSV(symbolsCSV)
		out = append(out, SearchResult{Row: row, Score: 1 - distance})
	}
	return out, rows.Err()
}

// KeywordScan matches keywords against content, symbols, and rel_path via
// LIKE, then computes the score out-of-store per spec.md §4.4.
func (s *Store) KeywordScan(keywords []string, topK int) ([]SearchResult, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var clauses []string
	var args []any
	for _, kw := range keywords {
		sanitized := sanitizeKeyword(kw)
		pattern := "%" + sanitized + "%"
		clauses = append(clauses, "(content LIKE ? ESCAPE '\\' OR symbols LIKE ? ESCAPE '\\' OR rel_path LIKE ? ESCAPE '\\')")
		args = append(args, pattern, pattern, pattern)
	}

	query := fmt.Sprintf("SELECT chunk_id, abs_path, rel_path, file_hash, content, start_line, end_line, kind, language, symbols FROM chunks WHERE %s",
		strings.Join(clauses, " OR "))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword scan: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var row Row
		var symbolsCSV string
		if err := rows.Scan(&row.ID, &row.AbsPath, &row.RelPath, &row.FileHash, &row.Content,
			&row.StartLine, &row.EndLine, &row.Kind, &row.Language, &symbolsCSV); err != nil {
			return nil, fmt.Errorf("scan keyword result: %w", err)
		}
		row.Symbols = symbolsFromCSV(symbolsCSV)
		out = append(out, SearchResult{Row: row, Score: keywordScore(keywords, row)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out = sortByScoreDesc(out)
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func keywordScore(keywords []string, row Row) float64 {
	var score float64
	lowerContent := strings.ToLower(row.Content)
	lowerSymbols := make([]string, len(row.Symbols))
	for i, sym := range row.Symbols {
		lowerSymbols[i] = strings.ToLower(sym)
	}

	for _, kw := range keywords {
		lowerKw := strings.ToLower(kw)
		for _, sym := range lowerSymbols {
			if sym == lowerKw {
				score += 0.3
				break
			}
		}
		count := strings.Count(lowerContent, lowerKw)
		contribution := 0.1 * float64(count)
		if contribution > 0.5 {
			contribution = 0.5
		}
		score += contribution
	}

	if score > 1 {
		score = 1
	}
	return score
}

func sortByScoreDesc(results []SearchResult) []SearchResult {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j-1].Score < results[j].Score; j-- {
			results[j-1], results[j] = results[j], results[j-1]
		}
	}
	return results
}
