package vectorstore

import (
	"database/sql"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

var extensionOnce sync.Once

// Store is the persistent, append-mostly columnar vector table of
// spec.md §4.4.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	dimensions int
}

// Initialize opens or creates the SQLite database at path, validating the
// schema by probing abs_path/file_hash; on mismatch the table is dropped and
// recreated for the given dimensionality.
func Initialize(path string, dimensions int) (*Store, error) {
	extensionOnce.Do(sqlite_vec.Auto)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	if err := validateSchema(db); err != nil {
		if dropErr := dropSchema(db); dropErr != nil {
			db.Close()
			return nil, fmt.Errorf("drop stale schema: %w", dropErr)
		}
	}

	if err := createSchema(db, dimensions); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, dimensions: dimensions}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// HasIndex reports whether the store currently holds at least one row.
func (s *Store) HasIndex() (bool, error) {
	stats, err := s.Stats()
	if err != nil {
		return false, err
	}
	return stats.RowCount > 0, nil
}

// Stats returns the row count and derived file count.
func (s *Store) Stats() (Stats, error) {
	var rowCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&rowCount); err != nil {
		return Stats{}, fmt.Errorf("count rows: %w", err)
	}
	var fileCount int
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT abs_path) FROM chunks").Scan(&fileCount); err != nil {
		return Stats{}, fmt.Errorf("count files: %w", err)
	}
	return Stats{RowCount: rowCount, FileCount: fileCount}, nil
}

// FileHashes returns a projected scan of abs_path -> file_hash, keeping only
// the first hash seen per path.
func (s *Store) FileHashes() (map[string]string, error) {
	rows, err := s.db.Query("SELECT abs_path, file_hash FROM chunks ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("scan file hashes: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("scan file hash row: %w", err)
		}
		if _, seen := out[path]; !seen {
			out[path] = hash
		}
	}
	return out, rows.Err()
}

// Create atomically replaces the table contents with the given rows.
func (s *Store) Create(rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chunks_vec"); err != nil {
		return fmt.Errorf("clear chunks_vec: %w", err)
	}

	if err := insertRows(tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

// AddBatch appends rows without touching existing ones.
func (s *Store) AddBatch(rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin add-batch transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRows(tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

// UpsertFile deletes all rows for path, then appends rows, atomically.
func (s *Store) UpsertFile(absPath string, rows []Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByPath(tx, absPath); err != nil {
		return err
	}
	if err := insertRows(tx, rows); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFile removes every row for a single path.
func (s *Store) DeleteFile(absPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByPath(tx, absPath); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFiles removes every row across the given paths, strictly per file.
func (s *Store) DeleteFiles(absPaths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete-files transaction: %w", err)
	}
	defer tx.Rollback()

	for _, path := range absPaths {
		if err := deleteByPath(tx, path); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Clear removes every row.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM chunks_vec"); err != nil {
		return fmt.Errorf("clear chunks_vec: %w", err)
	}

	return tx.Commit()
}

func deleteByPath(tx *sql.Tx, absPath string) error {
	// Bind the raw path, not a sanitized copy: parameter binding (the `?`
	// placeholders below) already prevents injection, and abs_path is
	// stored raw by insertRows, so sanitizing the comparison value here
	// would stop it matching any path containing a quote, `--`, `/*`,
	// `*/`, or `;`, silently orphaning that file's rows.
	rows, err := tx.Query("SELECT chunk_id FROM chunks WHERE abs_path = ?", absPath)
	if err != nil {
		return fmt.Errorf("select chunk ids for delete: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := sq.Delete("chunks").Where(sq.Eq{"abs_path": absPath}).RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", absPath, err)
	}

	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM chunks_vec WHERE chunk_id = ?", id); err != nil {
			return fmt.Errorf("delete vector for %s: %w", id, err)
		}
	}

	return nil
}

func insertRows(tx *sql.Tx, rows []Row) error {
	for _, row := range rows {
		_, err := sq.Insert("chunks").
			Columns("chunk_id", "abs_path", "rel_path", "file_hash", "content", "start_line", "end_line", "kind", "language", "symbols").
			Values(row.ID, row.AbsPath, row.RelPath, row.FileHash, row.Content, row.StartLine, row.EndLine, row.Kind, row.Language, symbolsToCSV(row.Symbols)).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", row.ID, err)
		}

		if _, err := tx.Exec("DELETE FROM chunks_vec WHERE chunk_id = ?", row.ID); err != nil {
			return fmt.Errorf("delete existing vector for %s: %w", row.ID, err)
		}

		embBytes, err := sqlite_vec.SerializeFloat32(row.Embedding)
		if err != nil {
			return fmt.Errorf("serialize embedding for %s: %w", row.ID, err)
		}
		if _, err := tx.Exec("INSERT INTO chunks_vec (chunk_id, embedding) VALUES (?, ?)", row.ID, embBytes); err != nil {
			return fmt.Errorf("insert vector for %s: %w", row.ID, err)
		}
	}
	return nil
}
