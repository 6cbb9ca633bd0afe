package vectorstore

import (
	"database/sql"
	"fmt"
)

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id   TEXT PRIMARY KEY,
	abs_path   TEXT NOT NULL,
	rel_path   TEXT NOT NULL,
	file_hash  TEXT NOT NULL,
	content    TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line   INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	language   TEXT NOT NULL,
	symbols    TEXT NOT NULL DEFAULT ''
)
`

const createChunksIndexes = `
CREATE INDEX IF NOT EXISTS idx_chunks_abs_path ON chunks(abs_path);
CREATE INDEX IF NOT EXISTS idx_chunks_rel_path ON chunks(rel_path)
`

func createVecTableSQL(dimensions int) string {
	return fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS chunks_vec USING vec0(
		chunk_id TEXT PRIMARY KEY,
		embedding float[%d]
	)`, dimensions)
}

// createSchema creates the chunks table, its indexes, and the vec0 virtual
// table for the given embedding dimensionality.
func createSchema(db *sql.DB, dimensions int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(createChunksTable); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	if _, err := tx.Exec(createChunksIndexes); err != nil {
		return fmt.Errorf("create chunks indexes: %w", err)
	}
	if _, err := tx.Exec(createVecTableSQL(dimensions)); err != nil {
		return fmt.Errorf("create chunks_vec table: %w", err)
	}

	return tx.Commit()
}

// validateSchema probes abs_path and file_hash with a column-level query, per
// spec.md §4.4's "validate schema by attempting a column-level query"; a
// failure means the schema is stale or absent and the table must be dropped.
func validateSchema(db *sql.DB) error {
	_, err := db.Query("SELECT abs_path, file_hash FROM chunks LIMIT 0")
	return err
}

func dropSchema(db *sql.DB) error {
	if _, err := db.Exec("DROP TABLE IF EXISTS chunks"); err != nil {
		return fmt.Errorf("drop chunks table: %w", err)
	}
	if _, err := db.Exec("DROP TABLE IF EXISTS chunks_vec"); err != nil {
		return fmt.Errorf("drop chunks_vec table: %w", err)
	}
	return nil
}
