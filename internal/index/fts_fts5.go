//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			notebook_id UNINDEXED,
			page_id UNINDEXED,
			notebook,
			title,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, row PageRow) error {
	ftsDeletePage(tx, row.NotebookID, row.PageID)
	_, err := tx.Exec(`INSERT INTO pages_fts (notebook_id, page_id, notebook, title, body) VALUES (?, ?, ?, ?, ?)`,
		row.NotebookID, row.PageID, row.Notebook, row.Title, row.Body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDeletePage(tx *sql.Tx, notebookID, pageID string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE notebook_id = ? AND page_id = ?`, notebookID, pageID)
}

func ftsDeleteNotebook(tx *sql.Tx, notebookID string) {
	_, _ = tx.Exec(`DELETE FROM pages_fts WHERE notebook_id = ?`, notebookID)
}

func ftsClear(tx *sql.Tx) {
	_, _ = tx.Exec(`DELETE FROM pages_fts`)
}

// Search performs an FTS5 full-text search and returns matching pages
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT notebook_id,
		       page_id,
		       title,
		       snippet(pages_fts, 4, '<b>', '</b>', '...', 64)
		FROM pages_fts
		WHERE pages_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.NotebookID, &r.PageID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
