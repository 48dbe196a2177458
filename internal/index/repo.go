package index

import (
	"fmt"
	"time"
)

// PageRow represents a row in the pages table. Body is the rendered
// markdown of the page's block sequence.
type PageRow struct {
	NotebookID string
	PageID     string
	Notebook   string // notebook title
	Title      string
	Body       string
	UpdatedAt  time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	NotebookID string
	PageID     string
	Title      string
	Snippet    string
}

// UpsertPage inserts or replaces a page and its FTS entry within a
// transaction.
func (db *DB) UpsertPage(row PageRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO pages (notebook_id, page_id, notebook, title, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(notebook_id, page_id) DO UPDATE SET
			notebook   = excluded.notebook,
			title      = excluded.title,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, row.NotebookID, row.PageID, row.Notebook, row.Title, row.Body, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert page: %w", err)
	}

	if err := ftsUpsert(tx, row); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePage removes one page and its FTS entry.
func (db *DB) DeletePage(notebookID, pageID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeletePage(tx, notebookID, pageID)
	_, _ = tx.Exec(`DELETE FROM pages WHERE notebook_id = ? AND page_id = ?`, notebookID, pageID)

	return tx.Commit()
}

// DeleteNotebook removes every page of a notebook.
func (db *DB) DeleteNotebook(notebookID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeleteNotebook(tx, notebookID)
	_, _ = tx.Exec(`DELETE FROM pages WHERE notebook_id = ?`, notebookID)

	return tx.Commit()
}

// Rebuild replaces the whole index with the given rows. The collection is
// small by design, so a full rewrite after a reload is cheap.
func (db *DB) Rebuild(rows []PageRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM pages`); err != nil {
		return fmt.Errorf("index: clear pages: %w", err)
	}
	ftsClear(tx)

	for _, row := range rows {
		_, err := tx.Exec(`
			INSERT INTO pages (notebook_id, page_id, notebook, title, body, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, row.NotebookID, row.PageID, row.Notebook, row.Title, row.Body, row.UpdatedAt)
		if err != nil {
			return fmt.Errorf("index: rebuild insert: %w", err)
		}
		if err := ftsUpsert(tx, row); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of indexed pages.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
