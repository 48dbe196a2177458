//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages_fts`).Scan(&count); err != nil {
		t.Fatalf("pages_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertPage(row("nb1", "p1", "FTS Page", "Ansuz provides powerful full-text search over rendered pages.")); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].PageID != "p1" {
		t.Errorf("page id = %q", results[0].PageID)
	}
	if !strings.Contains(results[0].Snippet, "<b>") {
		t.Errorf("snippet should carry highlight markers, got %q", results[0].Snippet)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "gone", "Gone", "vanishing content"))
	_ = db.DeletePage("nb1", "gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.PageID == "gone" {
			t.Error("deleted page still in FTS index")
		}
	}
}

func TestFTS5_NotebookTitleSearchable(t *testing.T) {
	db := testDB(t)
	r := row("nb1", "p1", "Plain", "plain body")
	r.Notebook = "Zettelkasten archive"
	_ = db.UpsertPage(r)

	results, err := db.Search("Zettelkasten", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected hit via notebook title, got %+v", results)
	}
}
