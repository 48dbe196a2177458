package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(nb, page, title, body string) PageRow {
	return PageRow{
		NotebookID: nb,
		PageID:     page,
		Notebook:   "notebook " + nb,
		Title:      title,
		Body:       body,
		UpdatedAt:  time.Now(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages`).Scan(&count); err != nil {
		t.Fatalf("pages table missing: %v", err)
	}
}

func TestUpsertAndCount(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertPage(row("nb1", "p1", "Hello", "hello body")); err != nil {
		t.Fatalf("UpsertPage: %v", err)
	}
	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "p1", "Old", "original text"))
	_ = db.UpsertPage(row("nb1", "p1", "New", "replacement text"))

	n, _ := db.Count()
	if n != 1 {
		t.Fatalf("count = %d, want 1 after upsert of same key", n)
	}
	results, err := db.Search("replacement", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("results = %+v", results)
	}
	if results, _ := db.Search("original", 10); len(results) != 0 {
		t.Error("old body should be gone after upsert")
	}
}

func TestDeletePage(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "p1", "Gone", "vanishing content"))
	if err := db.DeletePage("nb1", "p1"); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	n, _ := db.Count()
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if results, _ := db.Search("vanishing", 10); len(results) != 0 {
		t.Error("deleted page still searchable")
	}
}

func TestDeleteNotebookRemovesAllItsPages(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "p1", "A", "alpha"))
	_ = db.UpsertPage(row("nb1", "p2", "B", "beta"))
	_ = db.UpsertPage(row("nb2", "p3", "C", "gamma"))

	if err := db.DeleteNotebook("nb1"); err != nil {
		t.Fatalf("DeleteNotebook: %v", err)
	}
	n, _ := db.Count()
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
	if results, _ := db.Search("gamma", 10); len(results) != 1 {
		t.Error("other notebook's page should survive")
	}
}

func TestRebuild(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("stale", "p0", "Stale", "stale body"))

	err := db.Rebuild([]PageRow{
		row("nb1", "p1", "One", "first body"),
		row("nb1", "p2", "Two", "second body"),
	})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	n, _ := db.Count()
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if results, _ := db.Search("stale", 10); len(results) != 0 {
		t.Error("rebuild should drop stale entries")
	}
	if results, _ := db.Search("second", 10); len(results) != 1 {
		t.Error("rebuild should index new rows")
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "p1", "Search Me", "uniqueword appears here"))

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].PageID != "p1" || results[0].NotebookID != "nb1" {
		t.Errorf("results = %+v, want 1 hit for nb1/p1", results)
	}
}

func TestSearch_LimitDefaults(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPage(row("nb1", "p1", "T", "shared term"))
	if _, err := db.Search("shared", 0); err != nil {
		t.Fatalf("Search with zero limit: %v", err)
	}
}
