package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/notebook"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func writeExternalCollection(t *testing.T, path, title string) {
	t.Helper()
	data, err := json.Marshal([]notebook.Notebook{notebook.New(title)})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatch_ExternalWriteReloads(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "collection.json"))
	if err != nil {
		t.Fatal(err)
	}
	s := New(f, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, s, f, testLogger(), func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	writeExternalCollection(t, f.Path(), "from outside")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		nbs := s.Notebooks()
		return len(nbs) == 1 && nbs[0].Title == "from outside"
	}, "external write not reloaded")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloads >= 1
	}, "reload callback not invoked")
}

func TestWatch_OwnSaveIgnored(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "collection.json"))
	if err != nil {
		t.Fatal(err)
	}
	s := New(f, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, s, f, testLogger(), func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	// A store mutation writes the file through the provider; the watcher
	// must recognise its own bytes and stay quiet.
	s.AddNotebook(notebook.New("inside job"))

	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if reloads != 0 {
		t.Errorf("reloads = %d, want 0 for self-writes", reloads)
	}
}
