package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/starford/ansuz/internal/atomicfile"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/notebook"
)

// File implements Provider backed by a single JSON file: the tagged-union
// encoding of the ordered notebook sequence.
type File struct {
	path string

	mu      sync.Mutex
	lastSum string // checksum of the bytes last read or written
}

// NewFile creates a file provider. The parent directory is created if
// missing; the file itself may not exist yet.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute collection file path.
func (f *File) Path() string { return f.path }

// Load implements Provider. An absent file yields an empty collection
// with found=false and no error.
func (f *File) Load() ([]notebook.Notebook, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read %s: %w", f.path, err)
	}

	var notebooks []notebook.Notebook
	if err := json.Unmarshal(data, &notebooks); err != nil {
		return nil, false, fmt.Errorf("store: decode %s: %w", f.path, err)
	}

	f.setSum(checksum.Sum(data))
	return notebooks, true, nil
}

// Save implements Provider: marshal, write to a temp file, fsync, rename.
// The rename keeps the prior on-disk state intact if the process dies
// mid-write.
func (f *File) Save(notebooks []notebook.Notebook) error {
	if notebooks == nil {
		notebooks = []notebook.Notebook{}
	}
	data, err := json.MarshalIndent(notebooks, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode collection: %w", err)
	}

	if err := atomicfile.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write collection: %w", err)
	}

	f.setSum(checksum.Sum(data))
	return nil
}

// LastChecksum returns the digest of the bytes last read or written by
// this provider. The watcher uses it to tell self-writes apart from
// external modifications of the collection file.
func (f *File) LastChecksum() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSum
}

func (f *File) setSum(sum string) {
	f.mu.Lock()
	f.lastSum = sum
	f.mu.Unlock()
}
