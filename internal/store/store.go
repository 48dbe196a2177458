package store

import (
	"log/slog"
	"sync"

	"github.com/starford/ansuz/internal/notebook"
)

// Store is the single owner of the notebook collection. Mutations on an
// absent identity are silent no-ops, and every mutation rewrites the full
// collection through the provider. A failed write is logged and the
// in-memory collection stays the source of truth; a failed load starts
// the store empty rather than blocking startup.
//
// A mutex guards the collection because HTTP handlers reach it
// concurrently; callers only ever receive deep copies, so the copy-on-edit
// discipline of the session layer holds regardless.
type Store struct {
	provider Provider
	logger   *slog.Logger

	mu        sync.Mutex
	notebooks []notebook.Notebook
}

// New creates a store and loads the persisted collection best-effort.
func New(provider Provider, logger *slog.Logger) *Store {
	s := &Store{provider: provider, logger: logger}
	if err := s.Reload(); err != nil {
		logger.Warn("store: initial load failed, starting empty", slog.String("error", err.Error()))
	}
	return s
}

// Reload replaces the in-memory collection with the persisted one. An
// absent file loads as an empty collection.
func (s *Store) Reload() error {
	notebooks, found, err := s.provider.Load()
	if err != nil {
		return err
	}
	if !found {
		notebooks = []notebook.Notebook{}
	}
	s.mu.Lock()
	s.notebooks = notebooks
	s.mu.Unlock()
	return nil
}

// Notebooks returns a deep copy of the full collection in order.
func (s *Store) Notebooks() []notebook.Notebook {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notebook.Notebook, len(s.notebooks))
	for i, nb := range s.notebooks {
		out[i] = nb.Clone()
	}
	return out
}

// Notebook returns a deep copy of the notebook with the given id.
func (s *Store) Notebook(id string) (notebook.Notebook, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notebooks[i].Clone(), true
	}
	return notebook.Notebook{}, false
}

// Page returns a deep copy of a page addressed by identity pair.
func (s *Store) Page(notebookID, pageID string) (notebook.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(notebookID); i >= 0 {
		return s.notebooks[i].Page(pageID)
	}
	return notebook.Page{}, false
}

// AddNotebook appends a notebook and persists.
func (s *Store) AddNotebook(nb notebook.Notebook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notebooks = append(s.notebooks, nb.Clone())
	s.persist()
}

// RemoveNotebooks deletes the notebooks with the given ids and persists.
// Unknown ids are ignored.
func (s *Store) RemoveNotebooks(ids ...string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notebooks[:0]
	for _, nb := range s.notebooks {
		if _, ok := drop[nb.ID]; !ok {
			kept = append(kept, nb)
		}
	}
	if len(kept) == len(s.notebooks) {
		return
	}
	s.notebooks = kept
	s.persist()
}

// UpdateNotebook replaces the stored notebook whose identity matches
// nb.ID wholesale, then persists. Absent identity is a no-op.
func (s *Store) UpdateNotebook(nb notebook.Notebook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(nb.ID)
	if i < 0 {
		return
	}
	s.notebooks[i] = nb.Clone()
	s.persist()
}

// AddPage appends a page to the notebook with the given id and persists.
// Absent notebook is a no-op.
func (s *Store) AddPage(notebookID string, p notebook.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(notebookID)
	if i < 0 {
		return
	}
	s.notebooks[i].AddPage(p.Clone())
	s.persist()
}

// UpdatePage replaces a single page addressed by identity pair, then
// persists. Absence of either identity is a no-op.
func (s *Store) UpdatePage(notebookID string, p notebook.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(notebookID)
	if i < 0 {
		return
	}
	if _, ok := s.notebooks[i].Page(p.ID); !ok {
		return
	}
	s.notebooks[i].ReplacePage(p.Clone())
	s.persist()
}

// DeletePage removes a page addressed by identity pair and persists.
// Absence of either identity is a no-op; an emptied notebook stays in the
// collection.
func (s *Store) DeletePage(notebookID, pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(notebookID)
	if i < 0 {
		return
	}
	s.notebooks[i].DeletePage(pageID)
	s.persist()
}

// indexOf returns the position of the notebook with the given id, or -1.
// Caller holds the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.notebooks {
		if s.notebooks[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the full collection. Caller holds the lock. Failure is
// logged; the in-memory state remains authoritative.
func (s *Store) persist() {
	if err := s.provider.Save(s.notebooks); err != nil {
		s.logger.Error("store: persist failed", slog.String("error", err.Error()))
	}
}
