// Package store owns the notebook collection and its persistence. The
// whole collection is the unit of persistence: every mutation rewrites
// the single collection file.
package store

import "github.com/starford/ansuz/internal/notebook"

// Provider persists the full notebook collection.
type Provider interface {
	// Load reads the collection. found is false when no collection has
	// been persisted yet, which is a normal first-run state.
	Load() (notebooks []notebook.Notebook, found bool, err error)
	// Save atomically writes the full collection.
	Save(notebooks []notebook.Notebook) error
}
