package index

// PageIndex defines the interface for page indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type PageIndex interface {
	UpsertPage(row PageRow) error
	DeletePage(notebookID, pageID string) error
	DeleteNotebook(notebookID string) error
	Rebuild(rows []PageRow) error
	Search(query string, limit int) ([]SearchResult, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies PageIndex at compile time.
var _ PageIndex = (*DB)(nil)
