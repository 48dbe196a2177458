// Package service coordinates the notebook store, the search index, and
// the event broker. It is the single mutation path used by both the HTTP
// API and the MCP server.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/block"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/notebook"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/store"
)

// NotebookSummary is a lightweight notebook item in list responses.
type NotebookSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PageCount int    `json:"page_count"`
}

// PageSummary is a lightweight page item in list responses.
type PageSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	BlockCount int    `json:"block_count"`
	Checksum   string `json:"checksum"`
}

// NotebookDetail is the full representation of a notebook.
type NotebookDetail struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Pages []PageSummary `json:"pages"`
}

// PageDetail is the full representation of a page. Text is the markdown
// rendering of Blocks and Checksum is computed over Text, so clients can
// use either representation with the same optimistic concurrency token.
type PageDetail struct {
	NotebookID string     `json:"notebook_id"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Blocks     block.List `json:"blocks"`
	Text       string     `json:"text"`
	Checksum   string     `json:"checksum"`
}

// Service coordinates store and index operations.
type Service struct {
	store  *store.Store
	db     index.PageIndex
	broker *sse.Broker
}

// New creates a new Service. broker may be nil; events are then skipped.
func New(st *store.Store, db index.PageIndex, broker *sse.Broker) *Service {
	return &Service{store: st, db: db, broker: broker}
}

// ListNotebooks returns summaries of all notebooks.
func (s *Service) ListNotebooks(_ context.Context) []NotebookSummary {
	nbs := s.store.Notebooks()
	items := make([]NotebookSummary, len(nbs))
	for i, nb := range nbs {
		items[i] = NotebookSummary{ID: nb.ID, Title: nb.Title, PageCount: len(nb.Pages)}
	}
	return items
}

// GetNotebook returns a notebook with page summaries.
func (s *Service) GetNotebook(_ context.Context, id string) (*NotebookDetail, error) {
	nb, ok := s.store.Notebook(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return notebookDetail(nb), nil
}

// CreateNotebook creates a notebook. An empty id generates a fresh one;
// a caller-supplied id (restore from export) must not collide with an
// existing notebook.
func (s *Service) CreateNotebook(_ context.Context, id, title string) (*NotebookDetail, error) {
	if id == "" {
		nb := notebook.New(title)
		s.store.AddNotebook(nb)
		s.publishNotebook("created", nb.ID)
		return notebookDetail(nb), nil
	}
	if _, ok := s.store.Notebook(id); ok {
		return nil, apperr.ErrAlreadyExists
	}
	nb := notebook.Notebook{ID: id, Title: title, Pages: []notebook.Page{}}
	s.store.AddNotebook(nb)
	s.publishNotebook("created", nb.ID)
	return notebookDetail(nb), nil
}

// RenameNotebook changes a notebook title and reindexes its pages, since
// the notebook title is part of every indexed page row.
func (s *Service) RenameNotebook(_ context.Context, id, title string) (*NotebookDetail, error) {
	nb, ok := s.store.Notebook(id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	nb.Rename(title)
	s.store.UpdateNotebook(nb)
	for _, p := range nb.Pages {
		if err := s.indexPage(nb, p); err != nil {
			return nil, err
		}
	}
	s.publishNotebook("updated", nb.ID)
	return notebookDetail(nb), nil
}

// DeleteNotebook removes a notebook and all its pages from store and index.
func (s *Service) DeleteNotebook(_ context.Context, id string) error {
	if _, ok := s.store.Notebook(id); !ok {
		return apperr.ErrNotFound
	}
	s.store.RemoveNotebooks(id)
	if err := s.db.DeleteNotebook(id); err != nil {
		return fmt.Errorf("service: delete notebook index rows: %w", err)
	}
	s.publishNotebook("deleted", id)
	return nil
}

// ListPages returns summaries of all pages in a notebook.
func (s *Service) ListPages(_ context.Context, notebookID string) ([]PageSummary, error) {
	nb, ok := s.store.Notebook(notebookID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return pageSummaries(nb.Pages), nil
}

// GetPage returns the full page with both block and text representations.
func (s *Service) GetPage(_ context.Context, notebookID, pageID string) (*PageDetail, error) {
	p, ok := s.store.Page(notebookID, pageID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return pageDetail(notebookID, p), nil
}

// CreatePage adds a page to a notebook and indexes it. An empty id
// generates a fresh one; a caller-supplied id must not collide.
func (s *Service) CreatePage(_ context.Context, notebookID, id, title string, blocks block.List) (*PageDetail, error) {
	nb, ok := s.store.Notebook(notebookID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	var p notebook.Page
	if id == "" {
		p = notebook.NewPage(title)
	} else {
		if _, ok := s.store.Page(notebookID, id); ok {
			return nil, apperr.ErrAlreadyExists
		}
		p = notebook.Page{ID: id, Title: title}
	}
	if blocks != nil {
		p.Blocks = blocks.Clone()
	}
	s.store.AddPage(notebookID, p)
	if err := s.indexPage(nb, p); err != nil {
		return nil, err
	}
	s.publishPage("created", notebookID, p.ID)
	return pageDetail(notebookID, p), nil
}

// UpdatePage replaces a page's title and blocks with optimistic
// concurrency. A non-empty ifMatch must equal the checksum of the page's
// current markdown rendering.
func (s *Service) UpdatePage(_ context.Context, notebookID, pageID, title string, blocks block.List, ifMatch string) (*PageDetail, error) {
	nb, ok := s.store.Notebook(notebookID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	existing, ok := s.store.Page(notebookID, pageID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if ifMatch != "" && ifMatch != checksum.SumString(markdown.Render(existing.Blocks)) {
		return nil, apperr.ErrConflict
	}
	sess := notebook.Edit(existing)
	sess.Rename(title)
	sess.SetBlocks(blocks)
	updated := sess.Commit()
	s.store.UpdatePage(notebookID, updated)
	if err := s.indexPage(nb, updated); err != nil {
		return nil, err
	}
	s.publishPage("updated", notebookID, pageID)
	return pageDetail(notebookID, updated), nil
}

// PageText returns the markdown rendering of a page with its checksum.
func (s *Service) PageText(_ context.Context, notebookID, pageID string) (text, sum string, err error) {
	p, ok := s.store.Page(notebookID, pageID)
	if !ok {
		return "", "", apperr.ErrNotFound
	}
	text = markdown.Render(p.Blocks)
	return text, checksum.SumString(text), nil
}

// SetPageText replaces a page's blocks by parsing markdown text, with the
// same optimistic concurrency as UpdatePage.
func (s *Service) SetPageText(ctx context.Context, notebookID, pageID, text, ifMatch string) (*PageDetail, error) {
	existing, ok := s.store.Page(notebookID, pageID)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	sess := notebook.Edit(existing)
	sess.SetText(text)
	return s.UpdatePage(ctx, notebookID, pageID, existing.Title, sess.Commit().Blocks, ifMatch)
}

// DeletePage removes a page from store and index.
func (s *Service) DeletePage(_ context.Context, notebookID, pageID string) error {
	if _, ok := s.store.Page(notebookID, pageID); !ok {
		return apperr.ErrNotFound
	}
	s.store.DeletePage(notebookID, pageID)
	if err := s.db.DeletePage(notebookID, pageID); err != nil {
		return fmt.Errorf("service: delete page index row: %w", err)
	}
	s.publishPage("deleted", notebookID, pageID)
	return nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ReindexAll rebuilds the index from the current store contents. Used at
// startup and after an external reload of the collection file.
func (s *Service) ReindexAll(_ context.Context) error {
	var rows []index.PageRow
	for _, nb := range s.store.Notebooks() {
		for _, p := range nb.Pages {
			rows = append(rows, pageRow(nb, p))
		}
	}
	if err := s.db.Rebuild(rows); err != nil {
		return fmt.Errorf("service: rebuild index: %w", err)
	}
	return nil
}

func (s *Service) indexPage(nb notebook.Notebook, p notebook.Page) error {
	if err := s.db.UpsertPage(pageRow(nb, p)); err != nil {
		return fmt.Errorf("service: index page: %w", err)
	}
	return nil
}

func (s *Service) publishNotebook(kind, id string) {
	if s.broker != nil {
		s.broker.PublishNotebookEvent(kind, id)
	}
}

func (s *Service) publishPage(kind, notebookID, pageID string) {
	if s.broker != nil {
		s.broker.PublishPageEvent(kind, notebookID, pageID)
	}
}

func pageRow(nb notebook.Notebook, p notebook.Page) index.PageRow {
	return index.PageRow{
		NotebookID: nb.ID,
		PageID:     p.ID,
		Notebook:   nb.Title,
		Title:      p.Title,
		Body:       markdown.Render(p.Blocks),
		UpdatedAt:  time.Now(),
	}
}

func notebookDetail(nb notebook.Notebook) *NotebookDetail {
	return &NotebookDetail{ID: nb.ID, Title: nb.Title, Pages: pageSummaries(nb.Pages)}
}

func pageSummaries(pages []notebook.Page) []PageSummary {
	items := make([]PageSummary, len(pages))
	for i, p := range pages {
		items[i] = PageSummary{
			ID:         p.ID,
			Title:      p.Title,
			BlockCount: len(p.Blocks),
			Checksum:   checksum.SumString(markdown.Render(p.Blocks)),
		}
	}
	return items
}

func pageDetail(notebookID string, p notebook.Page) *PageDetail {
	if p.Blocks == nil {
		p.Blocks = block.List{}
	}
	text := markdown.Render(p.Blocks)
	return &PageDetail{
		NotebookID: notebookID,
		ID:         p.ID,
		Title:      p.Title,
		Blocks:     p.Blocks,
		Text:       text,
		Checksum:   checksum.SumString(text),
	}
}
