package api

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/block"
	"github.com/starford/ansuz/internal/service"
)

// CreateNotebookRequest is the request body for creating a notebook.
// ID is optional and only used when restoring a previously exported
// notebook under its original identity.
type CreateNotebookRequest struct {
	ID    string `json:"id,omitempty" example:"6f1c2a9e-..."`
	Title string `json:"title" example:"Work" validate:"required"`
}

// Validate validates the request.
func (r CreateNotebookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

// RenameNotebookRequest is the request body for renaming a notebook.
type RenameNotebookRequest struct {
	Title string `json:"title" example:"Personal" validate:"required"`
}

// Validate validates the request.
func (r RenameNotebookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

// CreatePageRequest is the request body for creating a page. Content may
// be given either as structured blocks or as markdown text, not both.
type CreatePageRequest struct {
	ID     string     `json:"id,omitempty"`
	Title  string     `json:"title" example:"Meeting notes" validate:"required"`
	Blocks block.List `json:"blocks,omitempty"`
	Text   *string    `json:"text,omitempty"`
}

// Validate validates the request.
func (r CreatePageRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	); err != nil {
		return err
	}
	if r.Text != nil && len(r.Blocks) > 0 {
		return fmt.Errorf("blocks and text are mutually exclusive")
	}
	return nil
}

// UpdatePageRequest is the request body for replacing a page's title and
// blocks.
type UpdatePageRequest struct {
	Title  string     `json:"title" validate:"required"`
	Blocks block.List `json:"blocks"`
}

// Validate validates the request.
func (r UpdatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	)
}

// NotebookDetail is the full notebook response type (aliased from the domain layer).
type NotebookDetail = service.NotebookDetail

// NotebookSummary is a lightweight notebook list item (aliased from the domain layer).
type NotebookSummary = service.NotebookSummary

// PageDetail is the full page response type (aliased from the domain layer).
type PageDetail = service.PageDetail

// PageSummary is a lightweight page list item (aliased from the domain layer).
type PageSummary = service.PageSummary

// NotebookListResponse wraps notebook listings.
type NotebookListResponse struct {
	Notebooks []NotebookSummary `json:"notebooks" validate:"required"`
	Total     int               `json:"total" example:"3" validate:"required"`
}

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []PageSummary `json:"pages" validate:"required"`
	Total int           `json:"total" example:"12" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	NotebookID string `json:"notebook_id" validate:"required"`
	PageID     string `json:"page_id" validate:"required"`
	Title      string `json:"title" example:"Meeting notes" validate:"required"`
	Snippet    string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// AttachmentUploadResponse is returned after a successful attachment upload.
type AttachmentUploadResponse struct {
	Filename string `json:"filename" example:"image.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/attachments/image.png" validate:"required"`
}
