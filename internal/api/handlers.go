package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/service"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ifMatch extracts the If-Match header with surrounding ETag quotes stripped.
func ifMatch(r *http.Request) string {
	return strings.Trim(r.Header.Get("If-Match"), `"`)
}

// ListNotebooks handles GET /api/notebooks.
//
//	@Summary		List all notebooks
//	@Tags			notebooks
//	@Produce		json
//	@Success		200	{object}	NotebookListResponse
//	@Security		BearerAuth
//	@Router			/notebooks [get]
func (h *Handler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListNotebooks(r.Context())
	writeJSON(w, http.StatusOK, NotebookListResponse{Notebooks: items, Total: len(items)})
}

// CreateNotebook handles POST /api/notebooks.
//
//	@Summary		Create a notebook
//	@Tags			notebooks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNotebookRequest	true	"Notebook to create"
//	@Success		201		{object}	NotebookDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks [post]
func (h *Handler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req CreateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nb, err := h.svc.CreateNotebook(r.Context(), req.ID, req.Title)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "notebook already exists")
		} else {
			slog.Error("create notebook failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// GetNotebook handles GET /api/notebooks/{notebookID}.
//
//	@Summary		Get a notebook with its page listing
//	@Tags			notebooks
//	@Produce		json
//	@Param			notebookID	path		string	true	"Notebook ID"
//	@Success		200			{object}	NotebookDetail
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID} [get]
func (h *Handler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebookID")
	nb, err := h.svc.GetNotebook(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get notebook failed", slog.String("notebook_id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// RenameNotebook handles PUT /api/notebooks/{notebookID}.
//
//	@Summary		Rename a notebook
//	@Tags			notebooks
//	@Accept			json
//	@Produce		json
//	@Param			notebookID	path		string					true	"Notebook ID"
//	@Param			body		body		RenameNotebookRequest	true	"New title"
//	@Success		200			{object}	NotebookDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID} [put]
func (h *Handler) RenameNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebookID")
	var req RenameNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nb, err := h.svc.RenameNotebook(r.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("rename notebook failed", slog.String("notebook_id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// DeleteNotebook handles DELETE /api/notebooks/{notebookID}.
//
//	@Summary		Delete a notebook and all its pages
//	@Tags			notebooks
//	@Param			notebookID	path	string	true	"Notebook ID"
//	@Success		204			"Notebook deleted"
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID} [delete]
func (h *Handler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebookID")
	if err := h.svc.DeleteNotebook(r.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("delete notebook failed", slog.String("notebook_id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPages handles GET /api/notebooks/{notebookID}/pages.
//
//	@Summary		List pages of a notebook
//	@Tags			pages
//	@Produce		json
//	@Param			notebookID	path		string	true	"Notebook ID"
//	@Success		200			{object}	PageListResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notebookID")
	pages, err := h.svc.ListPages(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("list pages failed", slog.String("notebook_id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}

// CreatePage handles POST /api/notebooks/{notebookID}/pages.
//
//	@Summary		Create a page from blocks or markdown text
//	@Tags			pages
//	@Accept			json
//	@Produce		json
//	@Param			notebookID	path		string				true	"Notebook ID"
//	@Param			body		body		CreatePageRequest	true	"Page to create"
//	@Success		201			{object}	PageDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages [post]
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "notebookID")
	var req CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	blocks := req.Blocks
	if req.Text != nil {
		blocks = markdown.Parse(*req.Text)
	}
	p, err := h.svc.CreatePage(r.Context(), id, req.ID, req.Title, blocks)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "page already exists")
		default:
			slog.Error("create page failed", slog.String("notebook_id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetPage handles GET /api/notebooks/{notebookID}/pages/{pageID}.
//
//	@Summary		Get a page in both block and text form
//	@Tags			pages
//	@Produce		json
//	@Param			notebookID	path		string	true	"Notebook ID"
//	@Param			pageID		path		string	true	"Page ID"
//	@Success		200			{object}	PageDetail
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages/{pageID} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	nbID := chi.URLParam(r, "notebookID")
	pageID := chi.URLParam(r, "pageID")
	p, err := h.svc.GetPage(r.Context(), nbID, pageID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get page failed", slog.String("page_id", pageID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.Header().Set("ETag", `"`+p.Checksum+`"`)
	writeJSON(w, http.StatusOK, p)
}

// UpdatePage handles PUT /api/notebooks/{notebookID}/pages/{pageID}.
//
//	@Summary		Replace a page's title and blocks with optimistic concurrency
//	@Tags			pages
//	@Accept			json
//	@Produce		json
//	@Param			notebookID	path		string				true	"Notebook ID"
//	@Param			pageID		path		string				true	"Page ID"
//	@Param			If-Match	header		string				false	"SHA-256 checksum of the current markdown rendering"
//	@Param			body		body		UpdatePageRequest	true	"Updated page"
//	@Success		200			{object}	PageDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages/{pageID} [put]
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	nbID := chi.URLParam(r, "notebookID")
	pageID := chi.URLParam(r, "pageID")
	var req UpdatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.UpdatePage(r.Context(), nbID, pageID, req.Title, req.Blocks, ifMatch(r))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrConflict):
			writeError(w, http.StatusConflict, "checksum mismatch")
		default:
			slog.Error("update page failed", slog.String("page_id", pageID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.Header().Set("ETag", `"`+p.Checksum+`"`)
	writeJSON(w, http.StatusOK, p)
}

// DeletePage handles DELETE /api/notebooks/{notebookID}/pages/{pageID}.
//
//	@Summary		Delete a page
//	@Tags			pages
//	@Param			notebookID	path	string	true	"Notebook ID"
//	@Param			pageID		path	string	true	"Page ID"
//	@Success		204			"Page deleted"
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages/{pageID} [delete]
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	nbID := chi.URLParam(r, "notebookID")
	pageID := chi.URLParam(r, "pageID")
	if err := h.svc.DeletePage(r.Context(), nbID, pageID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("delete page failed", slog.String("page_id", pageID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPageText handles GET /api/notebooks/{notebookID}/pages/{pageID}/text.
// The response is the markdown rendering of the page with its checksum in
// the ETag header.
//
//	@Summary		Get a page as markdown text
//	@Tags			pages
//	@Produce		text/markdown
//	@Param			notebookID	path		string	true	"Notebook ID"
//	@Param			pageID		path		string	true	"Page ID"
//	@Success		200			{string}	string
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages/{pageID}/text [get]
func (h *Handler) GetPageText(w http.ResponseWriter, r *http.Request) {
	nbID := chi.URLParam(r, "notebookID")
	pageID := chi.URLParam(r, "pageID")
	text, sum, err := h.svc.PageText(r.Context(), nbID, pageID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get page text failed", slog.String("page_id", pageID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("ETag", `"`+sum+`"`)
	_, _ = io.WriteString(w, text)
}

// PutPageText handles PUT /api/notebooks/{notebookID}/pages/{pageID}/text.
// The raw request body is parsed as markdown and replaces the page's
// blocks; the title is kept.
//
//	@Summary		Replace a page's content from markdown text
//	@Tags			pages
//	@Accept			text/markdown
//	@Produce		json
//	@Param			notebookID	path		string	true	"Notebook ID"
//	@Param			pageID		path		string	true	"Page ID"
//	@Param			If-Match	header		string	false	"SHA-256 checksum of the current markdown rendering"
//	@Success		200			{object}	PageDetail
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notebooks/{notebookID}/pages/{pageID}/text [put]
func (h *Handler) PutPageText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	nbID := chi.URLParam(r, "notebookID")
	pageID := chi.URLParam(r, "pageID")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	p, err := h.svc.SetPageText(r.Context(), nbID, pageID, string(body), ifMatch(r))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, apperr.ErrConflict):
			writeError(w, http.StatusConflict, "checksum mismatch")
		default:
			slog.Error("set page text failed", slog.String("page_id", pageID), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	w.Header().Set("ETag", `"`+p.Checksum+`"`)
	writeJSON(w, http.StatusOK, p)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across all pages
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	results := make([]SearchResult, len(rows))
	for i, row := range rows {
		results[i] = SearchResult{
			NotebookID: row.NotebookID,
			PageID:     row.PageID,
			Title:      row.Title,
			Snippet:    row.Snippet,
		}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
