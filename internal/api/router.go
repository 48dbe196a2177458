package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// dataRoot is used to resolve the attachments directory; baseURL is the
// public base the upload endpoint builds attachment URLs from.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler, dataRoot, baseURL string) chi.Router {
	h := NewHandler(svc)
	ah := NewAttachmentHandler(dataRoot, baseURL)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notebooks CRUD.
	r.Get("/notebooks", h.ListNotebooks)
	r.Post("/notebooks", h.CreateNotebook)
	r.Route("/notebooks/{notebookID}", func(r chi.Router) {
		r.Get("/", h.GetNotebook)
		r.Put("/", h.RenameNotebook)
		r.Delete("/", h.DeleteNotebook)

		// Pages CRUD plus the markdown text view.
		r.Get("/pages", h.ListPages)
		r.Post("/pages", h.CreatePage)
		r.Route("/pages/{pageID}", func(r chi.Router) {
			r.Get("/", h.GetPage)
			r.Put("/", h.UpdatePage)
			r.Delete("/", h.DeletePage)
			r.Get("/text", h.GetPageText)
			r.Put("/text", h.PutPageText)
		})
	})

	// Search.
	r.Get("/search", h.Search)

	// Attachments upload (auth-protected).
	r.Post("/attachments", ah.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
