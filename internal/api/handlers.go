package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maribelle/cosgo/internal/apperr"
	"github.com/maribelle/cosgo/internal/markdown"
	"github.com/maribelle/cosgo/internal/pages"
	"github.com/maribelle/cosgo/internal/pageservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *pageservice.Service
	project string
}

// NewHandler creates a new Handler.
func NewHandler(svc *pageservice.Service, project string) *Handler {
	return &Handler{svc: svc, project: project}
}

// pageTitle extracts the page title from the URL (everything after
// /api/pages/). Titles may contain encoded slashes.
func pageTitle(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	skip, _ := strconv.Atoi(q.Get("skip"))
	sortKey := q.Get("sort")
	excludePinned := q.Get("excludePinned") == "true"

	if sortKey != "" && !pages.IsValidSortMethod(sortKey) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid sort method"))
		return
	}
	if limit < 0 || limit > pages.MaxListLimit {
		writeJSON(w, http.StatusBadRequest, errorBody("limit out of range"))
		return
	}
	if skip < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("skip out of range"))
		return
	}

	result := h.svc.List(r.Context(), h.project, pageservice.ListParams{
		Sort:          sortKey,
		Limit:         limit,
		Skip:          skip,
		ExcludePinned: excludePinned,
	})
	writeJSON(w, http.StatusOK, result)
}

// GetPage handles GET /api/pages/{title}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	title := pageTitle(r)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	page, err := h.svc.Get(r.Context(), h.project, title)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("page not found"))
			return
		}
		slog.Error("get page failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body,omitempty"`
}

// CreatePageResponse carries the URL that materializes the new page.
type CreatePageResponse struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required"`
}

// CreatePage handles POST /api/pages. Page creation is URL-based: the
// response carries a link that opens the page with its body pre-filled.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title is required"))
		return
	}

	pageURL, err := h.svc.CreateURL(h.project, req.Title, req.Body, markdown.Options{ConvertNumberedLists: true})
	if err != nil {
		slog.Error("create page failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, CreatePageResponse{Title: req.Title, URL: pageURL})
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}

	results, err := h.svc.Search(r.Context(), h.project, query)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, results)
}
