// Package testutil provides a canned Cosense API served over httptest
// for client and handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/maribelle/cosgo/internal/cosense"
	"github.com/maribelle/cosgo/internal/models"
)

// Project is the project name the fake serves.
const Project = "testproj"

// FakeCosense is an httptest-backed stand-in for the Cosense content
// API. Pages holds full details in server order; the list endpoint
// derives summaries from them.
type FakeCosense struct {
	t   *testing.T
	srv *httptest.Server

	mu    sync.Mutex
	pages []models.Page

	// Non-zero values force a status on the matching endpoint.
	ListStatus   int
	SearchStatus int
	DetailStatus map[string]int

	// SearchResult, when set, is returned verbatim by the search
	// endpoint.
	SearchResult map[string]any

	// RawDetail, when set for a title, is served verbatim instead of
	// the stored page.
	RawDetail map[string]string
}

// NewFakeCosense starts the fake server. It shuts down with the test.
func NewFakeCosense(t *testing.T, pages []models.Page) *FakeCosense {
	t.Helper()
	f := &FakeCosense{
		t:            t,
		pages:        pages,
		DetailStatus: map[string]int{},
		RawDetail:    map[string]string{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// Client returns a cosense client pointed at the fake.
func (f *FakeCosense) Client() *cosense.Client {
	return cosense.New(f.srv.URL, "")
}

// URL returns the fake server's base URL.
func (f *FakeCosense) URL() string { return f.srv.URL }

// SetPages replaces the served dataset.
func (f *FakeCosense) SetPages(pages []models.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = pages
}

func (f *FakeCosense) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	switch {
	case path == Project:
		f.handleList(w, r)
	case path == Project+"/search/query":
		f.handleSearch(w, r)
	case strings.HasPrefix(path, Project+"/"):
		title, err := url.PathUnescape(strings.TrimPrefix(path, Project+"/"))
		if err != nil {
			http.Error(w, "bad title", http.StatusBadRequest)
			return
		}
		f.handleDetail(w, r, title)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeCosense) handleList(w http.ResponseWriter, r *http.Request) {
	if f.ListStatus != 0 {
		http.Error(w, http.StatusText(f.ListStatus), f.ListStatus)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	lo := skip
	if lo > len(f.pages) {
		lo = len(f.pages)
	}
	hi := lo + limit
	if limit == 0 || hi > len(f.pages) {
		hi = len(f.pages)
	}

	summaries := make([]map[string]any, 0, hi-lo)
	for _, p := range f.pages[lo:hi] {
		s := map[string]any{"title": p.Title}
		if p.Pin != 0 {
			s["pin"] = p.Pin
		}
		if p.Views != 0 {
			s["views"] = p.Views
		}
		if p.Linked != 0 {
			s["linked"] = p.Linked
		}
		if p.Accessed != 0 {
			s["accessed"] = p.Accessed
		}
		summaries = append(summaries, s)
	}

	writeJSON(w, map[string]any{
		"projectName": Project,
		"limit":       limit,
		"skip":        skip,
		"count":       len(f.pages),
		"pages":       summaries,
	})
}

func (f *FakeCosense) handleDetail(w http.ResponseWriter, r *http.Request, title string) {
	if status, ok := f.DetailStatus[title]; ok && status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if raw, ok := f.RawDetail[title]; ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(raw))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.pages {
		if p.Title == title {
			writeJSON(w, p)
			return
		}
	}
	http.NotFound(w, r)
}

func (f *FakeCosense) handleSearch(w http.ResponseWriter, r *http.Request) {
	if f.SearchStatus != 0 {
		http.Error(w, http.StatusText(f.SearchStatus), f.SearchStatus)
		return
	}
	if f.SearchResult != nil {
		writeJSON(w, f.SearchResult)
		return
	}
	writeJSON(w, map[string]any{
		"query":   map[string]any{"words": []string{r.URL.Query().Get("q")}, "excludes": []string{}},
		"limit":   100,
		"count":   0,
		"backend": "elasticsearch",
		"pages":   []any{},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Detail builds a page detail with lines and a creator, for seeding
// the fake.
func Detail(title string, created, updated int64, lineTexts ...string) models.Page {
	lines := make([]models.Line, 0, len(lineTexts))
	for i, text := range lineTexts {
		lines = append(lines, models.Line{
			ID:      title + "-line-" + strconv.Itoa(i),
			Text:    text,
			UserID:  "user-1",
			Created: created,
			Updated: updated,
		})
	}
	return models.Page{
		Title:   title,
		Created: created,
		Updated: updated,
		Lines:   lines,
		User:    &models.User{ID: "user-1", Name: "alice", DisplayName: "Alice", Photo: "alice.png"},
	}
}
