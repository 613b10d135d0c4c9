// Package models defines the domain types for Cosgo.
package models

// User identifies a Cosense account. Two users are the same
// account when their IDs match, regardless of display name.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Photo       string `json:"photo"`
}

// Line is a single line of page content.
type Line struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	UserID  string `json:"userId"`
	Created int64  `json:"created"`
	Updated int64  `json:"updated"`
}

// RelatedPage is a one-hop link hint attached to a page detail.
type RelatedPage struct {
	Title        string   `json:"title"`
	Descriptions []string `json:"descriptions"`
}

// RelatedPages groups the link hints the API returns with a detail fetch.
type RelatedPages struct {
	Links1Hop []RelatedPage `json:"links1hop"`
}

// Page is the superset of the summary shape (bulk listing) and the
// detail shape (per-page fetch). Numeric fields use 0 for "absent";
// the listing API never returns genuine zero timestamps, so absence
// and zero are deliberately conflated.
type Page struct {
	ID       string `json:"id,omitempty"`
	CommitID string `json:"commitId,omitempty"`
	Title    string `json:"title"`

	Created      int64 `json:"created,omitempty"`
	Updated      int64 `json:"updated,omitempty"`
	Accessed     int64 `json:"accessed,omitempty"`
	LastAccessed int64 `json:"lastAccessed,omitempty"`

	Views  int `json:"views,omitempty"`
	Linked int `json:"linked,omitempty"`

	// Pin is 0 for unpinned pages; a nonzero value is the pin rank.
	Pin int64 `json:"pin,omitempty"`

	User           *User  `json:"user,omitempty"`
	LastUpdateUser *User  `json:"lastUpdateUser,omitempty"`
	Collaborators  []User `json:"collaborators,omitempty"`

	// Detail-only fields.
	Lines        []Line        `json:"lines,omitempty"`
	Links        []string      `json:"links,omitempty"`
	RelatedPages *RelatedPages `json:"relatedPages,omitempty"`

	// Descriptions holds the first lines of content, filled during
	// list enrichment to give a preview without a second fetch.
	Descriptions []string `json:"descriptions,omitempty"`

	// Search-result-only fields.
	Words       []string `json:"words,omitempty"`
	SearchLines []string `json:"-"`

	Debug *Debug `json:"debug,omitempty"`
}

// Pinned reports whether the page carries a pin rank.
func (p *Page) Pinned() bool {
	return p.Pin != 0
}

// Description returns the first n line texts of a detail page.
func (p *Page) Description(n int) []string {
	if len(p.Lines) == 0 {
		return nil
	}
	if n > len(p.Lines) {
		n = len(p.Lines)
	}
	out := make([]string, 0, n)
	for _, l := range p.Lines[:n] {
		out = append(out, l.Text)
	}
	return out
}

// Debug is a diagnostic side channel attached to responses. It never
// alters the primary success/failure contract.
type Debug struct {
	RequestURL     string            `json:"request_url,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
	Error          string            `json:"error,omitempty"`
	Warning        string            `json:"warning,omitempty"`
	OriginalCount  int               `json:"originalCount,omitempty"`
	FilteredCount  int               `json:"filteredCount,omitempty"`
	AppliedSort    string            `json:"appliedSort,omitempty"`
	ExcludedPinned bool              `json:"excludedPinned,omitempty"`
	TotalResults   int               `json:"total_results,omitempty"`
}

// ListResult is the outcome of a bulk page listing.
type ListResult struct {
	ProjectName string `json:"projectName"`
	Limit       int    `json:"limit"`
	Count       int    `json:"count"`
	Skip        int    `json:"skip"`
	Pages       []Page `json:"pages"`
	Debug       *Debug `json:"debug,omitempty"`
}

// SearchQuery is the backend's breakdown of a search string.
type SearchQuery struct {
	Words    []string `json:"words"`
	Excludes []string `json:"excludes"`
}

// SearchResult is the outcome of a full-text search. The backend caps
// results at 100 hits; there is no pagination past that cap.
type SearchResult struct {
	ProjectName           string      `json:"projectName"`
	SearchQuery           string      `json:"searchQuery"`
	Query                 SearchQuery `json:"query"`
	Limit                 int         `json:"limit"`
	Count                 int         `json:"count"`
	ExistsExactTitleMatch bool        `json:"existsExactTitleMatch"`
	Backend               string      `json:"backend"`
	Pages                 []Page      `json:"pages"`
	Debug                 *Debug      `json:"debug,omitempty"`
}
