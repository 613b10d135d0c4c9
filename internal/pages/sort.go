// Package pages holds the pure page pipeline: pin-aware filtering,
// multi-key sorting, sort-value extraction, and text rendering. No I/O
// happens here; every function is total over well-formed pages.
package pages

import (
	"sort"
	"strings"

	"github.com/maribelle/cosgo/internal/models"
)

// Valid sort keys. Anything else falls back to SortCreated.
const (
	SortUpdated  = "updated"
	SortCreated  = "created"
	SortAccessed = "accessed"
	SortLinked   = "linked"
	SortViews    = "views"
	SortTitle    = "title"
)

// Listing window bounds. The content API refuses larger windows, so
// every surface validates against the same pair.
const (
	MinListLimit = 1
	MaxListLimit = 1000
)

// ValidSortMethods lists the accepted sort keys in display order.
var ValidSortMethods = []string{SortUpdated, SortCreated, SortAccessed, SortLinked, SortViews, SortTitle}

// IsValidSortMethod reports whether key is one of the six sort keys.
func IsValidSortMethod(key string) bool {
	for _, m := range ValidSortMethods {
		if key == m {
			return true
		}
	}
	return false
}

// SortOptions controls SortPages. Pin is a filter flag only: it never
// biases the sort order itself.
type SortOptions struct {
	Sort          string
	ExcludePinned bool
}

// SortPages filters and sorts a page slice without mutating the input.
// Numeric keys sort descending with missing values comparing as 0;
// title sorts ascending. Equal keys keep their input order, so the
// output is deterministic.
func SortPages(in []models.Page, opts SortOptions) []models.Page {
	out := make([]models.Page, 0, len(in))
	for _, p := range in {
		if opts.ExcludePinned && p.Pinned() {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j], opts.Sort)
	})
	return out
}

func less(a, b *models.Page, key string) bool {
	switch key {
	case SortUpdated:
		return a.Updated > b.Updated
	case SortAccessed:
		return accessTime(a) > accessTime(b)
	case SortLinked:
		return a.Linked > b.Linked
	case SortViews:
		return a.Views > b.Views
	case SortTitle:
		return strings.Compare(a.Title, b.Title) < 0
	default:
		// SortCreated and every unknown key.
		return a.Created > b.Created
	}
}

// accessTime falls back to lastAccessed when the primary field is absent.
func accessTime(p *models.Page) int64 {
	if p.Accessed != 0 {
		return p.Accessed
	}
	return p.LastAccessed
}
