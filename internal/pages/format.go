package pages

import (
	"fmt"
	"strings"

	"github.com/maribelle/cosgo/internal/models"
)

// FormatOptions controls which blocks FormatPage emits.
type FormatOptions struct {
	// Skip offsets the 1-based page number so numbering stays
	// continuous across pagination windows.
	Skip int

	// ShowSort emits the "Sort value:" line when SortValue is non-empty.
	// The value is the pre-formatted string from GetSortValue; it is
	// not recomputed here.
	ShowSort  bool
	SortValue string

	// IsSearchResult suppresses the Created/Updated lines entirely;
	// search hit dates are often absent or noisy.
	IsSearchResult bool

	// ShowMatches emits the matched-word list of a search hit.
	ShowMatches bool

	// ShowSnippet emits the raw matched content lines of a search hit.
	ShowSnippet bool

	// ShowDescriptions emits the first-lines content preview collected
	// during list enrichment.
	ShowDescriptions bool
}

// FormatPage renders one page as a fixed-order block of labeled lines.
// Only non-empty fields are emitted; label strings are part of the
// output contract and consumed as free text by agents.
func FormatPage(p *models.Page, index int, opts FormatOptions) string {
	lines := []string{
		fmt.Sprintf("Page number: %d", opts.Skip+index+1),
		"Title: " + p.Title,
	}

	if !opts.IsSearchResult {
		lines = append(lines,
			"Created: "+epochYmd(p.Created),
			"Updated: "+epochYmd(p.Updated),
		)
	}

	if p.Pinned() {
		lines = append(lines, "Pinned: Yes")
	} else {
		lines = append(lines, "Pinned: No")
	}

	if opts.ShowMatches && len(p.Words) > 0 {
		lines = append(lines, "Matched words: "+strings.Join(p.Words, ", "))
	}

	if opts.ShowSort && opts.SortValue != "" {
		lines = append(lines, "Sort value: "+opts.SortValue)
	}

	if p.User != nil {
		lines = append(lines, "Created user: "+p.User.DisplayName)
	}
	if p.LastUpdateUser != nil {
		lines = append(lines, "Last editor: "+p.LastUpdateUser.DisplayName)
	}

	if others := otherEditors(p); len(others) > 0 {
		lines = append(lines, "Other editors: "+strings.Join(others, ", "))
	}

	if opts.ShowSnippet && len(p.SearchLines) > 0 {
		lines = append(lines, "Snippet:", strings.Join(p.SearchLines, "\n"))
	}

	if opts.ShowDescriptions && len(p.Descriptions) > 0 {
		lines = append(lines, "Description:", strings.Join(p.Descriptions, "\n"))
	}

	return strings.Join(lines, "\n")
}

// otherEditors returns the collaborator display names that do not
// already appear as the creator or last editor, deduplicated.
func otherEditors(p *models.Page) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range p.Collaborators {
		if p.User != nil && c.ID == p.User.ID {
			continue
		}
		if p.LastUpdateUser != nil && c.ID == p.LastUpdateUser.ID {
			continue
		}
		if seen[c.DisplayName] {
			continue
		}
		seen[c.DisplayName] = true
		out = append(out, c.DisplayName)
	}
	return out
}
