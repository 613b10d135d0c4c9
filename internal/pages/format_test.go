package pages

import (
	"strings"
	"testing"
	"time"

	"github.com/maribelle/cosgo/internal/models"
)

func formattedPage() *models.Page {
	created := time.Date(2023, 4, 2, 9, 0, 0, 0, time.Local).Unix()
	updated := time.Date(2023, 11, 20, 9, 0, 0, 0, time.Local).Unix()
	return &models.Page{
		Title:          "Release notes",
		Created:        created,
		Updated:        updated,
		User:           &models.User{ID: "u1", DisplayName: "Alice"},
		LastUpdateUser: &models.User{ID: "u2", DisplayName: "Bob"},
		Collaborators: []models.User{
			{ID: "u1", DisplayName: "Alice"},
			{ID: "u3", DisplayName: "Carol"},
			{ID: "u4", DisplayName: "Carol"},
			{ID: "u5", DisplayName: "Dave"},
		},
	}
}

func TestFormatPage_ListMode(t *testing.T) {
	got := FormatPage(formattedPage(), 0, FormatOptions{})
	want := strings.Join([]string{
		"Page number: 1",
		"Title: Release notes",
		"Created: 2023/4/2",
		"Updated: 2023/11/20",
		"Pinned: No",
		"Created user: Alice",
		"Last editor: Bob",
		"Other editors: Carol, Dave",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatPage_SkipOffsetsPageNumber(t *testing.T) {
	got := FormatPage(formattedPage(), 2, FormatOptions{Skip: 10})
	if !strings.HasPrefix(got, "Page number: 13\n") {
		t.Errorf("got:\n%s\nwant page number 13", got)
	}
}

func TestFormatPage_Pinned(t *testing.T) {
	p := formattedPage()
	p.Pin = 99
	got := FormatPage(p, 0, FormatOptions{})
	if !strings.Contains(got, "Pinned: Yes") {
		t.Errorf("got:\n%s\nwant Pinned: Yes", got)
	}
}

func TestFormatPage_SortValue(t *testing.T) {
	got := FormatPage(formattedPage(), 0, FormatOptions{ShowSort: true, SortValue: "2023/11/20"})
	if !strings.Contains(got, "Sort value: 2023/11/20") {
		t.Errorf("got:\n%s\nwant a sort value line", got)
	}

	got = FormatPage(formattedPage(), 0, FormatOptions{ShowSort: true})
	if strings.Contains(got, "Sort value:") {
		t.Errorf("got:\n%s\nempty sort value should be suppressed", got)
	}
}

func TestFormatPage_SearchResultSuppressesDates(t *testing.T) {
	p := formattedPage()
	p.Words = []string{"release", "notes"}
	p.SearchLines = []string{"first match", "second match"}
	got := FormatPage(p, 0, FormatOptions{IsSearchResult: true, ShowMatches: true, ShowSnippet: true})

	if strings.Contains(got, "Created: 2023") || strings.Contains(got, "Updated: 2023") {
		t.Errorf("got:\n%s\ndates should be suppressed for search results", got)
	}
	if !strings.Contains(got, "Matched words: release, notes") {
		t.Errorf("got:\n%s\nwant matched words", got)
	}
	if !strings.Contains(got, "Snippet:\nfirst match\nsecond match") {
		t.Errorf("got:\n%s\nwant snippet block", got)
	}
}

func TestFormatPage_Descriptions(t *testing.T) {
	p := formattedPage()
	p.Descriptions = []string{"line one", "line two"}
	got := FormatPage(p, 0, FormatOptions{ShowDescriptions: true})
	if !strings.Contains(got, "Description:\nline one\nline two") {
		t.Errorf("got:\n%s\nwant description block", got)
	}

	got = FormatPage(p, 0, FormatOptions{})
	if strings.Contains(got, "Description:") {
		t.Errorf("got:\n%s\ndescriptions should be off by default", got)
	}
}

func TestFormatPage_MissingUsers(t *testing.T) {
	p := &models.Page{Title: "Bare", Created: 1, Updated: 2}
	got := FormatPage(p, 0, FormatOptions{})
	for _, label := range []string{"Created user:", "Last editor:", "Other editors:"} {
		if strings.Contains(got, label) {
			t.Errorf("got:\n%s\n%q should be absent", got, label)
		}
	}
}

func TestOtherEditors_Dedup(t *testing.T) {
	p := formattedPage()
	got := otherEditors(p)
	if len(got) != 2 || got[0] != "Carol" || got[1] != "Dave" {
		t.Errorf("got %v, want [Carol Dave]", got)
	}
}
