package pages

import (
	"testing"
	"time"

	"github.com/maribelle/cosgo/internal/models"
)

func TestFormatYmd(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2023, 12, 25, 10, 30, 0, 0, time.Local), "2023/12/25"},
		{time.Date(2023, 1, 5, 0, 0, 0, 0, time.Local), "2023/1/5"},
		{time.Date(2024, 10, 1, 23, 59, 59, 0, time.Local), "2024/10/1"},
	}
	for _, tt := range tests {
		if got := FormatYmd(tt.in); got != tt.want {
			t.Errorf("FormatYmd(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetSortValue_TimeKeys(t *testing.T) {
	created := time.Date(2023, 6, 15, 12, 0, 0, 0, time.Local)
	p := &models.Page{Created: created.Unix(), Updated: created.Add(24 * time.Hour).Unix()}

	sv := GetSortValue(p, SortCreated)
	if sv.Value != p.Created {
		t.Errorf("created value = %v, want %d", sv.Value, p.Created)
	}
	if sv.Formatted != "2023/6/15" {
		t.Errorf("created formatted = %q, want 2023/6/15", sv.Formatted)
	}

	sv = GetSortValue(p, SortUpdated)
	if sv.Formatted != "2023/6/16" {
		t.Errorf("updated formatted = %q, want 2023/6/16", sv.Formatted)
	}
}

func TestGetSortValue_MissingTimeIsNotAvailable(t *testing.T) {
	p := &models.Page{Title: "Empty"}
	for _, key := range []string{SortCreated, SortUpdated, SortAccessed} {
		sv := GetSortValue(p, key)
		if sv.Formatted != "Not available" {
			t.Errorf("%s formatted = %q, want \"Not available\"", key, sv.Formatted)
		}
		if v, ok := sv.Value.(int64); !ok || v != 0 {
			t.Errorf("%s value = %v, want int64(0)", key, sv.Value)
		}
	}
}

func TestGetSortValue_AccessedFallback(t *testing.T) {
	p := &models.Page{LastAccessed: time.Date(2023, 3, 9, 8, 0, 0, 0, time.Local).Unix()}
	sv := GetSortValue(p, SortAccessed)
	if sv.Formatted != "2023/3/9" {
		t.Errorf("formatted = %q, want 2023/3/9", sv.Formatted)
	}
}

func TestGetSortValue_Counters(t *testing.T) {
	p := &models.Page{Views: 42, Linked: 7}
	if sv := GetSortValue(p, SortViews); sv.Formatted != "42" {
		t.Errorf("views formatted = %q, want 42", sv.Formatted)
	}
	if sv := GetSortValue(p, SortLinked); sv.Formatted != "7" {
		t.Errorf("linked formatted = %q, want 7", sv.Formatted)
	}

	zero := &models.Page{}
	if sv := GetSortValue(zero, SortLinked); sv.Formatted != "0" {
		t.Errorf("absent linked formatted = %q, want 0", sv.Formatted)
	}
}

func TestGetSortValue_Title(t *testing.T) {
	p := &models.Page{Title: "My Page"}
	sv := GetSortValue(p, SortTitle)
	if sv.Value != "My Page" || sv.Formatted != "My Page" {
		t.Errorf("got %+v, want title in both fields", sv)
	}
}

func TestGetSortValue_UnknownKey(t *testing.T) {
	p := &models.Page{Title: "X", Created: 100}
	sv := GetSortValue(p, "bogus")
	if sv.Value != nil {
		t.Errorf("value = %v, want nil", sv.Value)
	}
	if sv.Formatted != "Not specified" {
		t.Errorf("formatted = %q, want \"Not specified\"", sv.Formatted)
	}
}

func TestGetSortDescription(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{SortUpdated, "Sorted by last updated"},
		{SortCreated, "Sorted by creation date"},
		{SortAccessed, "Sorted by last accessed"},
		{SortLinked, "Sorted by number of incoming links"},
		{SortViews, "Sorted by view count"},
		{SortTitle, "Sorted by title"},
		{"", "Default order"},
		{"bogus", "Default order"},
	}
	for _, tt := range tests {
		if got := GetSortDescription(tt.key); got != tt.want {
			t.Errorf("GetSortDescription(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
