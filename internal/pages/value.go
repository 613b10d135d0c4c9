package pages

import (
	"fmt"
	"strconv"
	"time"

	"github.com/maribelle/cosgo/internal/models"
)

// SortValue is the value a page contributes under a sort key, paired
// with its human-readable rendering. Value is nil for unknown keys.
type SortValue struct {
	Value     any
	Formatted string
}

// FormatYmd renders a wall-clock date as "YYYY/M/D" with no zero
// padding on month or day. Every date shown to the user goes through
// this one routine.
func FormatYmd(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// epochYmd renders epoch seconds as a local-time date.
func epochYmd(sec int64) string {
	return FormatYmd(time.Unix(sec, 0))
}

// GetSortValue extracts a page's value under a sort key. Time keys with
// no recorded value format as "Not available": absence and zero are
// conflated on purpose, matching the listing API.
func GetSortValue(p *models.Page, key string) SortValue {
	switch key {
	case SortUpdated:
		return timeValue(p.Updated)
	case SortCreated:
		return timeValue(p.Created)
	case SortAccessed:
		return timeValue(accessTime(p))
	case SortLinked:
		return SortValue{Value: p.Linked, Formatted: strconv.Itoa(p.Linked)}
	case SortViews:
		return SortValue{Value: p.Views, Formatted: strconv.Itoa(p.Views)}
	case SortTitle:
		return SortValue{Value: p.Title, Formatted: p.Title}
	default:
		return SortValue{Value: nil, Formatted: "Not specified"}
	}
}

func timeValue(sec int64) SortValue {
	if sec == 0 {
		return SortValue{Value: int64(0), Formatted: "Not available"}
	}
	return SortValue{Value: sec, Formatted: epochYmd(sec)}
}

// GetSortDescription returns the human-readable description of a sort
// method for list headers.
func GetSortDescription(key string) string {
	switch key {
	case SortUpdated:
		return "Sorted by last updated"
	case SortCreated:
		return "Sorted by creation date"
	case SortAccessed:
		return "Sorted by last accessed"
	case SortLinked:
		return "Sorted by number of incoming links"
	case SortViews:
		return "Sorted by view count"
	case SortTitle:
		return "Sorted by title"
	default:
		return "Default order"
	}
}
