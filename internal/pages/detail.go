package pages

import (
	"strings"

	"github.com/maribelle/cosgo/internal/models"
)

// FormatPageDetail renders a full page detail: the metadata header,
// a blank line, the page body, and the outbound link list.
func FormatPageDetail(p *models.Page) string {
	creator := ""
	if p.User != nil {
		creator = p.User.DisplayName
	}
	editor := creator
	if p.LastUpdateUser != nil {
		editor = p.LastUpdateUser.DisplayName
	}

	header := []string{
		"Title: " + p.Title,
		"Created: " + epochYmd(p.Created),
		"Updated: " + epochYmd(p.Updated),
		"Created user: " + creator,
		"Last editor: " + editor,
		"Other editors: " + strings.Join(otherEditors(p), ", "),
	}

	body := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		body = append(body, l.Text)
	}

	links := "Links:\n(None)"
	if len(p.Links) > 0 {
		items := make([]string, 0, len(p.Links))
		for _, link := range p.Links {
			items = append(items, "- "+link)
		}
		links = "Links:\n" + strings.Join(items, "\n")
	}

	return strings.Join(header, "\n") + "\n\n" + strings.Join(body, "\n") + "\n" + links
}
