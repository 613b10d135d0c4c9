package pages

import (
	"strings"

	"github.com/maribelle/cosgo/internal/models"
)

// InsertPlan describes where new lines go within an existing page.
type InsertPlan struct {
	// Index is the position in the existing line slice at which the
	// new lines are spliced in.
	Index int

	// TargetFound reports whether the target line matched; when false
	// the lines are appended at the end.
	TargetFound bool

	// Texts are the new lines, one element per line of input text.
	Texts []string
}

// PlanInsert locates the first existing line whose text contains
// target and plans an insertion directly after it. When no line
// matches, the plan appends at the end of the page.
func PlanInsert(existing []models.Line, target, text string) InsertPlan {
	plan := InsertPlan{
		Index: len(existing),
		Texts: strings.Split(text, "\n"),
	}
	for i, l := range existing {
		if strings.Contains(l.Text, target) {
			plan.Index = i + 1
			plan.TargetFound = true
			break
		}
	}
	return plan
}
