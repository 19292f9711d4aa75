package views

import (
	"time"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/seo"
)

const dateLayout = "January 2, 2006"

// FormatDate renders t as a calendar date in loc. A nil loc means UTC.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

// Summarize maps posts onto list entries.
func Summarize(posts []blogapi.Post, loc *time.Location) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostSummary{
			Title:   p.Title,
			Path:    p.Path(),
			Author:  p.Author,
			Date:    FormatDate(p.CreatedAt.Time, loc),
			Excerpt: seo.Excerpt(p.Content),
		})
	}
	return out
}

// BodyClass is the class list of <body>.
func (l Layout) BodyClass() string {
	if l.Retro {
		return "theme-retro"
	}
	return "theme-modern"
}
