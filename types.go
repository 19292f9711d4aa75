package folio

import (
	"html/template"

	"github.com/a-h/templ"

	"github.com/bikatr7/folio/views"
)

// ViewFuncs holds the templ components the handlers render. DefaultViews
// returns the built-in pages; any of them can be swapped with WithViews.
type ViewFuncs struct {
	Home      func(p views.HomePage) templ.Component
	Sections  func(p views.HomePage) templ.Component
	Portfolio func(p views.PortfolioPage) templ.Component
	Blog      func(p views.BlogPage) templ.Component
	Post      func(p views.PostPage) templ.Component
	Editor    func(p views.EditorPage) templ.Component
	Preview   func(body template.HTML) templ.Component
	Error     func(p views.ErrorPage) templ.Component
}

// DefaultViews returns the pages shipped in the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:      views.Home,
		Sections:  views.Sections,
		Portfolio: views.Portfolio,
		Blog:      views.Blog,
		Post:      views.Post,
		Editor:    views.Editor,
		Preview:   views.Preview,
		Error:     views.Error,
	}
}
