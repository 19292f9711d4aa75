// Package views holds the site's pages. They are html/template files under
// templates/, not .templ sources: each page is wrapped with templ.FromGoHTML
// so handlers render it like any other templ.Component. Sites that prefer
// generated templ components can swap any page through folio.WithViews.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	// jsonLD marks a document produced by encoding/json as safe script content.
	"jsonLD": func(s string) template.JS { return template.JS(s) },
}

var pages = template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))

func page(name string, data interface{}) templ.Component {
	return templ.FromGoHTML(pages.Lookup(name), data)
}

func Home(p HomePage) templ.Component           { return page("home", p) }
func Sections(p HomePage) templ.Component       { return page("sections", p) }
func Portfolio(p PortfolioPage) templ.Component { return page("portfolio", p) }
func Blog(p BlogPage) templ.Component           { return page("blog", p) }
func Post(p PostPage) templ.Component           { return page("post", p) }
func Editor(p EditorPage) templ.Component       { return page("editor", p) }
func Error(p ErrorPage) templ.Component         { return page("error", p) }

// Preview renders already sanitised HTML as a fragment.
func Preview(body template.HTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="preview markdown">`+string(body)+`</div>`)
		return err
	})
}
