package views

import (
	"html/template"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/portfolio"
	"github.com/bikatr7/folio/seo"
)

// Layout carries what every page head and chrome needs.
type Layout struct {
	Meta          seo.Metadata
	SiteJSONLD    []string // site-wide JSON-LD blocks (WebSite, Person)
	SiteName      string
	MirrorOrigin  string // origin of the other identity, linked in the footer
	Mirror        bool   // page is served under the mirror identity
	Retro         bool
	LoggedIn      bool
	CSRF          string
	StorageNotice bool
	Path          string
	Year          int
}

// GateView is the loading gate as the browser script needs it.
type GateView struct {
	State        string // not-loaded, loaded or shown
	AnimationMS  int64
	AutoRevealMS int64
}

// HomePage is the landing page.
type HomePage struct {
	Layout
	Intro    []string
	Gate     GateView
	Featured []portfolio.Project
	Skills   []string
}

// PortfolioPage is the full portfolio.
type PortfolioPage struct {
	Layout
	Content *portfolio.Content
}

// PostSummary is a post as listed on the blog pages.
type PostSummary struct {
	Title   string
	Path    string
	Author  string
	Date    string
	Excerpt string
}

// BlogPage is the latest-posts page and the directory.
type BlogPage struct {
	Layout
	Directory  bool
	Posts      []PostSummary
	Stale      bool   // posts come from a saved snapshot
	StaleSince string // when that snapshot was taken
	LoadError  string // set when no posts could be shown at all
	LoginError string
	Message    string
	Username   string
}

// PostPage is a single post.
type PostPage struct {
	Layout
	Post      blogapi.Post
	Body      template.HTML
	Published string
	Updated   string // empty unless the post was edited
	BackPath  string
	BackLabel string
}

// EditorPage is the create and edit form.
type EditorPage struct {
	Layout
	Action  string // form target
	Input   blogapi.PostInput
	Errors  []string
	Editing bool
	Cancel  string
}

// ErrorPage is any error shown in place of a page.
type ErrorPage struct {
	Layout
	Status      int
	Heading     string
	Message     string
	ReturnPath  string
	ReturnLabel string
	Retry       bool
}
