package views

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/portfolio"
	"github.com/bikatr7/folio/seo"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testLayout(t *testing.T) Layout {
	t.Helper()
	ids := seo.Identities{
		Primary: seo.Identity{Key: "primary", Name: "Kaden Bilyeu", Domain: "kadenbilyeu.com", Twitter: "@KadenBilyeu"},
		Mirror:  seo.Identity{Key: "mirror", Name: "Bikatr7", Domain: "bikatr7.com", Twitter: "@Bikatr7"},
	}
	u, err := url.Parse("https://kadenbilyeu.com/blog")
	require.NoError(t, err)
	md := seo.NewComposer(ids).Compose(seo.Page{Title: "Blog", Description: "Posts & notes"}, u)
	return Layout{
		Meta:         md,
		SiteJSONLD:   []string{seo.WebsiteJSONLD(ids.Primary, seo.Person{Name: "Kaden Bilyeu"})},
		SiteName:     "Kaden Bilyeu",
		MirrorOrigin: "https://bikatr7.com",
		CSRF:         "csrf-token",
		Path:         "/blog",
		Year:         2025,
	}
}

func TestHeadCarriesMetadata(t *testing.T) {
	out := render(t, Blog(BlogPage{Layout: testLayout(t)}))

	assert.Contains(t, out, `<link rel="canonical" href="https://kadenbilyeu.com/blog">`)
	assert.Contains(t, out, `hreflang="x-default" href="https://bikatr7.com/blog"`)
	assert.Contains(t, out, `<meta property="og:title" content="Blog">`)
	assert.Contains(t, out, `<meta name="twitter:site" content="@KadenBilyeu">`)
	assert.Contains(t, out, `content="Posts &amp; notes"`)
	assert.Contains(t, out, `<script type="application/ld+json">{"@context":"https://schema.org"`)
	assert.NotContains(t, out, "og:image")
	assert.Contains(t, out, `class="theme-modern"`)
	assert.Contains(t, out, `href="https://bikatr7.com/blog"`)
}

func TestBlogPage(t *testing.T) {
	created := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	posts := []blogapi.Post{{ID: uuid.New(), Title: "My First Post", Author: "Kaden", Content: "# Hello *world*", CreatedAt: blogapi.Timestamp{Time: created}}}

	p := BlogPage{Layout: testLayout(t), Posts: Summarize(posts, nil), LoginError: "Invalid credentials"}
	out := render(t, Blog(p))
	assert.Contains(t, out, `href="/blog/my-first-post?from=/blog"`)
	assert.Contains(t, out, "May 1, 2024")
	assert.Contains(t, out, "Hello world")
	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, "Invalid credentials")
	assert.NotContains(t, out, "Force backup")

	p.LoggedIn = true
	p.Stale = true
	p.StaleSince = "May 2, 2024"
	out = render(t, Blog(p))
	assert.Contains(t, out, "Force backup")
	assert.Contains(t, out, `action="/admin/replace-database"`)
	assert.Contains(t, out, "may be out of date")
	assert.NotContains(t, out, `action="/login"`)

	dir := render(t, Blog(BlogPage{Layout: testLayout(t), Directory: true, Posts: Summarize(posts, nil)}))
	assert.Contains(t, dir, "Blog Directory")
	assert.Contains(t, dir, "?from=/blog/directory")
	assert.NotContains(t, dir, "Admin login")
}

func TestBlogPageEmptyAndFailed(t *testing.T) {
	out := render(t, Blog(BlogPage{Layout: testLayout(t)}))
	assert.Contains(t, out, "No posts yet.")

	out = render(t, Blog(BlogPage{Layout: testLayout(t), LoadError: "Failed to load posts"}))
	assert.Contains(t, out, "Failed to load posts")
	assert.NotContains(t, out, "No posts yet.")
}

func TestPostPage(t *testing.T) {
	post := blogapi.Post{ID: uuid.New(), Title: "Hello There", Author: "Kaden"}
	p := PostPage{
		Layout:    testLayout(t),
		Post:      post,
		Body:      template.HTML("<p>rendered</p>"),
		Published: "May 1, 2024",
		BackPath:  "/blog/directory",
		BackLabel: "Back to Directory",
	}
	out := render(t, Post(p))
	assert.Contains(t, out, "<p>rendered</p>")
	assert.Contains(t, out, `href="/blog/directory"`)
	assert.NotContains(t, out, "updated")
	assert.NotContains(t, out, "/edit")

	p.LoggedIn = true
	p.Updated = "May 3, 2024"
	out = render(t, Post(p))
	assert.Contains(t, out, "updated May 3, 2024")
	assert.Contains(t, out, `href="/admin/posts/`+post.ID.String()+`/edit"`)
	assert.Contains(t, out, `action="/admin/posts/`+post.ID.String()+`/delete"`)
}

func TestHomeGate(t *testing.T) {
	content, err := portfolio.Load()
	require.NoError(t, err)
	base := HomePage{Layout: testLayout(t), Intro: content.IntroFor(false), Featured: content.Featured(), Skills: content.Skills}

	p := base
	p.Gate = GateView{State: "not-loaded", AnimationMS: 2000, AutoRevealMS: 100}
	out := render(t, Home(p))
	assert.Contains(t, out, `data-animation-ms="2000"`)
	assert.Contains(t, out, `data-src="/?partial=sections"`)
	assert.NotContains(t, out, "<h2>Projects</h2>")

	p.Gate = GateView{State: "shown"}
	out = render(t, Home(p))
	assert.NotContains(t, out, `id="loading"`)
	assert.Contains(t, out, "<h2>Projects</h2>")
	assert.Contains(t, out, "Kudasai")

	frag := render(t, Sections(base))
	assert.True(t, strings.HasPrefix(frag, `<div id="sections"`))
	assert.NotContains(t, frag, "<html")
}

func TestStorageNoticeAndRetro(t *testing.T) {
	l := testLayout(t)
	l.StorageNotice = true
	l.Retro = true
	out := render(t, Error(ErrorPage{Layout: l, Heading: "Blog post not found", ReturnPath: "/blog", ReturnLabel: "Return to Blog"}))
	assert.Contains(t, out, `action="/storage-notice"`)
	assert.Contains(t, out, `class="theme-retro"`)
	assert.Contains(t, out, "Blog post not found")
	assert.Contains(t, out, "Return to Blog")
	assert.NotContains(t, out, "Try again")
}

func TestPortfolioPage(t *testing.T) {
	content, err := portfolio.Load()
	require.NoError(t, err)
	out := render(t, Portfolio(PortfolioPage{Layout: testLayout(t), Content: content}))
	assert.Contains(t, out, "Experience")
	assert.Contains(t, out, "AI/ML Intern at OSCorp")
	assert.Contains(t, out, "<li>Designed AI/ML systems")
}

func TestEditorAndPreview(t *testing.T) {
	out := render(t, Editor(EditorPage{
		Layout: testLayout(t),
		Action: "/admin/posts/new",
		Input:  blogapi.PostInput{Title: "<b>x</b>"},
		Errors: []string{"Content is required"},
		Cancel: "/blog",
	}))
	assert.Contains(t, out, `action="/admin/posts/new"`)
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, out, "Content is required")
	assert.Contains(t, out, "Publish")

	frag := render(t, Preview(template.HTML("<p>hi</p>")))
	assert.Equal(t, `<div class="preview markdown"><p>hi</p></div>`, frag)
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "May 1, 2024", FormatDate(ts, nil))
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "May 2, 2024", FormatDate(ts, tokyo))
	assert.Equal(t, "", FormatDate(time.Time{}, nil))
}
