package folio

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/gate"
	"github.com/bikatr7/folio/markdown"
	"github.com/bikatr7/folio/seo"
	"github.com/bikatr7/folio/slug"
	"github.com/bikatr7/folio/snapshot"
	"github.com/bikatr7/folio/storage"
	"github.com/bikatr7/folio/views"
)

// requestURL is the absolute URL of the current request.
func requestURL(c echo.Context) *url.URL {
	r := c.Request()
	return &url.URL{
		Scheme:   c.Scheme(),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}

// layout builds the chrome shared by every page and composes page's metadata.
func (a *App) layout(c echo.Context, page seo.Page) views.Layout {
	current := requestURL(c)
	ids := a.Config.Identities()
	id := ids.ForHost(current.Hostname())
	mirror := id.Key == ids.Mirror.Key
	store := storage.FromContext(c)

	if page.Image == nil && a.socialImage.Available() {
		page.Image = &seo.Image{URL: "/og-image.jpg", Alt: id.Name}
	}

	noticeSeen, _ := storage.Bool(store, storage.KeyStorageNotice)
	return views.Layout{
		Meta: a.SEO.Compose(page, current),
		SiteJSONLD: []string{
			seo.WebsiteJSONLD(id, a.Config.Owner),
			seo.PersonJSONLD(id, a.Config.Owner),
		},
		SiteName:      id.Name,
		MirrorOrigin:  ids.Other(id).Origin(),
		Mirror:        mirror,
		Retro:         a.retro(store, mirror),
		LoggedIn:      a.IsAdmin(c),
		CSRF:          CsrfToken(c),
		StorageNotice: !mirror && !noticeSeen,
		Path:          c.Request().URL.Path,
		Year:          a.now().Year(),
	}
}

// retro reports the visitor's theme. Visitors who never chose one get the
// retro theme on the mirror identity.
func (a *App) retro(store storage.Store, mirror bool) bool {
	if v, ok := storage.Bool(store, storage.KeyRetro); ok {
		return v
	}
	return mirror
}

func (a *App) handleHome(c echo.Context) error {
	store := storage.FromContext(c)
	mirror := a.Config.Identities().IsMirror(c.Request().Host)

	g, err := gate.Open(store, a.now(), gate.Options{
		SkipAnimation:     mirror,
		RevealImmediately: a.retro(store, mirror),
	})
	if err != nil {
		return err
	}

	page := views.HomePage{
		Intro:    a.Portfolio.IntroFor(mirror),
		Featured: a.Portfolio.Featured(),
		Skills:   a.Portfolio.Skills,
	}

	if c.QueryParam("partial") == "sections" {
		// The script asks for the sections once the animation has played.
		g.Complete()
		if err := g.Reveal(); err != nil {
			return err
		}
		return Render(c, a.Views.Sections(page))
	}

	id := a.Config.Identities().ForHost(c.Request().Host)
	page.Layout = a.layout(c, seo.Page{
		Title:       id.Name + " | Software Engineer",
		Description: "Portfolio and blog of " + id.Name + ": projects in machine translation, AI/ML and full stack development.",
		URL:         "/",
		Tags:        []string{id.Name, "software engineer", "portfolio", "machine translation"},
	})
	page.Gate = views.GateView{
		State:        g.State().String(),
		AnimationMS:  g.Animation().Milliseconds(),
		AutoRevealMS: gate.AutoRevealAfter.Milliseconds(),
	}
	return Render(c, a.Views.Home(page))
}

func (a *App) handlePortfolio(c echo.Context) error {
	id := a.Config.Identities().ForHost(c.Request().Host)
	l := a.layout(c, seo.Page{
		Title:       "Portfolio | " + id.Name,
		Description: "Experience, projects, education and skills of " + id.Name + ".",
		URL:         "/portfolio",
	})
	l.SiteJSONLD = append(l.SiteJSONLD, seo.ItemListJSONLD(
		"Software Development Projects",
		"Portfolio of software development projects by "+a.Config.Owner.Name,
		a.Portfolio.ListItems(),
	))
	return Render(c, a.Views.Portfolio(views.PortfolioPage{Layout: l, Content: a.Portfolio}))
}

// postList fetches a post list through the cache, keeping a snapshot of
// every fresh answer. When the backend fails the last snapshot is returned
// with stale set; with no snapshot the backend error is returned.
func (a *App) postList(ctx context.Context, name string) (posts []blogapi.Post, stale *snapshot.Snapshot, err error) {
	var fresh bool
	if name == snapshot.All {
		posts, fresh, err = a.Cache.All(ctx)
	} else {
		posts, fresh, err = a.Cache.Latest(ctx, a.Config.LatestLimit)
	}
	if err == nil {
		if fresh {
			if serr := a.Snapshots.Save(ctx, name, posts); serr != nil {
				a.Logger.Warn("snapshot save failed", "list", name, "err", serr)
			}
		}
		return posts, nil, nil
	}

	a.Logger.Warn("backend post list failed", "list", name, "err", err, "category", blogapi.Category(err).String())
	snap, serr := a.Snapshots.Load(ctx, name)
	if serr != nil {
		if !errors.Is(serr, snapshot.ErrNoSnapshot) {
			a.Logger.Warn("snapshot load failed", "list", name, "err", serr)
		}
		return nil, nil, err
	}
	a.Metrics.RecordStale(name)
	return snap.Posts, &snap, nil
}

func (a *App) blogPage(c echo.Context, directory bool) (views.BlogPage, error) {
	id := a.Config.Identities().ForHost(c.Request().Host)
	p := seo.Page{
		Title:       "Blog | " + id.Name,
		Description: "Latest posts from " + id.Name + " on software engineering, machine translation and technology.",
		URL:         "/blog",
	}
	list := snapshot.Latest
	if directory {
		p.Title = "Blog Directory | " + id.Name
		p.Description = "Every post published by " + id.Name + "."
		p.URL = "/blog/directory"
		list = snapshot.All
	}

	page := views.BlogPage{
		Layout:    a.layout(c, p),
		Directory: directory,
		Message:   flashMessage(c.QueryParam("msg")),
	}
	posts, stale, err := a.postList(c.Request().Context(), list)
	if err != nil {
		page.LoadError = "Failed to load posts. Please try again later."
		return page, nil
	}
	page.Posts = views.Summarize(posts, a.location)
	if stale != nil {
		page.Stale = true
		page.StaleSince = views.FormatDate(stale.SavedAt, a.location)
	}
	return page, nil
}

func (a *App) handleBlog(c echo.Context) error {
	page, err := a.blogPage(c, false)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(page))
}

func (a *App) handleDirectory(c echo.Context) error {
	page, err := a.blogPage(c, true)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(page))
}

// backLink resolves where the post's back link points. Only the two list
// pages are accepted as origins.
func backLink(from string) (path, label string) {
	if from == "/blog/directory" {
		return from, "Back to Directory"
	}
	return "/blog", "Back to Blog"
}

func (a *App) handlePost(c echo.Context) error {
	param := c.Param("param")
	res := slug.Resolve(param)
	backPath, backLabel := backLink(c.QueryParam("from"))

	post, err := a.Cache.Lookup(c.Request().Context(), res)
	if err != nil {
		return a.renderPostError(c, err, backPath, backLabel)
	}

	body, err := markdown.ToHTML(post.Content)
	if err != nil {
		return err
	}

	page := seo.Page{
		Title:         post.Title + " | " + a.Config.Identities().ForHost(c.Request().Host).Name,
		Description:   seo.Excerpt(post.Content),
		URL:           post.Path(),
		Type:          seo.Article,
		Author:        post.Author,
		PublishedTime: post.CreatedAt.Time,
		ModifiedTime:  post.LastModified(),
		Tags:          seo.TitleKeywords(post.Title),
	}
	pp := views.PostPage{
		Layout:    a.layout(c, page),
		Post:      post,
		Body:      body,
		Published: views.FormatDate(post.CreatedAt.Time, a.location),
		BackPath:  backPath,
		BackLabel: backLabel,
	}
	if post.UpdatedAt != nil && !post.UpdatedAt.IsZero() {
		pp.Updated = views.FormatDate(post.UpdatedAt.Time, a.location)
	}
	return Render(c, a.Views.Post(pp))
}

// renderPostError shows the error page matching the backend failure.
func (a *App) renderPostError(c echo.Context, err error, backPath, backLabel string) error {
	ep := views.ErrorPage{
		ReturnPath:  backPath,
		ReturnLabel: strings.Replace(backLabel, "Back to", "Return to", 1),
	}
	switch blogapi.Category(err) {
	case blogapi.NotFound:
		ep.Status = http.StatusNotFound
		ep.Heading = "Blog post not found"
		ep.Message = "The post you are looking for does not exist or has been removed."
	case blogapi.Invalid:
		ep.Status = http.StatusBadRequest
		ep.Heading = "Invalid blog post URL"
		ep.Message = "That address does not point at a blog post."
	default:
		a.Logger.Warn("backend post lookup failed", "param", c.Param("param"), "err", err)
		ep.Status = http.StatusBadGateway
		ep.Heading = "Failed to load blog post"
		ep.Message = "The blog is not answering right now. Please try again."
		ep.Retry = true
	}
	ep.Layout = a.layout(c, seo.Page{Title: ep.Heading, Description: ep.Message})
	return RenderStatus(c, ep.Status, a.Views.Error(ep))
}

func (a *App) handleTheme(c echo.Context) error {
	store := storage.FromContext(c)
	mirror := a.Config.Identities().IsMirror(c.Request().Host)
	if err := storage.SetBool(store, storage.KeyRetro, !a.retro(store, mirror)); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, localReturn(c.FormValue("return")))
}

func (a *App) handleStorageNotice(c echo.Context) error {
	if err := storage.SetBool(storage.FromContext(c), storage.KeyStorageNotice, true); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, localReturn(c.FormValue("return")))
}

// localReturn accepts only same-site absolute paths as redirect targets.
func localReturn(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func (a *App) handleChromaCSS(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/css; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return markdown.WriteCSS(c.Response())
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.postList(c.Request().Context(), snapshot.All)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "blog backend unavailable").SetInternal(err)
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, _, err := a.postList(c.Request().Context(), snapshot.All)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "blog backend unavailable").SetInternal(err)
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	origin := a.Config.Identities().ForHost(c.Request().Host).Origin()
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + origin + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		ep := views.ErrorPage{
			Status:      http.StatusNotFound,
			Heading:     "Page not found",
			Message:     "There is nothing at this address.",
			ReturnPath:  "/",
			ReturnLabel: "Return home",
		}
		ep.Layout = a.layout(c, seo.Page{Title: ep.Heading, Description: ep.Message})
		_ = RenderStatus(c, http.StatusNotFound, a.Views.Error(ep))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "err", err, "uri", c.Request().RequestURI)
		ep := views.ErrorPage{
			Status:      code,
			Heading:     "Something went wrong",
			Message:     "Please try again in a moment.",
			ReturnPath:  "/",
			ReturnLabel: "Return home",
		}
		ep.Layout = a.layout(c, seo.Page{Title: ep.Heading, Description: ep.Message})
		_ = RenderStatus(c, code, a.Views.Error(ep))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
