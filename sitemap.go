package folio

import (
	"encoding/xml"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/seo"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
	dateOnly  = "2006-01-02"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string             `xml:"loc"`
	LastMod    string             `xml:"lastmod,omitempty"`
	ChangeFreq string             `xml:"changefreq,omitempty"`
	Priority   string             `xml:"priority,omitempty"`
	Alternates []sitemapAlternate `xml:"xhtml:link"`
}

type sitemapAlternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type staticPage struct {
	path       string
	priority   string
	changefreq string
}

var staticPages = []staticPage{
	{"/", "1.0", "weekly"},
	{"/portfolio", "0.9", "monthly"},
	{"/blog", "0.8", "daily"},
	{"/blog/directory", "0.7", "daily"},
}

// BuildSitemap lists the static pages and every post once per identity,
// each entry pointing at the same page on the other identity as its
// alternate. Static pages carry now as lastmod.
func BuildSitemap(ids seo.Identities, posts []blogapi.Post, now time.Time) []SitemapURL {
	identities := []seo.Identity{ids.Primary, ids.Mirror}
	today := now.UTC().Format(dateOnly)
	urls := make([]SitemapURL, 0, (len(staticPages)+len(posts))*len(identities))

	entry := func(id seo.Identity, p, lastmod, changefreq, priority string) SitemapURL {
		return SitemapURL{
			Loc:        BuildURL(id.Origin(), p),
			LastMod:    lastmod,
			ChangeFreq: changefreq,
			Priority:   priority,
			Alternates: []sitemapAlternate{{
				Rel:      "alternate",
				Hreflang: "x-default",
				Href:     BuildURL(ids.Other(id).Origin(), p),
			}},
		}
	}

	for _, page := range staticPages {
		for _, id := range identities {
			urls = append(urls, entry(id, page.path, today, page.changefreq, page.priority))
		}
	}
	for _, post := range posts {
		lastmod := post.LastModified().UTC().Format(dateOnly)
		for _, id := range identities {
			urls = append(urls, entry(id, post.Path(), lastmod, "monthly", "0.6"))
		}
	}
	return urls
}

// WriteSitemap writes the sitemap document for urls.
func WriteSitemap(w io.Writer, urls []SitemapURL) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemapURLSet{XMLNS: sitemapNS, XHTML: xhtmlNS, URLs: urls})
}

func (a *App) renderSitemap(c echo.Context, posts []blogapi.Post) error {
	urls := BuildSitemap(a.Config.Identities(), posts, a.now())
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), urls)
}
