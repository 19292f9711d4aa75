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

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// WriteRSS writes an RSS 2.0 feed of posts with links under id's origin.
func WriteRSS(w io.Writer, id seo.Identity, posts []blogapi.Post) error {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := BuildURL(id.Origin(), p.Path())
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: seo.Excerpt(p.Content),
			Author:      p.Author,
			PubDate:     p.CreatedAt.UTC().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       id.Name + " | Blog",
			Link:        BuildURL(id.Origin(), "blog"),
			Description: "Posts by " + id.Name,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(feed)
}

func (a *App) renderRSS(c echo.Context, posts []blogapi.Post) error {
	id := a.Config.Identities().ForHost(c.Request().Host)
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteRSS(c.Response(), id, posts)
}
