package seo

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ContentType selects between the Article and WebPage structured data shapes.
type ContentType string

const (
	Website ContentType = "website"
	Article ContentType = "article"
)

const (
	DefaultLocale      = "en_US"
	DefaultImageWidth  = 1200
	DefaultImageHeight = 630
)

// Image describes the social preview image of a page.
type Image struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// Page is the input of Compose. Title and Description are required by
// contract; everything else is optional.
type Page struct {
	Title         string
	Description   string
	URL           string // absolute, or a path resolved against the request URL; empty means the request URL
	Type          ContentType
	Author        string
	PublishedTime time.Time
	ModifiedTime  time.Time
	Tags          []string
	Image         *Image
	Locale        string
}

// Tag is a single <meta> element. Attr is "property" for Open Graph and
// "name" for everything else.
type Tag struct {
	Attr    string
	Key     string
	Content string
}

// Metadata is everything the document head needs for one page.
type Metadata struct {
	Title       string
	Description string
	Author      string
	Keywords    string
	Canonical   string
	Alternate   string
	SiteName    string
	Locale      string
	Type        ContentType
	OpenGraph   []Tag
	Twitter     []Tag
	JSONLD      string
}

// Composer derives Metadata for the identities it was built with.
type Composer struct {
	Identities Identities
}

// NewComposer returns a Composer for the two mirrored identities.
func NewComposer(ids Identities) *Composer {
	return &Composer{Identities: ids}
}

// Compose builds the metadata bundle for page as served at current, the
// absolute URL of the request.
func (c *Composer) Compose(page Page, current *url.URL) Metadata {
	id := c.Identities.ForHost(current.Hostname())
	other := c.Identities.Other(id)

	if page.Type == "" {
		page.Type = Website
	}
	if page.Locale == "" {
		page.Locale = DefaultLocale
	}

	canonical := absolute(page.URL, current)
	alternate := withHost(canonical, other.Domain)

	var img *Image
	if page.Image != nil && page.Image.URL != "" {
		im := *page.Image
		im.URL = absolute(im.URL, current)
		if im.Width == 0 {
			im.Width = DefaultImageWidth
		}
		if im.Height == 0 {
			im.Height = DefaultImageHeight
		}
		img = &im
	}

	author := page.Author
	if author == "" {
		author = id.Name
	}

	md := Metadata{
		Title:       page.Title,
		Description: page.Description,
		Author:      author,
		Keywords:    strings.Join(page.Tags, ", "),
		Canonical:   canonical,
		Alternate:   alternate,
		SiteName:    id.Name,
		Locale:      page.Locale,
		Type:        page.Type,
	}
	md.OpenGraph = openGraphTags(page, canonical, id, img)
	md.Twitter = twitterTags(page, id, img)
	md.JSONLD = pageJSONLD(page, canonical, id, img)
	return md
}

func openGraphTags(page Page, canonical string, id Identity, img *Image) []Tag {
	tags := []Tag{
		{"property", "og:title", page.Title},
		{"property", "og:description", page.Description},
		{"property", "og:type", string(page.Type)},
		{"property", "og:locale", page.Locale},
		{"property", "og:url", canonical},
	}
	if img != nil {
		tags = append(tags,
			Tag{"property", "og:image", img.URL},
			Tag{"property", "og:image:width", strconv.Itoa(img.Width)},
			Tag{"property", "og:image:height", strconv.Itoa(img.Height)},
		)
		if img.Alt != "" {
			tags = append(tags, Tag{"property", "og:image:alt", img.Alt})
		}
	}
	tags = append(tags, Tag{"property", "og:site_name", id.Name})
	if page.Type == Article {
		if page.Author != "" {
			tags = append(tags, Tag{"property", "article:author", page.Author})
		}
		if !page.PublishedTime.IsZero() {
			tags = append(tags, Tag{"property", "article:published_time", formatTime(page.PublishedTime)})
		}
		if !page.ModifiedTime.IsZero() {
			tags = append(tags, Tag{"property", "article:modified_time", formatTime(page.ModifiedTime)})
		}
		for _, t := range page.Tags {
			tags = append(tags, Tag{"property", "article:tag", t})
		}
	}
	return tags
}

func twitterTags(page Page, id Identity, img *Image) []Tag {
	tags := []Tag{
		{"name", "twitter:card", "summary_large_image"},
		{"name", "twitter:title", page.Title},
		{"name", "twitter:description", page.Description},
		{"name", "twitter:site", id.Twitter},
		{"name", "twitter:creator", id.Twitter},
	}
	if img != nil {
		tags = append(tags, Tag{"name", "twitter:image", img.URL})
		if img.Alt != "" {
			tags = append(tags, Tag{"name", "twitter:image:alt", img.Alt})
		}
	}
	return tags
}

func pageJSONLD(page Page, canonical string, id Identity, img *Image) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebPage",
		"name":        page.Title,
		"headline":    page.Title,
		"description": page.Description,
		"url":         canonical,
	}
	if img != nil {
		obj := map[string]interface{}{
			"@type":  "ImageObject",
			"url":    img.URL,
			"width":  img.Width,
			"height": img.Height,
		}
		if img.Alt != "" {
			obj["caption"] = img.Alt
		}
		data["image"] = obj
	}
	if page.Type == Article {
		data["@type"] = "Article"
		if page.Author != "" {
			data["author"] = map[string]string{
				"@type": "Person",
				"name":  page.Author,
				"url":   id.AuthorURL,
			}
		}
		if !page.PublishedTime.IsZero() {
			data["datePublished"] = formatTime(page.PublishedTime)
		}
		if !page.ModifiedTime.IsZero() {
			data["dateModified"] = formatTime(page.ModifiedTime)
		}
		if len(page.Tags) > 0 {
			data["keywords"] = strings.Join(page.Tags, ", ")
		}
		data["publisher"] = map[string]string{
			"@type": "Person",
			"name":  id.Name,
			"url":   id.Origin(),
		}
	}
	return marshal(data)
}

// absolute resolves ref against base; an empty ref means base itself.
func absolute(ref string, base *url.URL) string {
	if ref == "" {
		return base.String()
	}
	u, err := url.Parse(ref)
	if err != nil {
		return base.String()
	}
	return base.ResolveReference(u).String()
}

// withHost returns raw with its host replaced and everything else kept.
func withHost(raw, host string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Host = host
	return u.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func marshal(data interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
