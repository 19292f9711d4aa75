package folio

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikatr7/folio/blogapi"
)

func sitemapPosts() []blogapi.Post {
	created := blogapi.Timestamp{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	updated := &blogapi.Timestamp{Time: time.Date(2024, 4, 2, 23, 30, 0, 0, time.UTC)}
	return []blogapi.Post{
		{ID: uuid.New(), Title: "Hello World", Content: "hi", CreatedAt: created},
		{ID: uuid.New(), Title: "Edited Post", Content: "hi", CreatedAt: created, UpdatedAt: updated},
	}
}

func TestBuildSitemapCoversBothDomains(t *testing.T) {
	cfg := validConfig()
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	urls := BuildSitemap(cfg.Identities(), sitemapPosts(), now)

	require.Len(t, urls, (len(staticPages)+2)*2)

	byLoc := make(map[string]SitemapURL, len(urls))
	for _, u := range urls {
		_, dup := byLoc[u.Loc]
		assert.False(t, dup, "duplicate %s", u.Loc)
		byLoc[u.Loc] = u
		require.Len(t, u.Alternates, 1)
	}

	home := byLoc["https://kadenbilyeu.com/"]
	assert.Equal(t, "1.0", home.Priority)
	assert.Equal(t, "weekly", home.ChangeFreq)
	assert.Equal(t, "2024-06-15", home.LastMod)
	assert.Equal(t, "https://bikatr7.com/", home.Alternates[0].Href)
	assert.Equal(t, "x-default", home.Alternates[0].Hreflang)

	dir := byLoc["https://bikatr7.com/blog/directory"]
	assert.Equal(t, "0.7", dir.Priority)
	assert.Equal(t, "https://kadenbilyeu.com/blog/directory", dir.Alternates[0].Href)

	post := byLoc["https://kadenbilyeu.com/blog/hello-world"]
	assert.Equal(t, "0.6", post.Priority)
	assert.Equal(t, "monthly", post.ChangeFreq)
	assert.Equal(t, "2024-03-01", post.LastMod)

	edited := byLoc["https://bikatr7.com/blog/edited-post"]
	assert.Equal(t, "2024-04-02", edited.LastMod)
	assert.Equal(t, "https://kadenbilyeu.com/blog/edited-post", edited.Alternates[0].Href)
}

func TestWriteSitemap(t *testing.T) {
	cfg := validConfig()
	var buf bytes.Buffer
	require.NoError(t, WriteSitemap(&buf, BuildSitemap(cfg.Identities(), sitemapPosts(), time.Now())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	assert.Contains(t, out, `xmlns:xhtml="http://www.w3.org/1999/xhtml"`)
	assert.Contains(t, out, `<xhtml:link rel="alternate" hreflang="x-default" href="https://bikatr7.com/blog/hello-world"></xhtml:link>`)
	assert.Equal(t, 12, strings.Count(out, "<url>"))
}

func TestWriteRSS(t *testing.T) {
	cfg := validConfig()
	var buf bytes.Buffer
	require.NoError(t, WriteRSS(&buf, cfg.Mirror, sitemapPosts()))

	var feed rssXML
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &feed))
	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "https://bikatr7.com/blog", feed.Channel.Link)
	require.Len(t, feed.Channel.Items, 2)
	assert.Equal(t, "https://bikatr7.com/blog/hello-world", feed.Channel.Items[0].Link)
	assert.Equal(t, "Fri, 01 Mar 2024 10:00:00 +0000", feed.Channel.Items[0].PubDate)
}
