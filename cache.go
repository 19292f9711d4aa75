package folio

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/slug"
)

// PostFetcher is the part of the backend client the cache reads through.
type PostFetcher interface {
	AllPosts(ctx context.Context) ([]blogapi.Post, error)
	LatestPosts(ctx context.Context, limit int) ([]blogapi.Post, error)
	Lookup(ctx context.Context, r slug.Resolution) (blogapi.Post, error)
}

// CacheObserver is told about cache hits and misses.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type cacheEntry struct {
	posts []blogapi.Post
	post  blogapi.Post
}

// PostCache is an in-memory, size-bounded cache of backend reads with TTL.
// Concurrent misses for the same key share one backend call. Failures are
// never cached.
type PostCache struct {
	api      PostFetcher
	entries  *expirable.LRU[string, cacheEntry]
	group    singleflight.Group
	observer CacheObserver
}

// NewPostCache creates a PostCache in front of api holding at most size
// entries for ttl each. observer may be nil.
func NewPostCache(api PostFetcher, size int, ttl time.Duration, observer CacheObserver) *PostCache {
	return &PostCache{
		api:      api,
		entries:  expirable.NewLRU[string, cacheEntry](size, nil, ttl),
		observer: observer,
	}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.entries.Purge()
}

// Latest returns the newest limit posts. fresh reports whether the answer
// came from the backend rather than the cache.
func (c *PostCache) Latest(ctx context.Context, limit int) (posts []blogapi.Post, fresh bool, err error) {
	e, fresh, err := c.get(ctx, "latest:"+strconv.Itoa(limit), func(ctx context.Context) (cacheEntry, error) {
		posts, err := c.api.LatestPosts(ctx, limit)
		return cacheEntry{posts: posts}, err
	})
	return e.posts, fresh, err
}

// All returns every post.
func (c *PostCache) All(ctx context.Context) (posts []blogapi.Post, fresh bool, err error) {
	e, fresh, err := c.get(ctx, "all", func(ctx context.Context) (cacheEntry, error) {
		posts, err := c.api.AllPosts(ctx)
		return cacheEntry{posts: posts}, err
	})
	return e.posts, fresh, err
}

// Lookup returns the post a resolved route parameter points at.
func (c *PostCache) Lookup(ctx context.Context, r slug.Resolution) (blogapi.Post, error) {
	key := "post:id:" + r.Value
	if r.IsSlug {
		key = "post:slug:" + r.Value
	}
	e, _, err := c.get(ctx, key, func(ctx context.Context) (cacheEntry, error) {
		post, err := c.api.Lookup(ctx, r)
		return cacheEntry{post: post}, err
	})
	return e.post, err
}

func (c *PostCache) get(ctx context.Context, key string, fill func(context.Context) (cacheEntry, error)) (cacheEntry, bool, error) {
	if e, ok := c.entries.Get(key); ok {
		if c.observer != nil {
			c.observer.CacheHit()
		}
		return e, false, nil
	}
	if c.observer != nil {
		c.observer.CacheMiss()
	}
	// Shared by every waiter; the client timeout bounds it.
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		e, err := fill(fillCtx)
		if err != nil {
			return cacheEntry{}, err
		}
		c.entries.Add(key, e)
		return e, nil
	})
	if err != nil {
		return cacheEntry{}, false, err
	}
	return v.(cacheEntry), true, nil
}
