// Package blogapi is the client for the backend blog API: post reads, post
// CRUD, login and the administrative backup endpoints. Calls are never
// retried.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bikatr7/folio/slug"
)

// Observer is told about every completed backend call.
type Observer interface {
	ObserveRequest(op string, status int, elapsed time.Duration)
}

// Client talks to the backend blog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the overall timeout of each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithObserver registers an Observer for request metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// AllPosts returns every post.
func (c *Client) AllPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, "all_posts", http.MethodGet, "/all-blogs", "", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// LatestPosts returns the newest limit posts.
func (c *Client) LatestPosts(ctx context.Context, limit int) ([]Post, error) {
	var posts []Post
	path := "/latest-blogs?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, "latest_posts", http.MethodGet, path, "", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostByID fetches a post by its identifier.
func (c *Client) PostByID(ctx context.Context, id string) (Post, error) {
	return c.Lookup(ctx, slug.Resolution{IsSlug: false, Value: id})
}

// PostBySlug fetches a post by its title slug.
func (c *Client) PostBySlug(ctx context.Context, s string) (Post, error) {
	return c.Lookup(ctx, slug.Resolution{IsSlug: true, Value: s})
}

// Lookup fetches the post a resolved route parameter points at.
func (c *Client) Lookup(ctx context.Context, r slug.Resolution) (Post, error) {
	op := "post_by_id"
	if r.IsSlug {
		op = "post_by_slug"
	}
	var p Post
	if err := c.do(ctx, op, http.MethodGet, r.Endpoint(), "", nil, "", &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// CreatePost creates a post.
func (c *Client) CreatePost(ctx context.Context, token string, in PostInput) (Post, error) {
	var p Post
	if err := c.doJSON(ctx, "create_post", http.MethodPost, "/blog", token, in, &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// UpdatePost replaces the title, content and author of a post.
func (c *Client) UpdatePost(ctx context.Context, token string, id uuid.UUID, in PostInput) (Post, error) {
	var p Post
	if err := c.doJSON(ctx, "update_post", http.MethodPut, "/blog/"+id.String(), token, in, &p); err != nil {
		return Post{}, err
	}
	return p, nil
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, token string, id uuid.UUID) error {
	return c.do(ctx, "delete_post", http.MethodDelete, "/blog/"+id.String(), token, nil, "", nil)
}

func (c *Client) doJSON(ctx context.Context, op, method, path, token string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("blogapi: encode %s: %w", op, err)
	}
	return c.do(ctx, op, method, path, token, bytes.NewReader(body), "application/json", out)
}

// do performs one call. A non-empty token is sent as a bearer token; out,
// when non-nil, receives the decoded JSON answer.
func (c *Client) do(ctx context.Context, op, method, path, token string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("blogapi: build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		return fmt.Errorf("blogapi: %s: %w", op, err)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, readDetail(resp.Body))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("blogapi: decode %s: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, time.Since(start))
	}
}

// readDetail pulls the "detail" (or "message") field out of an error body.
// Validation errors carry a list there; those are summarised by their first msg.
func readDetail(r io.Reader) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 {
			return list[0].Msg
		}
	}
	return body.Message
}
