package folio

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/snapshot"
)

// backend is an in-memory stand-in for the blog API.
type backend struct {
	mu      sync.Mutex
	posts   []blogapi.Post
	down    bool
	secret  string
	token   string
	backups int
	calls   int
}

var firstPostID = uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa6")

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "folio", AccountName: "admin"})
	require.NoError(t, err)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	signed, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	created := blogapi.Timestamp{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	be := &backend{
		secret: key.Secret(),
		token:  signed,
		posts: []blogapi.Post{
			{ID: firstPostID, Title: "My First Post", Content: "## Intro\n\nHello **there**.", Author: "Kaden", CreatedAt: created},
			{ID: uuid.New(), Title: "Go Notes", Content: "```go\nfmt.Println(1)\n```", Author: "Kaden", CreatedAt: created},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(be.serve))
	t.Cleanup(srv.Close)
	return be, srv
}

func (be *backend) setDown(down bool) {
	be.mu.Lock()
	be.down = down
	be.mu.Unlock()
}

func (be *backend) add(title string) {
	be.mu.Lock()
	defer be.mu.Unlock()
	be.posts = append(be.posts, blogapi.Post{
		ID:        uuid.New(),
		Title:     title,
		Content:   "About " + title,
		Author:    "Kaden",
		CreatedAt: blogapi.Timestamp{Time: time.Now().UTC()},
	})
}

func (be *backend) byTitle(title string) blogapi.Post {
	be.mu.Lock()
	defer be.mu.Unlock()
	i, _ := be.find(func(p blogapi.Post) bool { return p.Title == title })
	return be.posts[i]
}

func (be *backend) reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (be *backend) find(pred func(blogapi.Post) bool) (int, bool) {
	for i, p := range be.posts {
		if pred(p) {
			return i, true
		}
	}
	return 0, false
}

func (be *backend) serve(w http.ResponseWriter, r *http.Request) {
	be.mu.Lock()
	defer be.mu.Unlock()
	be.calls++
	if be.down {
		be.reply(w, http.StatusServiceUnavailable, map[string]string{"detail": "maintenance"})
		return
	}

	p := r.URL.Path
	authed := r.Header.Get("Authorization") == "Bearer "+be.token
	notFound := map[string]string{"detail": "Blog post not found"}
	switch {
	case r.Method == http.MethodGet && p == "/all-blogs":
		be.reply(w, http.StatusOK, be.posts)
	case r.Method == http.MethodGet && p == "/latest-blogs":
		be.reply(w, http.StatusOK, be.posts)
	case r.Method == http.MethodGet && p == "/blog/slug/malformed":
		be.reply(w, http.StatusUnprocessableEntity, map[string]string{"detail": "bad identifier"})
	case r.Method == http.MethodGet && strings.HasPrefix(p, "/blog/slug/"):
		want := strings.TrimPrefix(p, "/blog/slug/")
		if i, ok := be.find(func(x blogapi.Post) bool { return x.Slug() == want }); ok {
			be.reply(w, http.StatusOK, be.posts[i])
			return
		}
		be.reply(w, http.StatusNotFound, notFound)
	case r.Method == http.MethodGet && strings.HasPrefix(p, "/blog/"):
		id, err := uuid.Parse(strings.TrimPrefix(p, "/blog/"))
		if err != nil {
			be.reply(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid uuid"})
			return
		}
		if i, ok := be.find(func(x blogapi.Post) bool { return x.ID == id }); ok {
			be.reply(w, http.StatusOK, be.posts[i])
			return
		}
		be.reply(w, http.StatusNotFound, notFound)
	case r.Method == http.MethodPost && p == "/login":
		var in blogapi.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Username != "admin" || in.Password != "hunter2" || !totp.Validate(in.TOTP, be.secret) {
			be.reply(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		be.reply(w, http.StatusOK, blogapi.Tokens{AccessToken: be.token, TokenType: "bearer"})
	case !authed:
		be.reply(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
	case r.Method == http.MethodPost && p == "/blog":
		var in blogapi.PostInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		post := blogapi.Post{ID: uuid.New(), Title: in.Title, Content: in.Content, Author: in.Author, CreatedAt: blogapi.Timestamp{Time: time.Now().UTC()}}
		be.posts = append(be.posts, post)
		be.reply(w, http.StatusOK, post)
	case r.Method == http.MethodPut && strings.HasPrefix(p, "/blog/"):
		id := uuid.MustParse(strings.TrimPrefix(p, "/blog/"))
		i, ok := be.find(func(x blogapi.Post) bool { return x.ID == id })
		if !ok {
			be.reply(w, http.StatusNotFound, notFound)
			return
		}
		var in blogapi.PostInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		now := blogapi.Timestamp{Time: time.Now().UTC()}
		be.posts[i].Title, be.posts[i].Content, be.posts[i].Author, be.posts[i].UpdatedAt = in.Title, in.Content, in.Author, &now
		be.reply(w, http.StatusOK, be.posts[i])
	case r.Method == http.MethodDelete && strings.HasPrefix(p, "/blog/"):
		id := uuid.MustParse(strings.TrimPrefix(p, "/blog/"))
		i, ok := be.find(func(x blogapi.Post) bool { return x.ID == id })
		if !ok {
			be.reply(w, http.StatusNotFound, notFound)
			return
		}
		be.posts = append(be.posts[:i], be.posts[i+1:]...)
		be.reply(w, http.StatusOK, map[string]string{"message": "deleted"})
	case r.Method == http.MethodPost && p == "/force-backup":
		be.backups++
		be.reply(w, http.StatusOK, map[string]string{"message": "ok"})
	default:
		be.reply(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	}
}

type testEnv struct {
	t       *testing.T
	app     *App
	be      *backend
	server  *httptest.Server
	dataDir string
}

func newTestEnv(t *testing.T, mutate ...func(*SiteConfig)) *testEnv {
	t.Helper()
	be, api := newBackend(t)
	dataDir := t.TempDir()

	snaps, err := snapshot.OpenSQLite(filepath.Join(dataDir, "snapshots.db"))
	require.NoError(t, err)

	cfg := SiteConfig{
		APIURL:        api.URL,
		SessionSecret: "test-session-secret-0123456789",
		PostCacheTTL:  time.Minute,
		SocialImage:   "social.png",
	}
	for _, m := range mutate {
		m(&cfg)
	}

	app := New(cfg,
		WithClient(blogapi.New(api.URL, blogapi.WithTimeout(5*time.Second))),
		WithSnapshots(snaps),
		WithStaticDir(dataDir),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, app.Setup(context.Background()))
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(app.Echo)
	t.Cleanup(srv.Close)
	return &testEnv{t: t, app: app, be: be, server: srv, dataDir: dataDir}
}

// browser keeps one visitor's cookies and never follows redirects.
type browser struct {
	t      *testing.T
	env    *testEnv
	client *http.Client
	host   string
}

func (e *testEnv) browser(host string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &browser{
		t:    e.t,
		env:  e,
		host: host,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	header   http.Header
	body     string
	location string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	if b.host != "" {
		req.Host = b.host
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{status: resp.StatusCode, header: resp.Header, body: string(body), location: resp.Header.Get("Location")}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.env.server.URL+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) csrf() string {
	u, _ := url.Parse(b.env.server.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "_csrf" {
			return c.Value
		}
	}
	return ""
}

// post submits form with the visitor's CSRF token, fetching one first if needed.
func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	if b.csrf() == "" {
		b.get("/healthz")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("_csrf", b.csrf())
	req, err := http.NewRequest(http.MethodPost, b.env.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login() {
	b.t.Helper()
	code, err := totp.GenerateCode(b.env.be.secret, time.Now())
	require.NoError(b.t, err)
	res := b.post("/login", url.Values{"username": {"admin"}, "password": {"hunter2"}, "totp": {code}})
	require.Equal(b.t, http.StatusSeeOther, res.status, res.body)
	require.Equal(b.t, "/blog", res.location)
}
