// Package folio is a server-rendered portfolio and blog front-end built with
// Go, Echo, and templ. It sits in front of a backend blog API and serves the
// same site under two mirrored domains.
//
// Pages are templ components held in the ViewFuncs struct; folio handles
// routing, middleware, caching, SEO metadata and the admin actions that are
// forwarded to the backend.
package folio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/metrics"
	"github.com/bikatr7/folio/portfolio"
	"github.com/bikatr7/folio/seo"
	"github.com/bikatr7/folio/snapshot"
)

// App is the central folio application. It wires together the backend
// client, caches, handlers, middleware, and templates.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	API       *blogapi.Client
	Cache     *PostCache
	Snapshots snapshot.Store
	Metrics   *metrics.Metrics
	SEO       *seo.Composer
	Portfolio *portfolio.Content
	Views     ViewFuncs
	Logger    *slog.Logger

	loginLimiter *LoginLimiter
	socialImage  *SocialImage
	location     *time.Location
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
	ready        bool
}

// New creates a new folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		Logger:    slog.Default(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup validates the configuration, opens the snapshot store and registers
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo as an http.Handler.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if a.API != nil && a.Config.APIURL == "" {
		a.Config.APIURL = a.API.BaseURL()
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	loc, err := time.LoadLocation(a.Config.DisplayTZ)
	if err != nil {
		return fmt.Errorf("folio: display tz: %w", err)
	}
	a.location = loc

	content, err := portfolio.Load()
	if err != nil {
		return fmt.Errorf("folio: %w", err)
	}
	a.Portfolio = content

	a.Metrics = metrics.New()
	if a.API == nil {
		a.API = blogapi.New(a.Config.APIURL,
			blogapi.WithTimeout(a.Config.APITimeout),
			blogapi.WithObserver(a.Metrics),
		)
	}

	if a.Snapshots == nil {
		store, err := snapshot.Open(ctx, a.Config.SnapshotPath, a.Config.RedisURL)
		if err != nil {
			return fmt.Errorf("folio: init snapshots: %w", err)
		}
		a.Snapshots = store
	}

	a.Cache = NewPostCache(a.API, a.Config.PostCacheMax, a.Config.PostCacheTTL, a.Metrics)
	a.loginLimiter = NewLoginLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)
	a.socialImage = NewSocialImage(a.staticDir, a.Config.SocialImage)
	a.SEO = seo.NewComposer(a.Config.Identities())

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until the server is closed.
func (a *App) Start() error {
	if err := a.Setup(context.Background()); err != nil {
		return err
	}
	a.Logger.Info("folio listening", "addr", a.Config.Addr, "api", a.Config.APIURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Snapshots != nil {
		return a.Snapshots.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvDuration parses the environment variable key as a time.Duration.
func EnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("folio: %s: %w", key, err)
	}
	return d, nil
}

// EnvInt parses the environment variable key as an int.
func EnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("folio: %s: %w", key, err)
	}
	return n, nil
}

// EnvBool reports whether the environment variable key is "true" or "1".
func EnvBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("folio: required environment variable %s is not set", key)
	}
	return v
}
