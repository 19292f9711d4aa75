package folio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bikatr7/folio/blogapi"
	"github.com/bikatr7/folio/seo"
	"github.com/bikatr7/folio/snapshot"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Addr       string        // Listen address (default ":3000")
	APIURL     string        `validate:"required,url"` // Backend blog API root
	APITimeout time.Duration // Per-call backend timeout (default 10s)

	Primary seo.Identity // Primary identity (default kadenbilyeu.com)
	Mirror  seo.Identity // Mirror identity (default bikatr7.com)
	Owner   seo.Person   // Site owner for the site-wide JSON-LD

	SessionSecret string `validate:"required,min=16"` // Visitor cookie signing secret
	CookieSecure  bool   // Set true for HTTPS
	SessionMaxAge int    // Visitor cookie lifetime in seconds (default one year)

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
	PostCacheMax int           `validate:"gte=0"`        // Post cache entries (default 256)
	LatestLimit  int           `validate:"gte=0,lte=50"` // Posts on /blog (default 5)

	SnapshotPath string // SQLite snapshot path (default "data/snapshots.db")
	RedisURL     string // Use redis for snapshots instead of SQLite when set

	SocialImage string // Social preview source under the static dir (default "images/social.webp")
	DisplayTZ   string // IANA zone for displayed dates (default "UTC")

	LoginAttempts int           // Failed logins allowed per IP per window (default 5)
	LoginWindow   time.Duration // Login limiter window (default 1min)
}

var validate = validator.New()

func (c *SiteConfig) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.APITimeout == 0 {
		c.APITimeout = 10 * time.Second
	}
	if c.Primary.Domain == "" {
		c.Primary = seo.Identity{
			Key:       "primary",
			Name:      "Kaden Bilyeu",
			Domain:    "kadenbilyeu.com",
			Twitter:   "@KadenBilyeu",
			AuthorURL: "https://kadenbilyeu.com",
		}
	}
	if c.Mirror.Domain == "" {
		c.Mirror = seo.Identity{
			Key:       "mirror",
			Name:      "Bikatr7",
			Domain:    "bikatr7.com",
			Twitter:   "@Bikatr7",
			AuthorURL: "https://bikatr7.com",
		}
	}
	if c.Primary.Key == "" {
		c.Primary.Key = "primary"
	}
	if c.Mirror.Key == "" {
		c.Mirror.Key = "mirror"
	}
	if c.Owner.Name == "" {
		c.Owner = DefaultOwner()
	}
	if c.SessionMaxAge == 0 {
		c.SessionMaxAge = 60 * 60 * 24 * 365
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.PostCacheMax == 0 {
		c.PostCacheMax = 256
	}
	if c.LatestLimit == 0 {
		c.LatestLimit = 5
	}
	if c.SnapshotPath == "" {
		c.SnapshotPath = "data/snapshots.db"
	}
	if c.SocialImage == "" {
		c.SocialImage = "images/social.webp"
	}
	if c.DisplayTZ == "" {
		c.DisplayTZ = "UTC"
	}
	if c.LoginAttempts == 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
}

// DefaultOwner is the site owner used when SiteConfig.Owner is empty.
func DefaultOwner() seo.Person {
	return seo.Person{
		Name:          "Kaden Bilyeu",
		AlternateName: "Bikatr7",
		JobTitle:      "Software Engineer",
		Description:   "Software engineer and computer science student focused on machine translation, AI/ML and full stack development.",
		Image:         "/images/face.webp",
		SameAs: []string{
			"https://github.com/Bikatr7",
			"https://x.com/KadenBilyeu",
			"https://www.linkedin.com/in/kaden-bilyeu",
		},
		KnowsAbout:  []string{"Python", "Go", "TypeScript", "Machine Translation", "Natural Language Processing", "Machine Learning"},
		AlumniOf:    "University of Colorado Colorado Springs",
		AlumniOfURL: "https://www.uccs.edu",
	}
}

// Validate checks the fields a server cannot start without.
func (c *SiteConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("folio: invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		return fmt.Errorf("folio: invalid config: DISPLAY_TZ: %w", err)
	}
	if c.Primary.Domain == c.Mirror.Domain {
		return fmt.Errorf("folio: invalid config: primary and mirror domains must differ")
	}
	return nil
}

// Identities returns the two configured identities.
func (c *SiteConfig) Identities() seo.Identities {
	return seo.Identities{Primary: c.Primary, Mirror: c.Mirror}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithViews replaces the page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithClient replaces the backend client built from APIURL.
func WithClient(c *blogapi.Client) Option {
	return func(a *App) {
		a.API = c
	}
}

// WithSnapshots replaces the snapshot store opened from SnapshotPath/RedisURL.
func WithSnapshots(s snapshot.Store) Option {
	return func(a *App) {
		a.Snapshots = s
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithClock overrides the clock used for the loading gate and token expiry.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
