package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bikatr7/folio"
	"github.com/bikatr7/folio/seo"
)

var (
	envFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio and blog front-end",
	Long: `folio serves a portfolio and blog under two mirrored domains, in front of
a backend blog API.

Example usage:
  folio serve                       # Start the server
  folio sitemap -o public/sitemap.xml
  folio slug "Hello, World"         # Print the slug for a title
  folio resolve 0b4f...             # Show how a /blog/:param is looked up`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		var err error
		logger, err = newLogger(os.Getenv("LOG_LEVEL"))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// configFromEnv builds the site configuration from the environment. Unset
// keys keep folio's defaults.
func configFromEnv() (folio.SiteConfig, error) {
	cfg := folio.SiteConfig{
		Addr:          folio.EnvOr("ADDR", ":3000"),
		APIURL:        os.Getenv("API_URL"),
		Primary:       identityFromEnv("SITE_PRIMARY", "primary"),
		Mirror:        identityFromEnv("SITE_MIRROR", "mirror"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  folio.EnvBool("COOKIE_SECURE"),
		SnapshotPath:  os.Getenv("SNAPSHOT_PATH"),
		RedisURL:      os.Getenv("REDIS_URL"),
		SocialImage:   os.Getenv("SOCIAL_IMAGE"),
		DisplayTZ:     os.Getenv("DISPLAY_TZ"),
	}

	owner := folio.DefaultOwner()
	if name := os.Getenv("SITE_AUTHOR"); name != "" {
		owner.Name = name
	}
	if links := folio.FilterEmpty(strings.Split(os.Getenv("SITE_AUTHOR_SAME_AS"), ",")); len(links) > 0 {
		owner.SameAs = links
	}
	cfg.Owner = owner

	var err error
	if cfg.APITimeout, err = folio.EnvDuration("API_TIMEOUT", 0); err != nil {
		return cfg, err
	}
	if cfg.PostCacheTTL, err = folio.EnvDuration("POST_CACHE_TTL", 0); err != nil {
		return cfg, err
	}
	if cfg.LatestLimit, err = folio.EnvInt("LATEST_LIMIT", 0); err != nil {
		return cfg, err
	}
	if cfg.LoginAttempts, err = folio.EnvInt("LOGIN_ATTEMPTS", 0); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// identityFromEnv reads PREFIX_DOMAIN, PREFIX_NAME, PREFIX_TWITTER and
// PREFIX_KEYWORD. Without a domain the zero Identity is returned and the
// default applies.
func identityFromEnv(prefix, key string) seo.Identity {
	domain := os.Getenv(prefix + "_DOMAIN")
	if domain == "" {
		return seo.Identity{}
	}
	return seo.Identity{
		Key:       key,
		Name:      folio.EnvOr(prefix+"_NAME", domain),
		Domain:    domain,
		Twitter:   os.Getenv(prefix + "_TWITTER"),
		AuthorURL: "https://" + domain,
		Keyword:   os.Getenv(prefix + "_KEYWORD"),
	}
}
