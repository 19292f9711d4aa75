package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--env-file", "testdata-missing.env"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSlugCommand(t *testing.T) {
	assert.Equal(t, "hello-world\n", run(t, "slug", "Hello,", "World!"))
}

func TestResolveCommand(t *testing.T) {
	assert.Equal(t, "slug\t/blog/slug/hello-world\n", run(t, "resolve", "hello-world"))
	assert.Equal(t, "id\t/blog/0b4f2c1e-3d5a-4c6b-8e7f-9a0b1c2d3e4f\n",
		run(t, "resolve", "0b4f2c1e-3d5a-4c6b-8e7f-9a0b1c2d3e4f"))
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "folio dev\n", run(t, "version"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("SITE_PRIMARY_DOMAIN", "example.com")
	t.Setenv("SITE_PRIMARY_NAME", "Example")
	t.Setenv("SITE_MIRROR_DOMAIN", "mirror.dev")
	t.Setenv("SITE_AUTHOR", "Jane Doe")
	t.Setenv("SITE_AUTHOR_SAME_AS", "https://a.example, ,https://b.example")
	t.Setenv("POST_CACHE_TTL", "30s")
	t.Setenv("LATEST_LIMIT", "7")

	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "Example", cfg.Primary.Name)
	assert.Equal(t, "primary", cfg.Primary.Key)
	assert.Equal(t, "mirror.dev", cfg.Mirror.Name)
	assert.Equal(t, "Jane Doe", cfg.Owner.Name)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Owner.SameAs)
	assert.Equal(t, "30s", cfg.PostCacheTTL.String())
	assert.Equal(t, 7, cfg.LatestLimit)
}

func TestConfigFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	_, err := configFromEnv()
	assert.Error(t, err)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger("loud")
	assert.Error(t, err)
	_, err = newLogger("debug")
	assert.NoError(t, err)
}
