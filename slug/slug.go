// Package slug turns post titles into URL-safe slugs and classifies blog
// route parameters as either canonical identifiers or slugs.
package slug

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// anything that is not an ASCII word character, whitespace or hyphen
	reStrip      = regexp.MustCompile(`[^\w\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}-]`)
	reWhitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
	reHyphens    = regexp.MustCompile(`-{2,}`)
	reUUID       = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// Slugify converts a title to a URL-safe slug.
// Example: "Hello, World!  Foo--Bar" → "hello-world-foo-bar"
//
// The result only contains [a-z0-9_] separated by single hyphens and is
// stable under re-application. Titles without any word character produce "".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = reStrip.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Resolution is the classification of a raw /blog/:param route segment.
type Resolution struct {
	IsSlug bool
	Value  string
}

// Resolve decides whether param is a canonical UUID identifier (8-4-4-4-12
// hex groups, any case) or a slug. Value is always param, unmodified.
//
// A slug made of 32 hex characters in exact UUID grouping is classified as
// an identifier. Titles are words, so this is accepted rather than handled.
func Resolve(param string) Resolution {
	return Resolution{
		IsSlug: !IsUUID(param),
		Value:  param,
	}
}

// IsUUID reports whether s is in canonical textual UUID form.
func IsUUID(s string) bool {
	return reUUID.MatchString(s)
}

// Endpoint returns the backend lookup path for the resolution.
func (r Resolution) Endpoint() string {
	if r.IsSlug {
		return "/blog/slug/" + url.PathEscape(r.Value)
	}
	return "/blog/" + r.Value
}

// reserved are /blog/ paths owned by pages rather than posts.
var reserved = map[string]bool{"directory": true}

// PostPath returns the public path of a post, preferring the title slug and
// falling back to the identifier when the title has no sluggable characters
// or its slug names a page.
func PostPath(title, id string) string {
	if s := Slugify(title); s != "" && !reserved[s] {
		return "/blog/" + s
	}
	return "/blog/" + id
}
