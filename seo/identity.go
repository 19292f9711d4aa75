// Package seo builds the per-page metadata bundle (canonical and alternate
// links, Open Graph, Twitter Card and JSON-LD) for a site served under two
// mirrored domains.
package seo

import "strings"

// Identity is one of the two names the site is published under.
type Identity struct {
	Key       string // short stable key, e.g. "primary"
	Name      string // display name, used for og:site_name and publisher
	Domain    string // canonical root domain without scheme, e.g. "kadenbilyeu.com"
	Twitter   string // twitter:site / twitter:creator handle
	AuthorURL string // author profile URL for Article JSON-LD
	Keyword   string // host substring selecting this identity; defaults to the first label of Domain
}

// Origin returns the https origin of the identity's root domain.
func (id Identity) Origin() string {
	return "https://" + id.Domain
}

func (id Identity) keyword() string {
	if id.Keyword != "" {
		return strings.ToLower(id.Keyword)
	}
	label, _, _ := strings.Cut(strings.ToLower(id.Domain), ".")
	return label
}

// Identities holds the primary identity and its mirror.
type Identities struct {
	Primary Identity
	Mirror  Identity
}

// ForHost returns the identity that serves host. A host that mentions the
// mirror's keyword selects the mirror; everything else (including localhost)
// is the primary.
func (ids Identities) ForHost(host string) Identity {
	h := strings.ToLower(host)
	if k := ids.Mirror.keyword(); k != "" && strings.Contains(h, k) {
		return ids.Mirror
	}
	return ids.Primary
}

// IsMirror reports whether host is served under the mirror identity.
func (ids Identities) IsMirror(host string) bool {
	return ids.ForHost(host).Key == ids.Mirror.Key
}

// Other returns the identity mirrored by id.
func (ids Identities) Other(id Identity) Identity {
	if id.Key == ids.Mirror.Key {
		return ids.Primary
	}
	return ids.Mirror
}

// Domains returns both origins, primary first.
func (ids Identities) Domains() []string {
	return []string{ids.Primary.Origin(), ids.Mirror.Origin()}
}
