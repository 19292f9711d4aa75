package folio

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins origin with path segments. The result never carries a
// trailing slash except for the bare origin.
func BuildURL(origin string, segments ...string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(path.Join(segments...), "/")
	}
	u.Path = path.Join("/", u.Path, path.Join(segments...))
	return u.String()
}

// Flash messages shown on the blog page after an admin action, keyed by the
// msg query parameter. Unknown keys show nothing.
var flashMessages = map[string]string{
	"backup":   "Backup started.",
	"replaced": "Database replaced successfully.",
	"deleted":  "Post deleted.",
}

func flashMessage(key string) string {
	return flashMessages[key]
}

// FilterEmpty removes empty and whitespace-only strings.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
