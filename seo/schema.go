package seo

import (
	"strings"
	"unicode/utf8"
)

// Person describes the site owner for the site-wide structured data.
type Person struct {
	Name          string
	AlternateName string
	JobTitle      string
	Description   string
	Image         string // path or absolute URL of a portrait
	SameAs        []string
	KnowsAbout    []string
	AlumniOf      string
	AlumniOfURL   string
}

// WebsiteJSONLD produces the Schema.org WebSite block for the identity,
// including a SearchAction pointing at the blog search.
func WebsiteJSONLD(id Identity, p Person) string {
	siteURL := id.Origin()
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        id.Name,
		"url":         siteURL,
		"description": "Personal portfolio and blog of " + id.Name + ", showcasing projects, skills, experience, and blog posts about software engineering and technology.",
		"author":      personObject(p, siteURL),
		"potentialAction": map[string]interface{}{
			"@type": "SearchAction",
			"target": map[string]string{
				"@type":       "EntryPoint",
				"urlTemplate": siteURL + "/blog?search={search_term_string}",
			},
			"query-input": "required name=search_term_string",
		},
		"publisher": map[string]string{
			"@type": "Person",
			"name":  id.Name,
			"url":   siteURL,
		},
	}
	return marshal(data)
}

// PersonJSONLD produces the standalone Schema.org Person block.
func PersonJSONLD(id Identity, p Person) string {
	data := personObject(p, id.Origin())
	data["@context"] = "https://schema.org"
	if p.Image != "" {
		data["image"] = joinOrigin(id.Origin(), p.Image)
	}
	if p.Description != "" {
		data["description"] = p.Description
	}
	if p.AlumniOf != "" {
		alumni := map[string]string{
			"@type": "CollegeOrUniversity",
			"name":  p.AlumniOf,
		}
		if p.AlumniOfURL != "" {
			alumni["sameAs"] = p.AlumniOfURL
		}
		data["alumniOf"] = alumni
	}
	return marshal(data)
}

func personObject(p Person, siteURL string) map[string]interface{} {
	obj := map[string]interface{}{
		"@type": "Person",
		"name":  p.Name,
		"url":   siteURL,
	}
	if p.AlternateName != "" {
		obj["alternateName"] = p.AlternateName
	}
	if p.JobTitle != "" {
		obj["jobTitle"] = p.JobTitle
	}
	if len(p.SameAs) > 0 {
		obj["sameAs"] = p.SameAs
	}
	if len(p.KnowsAbout) > 0 {
		obj["knowsAbout"] = p.KnowsAbout
	}
	return obj
}

// ListItem is one entry of an ItemList.
type ListItem struct {
	Name        string
	URL         string
	Description string
}

// ItemListJSONLD produces a Schema.org ItemList of creative works, used for
// the portfolio projects section.
func ItemListJSONLD(name, description string, items []ListItem) string {
	elements := make([]map[string]interface{}, 0, len(items))
	for i, it := range items {
		work := map[string]interface{}{
			"@type": "CreativeWork",
			"name":  it.Name,
		}
		if it.URL != "" {
			work["url"] = it.URL
		}
		if it.Description != "" {
			work["description"] = it.Description
		}
		elements = append(elements, map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     work,
		})
	}
	return marshal(map[string]interface{}{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"description":     description,
		"itemListElement": elements,
	})
}

const excerptLen = 160

// Excerpt derives a meta description from markdown content: markup
// characters are dropped, the text is cut to 160 characters and "..." marks
// content that was longer than that.
func Excerpt(content string) string {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '`', '[', ']':
			return -1
		}
		return r
	}, content)
	if utf8.RuneCountInString(stripped) > excerptLen {
		stripped = string([]rune(stripped)[:excerptLen])
	}
	out := strings.TrimSpace(stripped)
	if utf8.RuneCountInString(content) > excerptLen {
		out += "..."
	}
	return out
}

// TitleKeywords picks up to five words longer than three characters from a
// title, in order.
func TitleKeywords(title string) []string {
	var out []string
	for _, w := range strings.Split(title, " ") {
		if utf8.RuneCountInString(w) > 3 {
			out = append(out, w)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}

func joinOrigin(origin, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(ref, "/")
}
