// Package portfolio holds the static portfolio content shown on the home and
// portfolio pages. The content ships embedded as YAML.
package portfolio

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bikatr7/folio/seo"
)

//go:embed content.yaml
var embedded []byte

// Item is one entry of a portfolio section.
type Item struct {
	Title       string   `yaml:"title" validate:"required"`
	Subtitle    string   `yaml:"subtitle"`
	DateRange   string   `yaml:"date_range" validate:"required"`
	Description []string `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Bullets     bool     `yaml:"bullets"`
}

// Project is a portfolio project.
type Project struct {
	Item      `yaml:",inline"`
	Kind      string   `yaml:"kind" validate:"required,oneof=SoftwareApplication WebSite"`
	Category  string   `yaml:"category"`
	Languages []string `yaml:"languages"`
	Website   string   `yaml:"website" validate:"omitempty,url"`
	GitHub    string   `yaml:"github" validate:"omitempty,url"`
	Featured  bool     `yaml:"featured"`
}

// URL is the project's website, or its repository when it has none.
func (p Project) URL() string {
	if p.Website != "" {
		return p.Website
	}
	return p.GitHub
}

// Intro holds the home page introduction for each identity.
type Intro struct {
	Primary []string `yaml:"primary" validate:"min=1"`
	Mirror  []string `yaml:"mirror" validate:"min=1"`
}

// Content is the whole portfolio.
type Content struct {
	Intro           Intro     `yaml:"intro"`
	Projects        []Project `yaml:"projects" validate:"min=1,dive"`
	Experience      []Item    `yaml:"experience" validate:"dive"`
	Education       []Item    `yaml:"education" validate:"dive"`
	Accomplishments []Item    `yaml:"accomplishments" validate:"dive"`
	Certifications  []Item    `yaml:"certifications" validate:"dive"`
	Skills          []string  `yaml:"skills"`
}

var validate = validator.New()

// Load parses the embedded content.
func Load() (*Content, error) {
	return Parse(embedded)
}

// Parse decodes and validates portfolio YAML.
func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("portfolio: parse: %w", err)
	}
	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("portfolio: invalid content: %w", err)
	}
	return &c, nil
}

// IntroFor returns the introduction paragraphs for the identity.
func (c *Content) IntroFor(mirror bool) []string {
	if mirror {
		return c.Intro.Mirror
	}
	return c.Intro.Primary
}

// Featured returns the projects marked featured, in file order.
func (c *Content) Featured() []Project {
	var out []Project
	for _, p := range c.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ListItems maps every project onto an ItemList entry.
func (c *Content) ListItems() []seo.ListItem {
	items := make([]seo.ListItem, 0, len(c.Projects))
	for _, p := range c.Projects {
		items = append(items, seo.ListItem{Name: p.Title, URL: p.URL(), Description: p.Subtitle})
	}
	return items
}
