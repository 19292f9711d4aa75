package blogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bikatr7/folio/slug"
)

// Post is a blog post as returned by the backend. The front-end only holds
// copies fetched for a single view.
type Post struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt Timestamp  `json:"created_at"`
	UpdatedAt *Timestamp `json:"updated_at,omitempty"`
	ViewCount int        `json:"view_count"`
}

// Slug is the title slug of the post.
func (p Post) Slug() string {
	return slug.Slugify(p.Title)
}

// Path is the public path of the post.
func (p Post) Path() string {
	return slug.PostPath(p.Title, p.ID.String())
}

// LastModified is UpdatedAt when present, otherwise CreatedAt.
func (p Post) LastModified() time.Time {
	if p.UpdatedAt != nil && !p.UpdatedAt.IsZero() {
		return p.UpdatedAt.Time
	}
	return p.CreatedAt.Time
}

// Timestamp decodes both RFC 3339 and the backend's zone-less ISO form,
// which is UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("blogapi: timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("blogapi: unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// PostInput is the body of create and update calls.
type PostInput struct {
	Title   string `json:"title" form:"title" validate:"required,max=300"`
	Content string `json:"content" form:"content" validate:"required"`
	Author  string `json:"author" form:"author" validate:"required,max=120"`
}

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	TOTP     string `json:"totp" form:"totp" validate:"required,len=6,numeric"`
}

// Tokens is a successful login answer.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
