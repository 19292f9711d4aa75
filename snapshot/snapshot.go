// Package snapshot keeps the last post lists fetched from the backend so the
// blog pages can still render, marked stale, while the backend is down.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bikatr7/folio/blogapi"
)

// List names.
const (
	Latest = "latest"
	All    = "all"
)

// ErrNoSnapshot is returned by Load when nothing was saved under the name.
var ErrNoSnapshot = errors.New("snapshot: none saved")

// Store persists post lists by name. Save overwrites.
type Store interface {
	Save(ctx context.Context, name string, posts []blogapi.Post) error
	Load(ctx context.Context, name string) (Snapshot, error)
	Close() error
}

// Snapshot is a saved post list and the moment it was saved.
type Snapshot struct {
	Posts   []blogapi.Post `json:"posts"`
	SavedAt time.Time      `json:"saved_at"`
}

// Open picks the redis backend when redisURL is set, the sqlite file at path
// otherwise.
func Open(ctx context.Context, path, redisURL string) (Store, error) {
	if redisURL != "" {
		return ConnectRedis(ctx, redisURL)
	}
	return OpenSQLite(path)
}

func encode(posts []blogapi.Post) ([]byte, error) {
	if posts == nil {
		posts = []blogapi.Post{}
	}
	b, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return b, nil
}

func decode(b []byte) ([]blogapi.Post, error) {
	var posts []blogapi.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return posts, nil
}
