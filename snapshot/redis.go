package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bikatr7/folio/blogapi"
)

const keyPrefix = "folio:snapshot:"

// Redis stores snapshots as JSON values in redis.
type Redis struct {
	client *redis.Client
}

// ConnectRedis parses a redis:// URL, connects and verifies the connection
// with a ping.
func ConnectRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("snapshot: redis ping: %w", err)
	}

	slog.Info("snapshot redis connected", "addr", opts.Addr)
	return NewRedis(client), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

type redisValue struct {
	Posts   json.RawMessage `json:"posts"`
	SavedAt time.Time       `json:"saved_at"`
}

// Save overwrites the list stored under name.
func (r *Redis) Save(ctx context.Context, name string, posts []blogapi.Post) error {
	b, err := encode(posts)
	if err != nil {
		return err
	}
	v, err := json.Marshal(redisValue{Posts: b, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+name, v, 0).Err(); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", name, err)
	}
	return nil
}

// Load returns the list stored under name.
func (r *Redis) Load(ctx context.Context, name string) (Snapshot, error) {
	b, err := r.client.Get(ctx, keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	var v redisValue
	if err := json.Unmarshal(b, &v); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	posts, err := decode(v.Posts)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Posts: posts, SavedAt: v.SavedAt}, nil
}
