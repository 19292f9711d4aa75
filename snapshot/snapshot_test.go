package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bikatr7/folio/blogapi"
)

func samplePosts() []blogapi.Post {
	created := blogapi.Timestamp{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return []blogapi.Post{
		{ID: uuid.New(), Title: "My First Post", Content: "hello", Author: "Kaden", CreatedAt: created},
		{ID: uuid.New(), Title: "Another", Content: "world", Author: "Kaden", CreatedAt: created, ViewCount: 4},
	}
}

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestStores(t *testing.T) {
	backends := map[string]func(*testing.T) Store{
		"sqlite": func(t *testing.T) Store { return testSQLite(t) },
		"redis":  func(t *testing.T) Store { return testRedis(t) },
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()

			_, err := s.Load(ctx, Latest)
			require.ErrorIs(t, err, ErrNoSnapshot)

			before := time.Now().Add(-time.Second)
			posts := samplePosts()
			require.NoError(t, s.Save(ctx, Latest, posts))

			got, err := s.Load(ctx, Latest)
			require.NoError(t, err)
			require.Len(t, got.Posts, 2)
			assert.Equal(t, posts[0].ID, got.Posts[0].ID)
			assert.Equal(t, "Another", got.Posts[1].Title)
			assert.Equal(t, 4, got.Posts[1].ViewCount)
			assert.True(t, got.Posts[0].CreatedAt.Equal(posts[0].CreatedAt.Time))
			assert.True(t, got.SavedAt.After(before))

			require.NoError(t, s.Save(ctx, Latest, posts[:1]))
			got, err = s.Load(ctx, Latest)
			require.NoError(t, err)
			assert.Len(t, got.Posts, 1)

			_, err = s.Load(ctx, All)
			assert.ErrorIs(t, err, ErrNoSnapshot)

			require.NoError(t, s.Save(ctx, All, nil))
			got, err = s.Load(ctx, All)
			require.NoError(t, err)
			assert.Empty(t, got.Posts)
		})
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), All, samplePosts()))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(context.Background(), All)
	require.NoError(t, err)
	assert.Len(t, got.Posts, 2)
}

func TestRedisKeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer r.Close()

	require.NoError(t, r.Save(context.Background(), Latest, samplePosts()))
	assert.True(t, mr.Exists("folio:snapshot:latest"))
}

func TestOpenPicksBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &Redis{}, s)

	s2, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), "")
	require.NoError(t, err)
	defer s2.Close()
	assert.IsType(t, &SQLite{}, s2)

	_, err = Open(context.Background(), "", "not a url")
	assert.Error(t, err)
}
