package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "audio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutGetDelete(t *testing.T) {
	c := newTestCache(t)

	_, _, ok := c.Get("http://cdn/song.mp3")
	require.False(t, ok)

	require.NoError(t, c.Put("http://cdn/song.mp3", "audio/mpeg", []byte("mp3bytes")))
	blob, ct, ok := c.Get("http://cdn/song.mp3")
	require.True(t, ok)
	require.Equal(t, []byte("mp3bytes"), blob)
	require.Equal(t, "audio/mpeg", ct)
	require.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("http://cdn/song.mp3"))
	_, _, ok = c.Get("http://cdn/song.mp3")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())

	require.NoError(t, c.Delete("http://cdn/never-cached.mp3"), "deleting a miss is harmless")
}

func TestFetchCachesOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "audio/mpeg")
		fmt.Fprint(w, "streamed-bytes")
	}))
	defer srv.Close()

	c := newTestCache(t)
	url := srv.URL + "/track.mp3"

	require.NoError(t, c.Fetch(context.Background(), url))
	require.NoError(t, c.Fetch(context.Background(), url), "second fetch skips the network")
	require.Equal(t, 1, hits)

	blob, ct, ok := c.Get(url)
	require.True(t, ok)
	require.Equal(t, "streamed-bytes", string(blob))
	require.Equal(t, "audio/mpeg", ct)
}

func TestFetchErrorLeavesNothingBehind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestCache(t)
	url := srv.URL + "/missing.mp3"
	require.Error(t, c.Fetch(context.Background(), url))
	_, _, ok := c.Get(url)
	require.False(t, ok)
}
