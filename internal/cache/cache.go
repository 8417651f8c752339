// Package cache is an opaque blob store keyed by source URL, used for
// offline playback of already-fetched audio.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketAudio = []byte("audio")
	bucketMeta  = []byte("meta")
)

type meta struct {
	ContentType string    `json:"contentType"`
	CachedAt    time.Time `json:"cachedAt"`
}

type Cache struct {
	db   *bolt.DB
	http *http.Client
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAudio); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache buckets: %w", err)
	}
	return &Cache{db: db, http: &http.Client{Timeout: 30 * time.Second}}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) Put(url, contentType string, blob []byte) error {
	m, err := json.Marshal(meta{ContentType: contentType, CachedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketAudio).Put([]byte(url), blob); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put([]byte(url), m)
	})
}

// Get returns the cached blob and its content type, or ok=false on a
// miss.
func (c *Cache) Get(url string) ([]byte, string, bool) {
	var blob []byte
	var ct string
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAudio).Get([]byte(url))
		if v == nil {
			return nil
		}
		blob = make([]byte, len(v))
		copy(blob, v)
		if m := tx.Bucket(bucketMeta).Get([]byte(url)); m != nil {
			var md meta
			if err := json.Unmarshal(m, &md); err == nil {
				ct = md.ContentType
			}
		}
		return nil
	})
	if err != nil || blob == nil {
		return nil, "", false
	}
	return blob, ct, true
}

func (c *Cache) Delete(url string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketAudio).Delete([]byte(url)); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Delete([]byte(url))
	})
}

func (c *Cache) Len() int {
	n := 0
	_ = c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketAudio).Stats().KeyN
		return nil
	})
	return n
}

// Fetch downloads the URL into the cache. Already-cached URLs skip
// the network entirely, so redundant download requests are cheap.
func (c *Cache) Fetch(ctx context.Context, url string) error {
	if _, _, ok := c.Get(url); ok {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch %s: read: %w", url, err)
	}
	if err := c.Put(url, resp.Header.Get("Content-Type"), blob); err != nil {
		return err
	}
	log.Info().Str("module", "cache").Str("url", url).Int("bytes", len(blob)).Msg("cached")
	return nil
}
