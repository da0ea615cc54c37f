package seen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketURLs  = []byte("urls")
	bucketSlugs = []byte("slugs")
)

// Cache is a local bbolt-backed record of URLs and slugs this process
// (and its predecessors on the same host) already published. It sits
// in front of the content store lookups to keep repeated cycles from
// hammering the store; the store stays the source of truth.
type Cache struct {
	db *bolt.DB
}

// Open opens (or creates) the cache file, creating parent directories
// as needed.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open seen cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketURLs, bucketSlugs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init seen cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Has reports whether the URL or the slug was recorded before.
func (c *Cache) Has(url, slug string) (bool, error) {
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		if url != "" && tx.Bucket(bucketURLs).Get([]byte(url)) != nil {
			found = true
			return nil
		}
		if slug != "" && tx.Bucket(bucketSlugs).Get([]byte(slug)) != nil {
			found = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read seen cache: %w", err)
	}
	return found, nil
}

// Add records a published URL and slug. Written through only after a
// successful store create.
func (c *Cache) Add(url, slug string) error {
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	err := c.db.Update(func(tx *bolt.Tx) error {
		if url != "" {
			if err := tx.Bucket(bucketURLs).Put([]byte(url), stamp); err != nil {
				return err
			}
		}
		if slug != "" {
			return tx.Bucket(bucketSlugs).Put([]byte(slug), stamp)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write seen cache: %w", err)
	}
	return nil
}

// Close releases the underlying database file.
func (c *Cache) Close() error {
	return c.db.Close()
}
