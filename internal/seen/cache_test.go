package seen

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "data", "seen.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)

	hit, err := c.Has("https://example.com/a", "slug-a")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if hit {
		t.Fatalf("empty cache reported a hit")
	}

	if err := c.Add("https://example.com/a", "slug-a"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	hit, err = c.Has("https://example.com/a", "slug-a")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !hit {
		t.Fatalf("recorded entry not found")
	}
}

func TestCacheMatchesURLAndSlugIndependently(t *testing.T) {
	t.Parallel()

	c := openTestCache(t)
	if err := c.Add("https://example.com/a", "eleicoes-2026"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// same slug from a different URL still counts as seen
	hit, err := c.Has("https://example.com/b", "eleicoes-2026")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !hit {
		t.Fatalf("slug match missed")
	}

	// same URL with a different slug counts too
	hit, err = c.Has("https://example.com/a", "outro-slug")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !hit {
		t.Fatalf("url match missed")
	}
}

func TestCacheCreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "seen.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open with missing parents: %v", err)
	}
	c.Close()
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seen.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Add("https://example.com/persisted", "persistido"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	hit, err := c.Has("https://example.com/persisted", "")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !hit {
		t.Fatalf("entry lost across reopen")
	}
}
