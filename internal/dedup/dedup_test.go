package dedup

import (
	"context"
	"errors"
	"testing"
)

// fakeQuerier answers filtered counts from a fixed field/value table.
type fakeQuerier struct {
	counts map[string]int
	err    error
	calls  int
}

func (f *fakeQuerier) CountByField(ctx context.Context, field, value string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[field+"="+value], nil
}

type fakeCache struct {
	hit bool
	err error
}

func (f *fakeCache) Has(url, slug string) (bool, error) { return f.hit, f.err }

func TestCheckFlagsKnownURL(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{counts: map[string]int{
		"originalUrl=https://example.com/a": 1,
	}}
	d := New(q, nil, nil)

	if got := d.Check(context.Background(), "https://example.com/a", "slug-a"); got != StatusDuplicate {
		t.Fatalf("Check = %q, want duplicate", got)
	}
}

func TestCheckFlagsSlugCollision(t *testing.T) {
	t.Parallel()

	// a different URL whose title normalizes to an existing slug
	q := &fakeQuerier{counts: map[string]int{
		"slug=eleicoes-2026": 1,
	}}
	d := New(q, nil, nil)

	if got := d.Check(context.Background(), "https://example.com/b", "eleicoes-2026"); got != StatusDuplicate {
		t.Fatalf("Check = %q, want duplicate via slug", got)
	}
}

func TestCheckPassesUnknownItem(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{counts: map[string]int{}}
	d := New(q, nil, nil)

	if got := d.Check(context.Background(), "https://example.com/c", "slug-c"); got != StatusNew {
		t.Fatalf("Check = %q, want new", got)
	}
	if q.calls != 2 {
		t.Fatalf("expected both URL and slug probes, got %d calls", q.calls)
	}
}

func TestCheckTreatsStoreFailureAsNew(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{err: errors.New("store unreachable")}
	d := New(q, nil, nil)

	if got := d.Check(context.Background(), "https://example.com/d", "slug-d"); got != StatusNew {
		t.Fatalf("Check = %q, want new on store failure", got)
	}
	if q.calls != 1 {
		t.Fatalf("slug probe should be skipped after a failed URL probe, got %d calls", q.calls)
	}
}

func TestCheckShortCircuitsOnCacheHit(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{counts: map[string]int{}}
	d := New(q, &fakeCache{hit: true}, nil)

	if got := d.Check(context.Background(), "https://example.com/e", "slug-e"); got != StatusDuplicate {
		t.Fatalf("Check = %q, want duplicate from cache", got)
	}
	if q.calls != 0 {
		t.Fatalf("cache hit should skip store probes, got %d calls", q.calls)
	}
}

func TestCheckIgnoresCacheErrors(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{counts: map[string]int{}}
	d := New(q, &fakeCache{err: errors.New("cache corrupt")}, nil)

	if got := d.Check(context.Background(), "https://example.com/f", "slug-f"); got != StatusNew {
		t.Fatalf("Check = %q, want new when cache errors", got)
	}
	if q.calls != 2 {
		t.Fatalf("store probes should still run, got %d calls", q.calls)
	}
}
