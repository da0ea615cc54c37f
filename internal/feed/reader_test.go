package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
	"github.com/manchete-hq/manchete-harvester/pkg/httpclient"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Diário do Centro</title>
    <item>
      <title>Prefeitura anuncia obras</title>
      <link>https://diariodocentro.example/noticias/obras</link>
      <pubDate>Mon, 24 Aug 2026 10:00:00 -0300</pubDate>
    </item>
    <item>
      <title>Chuva alaga ruas do centro</title>
      <link>https://diariodocentro.example/noticias/chuva</link>
    </item>
    <item>
      <title>Festival de inverno começa sexta</title>
      <link>https://diariodocentro.example/noticias/festival</link>
      <pubDate>Sun, 23 Aug 2026 09:00:00 -0300</pubDate>
    </item>
  </channel>
</rss>`

func serveFeed(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestReader() *Reader {
	return NewReader(httpclient.NewRestyClient(5*time.Second), nil)
}

func TestReadReturnsItemsInFeedOrder(t *testing.T) {
	t.Parallel()

	srv := serveFeed(t, http.StatusOK, sampleRSS)

	items, err := newTestReader().Read(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].URL != "https://diariodocentro.example/noticias/obras" {
		t.Fatalf("first item out of order: %q", items[0].URL)
	}
	if items[0].PubDate == "" {
		t.Fatalf("pubDate dropped from first item")
	}
}

func TestReadKeepsItemsWithoutPubDate(t *testing.T) {
	t.Parallel()

	srv := serveFeed(t, http.StatusOK, sampleRSS)

	items, err := newTestReader().Read(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if items[1].PubDate != "" {
		t.Fatalf("second item should have no pubDate, got %q", items[1].PubDate)
	}
	if items[1].Title != "Chuva alaga ruas do centro" {
		t.Fatalf("second item title = %q", items[1].Title)
	}
}

func TestReadCapsItemCount(t *testing.T) {
	t.Parallel()

	srv := serveFeed(t, http.StatusOK, sampleRSS)

	items, err := newTestReader().Read(context.Background(), srv.URL, 2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want cap of 2", len(items))
	}
}

func TestReadFallsBackOnMalformedXML(t *testing.T) {
	t.Parallel()

	// unclosed channel tag plus a raw ampersand, rejected by strict parsers
	broken := `<rss><channel>
	<item>
	  <title><![CDATA[Festa & forró no interior]]></title>
	  <link>https://tribunaweb.example/festa</link>
	  <pubDate>Mon, 24 Aug 2026 10:00:00 -0300</pubDate>
	</item>
	</rss>`
	srv := serveFeed(t, http.StatusOK, broken)

	items, err := newTestReader().Read(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 from tolerant parse", len(items))
	}
	if items[0].Title != "Festa & forró no interior" {
		t.Fatalf("CDATA title mangled: %q", items[0].Title)
	}
	if items[0].URL != "https://tribunaweb.example/festa" {
		t.Fatalf("link = %q", items[0].URL)
	}
}

func TestReadReportsFeedUnavailableOnStatusError(t *testing.T) {
	t.Parallel()

	srv := serveFeed(t, http.StatusServiceUnavailable, "down")

	_, err := newTestReader().Read(context.Background(), srv.URL, 0)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestReadReportsFeedUnavailableOnTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestReader().Read(context.Background(), srv.URL, 0)
	if !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable, got %v", err)
	}
}

func TestParseTolerantSkipsItemsWithoutLink(t *testing.T) {
	t.Parallel()

	items := parseTolerant(`<item><title>sem link</title></item>
<item><title>com link</title><link>https://example.com/a</link></item>`)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].URL != "https://example.com/a" {
		t.Fatalf("URL = %q", items[0].URL)
	}
}
