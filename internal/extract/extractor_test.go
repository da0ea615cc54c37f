package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/manchete-hq/manchete-harvester/internal/domain"
)

func longParagraph(word string) string {
	return "<p>" + strings.Repeat(word+" ", 80) + "</p>"
}

func TestRunExtractsOpenGraphMetadata(t *testing.T) {
	t.Parallel()

	page := `<html><head>
	  <meta property="og:title" content="Eleições em São Paulo">
	  <meta property="og:description" content="Resumo da apuração.">
	  <meta property="og:image" content="https://cdn.example.com/capa.jpg">
	</head><body><div class="article-body">` + longParagraph("apuração") + `</div></body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.Metadata.Title != "Eleições em São Paulo" {
		t.Fatalf("Title = %q", ext.Metadata.Title)
	}
	if ext.Metadata.Summary != "Resumo da apuração." {
		t.Fatalf("Summary = %q", ext.Metadata.Summary)
	}
	if ext.Metadata.HeroImage != "https://cdn.example.com/capa.jpg" {
		t.Fatalf("HeroImage = %q", ext.Metadata.HeroImage)
	}
}

func TestRunFallsBackToHeadingTitle(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1>  Título no H1  </h1><div class="article-body">` +
		longParagraph("texto") + `</div></body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.Metadata.Title != "Título no H1" {
		t.Fatalf("Title = %q", ext.Metadata.Title)
	}
}

func TestRunKeepsLongestSelectorMatch(t *testing.T) {
	t.Parallel()

	// the first selector matches but a later one holds the full text
	page := `<html><body>
	  <div class="article-body"><p>só o lide</p></div>
	  <article>` + longParagraph("matéria completa") + `</article>
	</body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(ext.Body, "matéria completa") {
		t.Fatalf("longest match not selected: %q", ext.Body)
	}
	if !strings.HasPrefix(strings.TrimSpace(ext.Body), "<article") {
		t.Fatalf("expected the article fragment, got %q", ext.Body)
	}
}

func TestRunUsesParagraphFallbackForShortBodies(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	  <div class="article-body"><p>curto</p></div>
	  <section><p>primeiro parágrafo fora do contêiner esperado</p>
	  <h2>Subtítulo</h2>
	  <p>segundo parágrafo com o resto da matéria</p></section>
	</body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(ext.Body, "segundo parágrafo") {
		t.Fatalf("paragraph fallback not applied: %q", ext.Body)
	}
	if !strings.Contains(ext.Body, "<h2>Subtítulo</h2>") {
		t.Fatalf("headings missing from fallback body: %q", ext.Body)
	}
}

func TestRunReportsEmptyExtraction(t *testing.T) {
	t.Parallel()

	_, err := Run(NewGenericStrategy(), `<html><body><nav>menu</nav></body></html>`)
	if !errors.Is(err, domain.ErrExtractionEmpty) {
		t.Fatalf("expected ErrExtractionEmpty, got %v", err)
	}
}

func TestRunCapsSummaryLength(t *testing.T) {
	t.Parallel()

	page := `<html><head><meta property="og:description" content="` +
		strings.Repeat("ã", 500) + `"></head><body><div class="article-body">` +
		longParagraph("texto") + `</div></body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len([]rune(ext.Metadata.Summary)); got > maxSummaryChars {
		t.Fatalf("summary is %d runes, cap is %d", got, maxSummaryChars)
	}
	if !strings.HasSuffix(ext.Metadata.Summary, "…") {
		t.Fatalf("truncated summary should end with ellipsis: %q", ext.Metadata.Summary)
	}
}

func TestDetectMediaFindsYouTubeIframe(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1>t</h1>
	  <iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>
	</body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.Media.VideoURL != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("VideoURL = %q", ext.Media.VideoURL)
	}
}

func TestDetectMediaFindsPodcastIframe(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1>t</h1>
	  <iframe src="https://open.spotify.com/embed/episode/abc123"></iframe>
	</body></html>`

	ext, err := Run(NewGenericStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.Media.AudioURL != "https://open.spotify.com/embed/episode/abc123" {
		t.Fatalf("AudioURL = %q", ext.Media.AudioURL)
	}
}

func TestTVHorizontePlayerElementWinsOverScan(t *testing.T) {
	t.Parallel()

	page := `<html><body><h1>t</h1>
	  <player-video data-video-id="abc123xyz"></player-video>
	  <iframe src="https://www.youtube.com/embed/other4567"></iframe>
	  <div class="conteudo-noticia">` + longParagraph("reportagem") + `</div>
	</body></html>`

	ext, err := Run(NewTVHorizonteStrategy(), page)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ext.Media.VideoURL != "https://www.youtube.com/watch?v=abc123xyz" {
		t.Fatalf("VideoURL = %q, want the data attribute id", ext.Media.VideoURL)
	}
}

func TestYouTubeIDRecognizesURLShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://vimeo.com/123456789", ""},
		{"https://example.com/watch?v=nope", ""},
	}
	for _, tc := range cases {
		if got := YouTubeID(tc.url); got != tc.want {
			t.Fatalf("YouTubeID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestStrategyForIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()
	s, err := reg.StrategyFor("TVHorizonte")
	if err != nil {
		t.Fatalf("StrategyFor: %v", err)
	}
	if s.ID() != tvHorizonteStrategyID {
		t.Fatalf("ID = %q", s.ID())
	}
}

func TestStrategyForUnknown(t *testing.T) {
	t.Parallel()

	if _, err := DefaultRegistry().StrategyFor("desconhecido"); err == nil {
		t.Fatalf("expected an error for an unregistered strategy")
	}
}
