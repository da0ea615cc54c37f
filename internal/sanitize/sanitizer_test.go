package sanitize

import (
	"strings"
	"testing"
)

const testBase = "https://diariodocentro.example"

func sanitized(t *testing.T, fragment string) string {
	t.Helper()
	out, err := New().Sanitize(fragment, testBase)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	return out
}

func TestSanitizeWrapsInContentDiv(t *testing.T) {
	t.Parallel()

	out := sanitized(t, "<p>texto da matéria</p>")
	if !strings.HasPrefix(out, `<div class="article-content">`) || !strings.HasSuffix(out, "</div>") {
		t.Fatalf("missing wrapper: %q", out)
	}
	if !strings.Contains(out, "<p>texto da matéria</p>") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestSanitizeDropsScriptsButKeepsStructuredData(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p>
<script>alert(1)</script>
<style>p{}</style>
<script type="application/ld+json">{"@type":"NewsArticle"}</script>`)

	if strings.Contains(out, "alert(1)") || strings.Contains(out, "<style>") {
		t.Fatalf("script or style survived: %q", out)
	}
	if !strings.Contains(out, "NewsArticle") {
		t.Fatalf("ld+json block was dropped: %q", out)
	}
}

func TestSanitizeDropsBoilerplateByClassAndID(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p>
<div class="box-Publicidade"><p>anúncio</p></div>
<ul id="menu-principal"><li>Home</li></ul>
<aside class="materias-relacionadas"><a href="/x">outra</a></aside>`)

	for _, gone := range []string{"anúncio", "Home", "outra"} {
		if strings.Contains(out, gone) {
			t.Fatalf("boilerplate %q survived: %q", gone, out)
		}
	}
	if !strings.Contains(out, "texto") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestSanitizeDropsBoilerplatePhrases(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>primeiro parágrafo da matéria</p>
<p>Compartilhar no Facebook</p>
<span>Continua após a publicidade</span>
<p>segundo parágrafo da matéria</p>`)

	if strings.Contains(out, "Facebook") || strings.Contains(out, "publicidade") {
		t.Fatalf("phrase boilerplate survived: %q", out)
	}
	if !strings.Contains(out, "primeiro parágrafo") || !strings.Contains(out, "segundo parágrafo") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestSanitizeSparesPhraseNodesCarryingMedia(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<div>Publicidade<img src="https://cdn.example.com/foto.jpg"></div>`)
	if !strings.Contains(out, "foto.jpg") {
		t.Fatalf("media node removed by phrase rule: %q", out)
	}
}

func TestSanitizeSparesLongParagraphsMentioningPhrases(t *testing.T) {
	t.Parallel()

	long := "<p>" + strings.Repeat("a ", 60) + "leia mais sobre o assunto na edição impressa</p>"
	out := sanitized(t, long)
	if !strings.Contains(out, "edição impressa") {
		t.Fatalf("long paragraph removed by phrase rule: %q", out)
	}
}

func TestSanitizeAbsolutizesImageURLs(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p>
<img src="/img/foo.jpg">
<img src="//cdn.example.com/bar.jpg">
<img src="https://outro.example.com/baz.jpg">`)

	if !strings.Contains(out, `src="https://diariodocentro.example/img/foo.jpg"`) {
		t.Fatalf("root-relative src not absolutized: %q", out)
	}
	if !strings.Contains(out, `src="https://cdn.example.com/bar.jpg"`) {
		t.Fatalf("protocol-relative src not absolutized: %q", out)
	}
	if !strings.Contains(out, `src="https://outro.example.com/baz.jpg"`) {
		t.Fatalf("absolute src was rewritten: %q", out)
	}
}

func TestSanitizePromotesLazyDataSrc(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p><img data-src="/img/lazy.jpg">`)
	if !strings.Contains(out, `src="https://diariodocentro.example/img/lazy.jpg"`) {
		t.Fatalf("data-src not promoted: %q", out)
	}
}

func TestSanitizeAbsolutizesSrcset(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p><img src="/a.jpg" srcset="/a-480.jpg 480w, /a-800.jpg 800w">`)
	if !strings.Contains(out, "https://diariodocentro.example/a-480.jpg 480w") ||
		!strings.Contains(out, "https://diariodocentro.example/a-800.jpg 800w") {
		t.Fatalf("srcset not absolutized: %q", out)
	}
}

func TestSanitizeReplacesBareYouTubeLinks(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto da matéria</p>
<p><a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">https://www.youtube.com/watch?v=dQw4w9WgXcQ</a></p>`)

	if !strings.Contains(out, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`) {
		t.Fatalf("bare link not converted to embed: %q", out)
	}
}

func TestSanitizeKeepsProseLinks(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>Assista <a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">na íntegra</a> o pronunciamento.</p>`)
	if !strings.Contains(out, `<a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">na íntegra</a>`) {
		t.Fatalf("prose link was rewritten: %q", out)
	}
	if strings.Contains(out, "<iframe") {
		t.Fatalf("prose link converted to embed: %q", out)
	}
}

func TestSanitizeClassifiesIframesByHost(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p>
<iframe src="https://www.youtube.com/embed/abc123def"></iframe>
<iframe src="https://open.spotify.com/embed/episode/xyz"></iframe>
<iframe src="https://maps.example.com/embed"></iframe>`)

	for _, want := range []string{
		`class="embed-video" height="360"`,
		`class="embed-audio" height="152"`,
		`class="embed-other" height="480"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestSanitizeDropsImagelessFigures(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p>
<figure><figcaption>legenda órfã</figcaption></figure>
<figure><img src="https://cdn.example.com/f.jpg"><figcaption>legenda real</figcaption></figure>`)

	if strings.Contains(out, "legenda órfã") {
		t.Fatalf("imageless figure survived: %q", out)
	}
	if !strings.Contains(out, "legenda real") {
		t.Fatalf("figure with image removed: %q", out)
	}
}

func TestSanitizePrunesEmptyNodesRecursively(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p><div><div><span>  </span></div></div>`)
	if strings.Contains(out, "<span") || strings.Count(out, "<div") > 1 {
		t.Fatalf("empty nodes survived: %q", out)
	}
}

func TestSanitizeKeepsEmptyNodesWithMedia(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>texto</p><div><img src="https://cdn.example.com/f.jpg"></div>`)
	if !strings.Contains(out, "f.jpg") {
		t.Fatalf("media-only node pruned: %q", out)
	}
}

func TestSanitizeCollapsesBreakRuns(t *testing.T) {
	t.Parallel()

	out := sanitized(t, `<p>linha um<br><br><br>linha dois</p>`)
	if got := strings.Count(out, "<br/>") + strings.Count(out, "<br>"); got != 1 {
		t.Fatalf("expected a single br, got %d in %q", got, out)
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	t.Parallel()

	first := sanitized(t, `<p>texto</p><img src="/img/foo.jpg"><br><br>`)
	second := sanitized(t, strings.TrimSuffix(strings.TrimPrefix(first, `<div class="article-content">`), "</div>"))
	if first != second {
		t.Fatalf("second pass changed output:\nfirst:  %q\nsecond: %q", first, second)
	}
}
