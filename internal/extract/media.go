package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var youtubeIDRe = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([A-Za-z0-9_\-]{6,})`)

// YouTubeID pulls the video identifier out of any of the common
// YouTube URL shapes. Empty when the URL is not a YouTube reference.
func YouTubeID(rawURL string) string {
	m := youtubeIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// YouTubeWatchURL builds the canonical watch URL for a video id.
func YouTubeWatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// audioHosts are the podcast/audio providers recognized in iframes.
var audioHosts = []string{"open.spotify.com", "soundcloud.com", "anchor.fm", "omny.fm"}

// detectMedia scans the document for embedded players: a YouTube
// iframe or watch link yields a canonical video URL, known podcast
// iframes yield an audio URL.
func detectMedia(doc *goquery.Document) Media {
	var media Media

	doc.Find("iframe[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		if media.VideoURL == "" {
			if id := YouTubeID(src); id != "" {
				media.VideoURL = YouTubeWatchURL(id)
			}
		}
		if media.AudioURL == "" && isAudioHost(src) {
			media.AudioURL = src
		}
		return media.VideoURL == "" || media.AudioURL == ""
	})

	if media.VideoURL == "" {
		doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			href, _ := sel.Attr("href")
			if id := YouTubeID(href); id != "" {
				media.VideoURL = YouTubeWatchURL(id)
				return false
			}
			return true
		})
	}

	return media
}

// isAudioHost reports whether the URL points at a known audio provider.
func isAudioHost(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, host := range audioHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}
