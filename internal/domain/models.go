package domain

import "time"

// Domain contains the core data model shared by the pipeline stages.

// CandidateItem is one feed entry not yet verified as publishable. It
// lives for a single pipeline pass.
type CandidateItem struct {
	URL     string
	Title   string
	PubDate string // raw feed date string, parsed only at publish time
}

// Metadata holds the page-level metadata pulled from a portal article.
type Metadata struct {
	Title     string
	Summary   string
	HeroImage string
}

// Article is the extracted, sanitized article produced by one pipeline
// pass, ready for the duplicate check and the store create call.
type Article struct {
	Title       string
	Summary     string
	Body        string // sanitized HTML fragment
	HeroImage   string
	VideoURL    string
	AudioURL    string
	Embed       string // raw provider embed markup, when the portal supplies one
	Source      string
	Category    string
	OriginalURL string
}

// PublishedRecord mirrors the record the content store persists. The
// pipeline only ever creates these, never updates or deletes.
type PublishedRecord struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	HeroImage   string    `json:"heroImage,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	AudioURL    string    `json:"audioUrl,omitempty"`
	Embed       string    `json:"embed,omitempty"`
	OriginalURL string    `json:"originalUrl"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	Status      string    `json:"status"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"publishedAt"`
}

// StatusPublished is the status every created record carries.
const StatusPublished = "published"
