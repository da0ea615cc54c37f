package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultPollInterval = 5 * time.Minute
	defaultRequestDelay = 2 * time.Second
	defaultItemCap      = 10
	defaultSourcesFile  = "config/sources.yaml"
	defaultSeenCache    = "data/seen.db"
)

// defaultFilterKeywords is the editorial policy fallback: titles
// containing any of these never reach the store. Overridable per
// deployment via HARVESTER_FILTER_KEYWORDS.
var defaultFilterKeywords = []string{
	"promoção", "desconto", "oferta", "cupom", "review",
	"vale a pena", "preço", "barato",
}

// Config holds everything the process needs, resolved at startup.
type Config struct {
	Store          StoreConfig
	PollInterval   time.Duration
	RequestDelay   time.Duration
	ItemCap        int
	FilterKeywords []string
	SeenCachePath  string
	SourcesFile    string
	EventsFile     string
	LogLevel       string
	Sources        []Source
}

// StoreConfig describes the content store API and its login credential.
type StoreConfig struct {
	URL        string
	Identifier string
	Password   string
	Author     string
}

// Source is the static per-portal configuration. Immutable after load.
type Source struct {
	Name          string `yaml:"name"`
	Strategy      string `yaml:"strategy"`
	FeedURL       string `yaml:"feed_url"`
	Category      string `yaml:"category"`
	BaseURL       string `yaml:"base_url"`
	ItemCap       int    `yaml:"item_cap"`
	DelaySeconds  int    `yaml:"delay_seconds"`
	UserAgent     string `yaml:"user_agent"`
	FeaturedFirst bool   `yaml:"featured_first"`
}

// Delay returns the per-source fetch delay, falling back to def.
func (s Source) Delay(def time.Duration) time.Duration {
	if s.DelaySeconds > 0 {
		return time.Duration(s.DelaySeconds) * time.Second
	}
	return def
}

// Cap returns the per-source item cap, falling back to def.
func (s Source) Cap(def int) int {
	if s.ItemCap > 0 {
		return s.ItemCap
	}
	return def
}

// sourcesFile is the on-disk shape of the source list.
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// Load resolves configuration from the environment (HARVESTER_ prefix)
// and the sources YAML file. A missing store URL or credential is the
// only fatal condition.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("harvester")
	v.AutomaticEnv()

	v.SetDefault("poll_interval_minutes", int(defaultPollInterval.Minutes()))
	v.SetDefault("request_delay_seconds", int(defaultRequestDelay.Seconds()))
	v.SetDefault("item_cap", defaultItemCap)
	v.SetDefault("sources_file", defaultSourcesFile)
	v.SetDefault("seen_cache_path", defaultSeenCache)
	v.SetDefault("log_level", "info")
	v.SetDefault("store_author", "redacao")

	cfg := Config{
		Store: StoreConfig{
			URL:        strings.TrimSpace(v.GetString("store_url")),
			Identifier: strings.TrimSpace(v.GetString("store_identifier")),
			Password:   v.GetString("store_password"),
			Author:     strings.TrimSpace(v.GetString("store_author")),
		},
		PollInterval:  time.Duration(v.GetInt("poll_interval_minutes")) * time.Minute,
		RequestDelay:  time.Duration(v.GetInt("request_delay_seconds")) * time.Second,
		ItemCap:       v.GetInt("item_cap"),
		SeenCachePath: strings.TrimSpace(v.GetString("seen_cache_path")),
		SourcesFile:   strings.TrimSpace(v.GetString("sources_file")),
		EventsFile:    strings.TrimSpace(v.GetString("events_file")),
		LogLevel:      v.GetString("log_level"),
	}

	cfg.FilterKeywords = splitKeywords(v.GetString("filter_keywords"))
	if len(cfg.FilterKeywords) == 0 {
		cfg.FilterKeywords = defaultFilterKeywords
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	sources, err := LoadSources(cfg.SourcesFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Sources = sources

	return cfg, nil
}

// validate enforces the fatal startup conditions.
func (c Config) validate() error {
	if c.Store.URL == "" {
		return errors.New("store url is required (HARVESTER_STORE_URL)")
	}
	if c.Store.Identifier == "" || c.Store.Password == "" {
		return errors.New("store credentials are required (HARVESTER_STORE_IDENTIFIER, HARVESTER_STORE_PASSWORD)")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

// LoadSources loads and validates the source list from a YAML file.
// Environment references in the file are expanded before decoding.
func LoadSources(path string) ([]Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(raw)))

	var file sourcesFile
	if err := yaml.Unmarshal(expanded, &file); err != nil {
		return nil, fmt.Errorf("decode sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	seen := make(map[string]struct{}, len(file.Sources))
	out := make([]Source, 0, len(file.Sources))
	for i := range file.Sources {
		src := sanitizeSource(file.Sources[i])
		if err := validateSource(src); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, dup := seen[src.Name]; dup {
			return nil, fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = struct{}{}
		out = append(out, src)
	}

	return out, nil
}

// sanitizeSource trims and normalizes one source entry.
func sanitizeSource(src Source) Source {
	src.Name = strings.TrimSpace(src.Name)
	src.Strategy = strings.ToLower(strings.TrimSpace(src.Strategy))
	src.FeedURL = strings.TrimSpace(src.FeedURL)
	src.Category = strings.TrimSpace(src.Category)
	src.BaseURL = strings.TrimRight(strings.TrimSpace(src.BaseURL), "/")
	src.UserAgent = strings.TrimSpace(src.UserAgent)
	if src.Strategy == "" {
		src.Strategy = src.Name
	}
	return src
}

// validateSource checks the required per-source fields.
func validateSource(src Source) error {
	if src.Name == "" {
		return errors.New("name is required")
	}
	if src.FeedURL == "" {
		return fmt.Errorf("feed_url is required for source %q", src.Name)
	}
	if src.Category == "" {
		return fmt.Errorf("category is required for source %q", src.Name)
	}
	if src.BaseURL == "" {
		return fmt.Errorf("base_url is required for source %q", src.Name)
	}
	return nil
}

// splitKeywords parses the comma-separated keyword override.
func splitKeywords(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if kw := strings.TrimSpace(part); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
