package feed

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/globaltravelreport/ingest/internal/logger"
)

// Category labels carried on candidate items so the pipeline can enforce
// the cruise quota. These are feed-list labels, not story categories.
const (
	SourceTravel = "travel"
	SourceCruise = "cruise"
)

// FeedsConfig is the YAML config structure
// travel:
//   - https://...
// cruise:
//   - https://...
type FeedsConfig struct {
	Travel []string `yaml:"travel"`
	Cruise []string `yaml:"cruise"`
}

// Item is a candidate article pulled from a feed. Transient: consumed by
// the pipeline and never persisted.
type Item struct {
	GUID      string
	Title     string
	Link      string
	Summary   string
	Published time.Time
	Source    string // feed URL
	Category  string // SourceTravel or SourceCruise
}

// LoadFeeds reads the categorized feed lists from a YAML file.
func LoadFeeds(path string) (*FeedsConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Reader struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewReader(timeout time.Duration) *Reader {
	return &Reader{
		parser:  gofeed.NewParser(),
		timeout: timeout,
	}
}

// FetchAll downloads and parses every configured feed, cruise lists first
// so quota items are available even when travel feeds are slow or broken.
// A failing feed is logged and skipped, never fatal.
func (r *Reader) FetchAll(ctx context.Context, cfg *FeedsConfig) []Item {
	var items []Item
	items = append(items, r.fetchList(ctx, cfg.Cruise, SourceCruise)...)
	items = append(items, r.fetchList(ctx, cfg.Travel, SourceTravel)...)
	return dedupeByLink(items)
}

func (r *Reader) fetchList(ctx context.Context, urls []string, category string) []Item {
	var items []Item
	successCount := 0

	for _, url := range urls {
		fetched, err := r.fetchOne(ctx, url, category)
		if err != nil {
			logger.Warn("failed to parse feed", "url", url, "error", err)
			continue // log error, but don't stop
		}
		items = append(items, fetched...)
		successCount++
		logger.Debug("loaded feed", "url", url, "items", len(fetched))
	}

	logger.Info("fetched feeds", "category", category, "ok", successCount, "total", len(urls), "items", len(items))
	return items
}

func (r *Reader) fetchOne(ctx context.Context, url, category string) ([]Item, error) {
	fctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	parsed, err := r.parser.ParseURLWithContext(url, fctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil || strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Link) == "" {
			continue
		}
		items = append(items, Item{
			GUID:      pickGUID(it),
			Title:     strings.TrimSpace(it.Title),
			Link:      strings.TrimSpace(it.Link),
			Summary:   strings.TrimSpace(it.Description),
			Published: pickPublished(it),
			Source:    url,
			Category:  category,
		})
	}
	return items, nil
}

// pickGUID prefers the feed's own GUID, falls back to the link, and as a
// last resort mints a UUID so every candidate stays addressable.
func pickGUID(it *gofeed.Item) string {
	if g := strings.TrimSpace(it.GUID); g != "" {
		return g
	}
	if l := strings.TrimSpace(it.Link); l != "" {
		return l
	}
	return uuid.NewString()
}

func pickPublished(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	return time.Time{}
}

func dedupeByLink(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.Link] {
			continue
		}
		seen[it.Link] = true
		out = append(out, it)
	}
	return out
}
