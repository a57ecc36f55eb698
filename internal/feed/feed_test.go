package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/globaltravelreport/ingest/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func rssFeed(items ...string) string {
	body := ""
	for _, it := range items {
		body += it
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test Feed</title><link>https://example.com</link>` + body + `</channel></rss>`
}

func rssItem(title, link, guid string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><guid>%s</guid><description>Summary of %s</description><pubDate>Mon, 02 Jan 2026 15:04:05 GMT</pubDate></item>`, title, link, guid, title)
}

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	yaml := `travel:
  - https://example.com/travel.rss
  - https://other.com/feed
cruise:
  - https://ships.com/rss
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Travel) != 2 || len(cfg.Cruise) != 1 {
		t.Errorf("travel=%d cruise=%d", len(cfg.Travel), len(cfg.Cruise))
	}
	if cfg.Cruise[0] != "https://ships.com/rss" {
		t.Errorf("cruise[0] = %q", cfg.Cruise[0])
	}
}

func TestLoadFeeds_MissingFile(t *testing.T) {
	if _, err := LoadFeeds(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestFetchAll_CruiseFirstAndCategorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/travel.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("Hidden Beaches", "https://example.com/beaches", "g1")))
	})
	mux.HandleFunc("/cruise.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("New Ship Launches", "https://example.com/ship", "g2")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewReader(5 * time.Second)
	items := r.FetchAll(context.Background(), &FeedsConfig{
		Travel: []string{srv.URL + "/travel.rss"},
		Cruise: []string{srv.URL + "/cruise.rss"},
	})

	if len(items) != 2 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Category != SourceCruise {
		t.Errorf("cruise items should come first, got category %q", items[0].Category)
	}
	if items[1].Category != SourceTravel {
		t.Errorf("items[1].Category = %q", items[1].Category)
	}
	if items[0].Title != "New Ship Launches" || items[0].GUID != "g2" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[0].Published.IsZero() {
		t.Error("pubDate should be parsed")
	}
}

func TestFetchAll_BrokenFeedSkipped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("Only Story", "https://example.com/only", "g1")))
	})
	mux.HandleFunc("/broken.rss", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewReader(5 * time.Second)
	items := r.FetchAll(context.Background(), &FeedsConfig{
		Travel: []string{srv.URL + "/broken.rss", srv.URL + "/good.rss"},
	})

	if len(items) != 1 || items[0].Title != "Only Story" {
		t.Errorf("broken feed should be skipped, got %+v", items)
	}
}

func TestFetchAll_DedupesByLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("Same Story", "https://example.com/same", "g1")))
	})
	mux.HandleFunc("/b.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("Same Story Syndicated", "https://example.com/same", "g2")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewReader(5 * time.Second)
	items := r.FetchAll(context.Background(), &FeedsConfig{
		Travel: []string{srv.URL + "/a.rss", srv.URL + "/b.rss"},
	})

	if len(items) != 1 {
		t.Errorf("duplicate links should collapse to one item, got %d", len(items))
	}
}

func TestFetchAll_SkipsItemsWithoutTitleOrLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed.rss", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(
			`<item><title></title><link>https://example.com/untitled</link></item>`,
			rssItem("Titled", "https://example.com/titled", "g1"),
		))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewReader(5 * time.Second)
	items := r.FetchAll(context.Background(), &FeedsConfig{
		Travel: []string{srv.URL + "/feed.rss"},
	})

	if len(items) != 1 || items[0].Title != "Titled" {
		t.Errorf("untitled items should be dropped, got %+v", items)
	}
}
