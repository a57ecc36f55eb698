package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// SeenItem records one feed item a previous run already handled, so
// re-runs over the same feeds do not re-ingest it.
type SeenItem struct {
	Hash        string    `json:"hash"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Slug        string    `json:"slug,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
	Source      string    `json:"source"`
}

// SeenCache manages processed items in a JSON file
type SeenCache struct {
	filePath string
	ttlHours int
	items    map[string]SeenItem
	mu       sync.RWMutex
}

func NewSeenCache(filePath string, ttlHours int) *SeenCache {
	return &SeenCache{
		filePath: filePath,
		ttlHours: ttlHours,
		items:    make(map[string]SeenItem),
	}
}

// Load loads the existing cache from file, dropping expired entries.
func (sc *SeenCache) Load() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, err := os.Stat(sc.filePath); os.IsNotExist(err) {
		return nil // start with empty cache
	}

	data, err := os.ReadFile(sc.filePath)
	if err != nil {
		return fmt.Errorf("failed to read seen cache: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var items []SeenItem
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to unmarshal seen cache: %w", err)
	}

	cutoffTime := time.Now().Add(-time.Duration(sc.ttlHours) * time.Hour)
	for _, item := range items {
		if item.ProcessedAt.After(cutoffTime) {
			sc.items[item.Hash] = item
		}
	}

	return nil
}

// Save writes the current cache to file.
func (sc *SeenCache) Save() error {
	sc.mu.RLock()
	items := make([]SeenItem, 0, len(sc.items))
	for _, item := range sc.items {
		items = append(items, item)
	}
	sc.mu.RUnlock()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen cache: %w", err)
	}

	if dir := filepath.Dir(sc.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(sc.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write seen cache: %w", err)
	}
	return nil
}

// Hash creates a stable hash for a feed item from its normalized title
// and source domain.
func (sc *SeenCache) Hash(title, link string) string {
	normalizedTitle := strings.ToLower(strings.TrimSpace(title))
	normalizedTitle = strings.Join(strings.Fields(normalizedTitle), " ")

	domain := extractDomain(link)

	h := sha256.New()
	h.Write([]byte(normalizedTitle + "|" + domain))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// IsSeen checks whether the item was processed within the TTL window.
func (sc *SeenCache) IsSeen(hash string) bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	item, exists := sc.items[hash]
	if !exists {
		return false
	}

	cutoffTime := time.Now().Add(-time.Duration(sc.ttlHours) * time.Hour)
	return item.ProcessedAt.After(cutoffTime)
}

// MarkSeen records the item as processed.
func (sc *SeenCache) MarkSeen(hash, title, link, slug, source string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.items[hash] = SeenItem{
		Hash:        hash,
		Title:       title,
		Link:        link,
		Slug:        slug,
		ProcessedAt: time.Now(),
		Source:      source,
	}
}

// extractDomain extracts the host part of a URL.
func extractDomain(url string) string {
	if url == "" {
		return "unknown"
	}

	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")

	parts := strings.Split(url, "/")
	if len(parts) == 0 {
		return "unknown"
	}

	domain := strings.TrimPrefix(parts[0], "www.")
	return strings.ToLower(domain)
}
