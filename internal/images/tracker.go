package images

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ImageRecord tracks one image's attribution and consumption.
// UsedInStories only grows; a story once attributed is never silently
// removed (a corpus-wide reassignment may supersede it).
type ImageRecord struct {
	URL           string       `json:"url"`
	Photographer  Photographer `json:"photographer"`
	Category      Category     `json:"category"`
	UsedInStories []string     `json:"usedInStories"`
}

// TrackerData is the durable image-usage state, read and written
// wholesale. UsedImageURLs is the reservation set consulted during
// selection; it is cleared per pool on exhaustion, unlike UsedInStories.
type TrackerData struct {
	Images              map[string]*ImageRecord `json:"images"`
	PhotographerToImage map[string]string       `json:"photographerToImage"`
	UsedImageURLs       []string                `json:"usedImageUrls"`
}

// NewTrackerData returns a tracker seeded from the curated pools.
func NewTrackerData() *TrackerData {
	t := &TrackerData{
		Images:              make(map[string]*ImageRecord),
		PhotographerToImage: make(map[string]string),
		UsedImageURLs:       []string{},
	}
	for category, pool := range categoryPools {
		for _, entry := range pool {
			t.PhotographerToImage[entry.Photographer.Name] = entry.ImageURL
			t.Images[entry.ImageURL] = &ImageRecord{
				URL:           entry.ImageURL,
				Photographer:  entry.Photographer,
				Category:      category,
				UsedInStories: []string{},
			}
		}
	}
	return t
}

func (t *TrackerData) isUsed(imageURL string) bool {
	for _, u := range t.UsedImageURLs {
		if u == imageURL {
			return true
		}
	}
	return false
}

func (t *TrackerData) markUsed(imageURL string) {
	if !t.isUsed(imageURL) {
		t.UsedImageURLs = append(t.UsedImageURLs, imageURL)
	}
}

// releasePool drops a pool's URLs from the reservation set so rotation
// can start over once every member has been used.
func (t *TrackerData) releasePool(pool []PoolEntry) {
	inPool := make(map[string]bool, len(pool))
	for _, entry := range pool {
		inPool[entry.ImageURL] = true
	}
	kept := t.UsedImageURLs[:0]
	for _, u := range t.UsedImageURLs {
		if !inPool[u] {
			kept = append(kept, u)
		}
	}
	t.UsedImageURLs = kept
}

func (t *TrackerData) recordAssignment(entry PoolEntry, category Category, identityKey string) {
	rec, ok := t.Images[entry.ImageURL]
	if !ok {
		rec = &ImageRecord{
			URL:          entry.ImageURL,
			Photographer: entry.Photographer,
			Category:     category,
		}
		t.Images[entry.ImageURL] = rec
	}
	for _, slug := range rec.UsedInStories {
		if slug == identityKey {
			t.markUsed(entry.ImageURL)
			return
		}
	}
	rec.UsedInStories = append(rec.UsedInStories, identityKey)
	t.PhotographerToImage[entry.Photographer.Name] = entry.ImageURL
	t.markUsed(entry.ImageURL)
}

// Store loads and flushes tracker state. The resolver flushes on every
// mutation so a crash never loses an assignment.
type Store interface {
	Load() (*TrackerData, error)
	Save(*TrackerData) error
}

// FileStore persists the tracker as one JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Load() (*TrackerData, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := os.Stat(fs.path); os.IsNotExist(err) {
		return NewTrackerData(), nil
	}

	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker file: %w", err)
	}
	if len(data) == 0 {
		return NewTrackerData(), nil
	}

	var tracker TrackerData
	if err := json.Unmarshal(data, &tracker); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tracker: %w", err)
	}
	if tracker.Images == nil {
		tracker.Images = make(map[string]*ImageRecord)
	}
	if tracker.PhotographerToImage == nil {
		tracker.PhotographerToImage = make(map[string]string)
	}
	return &tracker, nil
}

func (fs *FileStore) Save(tracker *TrackerData) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(tracker, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracker: %w", err)
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create tracker dir: %w", err)
		}
	}
	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracker file: %w", err)
	}
	return nil
}

// MemoryStore keeps tracker state in memory. For tests.
type MemoryStore struct {
	tracker *TrackerData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Load() (*TrackerData, error) {
	if ms.tracker == nil {
		return NewTrackerData(), nil
	}
	return ms.tracker, nil
}

func (ms *MemoryStore) Save(tracker *TrackerData) error {
	ms.tracker = tracker
	return nil
}
