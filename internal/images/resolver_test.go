package images

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/globaltravelreport/ingest/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"Cruise", CategoryCruise},
		{"luxury cruise lines", CategoryCruise},
		{"Food", CategoryFoodWine},
		{"Wine Tours", CategoryFoodWine},
		{"Adventure", CategoryAdventure},
		{"Culture", CategoryCulture},
		{"General", CategoryTravel},
		{"", CategoryTravel},
		{"Destination", CategoryTravel},
	}

	for _, tt := range tests {
		if got := Classify(tt.raw); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAssign_UniquenessUntilExhaustion(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	pool := PoolFor(CategoryCruise)

	seen := map[string]bool{}
	for i := 0; i < len(pool); i++ {
		attr, err := r.Assign(fmt.Sprintf("story-%d", i), "Cruise")
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		if seen[attr.ImageURL] {
			t.Fatalf("image %s assigned twice before pool exhaustion", attr.ImageURL)
		}
		seen[attr.ImageURL] = true
	}

	if len(seen) != len(pool) {
		t.Errorf("expected all %d pool images used, got %d", len(pool), len(seen))
	}
}

func TestAssign_FairRotationAfterExhaustion(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	pool := PoolFor(CategoryCruise) // pool of 3

	counts := map[string]int{}
	for i := 0; i < 2*len(pool); i++ {
		attr, err := r.Assign(fmt.Sprintf("story-%d", i), "Cruise")
		if err != nil {
			t.Fatalf("assign %d: %v", i, err)
		}
		counts[attr.ImageURL]++
	}

	for url, n := range counts {
		if n != 2 {
			t.Errorf("image %s assigned %d times, want exactly 2 (fair rotation)", url, n)
		}
	}
}

func TestAssign_PhotographerMatchesImage(t *testing.T) {
	r := NewResolver(NewMemoryStore())

	attr, err := r.Assign("some-story", "Cruise")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	found := false
	for _, entry := range PoolFor(CategoryCruise) {
		if entry.ImageURL == attr.ImageURL {
			found = true
			if entry.Photographer.Name != attr.Photographer.Name {
				t.Errorf("image %s credited to %q, pool says %q", attr.ImageURL, attr.Photographer.Name, entry.Photographer.Name)
			}
		}
	}
	if !found {
		t.Errorf("assigned image %s not in the Cruise pool", attr.ImageURL)
	}
}

func TestAssign_UnknownCategoryFallsBackToTravel(t *testing.T) {
	r := NewResolver(NewMemoryStore())

	attr, err := r.Assign("story-x", "Nonsense Category")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	inTravel := false
	for _, entry := range PoolFor(CategoryTravel) {
		if entry.ImageURL == attr.ImageURL {
			inTravel = true
		}
	}
	if !inTravel {
		t.Errorf("unknown category should use the Travel pool, got %s", attr.ImageURL)
	}
}

type brokenStore struct{}

func (brokenStore) Load() (*TrackerData, error) { return nil, errors.New("disk gone") }
func (brokenStore) Save(*TrackerData) error     { return errors.New("disk gone") }

func TestAssign_NeverBlocksPublication(t *testing.T) {
	r := NewResolver(brokenStore{})

	attr, err := r.Assign("story-y", "Cruise")
	if err == nil {
		t.Error("store failure should be reported")
	}
	if attr.ImageURL != DefaultEntry.ImageURL || attr.Photographer.Name != DefaultEntry.Photographer.Name {
		t.Errorf("expected the hardcoded default pair, got %+v", attr)
	}
}

func TestAssign_TrackerFlushedOnEveryMutation(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	if _, err := r.Assign("first-story", "Culture"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	tracker, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tracker.UsedImageURLs) != 1 {
		t.Errorf("usedImageUrls = %d, want 1", len(tracker.UsedImageURLs))
	}

	used := tracker.UsedImageURLs[0]
	rec := tracker.Images[used]
	if rec == nil || len(rec.UsedInStories) != 1 || rec.UsedInStories[0] != "first-story" {
		t.Errorf("assignment not recorded: %+v", rec)
	}
}

func TestAssign_SameKeyIsNotDoubleCounted(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	a1, _ := r.Assign("repeat-story", "Culture")
	_, _ = r.Assign("repeat-story", "Culture")

	tracker, _ := store.Load()
	rec := tracker.Images[a1.ImageURL]
	if len(rec.UsedInStories) != 1 {
		t.Fatalf("expected one usage entry for the first image, got %v", rec.UsedInStories)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/tracker.json"
	store := NewFileStore(path)

	r := NewResolver(store)
	attr, err := r.Assign("persisted-story", "Food & Wine")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	reloaded, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	rec := reloaded.Images[attr.ImageURL]
	if rec == nil || len(rec.UsedInStories) != 1 {
		t.Errorf("assignment did not survive the round trip: %+v", rec)
	}
}

func TestReset_ClearsReservations(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)

	if _, err := r.Assign("s1", "Cruise"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := r.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	tracker, _ := store.Load()
	if len(tracker.UsedImageURLs) != 0 {
		t.Errorf("reset should clear reservations, got %v", tracker.UsedImageURLs)
	}
}
