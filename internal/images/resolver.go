package images

import (
	"fmt"

	"github.com/globaltravelreport/ingest/internal/logger"
)

// Attribution is the assignment result: the image plus its credit.
type Attribution struct {
	ImageURL     string
	Photographer Photographer
}

// Resolver deterministically assigns pool images to stories. Stateful via
// the injected Store; all tracker access goes through it so tests can run
// against an in-memory store.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Assign picks an image for the identity key within the classified
// category's pool. Selection scans from a stable hash-derived start index
// for the first image not yet reserved; once every pool member has been
// used the reservation set for that pool is released and rotation starts
// over (fair rotation). The returned Attribution is always usable — on
// any failure it falls back to the hardcoded default pair and the error
// is reported for observability only.
func (r *Resolver) Assign(identityKey string, rawCategory string) (Attribution, error) {
	category := Classify(rawCategory)
	pool := PoolFor(category)
	if len(pool) == 0 {
		return attributionFor(DefaultEntry), fmt.Errorf("no pool available for category %q", category)
	}

	tracker, err := r.store.Load()
	if err != nil {
		logger.Warn("image tracker unavailable, using default attribution", "error", err)
		return attributionFor(DefaultEntry), fmt.Errorf("load tracker: %w", err)
	}

	entry, reset := selectEntry(tracker, pool, identityKey)
	if reset {
		logger.Debug("image pool exhausted, rotation reset", "category", category)
	}

	tracker.recordAssignment(entry, category, identityKey)

	if err := r.store.Save(tracker); err != nil {
		// The assignment is still answered; only durability suffered.
		logger.Warn("failed to flush image tracker", "error", err)
		return attributionFor(entry), fmt.Errorf("save tracker: %w", err)
	}

	return attributionFor(entry), nil
}

// selectEntry implements first-unused-from-hash-start with
// exhaustion-and-reset. Never assigns a reserved image while an
// unreserved one remains in the pool.
func selectEntry(tracker *TrackerData, pool []PoolEntry, identityKey string) (PoolEntry, bool) {
	start := hashKey(identityKey) % len(pool)

	for i := 0; i < len(pool); i++ {
		entry := pool[(start+i)%len(pool)]
		if !tracker.isUsed(entry.ImageURL) {
			return entry, false
		}
	}

	// Every member used at least once: release and begin a new rotation.
	tracker.releasePool(pool)
	return pool[start], true
}

// hashKey is the stable identity hash: sum of character codes.
func hashKey(key string) int {
	sum := 0
	for _, r := range key {
		sum += int(r)
	}
	if sum < 0 {
		sum = -sum
	}
	return sum
}

// Reset replaces the tracker with a freshly seeded one. Used by the
// corpus-wide backfill before reassigning every story.
func (r *Resolver) Reset() error {
	return r.store.Save(NewTrackerData())
}

func attributionFor(entry PoolEntry) Attribution {
	return Attribution{
		ImageURL:     entry.ImageURL,
		Photographer: entry.Photographer,
	}
}
