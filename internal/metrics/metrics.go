package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsFetched       int64
	ItemsFiltered      int64
	ItemsSkipped       int64
	RewritesSucceeded  int64
	RewritesFailed     int64
	StoriesPublished   int64
	RepairsApplied     int64
	ImagesReassigned   int64

	// Timings
	LastRunDuration    time.Duration
	AverageRunDuration time.Duration
	TotalRunDuration   time.Duration
	RunCount           int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddItemsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFetched += int64(n)
}

func (m *Metrics) IncrementItemsFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFiltered++
}

func (m *Metrics) IncrementItemsSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsSkipped++
}

func (m *Metrics) IncrementRewritesSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewritesSucceeded++
}

func (m *Metrics) IncrementRewritesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RewritesFailed++
}

func (m *Metrics) IncrementStoriesPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoriesPublished++
}

func (m *Metrics) AddRepairsApplied(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RepairsApplied += int64(n)
}

func (m *Metrics) AddImagesReassigned(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImagesReassigned += int64(n)
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastRunDuration = duration
	m.TotalRunDuration += duration
	m.RunCount++

	if m.RunCount > 0 {
		m.AverageRunDuration = m.TotalRunDuration / time.Duration(m.RunCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"items_fetched":           m.ItemsFetched,
		"items_filtered":          m.ItemsFiltered,
		"items_skipped":           m.ItemsSkipped,
		"rewrites_succeeded":      m.RewritesSucceeded,
		"rewrites_failed":         m.RewritesFailed,
		"stories_published":       m.StoriesPublished,
		"repairs_applied":         m.RepairsApplied,
		"images_reassigned":       m.ImagesReassigned,
		"last_run_duration_ms":    m.LastRunDuration.Milliseconds(),
		"average_run_duration_ms": m.AverageRunDuration.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
