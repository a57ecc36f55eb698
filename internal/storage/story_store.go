// Package storage persists stories as frontmatter+body markdown files
// keyed by slug, and tracks which feed items previous runs already
// processed.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no story exists for a slug.
var ErrNotFound = errors.New("story not found")

// StoryStore is the markdown corpus: one file per story, the slug is the
// filename and the addressing key.
type StoryStore struct {
	dir string
}

func NewStoryStore(dir string) *StoryStore {
	return &StoryStore{dir: dir}
}

func (s *StoryStore) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// Write persists a rendered record under its slug, creating the content
// directory on first use.
func (s *StoryStore) Write(slug string, content []byte) error {
	if slug == "" {
		return fmt.Errorf("empty slug")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create content dir: %w", err)
	}
	if err := os.WriteFile(s.path(slug), content, 0644); err != nil {
		return fmt.Errorf("failed to write story %s: %w", slug, err)
	}
	return nil
}

// Read returns the raw record for a slug.
func (s *StoryStore) Read(slug string) ([]byte, error) {
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to read story %s: %w", slug, err)
	}
	return data, nil
}

func (s *StoryStore) Exists(slug string) bool {
	_, err := os.Stat(s.path(slug))
	return err == nil
}

// ListSlugs returns every story slug in the corpus, sorted for stable
// batch ordering.
func (s *StoryStore) ListSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // empty corpus
		}
		return nil, fmt.Errorf("failed to list content dir: %w", err)
	}

	var slugs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(slugs)
	return slugs, nil
}
