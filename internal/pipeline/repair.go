package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/globaltravelreport/ingest/internal/feed"
	"github.com/globaltravelreport/ingest/internal/frontmatter"
	"github.com/globaltravelreport/ingest/internal/logger"
	"github.com/globaltravelreport/ingest/internal/metrics"
)

// RepairReport summarizes a batch repair pass over the corpus.
type RepairReport struct {
	Files   int
	Changed int
	Stats   frontmatter.RepairStats
	Errors  []string
}

// RepairFrontmatter applies the normalizer to every persisted story.
// Safe to run repeatedly: a normalized corpus comes out byte-identical.
func (p *Pipeline) RepairFrontmatter(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{}

	slugs, err := p.stories.ListSlugs()
	if err != nil {
		return report, err
	}

	for _, slug := range slugs {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("repair cancelled: %v", ctx.Err()))
			break
		}
		report.Files++

		content, err := p.stories.Read(slug)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("read %s: %v", slug, err))
			continue
		}

		normalized, stats, err := p.normalizer.Normalize(content, slug)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("normalize %s: %v", slug, err))
			continue
		}

		if stats.Total() == 0 && bytes.Equal(content, normalized) {
			continue
		}

		if err := p.stories.Write(slug, normalized); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("write %s: %v", slug, err))
			continue
		}

		report.Changed++
		report.Stats.Add(stats)
		logger.Debug("story repaired", "slug", slug, "repairs", stats.Total())
	}

	metrics.Global.AddRepairsApplied(report.Stats.Total())
	logger.Info("frontmatter repair complete",
		"files", report.Files,
		"changed", report.Changed,
		"slug_fixed", report.Stats.SlugFixed,
		"date_fixed", report.Stats.DateFixed,
		"image_fixed", report.Stats.ImageFixed,
		"photographer_fixed", report.Stats.PhotographerFixed,
	)
	return report, nil
}

// RepairImages reassigns every story's image from a reset tracker so the
// uniqueness and fair-rotation invariants hold across the whole corpus.
// Only imageUrl/photographer fields are touched; body and the rest of the
// header are preserved.
func (p *Pipeline) RepairImages(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{}

	if err := p.resolver.Reset(); err != nil {
		return report, fmt.Errorf("failed to reset image tracker: %w", err)
	}

	slugs, err := p.stories.ListSlugs()
	if err != nil {
		return report, err
	}

	for _, slug := range slugs {
		if ctx.Err() != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("repair cancelled: %v", ctx.Err()))
			break
		}
		report.Files++

		content, err := p.stories.Read(slug)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("read %s: %v", slug, err))
			continue
		}

		story, body, err := frontmatter.Parse(content)
		if err != nil {
			// A record with no usable header goes through the full repair
			// pass first; the image pass only retouches attribution.
			report.Errors = append(report.Errors, fmt.Sprintf("parse %s: %v", slug, err))
			continue
		}

		attribution, err := p.resolver.Assign(slug, story.Type)
		if err != nil {
			logger.Warn("image assignment degraded", "slug", slug, "error", err)
		}

		if story.ImageURL == attribution.ImageURL && story.Photographer.Name == attribution.Photographer.Name {
			continue
		}

		story.ImageURL = attribution.ImageURL
		story.ImageCredit = "Photo by " + attribution.Photographer.Name
		story.ImageLink = attribution.Photographer.URL
		story.Photographer = frontmatter.Photographer{
			Name: attribution.Photographer.Name,
			URL:  attribution.Photographer.URL,
		}

		updated, err := frontmatter.Render(story, body)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("render %s: %v", slug, err))
			continue
		}
		if err := p.stories.Write(slug, updated); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("write %s: %v", slug, err))
			continue
		}

		report.Changed++
		report.Stats.ImageFixed++
	}

	metrics.Global.AddImagesReassigned(report.Changed)
	logger.Info("image repair complete", "files", report.Files, "reassigned", report.Changed)
	return report, nil
}

// FetchOnly pulls and lists candidates without extraction or rewriting.
// Used by the RSS-only trigger to inspect what a run would consider.
func (p *Pipeline) FetchOnly(ctx context.Context) (*Report, error) {
	report := &Report{}

	feedsCfg, err := feed.LoadFeeds(p.cfg.FeedsConfigPath)
	if err != nil {
		return report, fmt.Errorf("failed to load feeds config: %w", err)
	}

	items := p.reader.FetchAll(ctx, feedsCfg)
	report.Fetched = len(items)
	metrics.Global.AddItemsFetched(len(items))

	for _, item := range items {
		if sensitive, _ := p.filter.CheckItem(item.Title, item.Summary); sensitive {
			report.Filtered++
			continue
		}
		report.addSample(item.Title)
	}

	logger.Info("fetch complete", "items", report.Fetched, "filtered", report.Filtered)
	return report, nil
}
