// Package pipeline orchestrates the ingestion batch: feed reading,
// filtering, extraction, rewriting, image attribution and persistence.
// Articles are processed strictly one at a time with a fixed delay
// between items; one bad item never aborts a run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/globaltravelreport/ingest/internal/config"
	"github.com/globaltravelreport/ingest/internal/feed"
	"github.com/globaltravelreport/ingest/internal/filter"
	"github.com/globaltravelreport/ingest/internal/frontmatter"
	"github.com/globaltravelreport/ingest/internal/images"
	"github.com/globaltravelreport/ingest/internal/logger"
	"github.com/globaltravelreport/ingest/internal/metrics"
	"github.com/globaltravelreport/ingest/internal/rewrite"
	"github.com/globaltravelreport/ingest/internal/scraper"
	"github.com/globaltravelreport/ingest/internal/storage"
)

// Report is the aggregate batch summary. A run always produces one, even
// when every individual item failed.
type Report struct {
	Fetched      int
	Filtered     int
	Skipped      int
	Published    int
	Failed       int
	Errors       []string
	SampleTitles []string
}

func (r *Report) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) addSample(title string) {
	if len(r.SampleTitles) < 5 {
		r.SampleTitles = append(r.SampleTitles, title)
	}
}

type Pipeline struct {
	cfg        *config.Config
	reader     *feed.Reader
	filter     *filter.Filter
	scraper    *scraper.Scraper
	engine     *rewrite.Engine
	resolver   *images.Resolver
	stories    *storage.StoryStore
	seen       *storage.SeenCache
	normalizer *frontmatter.Normalizer
}

func New(cfg *config.Config, engine *rewrite.Engine, resolver *images.Resolver, stories *storage.StoryStore, seen *storage.SeenCache) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		reader:     feed.NewReader(cfg.RequestTimeout),
		filter:     filter.New(),
		scraper:    scraper.New(cfg.RequestTimeout),
		engine:     engine,
		resolver:   resolver,
		stories:    stories,
		seen:       seen,
		normalizer: frontmatter.NewNormalizer(),
	}
}

// Run executes one bounded ingestion batch and always returns a Report.
// The error is non-nil only for setup failures (unreadable feed config);
// per-item failures land in the report.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	started := time.Now()

	feedsCfg, err := feed.LoadFeeds(p.cfg.FeedsConfigPath)
	if err != nil {
		return report, fmt.Errorf("failed to load feeds config: %w", err)
	}

	if err := p.seen.Load(); err != nil {
		logger.Warn("seen cache unreadable, starting empty", "error", err)
	}

	items := p.reader.FetchAll(ctx, feedsCfg)
	report.Fetched = len(items)
	metrics.Global.AddItemsFetched(len(items))

	cruisePublished := 0
	travelCap := p.cfg.MaxStoriesPerRun - p.cfg.CruiseQuota

	for _, item := range items {
		if report.Published >= p.cfg.MaxStoriesPerRun {
			break
		}
		if ctx.Err() != nil {
			report.addError("run cancelled: %v", ctx.Err())
			break
		}

		// Quota accounting: cruise feeds fill their reserved slots, the
		// rest of the cap goes to travel items.
		if item.Category == feed.SourceCruise && cruisePublished >= p.cfg.CruiseQuota {
			continue
		}
		if item.Category == feed.SourceTravel && report.Published-cruisePublished >= travelCap {
			continue
		}

		published := p.processItem(ctx, item, report)
		if published && item.Category == feed.SourceCruise {
			cruisePublished++
		}

		// Fixed pause between items, respecting provider rate limits.
		if p.cfg.ItemDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.cfg.ItemDelay):
			}
		}
	}

	if err := p.seen.Save(); err != nil {
		logger.Warn("failed to save seen cache", "error", err)
		report.addError("seen cache not saved: %v", err)
	}

	metrics.Global.RecordRunDuration(time.Since(started))
	metrics.Global.SetLastRun()

	logger.Info("batch complete",
		"fetched", report.Fetched,
		"filtered", report.Filtered,
		"skipped", report.Skipped,
		"published", report.Published,
		"failed", report.Failed,
	)
	return report, nil
}

// processItem carries one candidate through the whole pipeline. All
// failures are absorbed into the report; the return value says whether a
// story was published.
func (p *Pipeline) processItem(ctx context.Context, item feed.Item, report *Report) bool {
	if p.cfg.MaxItemAge > 0 && !item.Published.IsZero() && time.Since(item.Published) > p.cfg.MaxItemAge {
		report.Skipped++
		return false
	}

	hash := p.seen.Hash(item.Title, item.Link)
	if p.seen.IsSeen(hash) {
		report.Skipped++
		metrics.Global.IncrementItemsSkipped()
		return false
	}

	if sensitive, phrase := p.filter.CheckItem(item.Title, item.Summary); sensitive {
		logger.Info("item filtered", "title", item.Title, "matched", phrase)
		report.Filtered++
		metrics.Global.IncrementItemsFiltered()
		p.seen.MarkSeen(hash, item.Title, item.Link, "", item.Source)
		return false
	}

	article, err := p.scraper.ExtractArticle(ctx, item.Link)
	if err != nil || len(article.Content) < 200 {
		logger.Warn("extraction yielded no usable text", "url", item.Link, "error", err)
		report.Skipped++
		report.addError("extract %s: no usable text", item.Link)
		metrics.Global.IncrementItemsSkipped()
		return false
	}

	// Politeness pause after each page fetch.
	if p.cfg.ExtractDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(p.cfg.ExtractDelay):
		}
	}

	result, err := p.engine.Rewrite(ctx, rewrite.Request{Title: item.Title, Content: article.Content})
	if err != nil {
		logger.Error("rewrite failed", "title", item.Title, "error", err)
		report.Failed++
		report.addError("rewrite %q: %v", item.Title, err)
		metrics.Global.IncrementRewritesFailed()
		return false
	}
	metrics.Global.IncrementRewritesSucceeded()

	slug := frontmatter.Slugify(result.Title)
	if slug == "" {
		slug = frontmatter.Slugify(item.Title)
	}
	if p.stories.Exists(slug) {
		logger.Info("story already exists", "slug", slug)
		report.Skipped++
		p.seen.MarkSeen(hash, item.Title, item.Link, slug, item.Source)
		return false
	}

	attribution, err := p.resolver.Assign(slug, result.Category)
	if err != nil {
		// Assignment always yields a usable attribution; log and move on.
		logger.Warn("image assignment degraded", "slug", slug, "error", err)
	}

	record, err := p.renderStory(item, result, attribution, slug)
	if err != nil {
		report.Failed++
		report.addError("render %q: %v", slug, err)
		return false
	}

	if err := p.stories.Write(slug, record); err != nil {
		logger.Error("failed to persist story", "slug", slug, "error", err)
		report.Failed++
		report.addError("write %q: %v", slug, err)
		return false
	}

	p.seen.MarkSeen(hash, item.Title, item.Link, slug, item.Source)
	report.Published++
	report.addSample(result.Title)
	metrics.Global.IncrementStoriesPublished()
	logger.Info("story published", "slug", slug, "category", result.Category, "defaulted", result.DefaultedFields)
	return true
}

// renderStory builds the frontmatter record and runs it through the
// normalizer so freshly ingested stories satisfy the same schema the
// repair pass enforces.
func (p *Pipeline) renderStory(item feed.Item, result *rewrite.Result, attribution images.Attribution, slug string) ([]byte, error) {
	date := item.Published
	if date.IsZero() {
		date = time.Now()
	}

	story := &frontmatter.Story{
		Title:           result.Title,
		Summary:         result.Summary,
		Date:            date.UTC().Format(time.RFC3339),
		Country:         result.Country,
		Type:            string(images.Classify(result.Category)),
		ImageURL:        attribution.ImageURL,
		ImageAlt:        result.Title,
		ImageCredit:     "Photo by " + attribution.Photographer.Name,
		ImageLink:       attribution.Photographer.URL,
		Slug:            slug,
		MetaTitle:       result.MetaTitle,
		MetaDescription: result.MetaDescription,
		Keywords:        result.Keywords,
		Photographer: frontmatter.Photographer{
			Name: attribution.Photographer.Name,
			URL:  attribution.Photographer.URL,
		},
	}

	rendered, err := frontmatter.Render(story, result.Content)
	if err != nil {
		return nil, err
	}

	normalized, stats, err := p.normalizer.Normalize(rendered, slug)
	if err != nil {
		return nil, err
	}
	if stats.Total() > 0 {
		metrics.Global.AddRepairsApplied(stats.Total())
	}
	return normalized, nil
}
