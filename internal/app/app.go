// Package app wires configuration into pipeline components and exposes
// one entry point per batch command.
package app

import (
	"context"
	"fmt"

	"github.com/globaltravelreport/ingest/internal/config"
	"github.com/globaltravelreport/ingest/internal/images"
	"github.com/globaltravelreport/ingest/internal/logger"
	"github.com/globaltravelreport/ingest/internal/metrics"
	"github.com/globaltravelreport/ingest/internal/pipeline"
	"github.com/globaltravelreport/ingest/internal/rewrite"
	"github.com/globaltravelreport/ingest/internal/storage"
)

// Run executes one batch command: "run", "fetch", "fix-images" or
// "fix-frontmatter".
func Run(command string) error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	switch command {
	case "run":
		return runPipeline(ctx, cfg)
	case "fetch":
		return runFetch(ctx, cfg)
	case "fix-images":
		return runImageRepair(ctx, cfg)
	case "fix-frontmatter":
		return runFrontmatterRepair(ctx, cfg)
	default:
		return fmt.Errorf("unknown command %q (want run, fetch, fix-images or fix-frontmatter)", command)
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config, withRewriter bool) (*pipeline.Pipeline, func(), error) {
	var engine *rewrite.Engine
	cleanup := func() {}

	if withRewriter {
		client, closeFn, err := buildClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		engine = rewrite.NewEngine(client, cfg.RewriteAttempts, cfg.RewriteBackoff)
		cleanup = closeFn
	}

	resolver := images.NewResolver(images.NewFileStore(cfg.TrackerPath))
	stories := storage.NewStoryStore(cfg.ContentDir)
	seen := storage.NewSeenCache(cfg.SeenCachePath, cfg.SeenTTLHours)

	return pipeline.New(cfg, engine, resolver, stories, seen), cleanup, nil
}

func buildClient(ctx context.Context, cfg *config.Config) (rewrite.Client, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Provider {
	case "gemini":
		client, err := rewrite.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.RewriteModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		client := rewrite.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.RewriteModel)
		return client, func() {}, nil
	}
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	p, cleanup, err := buildPipeline(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.Run(ctx)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	logger.Info("run summary",
		"fetched", report.Fetched,
		"published", report.Published,
		"filtered", report.Filtered,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"samples", report.SampleTitles,
	)
	for _, e := range report.Errors {
		logger.Warn("item error", "error", e)
	}
	return nil
}

func runFetch(ctx context.Context, cfg *config.Config) error {
	p, cleanup, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.FetchOnly(ctx)
	if err != nil {
		return err
	}
	logger.Info("fetch summary", "items", report.Fetched, "filtered", report.Filtered, "samples", report.SampleTitles)
	return nil
}

func runImageRepair(ctx context.Context, cfg *config.Config) error {
	p, cleanup, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.RepairImages(ctx)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	logger.Info("image repair summary", "files", report.Files, "reassigned", report.Changed, "errors", len(report.Errors))
	return nil
}

func runFrontmatterRepair(ctx context.Context, cfg *config.Config) error {
	p, cleanup, err := buildPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := p.RepairFrontmatter(ctx)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	logger.Info("frontmatter repair summary",
		"files", report.Files,
		"changed", report.Changed,
		"slug_fixed", report.Stats.SlugFixed,
		"date_fixed", report.Stats.DateFixed,
		"country_fixed", report.Stats.CountryFixed,
		"type_fixed", report.Stats.TypeFixed,
		"image_fixed", report.Stats.ImageFixed,
		"photographer_fixed", report.Stats.PhotographerFixed,
		"summary_fixed", report.Stats.SummaryFixed,
		"errors", len(report.Errors),
	)
	return nil
}
