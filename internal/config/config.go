package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Rewrite provider settings
	Provider     string // "openai" or "gemini"
	OpenAIAPIKey string
	GeminiAPIKey string
	RewriteModel string // provider model name, empty = provider default

	// Feed settings
	FeedsConfigPath string
	MaxItemAge      time.Duration

	// Batch settings
	MaxStoriesPerRun int           // hard cap per run
	CruiseQuota      int           // how many of the cap are reserved for cruise feeds
	ItemDelay        time.Duration // pause between items, respects provider rate limits
	ExtractDelay     time.Duration // pause between page fetches

	// Rewrite retry settings
	RewriteAttempts int
	RewriteBackoff  time.Duration // base delay, doubled per attempt

	// Storage settings
	ContentDir    string
	TrackerPath   string
	SeenCachePath string
	SeenTTLHours  int

	// App settings
	Debug          bool
	RequestTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Provider:         "openai",
		FeedsConfigPath:  "configs/feeds.yaml",
		MaxItemAge:       72 * time.Hour,
		MaxStoriesPerRun: 8,
		CruiseQuota:      2,
		ItemDelay:        2 * time.Second,
		ExtractDelay:     500 * time.Millisecond,
		RewriteAttempts:  3,
		RewriteBackoff:   2 * time.Second,
		ContentDir:       "content/articles",
		TrackerPath:      "data/image-tracker.json",
		SeenCachePath:    "data/processed.json",
		SeenTTLHours:     336,
		RequestTimeout:   30 * time.Second,
	}

	// Load from environment
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if p := os.Getenv("REWRITE_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if m := os.Getenv("REWRITE_MODEL"); m != "" {
		cfg.RewriteModel = m
	}

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.ContentDir = getEnvOrDefault("CONTENT_DIR", cfg.ContentDir)
	cfg.TrackerPath = getEnvOrDefault("IMAGE_TRACKER_PATH", cfg.TrackerPath)
	cfg.SeenCachePath = getEnvOrDefault("SEEN_CACHE_PATH", cfg.SeenCachePath)
	cfg.SeenTTLHours = getEnvIntOrDefault("SEEN_TTL_HOURS", cfg.SeenTTLHours)

	if v := os.Getenv("MAX_STORIES_PER_RUN"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxStoriesPerRun = val
		}
	}
	if v := os.Getenv("CRUISE_QUOTA"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.CruiseQuota = val
		}
	}
	if v := os.Getenv("ITEM_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.ItemDelay = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("MAX_ITEM_AGE_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxItemAge = time.Duration(val) * time.Hour
		}
	}
	if v := os.Getenv("REWRITE_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RewriteAttempts = val
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, nil
}

// Validate checks settings required for a full pipeline run. Repair-only
// commands work without a provider key and skip this.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider 'openai'")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider 'gemini'")
		}
	default:
		return fmt.Errorf("REWRITE_PROVIDER must be 'openai' or 'gemini', got %q", c.Provider)
	}
	if c.CruiseQuota > c.MaxStoriesPerRun {
		return fmt.Errorf("CRUISE_QUOTA (%d) exceeds MAX_STORIES_PER_RUN (%d)", c.CruiseQuota, c.MaxStoriesPerRun)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
