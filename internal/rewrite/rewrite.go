// Package rewrite turns extracted article text into an original story via
// a text-generation provider, with retry/backoff and tolerant parsing of
// the structured response.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/globaltravelreport/ingest/internal/logger"
	"github.com/globaltravelreport/ingest/internal/retry"
)

// ErrRewriteFailed is the terminal failure after all attempts are spent.
// Callers count it as a per-item error; it never aborts a batch.
var ErrRewriteFailed = errors.New("rewrite failed")

// Request carries the raw material for one rewrite call.
type Request struct {
	Title   string
	Content string
}

// Result is the parsed rewrite output. After default substitution every
// field except Summary and Keywords is non-empty; DefaultedFields names
// the fields that were filled from defaults rather than model output, so
// callers can tell clean success from repaired success.
type Result struct {
	Title           string
	Summary         string
	Content         string
	MetaTitle       string
	MetaDescription string
	Keywords        []string
	Country         string
	Category        string

	DefaultedFields []string
}

// Defaulted reports whether the named field was substituted.
func (r *Result) Defaulted(field string) bool {
	for _, f := range r.DefaultedFields {
		if f == field {
			return true
		}
	}
	return false
}

// Client is one text-generation provider. Implementations return the raw
// model text; the engine owns parsing so both response contracts are
// handled uniformly.
type Client interface {
	Rewrite(ctx context.Context, req Request) (string, error)
	Name() string
}

// Engine applies the retry policy around a Client and parses responses.
// Stateless between invocations.
type Engine struct {
	client   Client
	retryCfg retry.RetryConfig
}

func NewEngine(client Client, attempts int, backoff time.Duration) *Engine {
	return &Engine{
		client: client,
		retryCfg: retry.RetryConfig{
			MaxAttempts: attempts,
			Delay:       backoff,
			Backoff:     true,
		},
	}
}

// Rewrite sends one structured generation request and parses the response.
// Any failure (transport, provider, unusable output) is retried on the
// backoff schedule; exhaustion returns an error matching ErrRewriteFailed.
func (e *Engine) Rewrite(ctx context.Context, req Request) (*Result, error) {
	var result *Result

	err := retry.WithRetry(ctx, e.retryCfg, func() error {
		raw, err := e.client.Rewrite(ctx, req)
		if err != nil {
			logger.Warn("rewrite call failed", "provider", e.client.Name(), "error", err)
			return err
		}

		parsed, err := ParseResponse(raw, req.Title)
		if err != nil {
			logger.Warn("rewrite response unusable", "provider", e.client.Name(), "error", err)
			return err
		}

		result = parsed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRewriteFailed, err)
	}

	if len(result.DefaultedFields) > 0 {
		logger.Debug("rewrite recovered with defaults", "fields", result.DefaultedFields)
	}
	return result, nil
}
