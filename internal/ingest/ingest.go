// Package ingest builds the association table from a tabular source, one sheet per category.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/emosuggest/internal/storage"
	"github.com/hyperjump/emosuggest/internal/table"
	"go.uber.org/zap"
)

// RetryPolicy controls retries of rate-limited reads and pacing between categories.
type RetryPolicy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	CategoryDelay time.Duration
}

// DefaultRetryPolicy returns 3 attempts, a 2s base delay and 1.5s between categories.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   3,
		BaseDelay:     2 * time.Second,
		CategoryDelay: 1500 * time.Millisecond,
	}
}

// Backoff returns the delay after the given zero-based failed attempt: BaseDelay * 2^attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<uint(attempt))
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Progress is called after each category is processed. done counts categories so far.
type Progress func(done, total int, category string, loaded bool)

// Report summarizes a build.
type Report struct {
	Loaded  []string `json:"loaded"`
	Missing []string `json:"missing"`
	Failed  []string `json:"failed"`
	Retries int      `json:"retries"`
}

// Ingestor reads category sheets from a source.
type Ingestor struct {
	source   storage.Source
	policy   RetryPolicy
	sleep    Sleeper
	progress Progress
	logger   *zap.Logger // optional
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets a logger for per-category events.
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingestor) { in.logger = l }
}

// WithPolicy replaces the default retry policy.
func WithPolicy(p RetryPolicy) Option {
	return func(in *Ingestor) { in.policy = p }
}

// WithSleeper replaces the sleeper used for backoff and pacing.
func WithSleeper(s Sleeper) Option {
	return func(in *Ingestor) { in.sleep = s }
}

// WithProgress registers a progress callback.
func WithProgress(p Progress) Option {
	return func(in *Ingestor) { in.progress = p }
}

// New creates an Ingestor reading from source.
func New(source storage.Source, opts ...Option) *Ingestor {
	in := &Ingestor{
		source: source,
		policy: DefaultRetryPolicy(),
		sleep:  ContextSleep,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.policy.MaxAttempts < 1 {
		in.policy.MaxAttempts = 1
	}
	if in.logger == nil {
		in.logger = zap.NewNop()
	}
	return in
}

// Build reads every category sheet and returns the resulting table. Missing sheets and sheets
// that keep failing are skipped and listed in the report. If the source is unavailable the
// build is aborted and no table is returned.
func (in *Ingestor) Build(ctx context.Context, categories []string, weighted bool) (*table.Table, *Report, error) {
	report := &Report{}
	cats := make([]table.Category, 0, len(categories))

	for i, id := range categories {
		if i > 0 {
			if err := in.sleep(ctx, in.policy.CategoryDelay); err != nil {
				return nil, report, err
			}
		}

		rows, retries, err := in.readWithRetry(ctx, id)
		report.Retries += retries
		loaded := false
		switch {
		case err == nil:
			b := table.NewBuilder(id, weighted)
			b.AddRows(rows)
			cats = append(cats, b.Category())
			report.Loaded = append(report.Loaded, id)
			loaded = true
			in.logger.Debug("category loaded", zap.String("category", id), zap.Int("keywords", b.Len()))
		case errors.Is(err, storage.ErrUnavailable):
			in.logger.Error("source unavailable, aborting build", zap.String("category", id), zap.Error(err))
			return nil, report, fmt.Errorf("build table: %w", err)
		case ctx.Err() != nil:
			return nil, report, ctx.Err()
		case errors.Is(err, storage.ErrSheetNotFound):
			report.Missing = append(report.Missing, id)
			in.logger.Warn("category sheet not found", zap.String("category", id))
		default:
			report.Failed = append(report.Failed, id)
			in.logger.Warn("category skipped", zap.String("category", id), zap.Error(err))
		}

		if in.progress != nil {
			in.progress(i+1, len(categories), id, loaded)
		}
	}

	t := table.New(categories, cats)
	in.logger.Info("table built",
		zap.Int("categories", t.Len()),
		zap.Int("vocabulary", t.VocabularySize()),
		zap.Int("missing", len(report.Missing)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("retries", report.Retries))
	return t, report, nil
}

// readWithRetry reads one sheet, retrying rate-limited reads with exponential backoff.
// It returns the number of retries performed.
func (in *Ingestor) readWithRetry(ctx context.Context, sheet string) ([][]string, int, error) {
	retries := 0
	var lastErr error
	for attempt := 0; attempt < in.policy.MaxAttempts; attempt++ {
		rows, err := in.source.Rows(ctx, sheet)
		if err == nil {
			return rows, retries, nil
		}
		lastErr = err
		if !errors.Is(err, storage.ErrRateLimited) {
			return nil, retries, err
		}
		if attempt+1 >= in.policy.MaxAttempts {
			break
		}
		delay := in.policy.Backoff(attempt)
		in.logger.Debug("rate limited, backing off",
			zap.String("category", sheet),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))
		if err := in.sleep(ctx, delay); err != nil {
			return nil, retries, err
		}
		retries++
	}
	return nil, retries, fmt.Errorf("%s: giving up after %d attempts: %w", sheet, in.policy.MaxAttempts, lastErr)
}
