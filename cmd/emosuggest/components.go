package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/feedback"
	"github.com/hyperjump/emosuggest/internal/ingest"
	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/search"
	"github.com/hyperjump/emosuggest/internal/server"
	"github.com/hyperjump/emosuggest/internal/storage"
	"go.uber.org/zap"
)

// Components holds the initialized source, engine and log sink.
type Components struct {
	Source storage.Source
	Engine *search.Engine
	Sink   *feedback.SheetSink
	Report *ingest.Report
}

// Close releases the source.
func (c *Components) Close() {
	if c.Source != nil {
		_ = c.Source.Close()
	}
}

// Status reports the engine, source and ingest report, as the server's status endpoint does.
func (c *Components) Status(cfg *config.Config) models.Status {
	st := c.Engine.Status()
	st.Backend = c.Source.Describe()
	if c.Report != nil {
		st.Missing = c.Report.Missing
		st.Failed = c.Report.Failed
		st.Retries = c.Report.Retries
	}
	st.Config = server.ConfigInfo(cfg)
	if paths := server.SourcePaths(&cfg.Source); len(paths) > 0 {
		if n, err := storage.Footprint(paths...); err == nil {
			st.DiskUsageBytes = n
		}
	}
	return st
}

// openSource opens the configured backend. Failures are ErrUnavailable.
func openSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Source, error) {
	src := &cfg.Source
	switch src.Backend {
	case config.BackendXLSX:
		return storage.OpenWorkbook(src.WorkbookPath)
	case config.BackendSQLite:
		return storage.NewSQLiteSource(src.DatabasePath)
	case config.BackendSheets:
		creds, err := storage.CredentialsOption(ctx, src.CredentialsFile, src.CredentialsEnv)
		if err != nil {
			return nil, err
		}
		return storage.NewSheetsSource(ctx, src.SpreadsheetID,
			storage.WithClientOptions(creds),
			storage.WithSheetsLogger(logger),
		)
	case config.BackendMemory:
		logger.Warn("memory backend starts empty; every category will be reported missing")
		return storage.NewMemorySource(nil), nil
	}
	return nil, fmt.Errorf("unknown backend %q", src.Backend)
}

// retryPolicy maps the ingest settings onto the ingest package's policy.
func retryPolicy(cfg *config.IngestConfig) ingest.RetryPolicy {
	return ingest.RetryPolicy{
		MaxAttempts:   cfg.MaxAttempts,
		BaseDelay:     cfg.BaseDelay,
		CategoryDelay: cfg.CategoryDelayOrDefault(),
	}
}

// initializeComponents opens the source, builds the table and wires the engine and log sink.
// An unavailable source aborts startup; missing or failing categories do not.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	src, err := openSource(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}

	in := ingest.New(src,
		ingest.WithLogger(logger),
		ingest.WithPolicy(retryPolicy(&cfg.Ingest)),
		ingest.WithProgress(func(done, total int, category string, loaded bool) {
			logger.Debug("ingest progress",
				zap.Int("done", done),
				zap.Int("total", total),
				zap.String("category", category),
				zap.Bool("loaded", loaded))
		}),
	)
	t, report, err := in.Build(ctx, cfg.Recommend.Categories, cfg.Recommend.WeightedOrDefault())
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	engine, err := search.NewEngineFromConfig(t, &cfg.Recommend)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &Components{
		Source: src,
		Engine: engine,
		Sink:   feedback.NewSheetSink(src, cfg.Source.LogSheet, feedback.WithLogger(logger)),
		Report: report,
	}, nil
}
