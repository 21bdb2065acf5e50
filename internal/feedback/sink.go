// Package feedback writes accepted suggestions to the training log.
package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/emosuggest/internal/models"
	"github.com/hyperjump/emosuggest/internal/storage"
	"go.uber.org/zap"
)

// Sink records log records.
type Sink interface {
	Append(ctx context.Context, rec models.LogRecord) error
}

// SheetSink appends records as rows of a sheet in a storage.Source. The sheet and its header
// row are created on first use.
type SheetSink struct {
	source storage.Source
	sheet  string
	logger *zap.Logger // optional
}

// SinkOption configures a SheetSink.
type SinkOption func(*SheetSink)

// WithLogger sets a logger for appended records and sheet creation.
func WithLogger(l *zap.Logger) SinkOption {
	return func(s *SheetSink) { s.logger = l }
}

// NewSheetSink returns a sink writing to sheet of source.
func NewSheetSink(source storage.Source, sheet string, opts ...SinkOption) *SheetSink {
	s := &SheetSink{source: source, sheet: sheet}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append writes exactly one data row for rec.
func (s *SheetSink) Append(ctx context.Context, rec models.LogRecord) error {
	row := rec.Row()
	err := s.source.AppendRow(ctx, s.sheet, row)
	if errors.Is(err, storage.ErrSheetNotFound) {
		if s.logger != nil {
			s.logger.Info("creating log sheet", zap.String("sheet", s.sheet))
		}
		if err := s.source.CreateSheet(ctx, s.sheet, models.LogHeader); err != nil {
			return fmt.Errorf("create log sheet %q: %w", s.sheet, err)
		}
		err = s.source.AppendRow(ctx, s.sheet, row)
	}
	if err != nil {
		return fmt.Errorf("append log record: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("log record appended",
			zap.String("sheet", s.sheet),
			zap.String("accepted", rec.Accepted),
			zap.String("trace", rec.Trace))
	}
	return nil
}

// Sheet returns the log sheet name.
func (s *SheetSink) Sheet() string { return s.sheet }
