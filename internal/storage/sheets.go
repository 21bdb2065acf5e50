package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource implements Source on a Google Sheets spreadsheet; each sheet name is a worksheet tab.
// Calls go through a circuit breaker so a throttled or failing API is backed off from quickly.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	cb            *gobreaker.CircuitBreaker
	logger        *zap.Logger

	mu     sync.RWMutex
	titles map[string]struct{}
}

// SheetsOption configures a SheetsSource.
type SheetsOption func(*sheetsOptions)

type sheetsOptions struct {
	clientOpts []option.ClientOption
	logger     *zap.Logger
}

// WithClientOptions passes options to the underlying API client (credentials, endpoint, HTTP client).
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(o *sheetsOptions) { o.clientOpts = append(o.clientOpts, opts...) }
}

// WithSheetsLogger sets a logger for circuit breaker state changes.
func WithSheetsLogger(l *zap.Logger) SheetsOption {
	return func(o *sheetsOptions) { o.logger = l }
}

// CredentialsOption loads service-account credentials for the Sheets API. When envVar is set
// and non-empty in the environment its value is used as the credentials JSON; otherwise the
// JSON is read from file.
func CredentialsOption(ctx context.Context, file, envVar string) (option.ClientOption, error) {
	var data []byte
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			data = []byte(v)
		}
	}
	if data == nil {
		if file == "" {
			return nil, fmt.Errorf("%w: no credentials configured", ErrUnavailable)
		}
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: read credentials: %v", ErrUnavailable, err)
		}
		data = b
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse credentials: %v", ErrUnavailable, err)
	}
	return option.WithCredentials(creds), nil
}

// NewSheetsSource connects to the spreadsheet and verifies access by fetching its sheet titles.
// Authentication or connection failures are returned as ErrUnavailable.
func NewSheetsSource(ctx context.Context, spreadsheetID string, opts ...SheetsOption) (*SheetsSource, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is empty", ErrUnavailable)
	}
	o := &sheetsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	svc, err := sheets.NewService(ctx, o.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets service: %v", ErrUnavailable, err)
	}

	logger := o.logger
	cbSettings := gobreaker.Settings{
		Name:        "sheets-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			var nce *nonCircuitError
			return err == nil || errors.As(err, &nce)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	s := &SheetsSource{
		service:       svc,
		spreadsheetID: spreadsheetID,
		cb:            gobreaker.NewCircuitBreaker(cbSettings),
		logger:        logger,
		titles:        make(map[string]struct{}),
	}
	if err := s.refreshTitles(ctx); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: spreadsheet %s: %w", ErrUnavailable, spreadsheetID, err)
	}
	return s, nil
}

func (s *SheetsSource) refreshTitles(ctx context.Context) error {
	var resp *sheets.Spreadsheet
	err := s.execute(func() error {
		var err error
		resp, err = s.service.Spreadsheets.Get(s.spreadsheetID).
			Fields(googleapi.Field("sheets.properties.title")).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("fetch spreadsheet: %w", err)
	}
	titles := make(map[string]struct{}, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles[sh.Properties.Title] = struct{}{}
		}
	}
	s.mu.Lock()
	s.titles = titles
	s.mu.Unlock()
	return nil
}

func (s *SheetsSource) hasSheet(sheet string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.titles[sheet]
	return ok
}

// Rows returns the formatted values of every row of sheet.
func (s *SheetsSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	if !s.hasSheet(sheet) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	var resp *sheets.ValueRange
	err := s.execute(func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, quoteSheet(sheet)).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// CreateSheet adds a worksheet tab and writes header as its first row.
func (s *SheetsSource) CreateSheet(ctx context.Context, sheet string, header []string) error {
	if s.hasSheet(sheet) {
		return nil
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: sheet},
			},
		}},
	}
	err := s.execute(func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	s.mu.Lock()
	s.titles[sheet] = struct{}{}
	s.mu.Unlock()

	if len(header) == 0 {
		return nil
	}
	return s.AppendRow(ctx, sheet, header)
}

// AppendRow appends row after the last row of sheet.
func (s *SheetsSource) AppendRow(ctx context.Context, sheet string, row []string) error {
	if !s.hasSheet(sheet) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	values := make([]interface{}, len(row))
	for i, c := range row {
		values[i] = c
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	err := s.execute(func() error {
		_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, quoteSheet(sheet), vr).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append to sheet %q: %w", sheet, err)
	}
	return nil
}

// nonCircuitError marks client errors that must not trip the breaker.
type nonCircuitError struct {
	err error
}

func (e *nonCircuitError) Error() string { return e.err.Error() }

// execute runs fn under the circuit breaker and maps the result onto the Source sentinels.
func (s *SheetsSource) execute(fn func() error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		if err := fn(); err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) {
				switch apiErr.Code {
				case 400, 401, 403, 404:
					return nil, &nonCircuitError{err: err}
				}
			}
			return nil, err
		}
		return nil, nil
	})
	var nce *nonCircuitError
	if errors.As(err, &nce) {
		err = nce.err
	}
	return classifySheetsError(err)
}

func classifySheetsError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		case apiErr.Code == 404:
			return fmt.Errorf("%w: %w", ErrSheetNotFound, err)
		case apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range"):
			return fmt.Errorf("%w: %w", ErrSheetNotFound, err)
		}
		return err
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// quoteSheet returns sheet as an A1-notation range covering the whole worksheet.
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// Describe implements Source.
func (s *SheetsSource) Describe() string {
	return "sheets:" + s.spreadsheetID
}

// Close implements Source. The API client holds no resources that need releasing.
func (s *SheetsSource) Close() error {
	return nil
}
