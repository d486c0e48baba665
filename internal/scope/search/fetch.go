package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiafaen/guia/internal/libs/accel"
	"github.com/guiafaen/guia/internal/libs/metrics"
)

const (
	// tableSuffix is stripped from table names to form entry titles.
	tableSuffix = "_content"

	defaultFetchTimeout = 10 * time.Second
)

// errNotFetched marks a table whose read never started, which happens when
// the context ends while earlier tables are still being read.
var errNotFetched = errors.New("table not fetched")

// Row is one row of a content table: its id and raw content column.
type Row struct {
	ID      int64
	Content []byte
}

// Source reads the content column of every row of a table.
type Source interface {
	ListContent(ctx context.Context, table string) ([]Row, error)
}

// Table is a content table and the screen its rows open.
type Table struct {
	Name   string
	Screen string
}

// TitleFor derives an entry title from a table name:
// "ambulatorio_content" becomes "AMBULATORIO".
func TitleFor(table string) string {
	return strings.ToUpper(strings.TrimSuffix(table, tableSuffix))
}

// FetchReport is the outcome of one pass over the content tables.
type FetchReport struct {
	Entries      []Entry
	FailedTables []string
	SkippedRows  int
}

// Fetcher turns content tables into corpus entries, one entry per row.
type Fetcher struct {
	source  Source
	tables  []Table
	timeout time.Duration
	batch   *accel.Batch
	logger  zerolog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout bounds each table read.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithConcurrency sets how many tables are read at once.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		f.batch = accel.NewBatch(n)
	}
}

// NewFetcher creates a fetcher over the given tables.
func NewFetcher(source Source, tables []Table, logger zerolog.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:  source,
		tables:  append([]Table(nil), tables...),
		timeout: defaultFetchTimeout,
		batch:   accel.NewBatch(accel.DefaultSize),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Tables returns the tables the fetcher reads, in corpus order.
func (f *Fetcher) Tables() []Table {
	return append([]Table(nil), f.tables...)
}

type tableResult struct {
	entries []Entry
	skipped int
	err     error
}

// Fetch reads all tables concurrently and returns their entries in table
// order, then row order. A table that cannot be read is logged and left
// out; a row whose content cannot be decoded is logged and skipped.
func (f *Fetcher) Fetch(ctx context.Context) FetchReport {
	results := make([]tableResult, len(f.tables))
	for i := range results {
		results[i].err = errNotFetched
	}

	// per-table failures are recorded, never returned, so one bad table
	// does not cancel the others
	_ = f.batch.Run(ctx, len(f.tables), func(ctx context.Context, i int) error {
		results[i] = f.fetchTable(ctx, f.tables[i])
		return nil
	})

	var report FetchReport
	for i, res := range results {
		table := f.tables[i].Name
		if errors.Is(res.err, errNotFetched) && ctx.Err() != nil {
			res.err = fmt.Errorf("%w: %w", errNotFetched, ctx.Err())
		}
		if res.err != nil {
			f.logger.Warn().Err(res.err).Str("table", table).Msg("failed to fetch content table")
			metrics.TableFetchFailed(table)
			report.FailedTables = append(report.FailedTables, table)
			continue
		}
		report.Entries = append(report.Entries, res.entries...)
		report.SkippedRows += res.skipped
	}
	return report
}

func (f *Fetcher) fetchTable(ctx context.Context, table Table) tableResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rows, err := f.source.ListContent(ctx, table.Name)
	if err != nil {
		return tableResult{err: err}
	}

	res := tableResult{entries: make([]Entry, 0, len(rows))}
	title := TitleFor(table.Name)
	for _, row := range rows {
		fields, err := Flatten(row.Content)
		if err != nil {
			f.logger.Warn().Err(err).
				Str("table", table.Name).
				Int64("row_id", row.ID).
				Msg("skipping row with malformed content")
			res.skipped++
			continue
		}

		entry := Entry{
			Title:   title,
			Content: make([]string, len(fields)),
			Keys:    make([]string, len(fields)),
			Screen:  table.Screen,
		}
		for i, field := range fields {
			entry.Content[i] = field.Text
			entry.Keys[i] = field.Key
		}
		res.entries = append(res.entries, entry)
	}
	return res
}
