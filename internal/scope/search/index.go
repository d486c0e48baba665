package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiafaen/guia/internal/libs/metrics"
)

// State is the lifecycle state of an Index.
type State int

const (
	// StateEmpty means no database content has been loaded yet; searches
	// see the catalog only.
	StateEmpty State = iota
	// StateLoaded means at least one load completed.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// Loader produces the database entries of the corpus.
type Loader interface {
	Fetch(ctx context.Context) FetchReport
}

// Stats describes the corpus currently served by an Index.
type Stats struct {
	State        string    `json:"state"`
	Entries      int       `json:"entries"`
	Static       int       `json:"static"`
	Dynamic      int       `json:"dynamic"`
	LoadedAt     time.Time `json:"loaded_at"`
	FailedTables []string  `json:"failed_tables,omitempty"`
	SkippedRows  int       `json:"skipped_rows"`
}

type snapshot struct {
	corpus *Corpus
	stats  Stats
}

// Index serves searches from the latest corpus. Loads rebuild the corpus
// wholesale and swap it in atomically; searches never block on a load.
type Index struct {
	catalog Catalog
	loader  Loader
	logger  zerolog.Logger

	mu   sync.Mutex // serializes loads
	snap atomic.Pointer[snapshot]
}

// NewIndex creates an index over catalog. Until Load is called it searches
// the catalog alone. loader may be nil, in which case loads rebuild the
// catalog-only corpus.
func NewIndex(catalog Catalog, loader Loader, logger zerolog.Logger) *Index {
	x := &Index{
		catalog: catalog,
		loader:  loader,
		logger:  logger,
	}
	corpus := Build(catalog.Entries, nil)
	x.snap.Store(&snapshot{
		corpus: corpus,
		stats: Stats{
			State:   StateEmpty.String(),
			Entries: corpus.Len(),
			Static:  corpus.Static(),
		},
	})
	return x
}

// Search matches query against the current corpus.
func (x *Index) Search(query string) []Result {
	return Search(x.snap.Load().corpus, query)
}

// Corpus returns the current corpus.
func (x *Index) Corpus() *Corpus {
	return x.snap.Load().corpus
}

// Stats returns the stats of the current corpus.
func (x *Index) Stats() Stats {
	s := x.snap.Load().stats
	s.FailedTables = append([]string(nil), s.FailedTables...)
	return s
}

// Load fetches the database content, rebuilds the corpus and swaps it in.
// Tables that fail are left out and reported in the returned stats.
func (x *Index) Load(ctx context.Context) Stats {
	x.mu.Lock()
	defer x.mu.Unlock()

	start := time.Now()
	var report FetchReport
	if x.loader != nil {
		report = x.loader.Fetch(ctx)
	}

	corpus := Build(x.catalog.Entries, report.Entries)
	stats := Stats{
		State:        StateLoaded.String(),
		Entries:      corpus.Len(),
		Static:       corpus.Static(),
		Dynamic:      corpus.Dynamic(),
		LoadedAt:     time.Now().UTC(),
		FailedTables: report.FailedTables,
		SkippedRows:  report.SkippedRows,
	}
	x.snap.Store(&snapshot{corpus: corpus, stats: stats})
	metrics.ObserveCorpus(stats.Static, stats.Dynamic)

	x.logger.Info().
		Int("entries", stats.Entries).
		Int("dynamic", stats.Dynamic).
		Strs("failed_tables", stats.FailedTables).
		Int("skipped_rows", stats.SkippedRows).
		Dur("took", time.Since(start)).
		Msg("search corpus loaded")

	return x.Stats()
}
