package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/guiafaen/guia/internal/scope/search"
)

// ErrInvalidContent is returned when a write carries malformed JSON.
var ErrInvalidContent = errors.New("content must be valid JSON")

// Querier is the subset of pgxpool.Pool used by the repositories.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ContentRepo reads and edits the JSON content column of the guide's tables.
type ContentRepo struct {
	q      Querier
	tables Tables
}

// NewContentRepo creates a repository restricted to tables.
func NewContentRepo(q Querier, tables Tables) *ContentRepo {
	return &ContentRepo{q: q, tables: tables}
}

// Tables returns the repository's whitelist.
func (r *ContentRepo) Tables() Tables {
	return r.tables
}

// ListContent returns every row of table ordered by id.
func (r *ContentRepo) ListContent(ctx context.Context, table string) ([]search.Row, error) {
	ident, err := r.tables.identifier(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT id, content FROM %s ORDER BY id`, ident))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []search.Row
	for rows.Next() {
		var row search.Row
		if err := rows.Scan(&row.ID, &row.Content); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// GetRow returns a single row of table.
func (r *ContentRepo) GetRow(ctx context.Context, table string, id int64) (search.Row, error) {
	ident, err := r.tables.identifier(table)
	if err != nil {
		return search.Row{}, err
	}

	q := fmt.Sprintf(`SELECT id, content FROM %s WHERE id = $1`, ident)
	return scanRow(r.q.QueryRow(ctx, q, id), table, id)
}

// ReplaceContent overwrites the content column of a row.
func (r *ContentRepo) ReplaceContent(ctx context.Context, table string, id int64, content json.RawMessage) (search.Row, error) {
	ident, err := r.tables.identifier(table)
	if err != nil {
		return search.Row{}, err
	}
	if !json.Valid(content) {
		return search.Row{}, ErrInvalidContent
	}

	q := fmt.Sprintf(`UPDATE %s SET content = $1::jsonb WHERE id = $2 RETURNING id, content`, ident)
	return scanRow(r.q.QueryRow(ctx, q, string(content), id), table, id)
}

// MergeSections replaces the given top-level keys of a row's content and
// leaves the other keys untouched, the way each section of a screen is
// edited on its own.
func (r *ContentRepo) MergeSections(ctx context.Context, table string, id int64, sections map[string]json.RawMessage) (search.Row, error) {
	ident, err := r.tables.identifier(table)
	if err != nil {
		return search.Row{}, err
	}
	for key, v := range sections {
		if !json.Valid(v) {
			return search.Row{}, fmt.Errorf("%w: section %q", ErrInvalidContent, key)
		}
	}
	patch, err := json.Marshal(sections)
	if err != nil {
		return search.Row{}, fmt.Errorf("encode sections: %w", err)
	}

	q := fmt.Sprintf(
		`UPDATE %s SET content = COALESCE(content, '{}'::jsonb) || $1::jsonb WHERE id = $2 RETURNING id, content`,
		ident,
	)
	return scanRow(r.q.QueryRow(ctx, q, string(patch), id), table, id)
}

func scanRow(row pgx.Row, table string, id int64) (search.Row, error) {
	var out search.Row
	if err := row.Scan(&out.ID, &out.Content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return search.Row{}, fmt.Errorf("%s row %d: %w", table, id, ErrNotFound)
		}
		return search.Row{}, fmt.Errorf("%s row %d: %w", table, id, err)
	}
	return out, nil
}
