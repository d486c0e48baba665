package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guiafaen/guia/internal/scope/search"
)

// ContentStore is the interface for content storage used by the API
type ContentStore interface {
	// ListContent returns every row of a table
	ListContent(ctx context.Context, table string) ([]search.Row, error)

	// GetRow returns one row
	GetRow(ctx context.Context, table string, id int64) (search.Row, error)

	// ReplaceContent overwrites a row's content
	ReplaceContent(ctx context.Context, table string, id int64, content json.RawMessage) (search.Row, error)

	// MergeSections replaces top-level keys of a row's content
	MergeSections(ctx context.Context, table string, id int64, sections map[string]json.RawMessage) (search.Row, error)

	// Tables returns the editable tables
	Tables() Tables
}

// RoleStore resolves user roles
type RoleStore interface {
	Role(ctx context.Context, userID string) (string, error)
}

var (
	_ ContentStore  = (*ContentRepo)(nil)
	_ search.Source = (*ContentRepo)(nil)
	_ RoleStore     = (*UserRepo)(nil)
	_ Querier       = (*pgxpool.Pool)(nil)
)
