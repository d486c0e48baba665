package db

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrUnknownTable is returned for table names outside the whitelist.
	ErrUnknownTable = errors.New("unknown content table")
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
)

// Tables is the set of content tables the service may read and write.
// Table names reach SQL only after passing through it.
type Tables struct {
	names map[string]struct{}
}

// NewTables builds a whitelist from table names.
func NewTables(names ...string) Tables {
	t := Tables{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n != "" {
			t.names[n] = struct{}{}
		}
	}
	return t
}

// Contains reports whether name is whitelisted.
func (t Tables) Contains(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Names returns the whitelisted tables in sorted order.
func (t Tables) Names() []string {
	out := make([]string, 0, len(t.names))
	for n := range t.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// identifier returns the quoted SQL identifier for a whitelisted table.
func (t Tables) identifier(name string) (string, error) {
	if !t.Contains(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}
