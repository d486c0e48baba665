package search

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

//go:embed catalog.jsonc
var defaultCatalog []byte

// Catalog is the fixed list of topics that are searchable without any
// database content.
type Catalog struct {
	Entries []Entry `json:"entries"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a JSONC catalog file. An empty path selects the
// compiled-in catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog strips JSONC comments and trailing commas from data and
// decodes the catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks that every entry can be displayed and navigated to.
func (c Catalog) Validate() error {
	for i, e := range c.Entries {
		if e.Title == "" {
			return fmt.Errorf("catalog entry %d: title is required", i)
		}
		if e.Screen == "" {
			return fmt.Errorf("catalog entry %d (%s): screen is required", i, e.Title)
		}
		if len(e.Keys) != 0 {
			return fmt.Errorf("catalog entry %d (%s): keys are not allowed", i, e.Title)
		}
	}
	return nil
}

// Strings returns the total number of searchable strings in the catalog.
func (c Catalog) Strings() int {
	n := 0
	for _, e := range c.Entries {
		n += len(e.Content)
	}
	return n
}
