// Package httpapi provides HTTP handlers and data transfer objects for the guide's API.
package httpapi

import (
	"encoding/json"

	"github.com/guiafaen/guia/internal/libs/respond"
	"github.com/guiafaen/guia/internal/scope/search"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string       `json:"status"`
	Corpus search.Stats `json:"corpus"`
}

// SearchResponse represents search results
type SearchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// SearchResult is one entry with the strings that matched
type SearchResult struct {
	Title   string  `json:"title"`
	Screen  string  `json:"screen"`
	Matches []Match `json:"matches"`
}

// Match is a matching string split into highlight segments
type Match struct {
	Text     string           `json:"text"`
	Key      string           `json:"key,omitempty"` // dotted path inside the row's content
	Segments []search.Segment `json:"segments"`
}

// TableInfo describes a content table
type TableInfo struct {
	Table    string `json:"table"`
	Title    string `json:"title"`
	Screen   string `json:"screen,omitempty"`
	Searched bool   `json:"searched"`
}

// TablesResponse lists the content tables
type TablesResponse struct {
	Tables []TableInfo `json:"tables"`
}

// ContentRow is one row of a content table
type ContentRow struct {
	ID      int64           `json:"id"`
	Content json.RawMessage `json:"content"`
}

// ContentListResponse lists the rows of a table
type ContentListResponse struct {
	Table string       `json:"table"`
	Rows  []ContentRow `json:"rows"`
}

// UpdateContentRequest edits a row. Exactly one field must be set:
// Content replaces the whole document, Sections replaces top-level keys.
type UpdateContentRequest struct {
	Content  json.RawMessage            `json:"content,omitempty"`
	Sections map[string]json.RawMessage `json:"sections,omitempty"`
}

// ImageResponse is a stored image
type ImageResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// ErrorResponse represents API error response. The auth middleware writes
// the same type.
type ErrorResponse = respond.ErrorResponse
