// Package search builds the searchable corpus of the guide and matches
// queries against it: a static catalog plus content flattened from the
// database tables, compared case- and accent-insensitively.
package search

import "strings"

// Entry is one topic of the guide: its title, searchable strings and the
// screen the client opens for it. Keys is parallel to Content for entries
// flattened from database rows and empty for catalog entries.
type Entry struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
	Keys    []string `json:"keys,omitempty"`
	Screen  string   `json:"screen"`
}

// Result is an entry reduced to the strings that matched a query.
type Result struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
	Keys    []string `json:"keys,omitempty"`
	Screen  string   `json:"screen"`
}

// Corpus is the ordered, immutable collection searched by queries: catalog
// entries first, then database entries.
type Corpus struct {
	entries []indexedEntry
	static  int
}

type indexedEntry struct {
	Entry
	normalized []string
}

// Build concatenates static and dynamic entries into a corpus, static first.
// Normalized forms of every string are computed once here.
func Build(static, dynamic []Entry) *Corpus {
	c := &Corpus{
		entries: make([]indexedEntry, 0, len(static)+len(dynamic)),
		static:  len(static),
	}
	for _, group := range [][]Entry{static, dynamic} {
		for _, e := range group {
			normalized := make([]string, len(e.Content))
			for i, s := range e.Content {
				normalized[i] = Normalize(s)
			}
			c.entries = append(c.entries, indexedEntry{Entry: e, normalized: normalized})
		}
	}
	return c
}

// Len returns the number of entries in the corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Static returns how many entries came from the catalog.
func (c *Corpus) Static() int {
	if c == nil {
		return 0
	}
	return c.static
}

// Dynamic returns how many entries came from database rows.
func (c *Corpus) Dynamic() int {
	return c.Len() - c.Static()
}

// Entries returns the corpus entries in order.
func (c *Corpus) Entries() []Entry {
	out := make([]Entry, c.Len())
	for i := range out {
		out[i] = c.entries[i].Entry
	}
	return out
}

// Search returns the entries holding at least one string that contains the
// normalized query, each reduced to its matching strings. An empty query
// matches nothing. Results keep corpus order and are not ranked.
func Search(c *Corpus, query string) []Result {
	if query == "" || c.Len() == 0 {
		return nil
	}
	q := Normalize(query)
	if q == "" {
		return nil
	}

	var results []Result
	for _, e := range c.entries {
		var (
			content []string
			keys    []string
		)
		for i, n := range e.normalized {
			if !strings.Contains(n, q) {
				continue
			}
			content = append(content, e.Content[i])
			if i < len(e.Keys) {
				keys = append(keys, e.Keys[i])
			}
		}
		if len(content) == 0 {
			continue
		}
		results = append(results, Result{
			Title:   e.Title,
			Content: content,
			Keys:    keys,
			Screen:  e.Screen,
		})
	}
	return results
}
