package search

import "strings"

// Segment is a run of the original text, flagged when it matched the query.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight splits text around every occurrence of query, ignoring case and
// accents. Occurrences are found on the normalized text and mapped back to
// the original through the offsets recorded by fold, so segments always
// cover the original characters even when normalization changes lengths.
// The query is matched literally.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	q := Normalize(query)
	if q == "" {
		return []Segment{{Text: text}}
	}

	f := fold(text)
	var (
		segments []Segment
		cursor   int
		pos      int
	)
	for pos < len(f.text) {
		idx := strings.Index(f.text[pos:], q)
		if idx < 0 {
			break
		}
		from, to := pos+idx, pos+idx+len(q)
		origFrom, origTo := f.start[from], f.end[to-1]
		pos = to

		if origTo <= cursor {
			continue
		}
		if origFrom < cursor {
			origFrom = cursor
		}
		if origFrom > cursor {
			segments = append(segments, Segment{Text: text[cursor:origFrom]})
		}
		segments = append(segments, Segment{Text: text[origFrom:origTo], Match: true})
		cursor = origTo
	}

	if cursor < len(text) {
		segments = append(segments, Segment{Text: text[cursor:]})
	}
	return segments
}
