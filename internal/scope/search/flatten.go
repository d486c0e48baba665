package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// urlPrefix marks image and asset links stored next to the text fields.
const urlPrefix = "http"

// Field is one string leaf of a content document. Key is the dotted path of
// object keys above the leaf; it is kept for display and never matched.
type Field struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text"`
}

// Flatten reduces a content document to its string leaves in document order.
// Arrays and objects are walked recursively, numbers, booleans and nulls are
// skipped, and strings starting with "http" are dropped. A document stored
// as a JSON string holding JSON text is decoded twice.
func Flatten(raw []byte) ([]Field, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode content string: %w", err)
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 {
			return nil, nil
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields []Field
	if err := walk(dec, "", &fields); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode content: trailing data after value")
	}

	kept := fields[:0]
	for _, f := range fields {
		if strings.HasPrefix(f.Text, urlPrefix) {
			continue
		}
		kept = append(kept, f)
	}
	return kept, nil
}

// walk consumes exactly one JSON value from dec.
func walk(dec *json.Decoder, path string, out *[]Field) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			for dec.More() {
				if err := walk(dec, path, out); err != nil {
					return err
				}
			}
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("unexpected object key %v", keyTok)
				}
				if err := walk(dec, joinKey(path, key), out); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
		// closing bracket
		_, err := dec.Token()
		return err
	case string:
		*out = append(*out, Field{Key: path, Text: v})
	}
	return nil
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
