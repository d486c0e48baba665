package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newAccentFolder returns a transformer that drops combining marks.
// Transformers are stateful, so every caller gets its own.
func newAccentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize lower-cases text and strips diacritics, so "Matrícula" and
// "matricula" compare equal. Empty input returns an empty string.
func Normalize(text string) string {
	return fold(text).text
}

// folded is the normalized form of a string together with, for every byte of
// the normalized text, the byte span of the original rune it came from.
type folded struct {
	text  string
	start []int
	end   []int
}

// fold normalizes text one rune at a time so that offsets in the normalized
// text can be mapped back onto the original. A rune that normalizes to
// nothing (a standalone combining mark) is attached to the previous rune.
func fold(text string) folded {
	var (
		b     strings.Builder
		start = make([]int, 0, len(text))
		end   = make([]int, 0, len(text))
		t     transform.Transformer
	)
	b.Grow(len(text))

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		lower := unicode.ToLower(r)

		var piece string
		if lower < utf8.RuneSelf {
			piece = string(lower)
		} else {
			if t == nil {
				t = newAccentFolder()
			}
			piece, _, _ = transform.String(t, string(lower))
		}

		if piece == "" {
			if n := len(end); n > 0 {
				// extend every byte of the previous rune's output
				prev := start[n-1]
				for j := n - 1; j >= 0 && start[j] == prev; j-- {
					end[j] = i + size
				}
			}
		} else {
			b.WriteString(piece)
			for range len(piece) {
				start = append(start, i)
				end = append(end, i+size)
			}
		}
		i += size
	}

	return folded{text: b.String(), start: start, end: end}
}
