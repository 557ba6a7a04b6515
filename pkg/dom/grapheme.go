package dom

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Caret motion helpers over grapheme clusters. Selection offsets count
// runes, but a caret that moves rune-by-rune lands inside emoji and
// combining sequences; hosts use these to step over whole clusters.

// NextGrapheme returns the rune offset after moving right by one grapheme
// cluster from offset. An offset inside a cluster snaps to the cluster's
// end. Offsets at or past the end of text clamp to the total rune length.
func NextGrapheme(text string, offset int) int {
	total := utf8.RuneCountInString(text)
	if offset >= total {
		return total
	}
	if offset < 0 {
		offset = 0
	}

	pos := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		next := pos + len(g.Runes())
		if next > offset {
			return next
		}
		pos = next
	}
	return total
}

// PrevGrapheme returns the rune offset after moving left by one grapheme
// cluster from offset. An offset inside a cluster snaps to the cluster's
// start. Offsets at or below zero clamp to zero.
func PrevGrapheme(text string, offset int) int {
	if offset <= 0 {
		return 0
	}
	total := utf8.RuneCountInString(text)
	if offset > total {
		offset = total
	}

	pos := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		next := pos + len(g.Runes())
		if next >= offset {
			return pos
		}
		pos = next
	}
	return pos
}

// GraphemeCount returns the number of grapheme clusters in text.
func GraphemeCount(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}
