// Package selection converts live DOM selections into durable character
// offsets and restores them after the DOM has been mutated.
//
// The editing engine mutates regions wholesale (commands replace content,
// markdown paste swaps subtrees), which detaches every node a live range
// points at. A Snapshot survives that: it records the selection as rune
// offsets from the start of a root container, counted over text nodes in
// document order, and the Codec rebuilds an equivalent range against
// whatever tree the root holds afterwards.
package selection

import (
	"golang.org/x/net/html"
)

// Snapshot is a DOM-structure-independent record of a selection, relative
// to the root container it was exported from.
//
// Offsets count runes of text-node content between the root's first
// character and the boundary, walking text nodes in document order.
// Element nodes contribute no length; comment and doctype nodes are
// invisible. A snapshot is immutable once produced and meaningful only
// against its own root: importing it after the root's text has shrunk is
// the defined degraded case (the codec clamps), not an error.
type Snapshot struct {
	// Start is the rune offset of the selection start, >= 0.
	Start int `json:"start"`

	// End is the rune offset of the selection end, >= Start.
	End int `json:"end"`

	// Collapsed is true for a caret (Start == End, no selected text).
	Collapsed bool `json:"collapsed"`

	// StartContainer and EndContainer are best-effort hints for restoring
	// into an unchanged tree. After a DOM mutation they may be stale or
	// detached; only Start, End, and Collapsed are durable. Hints never
	// serialize.
	StartContainer *html.Node `json:"-"`
	EndContainer   *html.Node `json:"-"`
}

// Valid reports whether the snapshot satisfies 0 <= Start <= End.
func (s *Snapshot) Valid() bool {
	return s != nil && s.Start >= 0 && s.End >= s.Start
}

// Len returns the rune length of the recorded span.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.End - s.Start
}
