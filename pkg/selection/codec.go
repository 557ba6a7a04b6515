package selection

import (
	"errors"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/dom"
)

// State is the live-selection dependency. The platform selection is
// inherently process-wide, so the codec takes it as an interface and can
// be driven against a fake in tests. *dom.SelectionState implements it.
type State interface {
	// Ranges returns the current ranges in document order; empty means
	// no active selection.
	Ranges() []*dom.Range

	// Replace drops all ranges and selects r.
	Replace(r *dom.Range)
}

// Codec converts live selections to Snapshots and back. It is stateless
// across calls: every Export produces a fresh value and every Import reads
// only what it is handed. The zero value is ready to use.
type Codec struct {
	// Logger receives recovered import failures. May be nil.
	Logger *log.Logger
}

// NewCodec creates a codec with no logger attached.
func NewCodec() *Codec {
	return &Codec{}
}

// Export records the current selection of st as a Snapshot relative to
// root. It returns nil when there is nothing to save: no root, no state,
// no active range, or a range whose boundaries do not sit under root.
// That is a normal state (editor not focused), not an error.
//
// Only the first range is considered; multi-range selections are not
// supported. Export reads the tree and the selection without mutating
// either.
func (c *Codec) Export(root *html.Node, st State) *Snapshot {
	if root == nil || st == nil {
		return nil
	}
	ranges := st.Ranges()
	if len(ranges) == 0 {
		return nil
	}
	r := ranges[0]
	if r == nil || r.StartContainer == nil || r.EndContainer == nil {
		return nil
	}

	// Both boundary offsets come from the same document-order walk the
	// import side uses, so the two directions cannot disagree about
	// counting rules.
	start, ok := dom.BoundaryOffset(root, r.StartContainer, r.StartOffset)
	if !ok {
		return nil
	}
	end, ok := dom.BoundaryOffset(root, r.EndContainer, r.EndOffset)
	if !ok {
		return nil
	}

	snap := &Snapshot{
		Start:          start,
		End:            end,
		Collapsed:      r.Collapsed(),
		StartContainer: r.StartContainer,
		EndContainer:   r.EndContainer,
	}
	// Ranges are normally ordered; normalize a backward pair.
	if snap.End < snap.Start {
		snap.Start, snap.End = snap.End, snap.Start
		snap.StartContainer, snap.EndContainer = snap.EndContainer, snap.StartContainer
	}
	return snap
}

// Import restores snap as the live selection of st, relative to root.
//
// It returns false without touching the selection when root, st, or snap
// is nil or the snapshot violates 0 <= Start <= End. When the root's text
// has shrunk below the recorded offsets the best boundary still found is
// applied, clamped to end-of-content, and Import reports true: a moved
// caret is an acceptable degraded mode, a thrown-away one is not.
//
// The constructed range is applied in a single Replace call after the
// walk completes, so a failure never leaves a half-mutated selection. Any
// panic while resolving or applying is recovered here, logged when a
// Logger is set, and reported as false. Import never mutates the DOM and
// is idempotent.
func (c *Codec) Import(root *html.Node, st State, snap *Snapshot) (ok bool) {
	if root == nil || st == nil || !snap.Valid() {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			if c.Logger != nil {
				c.Logger.Error("selection restore failed", "panic", r)
			}
			ok = false
		}
	}()

	if r := fastRange(root, snap); r != nil {
		st.Replace(r)
		return true
	}

	r := resolveRange(root, snap.Start, snap.End)
	st.Replace(r)
	return true
}

// errStopWalk stops the resolve walk once the end boundary is placed.
var errStopWalk = errors.New("stop walk")

// resolveRange walks root's subtree in document order and builds a range
// whose boundaries sit at the given rune offsets.
//
// Text nodes carry length; element nodes are transparent; other node
// types are invisible and never entered. A boundary at offset k lands in
// the first text node whose span [counter, counter+len] contains k, at
// local offset k-counter. The comparisons are inclusive on both sides so
// a zero-length text node (span [k, k]) can still host a boundary.
//
// Offsets past the end of content clamp: an unresolved end collapses onto
// the last text position; an unresolved start collapses the whole range
// there. A text-free root yields a zero-length range at (root, 0).
func resolveRange(root *html.Node, start, end int) *dom.Range {
	r := dom.NewRange(root)
	counter := 0
	startFound := false
	endFound := false
	var lastText *html.Node

	//nolint:errcheck // errStopWalk is expected and intentionally ignored
	dom.Walk(root, func(n *html.Node) error {
		if n.Type != html.TextNode {
			return nil
		}
		nodeEnd := counter + utf8.RuneCountInString(n.Data)
		if !startFound && counter <= start && start <= nodeEnd {
			r.SetStart(n, start-counter)
			startFound = true
		}
		if startFound && counter <= end && end <= nodeEnd {
			r.SetEnd(n, end-counter)
			endFound = true
			return errStopWalk
		}
		counter = nodeEnd
		lastText = n
		return nil
	})

	if endFound {
		return r
	}
	if lastText == nil {
		// No text under root at all: zero-length range at its start.
		return r
	}
	tail := utf8.RuneCountInString(lastText.Data)
	if !startFound {
		r.SetStart(lastText, tail)
	}
	r.SetEnd(lastText, tail)
	return r
}

// fastRange rebuilds a range directly from the snapshot's container hints
// when they are still attached under root and the snapshot offsets still
// fall inside them. Returns nil on any validation failure, which sends the
// caller to the full walk. Only text-node hints qualify; the hints are an
// optimization, never a correctness requirement.
func fastRange(root *html.Node, snap *Snapshot) *dom.Range {
	sc, ec := snap.StartContainer, snap.EndContainer
	if sc == nil || ec == nil {
		return nil
	}
	if sc.Type != html.TextNode || ec.Type != html.TextNode {
		return nil
	}
	if !dom.Attached(root, sc) || !dom.Attached(root, ec) {
		return nil
	}

	startBase, ok := dom.BoundaryOffset(root, sc, 0)
	if !ok {
		return nil
	}
	localStart := snap.Start - startBase
	if localStart < 0 || localStart > utf8.RuneCountInString(sc.Data) {
		return nil
	}
	if snap.Start == snap.End {
		return dom.NewCollapsedRange(sc, localStart)
	}

	endBase, ok := dom.BoundaryOffset(root, ec, 0)
	if !ok {
		return nil
	}
	localEnd := snap.End - endBase
	if localEnd < 0 || localEnd > utf8.RuneCountInString(ec.Data) {
		return nil
	}

	return &dom.Range{
		StartContainer: sc,
		StartOffset:    localStart,
		EndContainer:   ec,
		EndOffset:      localEnd,
	}
}
