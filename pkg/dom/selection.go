package dom

import "golang.org/x/net/html"

// SelectionState holds the live selection for a document tree. It mirrors
// the platform selection model: a process-wide, single-instance object that
// carries at most one active range at a time (adding a second range is
// ignored, the behavior real selection implementations converged on).
//
// SelectionState is not safe for concurrent use; the editing engine is
// synchronous and cooperative with its host (one goroutine at a time).
type SelectionState struct {
	ranges []*Range
}

// NewSelectionState creates an empty selection.
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// Ranges returns the current ranges in document order. The slice is a copy;
// the ranges themselves are the live objects.
func (s *SelectionState) Ranges() []*Range {
	if len(s.ranges) == 0 {
		return nil
	}
	out := make([]*Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// RangeCount returns the number of ranges in the selection (0 or 1).
func (s *SelectionState) RangeCount() int {
	return len(s.ranges)
}

// Primary returns the first range of the selection, or nil when empty.
func (s *SelectionState) Primary() *Range {
	if len(s.ranges) == 0 {
		return nil
	}
	return s.ranges[0]
}

// AddRange adds r to the selection. When a range is already active the
// call is ignored.
func (s *SelectionState) AddRange(r *Range) {
	if r == nil {
		return
	}
	if len(s.ranges) == 0 {
		s.ranges = append(s.ranges, r)
	}
}

// Replace drops all ranges and selects r. A nil r clears the selection.
func (s *SelectionState) Replace(r *Range) {
	s.RemoveAllRanges()
	s.AddRange(r)
}

// RemoveAllRanges clears the selection.
func (s *SelectionState) RemoveAllRanges() {
	s.ranges = s.ranges[:0]
}

// Collapse replaces the selection with a caret at (n, offset). A nil node
// clears the selection.
func (s *SelectionState) Collapse(n *html.Node, offset int) {
	if n == nil {
		s.RemoveAllRanges()
		return
	}
	s.Replace(NewCollapsedRange(n, offset))
}

// IsCollapsed reports whether the selection is empty or a caret.
func (s *SelectionState) IsCollapsed() bool {
	if len(s.ranges) == 0 {
		return true
	}
	return s.ranges[0].Collapsed()
}

// String returns the text content of the selection.
func (s *SelectionState) String() string {
	if len(s.ranges) == 0 {
		return ""
	}
	return s.ranges[0].Text()
}
