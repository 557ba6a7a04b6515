package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Range is a pair of boundary points in the DOM, following the WHATWG range
// model: each boundary is a (container, offset) pair. For text containers
// the offset is a rune offset into the node's data; for element containers
// it is a child index, with the boundary sitting before that child.
//
// A Range does not validate that its boundaries stay meaningful across DOM
// mutations; callers that need durability use a selection.Snapshot instead.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange creates a range with both boundaries at the start of n.
func NewRange(n *html.Node) *Range {
	return &Range{
		StartContainer: n,
		StartOffset:    0,
		EndContainer:   n,
		EndOffset:      0,
	}
}

// NewCollapsedRange creates a range collapsed at (n, offset).
func NewCollapsedRange(n *html.Node, offset int) *Range {
	return &Range{
		StartContainer: n,
		StartOffset:    offset,
		EndContainer:   n,
		EndOffset:      offset,
	}
}

// SetStart moves the start boundary to (n, offset).
func (r *Range) SetStart(n *html.Node, offset int) {
	r.StartContainer = n
	r.StartOffset = offset
}

// SetEnd moves the end boundary to (n, offset).
func (r *Range) SetEnd(n *html.Node, offset int) {
	r.EndContainer = n
	r.EndOffset = offset
}

// Collapse folds the range onto one of its boundaries.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.EndContainer = r.StartContainer
		r.EndOffset = r.StartOffset
	} else {
		r.StartContainer = r.EndContainer
		r.StartOffset = r.EndOffset
	}
}

// Collapsed reports whether both boundaries sit at the same point.
func (r *Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// SelectNodeContents sets the range to cover everything inside n: for a
// text node the full rune length, for an element all of its children.
func (r *Range) SelectNodeContents(n *html.Node) {
	if n == nil {
		return
	}
	r.StartContainer = n
	r.StartOffset = 0
	r.EndContainer = n
	if n.Type == html.TextNode {
		r.EndOffset = utf8.RuneCountInString(n.Data)
		return
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	r.EndOffset = count
}

// Clone returns an independent copy of the range.
func (r *Range) Clone() *Range {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// Text returns the text content the range covers, computed with the same
// document-order walk the offset arithmetic in this package uses. Detached
// boundaries, boundaries in different trees, and inverted ranges yield "".
func (r *Range) Text() string {
	if r == nil || r.StartContainer == nil || r.EndContainer == nil {
		return ""
	}
	if r.Collapsed() {
		return ""
	}

	root := CommonAncestor(r.StartContainer, r.EndContainer)
	if root == nil {
		return ""
	}

	start, ok := BoundaryOffset(root, r.StartContainer, r.StartOffset)
	if !ok {
		return ""
	}
	end, ok := BoundaryOffset(root, r.EndContainer, r.EndOffset)
	if !ok || end <= start {
		return ""
	}

	runes := []rune(Text(root))
	if start > len(runes) {
		return ""
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

// Length returns the rune length of the text the range covers.
func (r *Range) Length() int {
	return utf8.RuneCountInString(r.Text())
}
