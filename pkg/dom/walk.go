package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *html.Node) error

// Walk performs a depth-first pre-order traversal of the subtree rooted at
// root, visiting element and text nodes only. Document nodes are entered
// transparently; comments, doctypes, and other node types are neither
// visited nor entered.
//
// The traversal uses an explicit work stack (children pushed in reverse so
// they pop in document order) rather than recursion, so arbitrarily deep
// trees cannot exhaust the goroutine stack and the visit order is the same
// one the offset arithmetic in this package relies on.
func Walk(root *html.Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n.Type {
		case html.TextNode:
			if err := walkFunc(n); err != nil {
				return err
			}
		case html.ElementNode, html.DocumentNode:
			if err := walkFunc(n); err != nil {
				return err
			}
			for c := n.LastChild; c != nil; c = c.PrevSibling {
				stack = append(stack, c)
			}
		default:
			// Comments, doctypes, raw nodes: invisible, not entered.
		}
	}

	return nil
}

// FindAll returns all visited nodes matching the predicate, in document order.
func FindAll(root *html.Node, predicate func(n *html.Node) bool) []*html.Node {
	var result []*html.Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *html.Node) error {
		if predicate(n) {
			result = append(result, n)
		}
		return nil
	})

	return result
}

// FindFirst returns the first visited node matching the predicate, or nil.
func FindFirst(root *html.Node, predicate func(n *html.Node) bool) *html.Node {
	var found *html.Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(n *html.Node) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	})

	return found
}

// TextLength returns the total rune length of all text nodes under root,
// in document order. This is the upper bound for selection offsets.
func TextLength(root *html.Node) int {
	total := 0

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *html.Node) error {
		if n.Type == html.TextNode {
			total += utf8.RuneCountInString(n.Data)
		}
		return nil
	})

	return total
}

// Text returns the concatenated text-node content under root, in document
// order, with no whitespace normalization. Slicing the result by rune index
// agrees exactly with the offsets produced by BoundaryOffset.
func Text(root *html.Node) string {
	var b []byte

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *html.Node) error {
		if n.Type == html.TextNode {
			b = append(b, n.Data...)
		}
		return nil
	})

	return string(b)
}

// BoundaryOffset converts a DOM boundary point (container, offset) into a
// rune offset relative to root. For text containers the offset is a rune
// offset within the node's data, clamped to the node length. For element
// containers the offset is a child index and the boundary sits before that
// child, as in the WHATWG range model.
//
// The second return value is false when container is not part of root's
// subtree. Export and import both rely on this single routine, so the two
// directions cannot disagree about counting rules.
func BoundaryOffset(root, container *html.Node, offset int) (int, bool) {
	if root == nil || container == nil {
		return 0, false
	}

	count := 0
	found := false

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(n *html.Node) error {
		if n == container {
			if n.Type == html.TextNode {
				count += clampOffset(offset, utf8.RuneCountInString(n.Data))
			} else {
				i := 0
				for c := n.FirstChild; c != nil && i < offset; c = c.NextSibling {
					count += TextLength(c)
					i++
				}
			}
			found = true
			return errStopWalk
		}
		if n.Type == html.TextNode {
			count += utf8.RuneCountInString(n.Data)
		}
		return nil
	})

	if !found {
		return 0, false
	}
	return count, true
}

// Attached reports whether n is root itself or a descendant of root.
func Attached(root, n *html.Node) bool {
	if root == nil {
		return false
	}
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// CommonAncestor returns the deepest node containing both a and b, or nil
// if they belong to different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	if a == nil || b == nil {
		return nil
	}

	seen := make(map[*html.Node]bool)
	for n := a; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

func clampOffset(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
