package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// NodePath is the sequence of child indexes leading from a root to a node.
// [0, 2] means root -> child[0] -> child[2]. Indexes count every child,
// including node types the text walk skips, so a path resolves to exactly
// one node as long as the tree shape is unchanged.
//
// Paths are a diagnostic aid (the inspect command prints them); they are
// NOT durable across mutations -- that is what selection snapshots are for.
type NodePath []int

// PathTo computes the path from root to n. The second return value is false
// when n is not in root's subtree. The path to root itself is empty.
func PathTo(root, n *html.Node) (NodePath, bool) {
	if root == nil || n == nil {
		return nil, false
	}

	var rev []int
	for cur := n; cur != root; cur = cur.Parent {
		if cur.Parent == nil {
			return nil, false
		}
		idx := 0
		for sib := cur.Parent.FirstChild; sib != cur; sib = sib.NextSibling {
			idx++
		}
		rev = append(rev, idx)
	}

	path := make(NodePath, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path, true
}

// Resolve follows the path from root and returns the node it lands on, or
// nil when the path runs off the current tree shape.
func (p NodePath) Resolve(root *html.Node) *html.Node {
	cur := root
	for _, idx := range p {
		if cur == nil || idx < 0 {
			return nil
		}
		child := cur.FirstChild
		for i := 0; i < idx && child != nil; i++ {
			child = child.NextSibling
		}
		if child == nil {
			return nil
		}
		cur = child
	}
	return cur
}

// String renders the path as slash-separated indexes, "/" for the root.
func (p NodePath) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "/" + strings.Join(parts, "/")
}
