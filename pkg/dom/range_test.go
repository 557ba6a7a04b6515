package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestRange_Collapsed(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	r := NewCollapsedRange(text, 2)
	assert.True(t, r.Collapsed())

	r.SetEnd(text, 4)
	assert.False(t, r.Collapsed())

	r.Collapse(true)
	assert.True(t, r.Collapsed())
	assert.Equal(t, 2, r.EndOffset)

	r.SetEnd(text, 5)
	r.Collapse(false)
	assert.True(t, r.Collapsed())
	assert.Equal(t, 5, r.StartOffset)
}

func TestRange_Text_SingleNode(t *testing.T) {
	root := parseRoot(t, `Hello World`)
	text := firstText(t, root)

	r := &Range{StartContainer: text, StartOffset: 0, EndContainer: text, EndOffset: 5}
	assert.Equal(t, "Hello", r.Text())
	assert.Equal(t, 5, r.Length())
}

func TestRange_Text_MultiNode(t *testing.T) {
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)

	texts := FindAll(root, func(n *html.Node) bool { return n.Type == html.TextNode })
	require.Len(t, texts, 2)

	r := &Range{
		StartContainer: texts[0], StartOffset: 3,
		EndContainer: texts[1], EndOffset: 3,
	}
	assert.Equal(t, "lo Wor", r.Text())
}

func TestRange_Text_Collapsed(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	r := NewCollapsedRange(text, 3)
	assert.Empty(t, r.Text())
	assert.Zero(t, r.Length())
}

func TestRange_Text_DisjointTrees(t *testing.T) {
	a := firstText(t, parseRoot(t, `one`))
	b := firstText(t, parseRoot(t, `two`))

	r := &Range{StartContainer: a, StartOffset: 0, EndContainer: b, EndOffset: 3}
	assert.Empty(t, r.Text())
}

func TestRange_Text_MultibyteRunes(t *testing.T) {
	root := parseRoot(t, `héllo`)
	text := firstText(t, root)

	r := &Range{StartContainer: text, StartOffset: 1, EndContainer: text, EndOffset: 3}
	assert.Equal(t, "él", r.Text())
}

func TestRange_SelectNodeContents(t *testing.T) {
	root := parseRoot(t, `<p>one</p><p>two</p>`)

	r := &Range{}
	r.SelectNodeContents(root)
	assert.Equal(t, root, r.StartContainer)
	assert.Equal(t, 0, r.StartOffset)
	assert.Equal(t, 2, r.EndOffset, "element end offset is a child index")

	text := firstText(t, root)
	r.SelectNodeContents(text)
	assert.Equal(t, 3, r.EndOffset, "text end offset is the rune length")
	assert.Equal(t, "one", r.Text())
}

func TestRange_Clone(t *testing.T) {
	root := parseRoot(t, `abc`)
	text := firstText(t, root)

	r := &Range{StartContainer: text, StartOffset: 1, EndContainer: text, EndOffset: 2}
	clone := r.Clone()

	require.NotNil(t, clone)
	assert.NotSame(t, r, clone)
	assert.Equal(t, *r, *clone)

	clone.SetStart(text, 0)
	assert.Equal(t, 1, r.StartOffset)

	var nilRange *Range
	assert.Nil(t, nilRange.Clone())
}
