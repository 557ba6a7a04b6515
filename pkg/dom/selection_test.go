package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionState_SingleRange(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	sel := NewSelectionState()
	assert.Zero(t, sel.RangeCount())
	assert.Nil(t, sel.Primary())
	assert.True(t, sel.IsCollapsed())

	first := NewCollapsedRange(text, 1)
	sel.AddRange(first)
	assert.Equal(t, 1, sel.RangeCount())
	assert.Same(t, first, sel.Primary())

	// A second AddRange is ignored; browsers keep one range.
	second := NewCollapsedRange(text, 3)
	sel.AddRange(second)
	assert.Equal(t, 1, sel.RangeCount())
	assert.Same(t, first, sel.Primary())
}

func TestSelectionState_Replace(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	sel := NewSelectionState()
	sel.AddRange(NewCollapsedRange(text, 0))

	next := &Range{StartContainer: text, StartOffset: 1, EndContainer: text, EndOffset: 4}
	sel.Replace(next)
	assert.Equal(t, 1, sel.RangeCount())
	assert.Same(t, next, sel.Primary())

	sel.Replace(nil)
	assert.Zero(t, sel.RangeCount())
}

func TestSelectionState_RangesReturnsCopy(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	sel := NewSelectionState()
	sel.AddRange(NewCollapsedRange(text, 2))

	ranges := sel.Ranges()
	require.Len(t, ranges, 1)
	ranges[0] = nil

	assert.NotNil(t, sel.Primary(), "mutating the returned slice must not affect the selection")
}

func TestSelectionState_Collapse(t *testing.T) {
	root := parseRoot(t, `Hello`)
	text := firstText(t, root)

	sel := NewSelectionState()
	sel.AddRange(&Range{StartContainer: text, StartOffset: 0, EndContainer: text, EndOffset: 5})
	assert.False(t, sel.IsCollapsed())

	sel.Collapse(text, 3)
	assert.True(t, sel.IsCollapsed())
	assert.Equal(t, 3, sel.Primary().StartOffset)

	sel.Collapse(nil, 0)
	assert.Zero(t, sel.RangeCount())
	assert.True(t, sel.IsCollapsed())
}

func TestSelectionState_String(t *testing.T) {
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)

	sel := NewSelectionState()
	assert.Empty(t, sel.String())

	a := firstText(t, root)
	sel.AddRange(&Range{StartContainer: a, StartOffset: 0, EndContainer: a, EndOffset: 5})
	assert.Equal(t, "Hello", sel.String())
}
