package selection_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/selection"
)

// parseRoot builds a detached <div> root holding the parsed fragment.
func parseRoot(t *testing.T, fragment string) *html.Node {
	t.Helper()

	root := dom.NewElement("div")
	nodes, err := dom.ParseFragment(fragment)
	require.NoError(t, err)
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

func textNodes(root *html.Node) []*html.Node {
	return dom.FindAll(root, func(n *html.Node) bool {
		return n.Type == html.TextNode
	})
}

// fakeState is an in-test selection backend; unlike dom.SelectionState it
// can hold several ranges, which the real platform model forbids.
type fakeState struct {
	ranges   []*dom.Range
	replaced int
}

func (f *fakeState) Ranges() []*dom.Range { return f.ranges }

func (f *fakeState) Replace(r *dom.Range) {
	f.ranges = []*dom.Range{r}
	f.replaced++
}

// rejectingState simulates a platform backend that blows up on application.
type rejectingState struct {
	fakeState
}

func (r *rejectingState) Replace(*dom.Range) {
	panic("selection backend rejected range")
}

// selectSpan sets the live selection of st to [start, end] rune offsets
// within root, using the walk-based resolver indirectly via container math.
func selectSpan(t *testing.T, root *html.Node, st *dom.SelectionState, start, end int) {
	t.Helper()

	snap := &selection.Snapshot{Start: start, End: end, Collapsed: start == end}
	ok := selection.NewCodec().Import(root, st, snap)
	require.True(t, ok, "arrange: placing selection at [%d,%d]", start, end)
}

func TestExport_NoActiveSelection(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello`)

	assert.Nil(t, codec.Export(nil, &fakeState{}), "nil root")
	assert.Nil(t, codec.Export(root, nil), "nil state")
	assert.Nil(t, codec.Export(root, &fakeState{}), "zero ranges")
}

func TestExport_CollapsedCaret(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello World`)
	text := textNodes(root)[0]

	st := &fakeState{ranges: []*dom.Range{dom.NewCollapsedRange(text, 3)}}

	snap := codec.Export(root, st)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Start)
	assert.Equal(t, 3, snap.End)
	assert.True(t, snap.Collapsed)
	assert.Same(t, text, snap.StartContainer)
}

func TestExport_MultiNodeRange(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	texts := textNodes(root)
	require.Len(t, texts, 2)

	st := &fakeState{ranges: []*dom.Range{{
		StartContainer: texts[0], StartOffset: 3,
		EndContainer: texts[1], EndOffset: 3,
	}}}

	snap := codec.Export(root, st)
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Start)
	assert.Equal(t, 9, snap.End)
	assert.False(t, snap.Collapsed)
}

func TestExport_FirstRangeOnly(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello World`)
	text := textNodes(root)[0]

	st := &fakeState{ranges: []*dom.Range{
		dom.NewCollapsedRange(text, 2),
		dom.NewCollapsedRange(text, 7),
	}}

	snap := codec.Export(root, st)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Start, "only range index 0 is considered")
}

func TestExport_BoundaryOutsideRoot(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `inside`)
	other := parseRoot(t, `outside`)

	st := &fakeState{ranges: []*dom.Range{
		dom.NewCollapsedRange(textNodes(other)[0], 1),
	}}

	assert.Nil(t, codec.Export(root, st))
}

func TestExport_BackwardRangeNormalized(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello World`)
	text := textNodes(root)[0]

	st := &fakeState{ranges: []*dom.Range{{
		StartContainer: text, StartOffset: 8,
		EndContainer: text, EndOffset: 2,
	}}}

	snap := codec.Export(root, st)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Start)
	assert.Equal(t, 8, snap.End)
}

func TestRoundTrip_Identity(t *testing.T) {
	// With no DOM mutation between export and import, a second export
	// must reproduce the first snapshot exactly.
	fragments := []string{
		`Hello World`,
		`<p>Hello </p><b>World</b>`,
		`<p>a<span>b</span>c</p><ul><li>dd</li><li>ee</li></ul>`,
	}

	for _, fragment := range fragments {
		root := parseRoot(t, fragment)
		total := dom.TextLength(root)

		spans := [][2]int{{0, 0}, {0, total}, {1, total - 1}, {total / 2, total / 2}}
		for _, span := range spans {
			codec := selection.NewCodec()
			st := dom.NewSelectionState()
			selectSpan(t, root, st, span[0], span[1])

			first := codec.Export(root, st)
			require.NotNil(t, first, "%s span %v", fragment, span)

			ok := codec.Import(root, st, first)
			require.True(t, ok)

			second := codec.Export(root, st)
			require.NotNil(t, second)
			assert.Equal(t, first.Start, second.Start, "%s span %v", fragment, span)
			assert.Equal(t, first.End, second.End, "%s span %v", fragment, span)
			assert.Equal(t, first.Collapsed, second.Collapsed, "%s span %v", fragment, span)
		}
	}
}

func TestImport_CollapsedPreservation(t *testing.T) {
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	total := dom.TextLength(root)

	for _, k := range []int{0, total / 2, total} {
		codec := selection.NewCodec()
		st := dom.NewSelectionState()

		ok := codec.Import(root, st, &selection.Snapshot{Start: k, End: k, Collapsed: true})
		require.True(t, ok, "offset %d", k)

		require.True(t, st.IsCollapsed(), "offset %d", k)
		snap := codec.Export(root, st)
		require.NotNil(t, snap)
		assert.Equal(t, k, snap.Start, "offset %d", k)
		assert.Equal(t, k, snap.End, "offset %d", k)
	}
}

func TestImport_BoundaryExactness(t *testing.T) {
	codec := selection.NewCodec()

	tests := []struct {
		name       string
		start, end int
		wantText   string
	}{
		{"first word", 0, 5, "Hello"},
		{"second word", 6, 11, "World"},
		{"caret after final char", 11, 11, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseRoot(t, `Hello World`)
			st := dom.NewSelectionState()

			ok := codec.Import(root, st, &selection.Snapshot{
				Start: tt.start, End: tt.end, Collapsed: tt.start == tt.end,
			})
			require.True(t, ok)
			assert.Equal(t, tt.wantText, st.String())

			r := st.Primary()
			require.NotNil(t, r)
			if tt.start == tt.end {
				assert.True(t, r.Collapsed())
				// End lands at the last character of the last text node,
				// not one past a nonexistent node.
				assert.Equal(t, html.TextNode, r.EndContainer.Type)
				assert.Equal(t, 11, r.EndOffset)
			}
		})
	}
}

func TestImport_MultiNodeSpan(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	texts := textNodes(root)
	require.Len(t, texts, 2)

	st := dom.NewSelectionState()
	ok := codec.Import(root, st, &selection.Snapshot{Start: 3, End: 9})
	require.True(t, ok)

	r := st.Primary()
	require.NotNil(t, r)
	assert.Same(t, texts[0], r.StartContainer)
	assert.Equal(t, 3, r.StartOffset)
	assert.Same(t, texts[1], r.EndContainer)
	assert.Equal(t, 3, r.EndOffset)
	assert.Equal(t, "lo Wor", st.String())
}

func TestImport_GracefulDegradation(t *testing.T) {
	codec := selection.NewCodec()

	t.Run("end past content clamps to last char", func(t *testing.T) {
		root := parseRoot(t, `<p>Hello </p><b>World</b>`)
		st := dom.NewSelectionState()

		ok := codec.Import(root, st, &selection.Snapshot{Start: 0, End: 999})
		require.True(t, ok)
		assert.Equal(t, "Hello World", st.String())

		r := st.Primary()
		require.NotNil(t, r)
		assert.Equal(t, 5, r.EndOffset, "end sits at the last text node's length")
	})

	t.Run("both offsets past content collapse at end", func(t *testing.T) {
		root := parseRoot(t, `Hello`)
		st := dom.NewSelectionState()

		ok := codec.Import(root, st, &selection.Snapshot{Start: 500, End: 999})
		require.True(t, ok)

		r := st.Primary()
		require.NotNil(t, r)
		assert.True(t, r.Collapsed())
		assert.Equal(t, 5, r.StartOffset)
	})
}

func TestImport_NilInputs(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello`)
	text := textNodes(root)[0]

	st := dom.NewSelectionState()
	st.AddRange(dom.NewCollapsedRange(text, 2))

	assert.False(t, codec.Import(root, st, nil), "nil snapshot")
	assert.False(t, codec.Import(nil, st, &selection.Snapshot{}), "nil root")
	assert.False(t, codec.Import(root, nil, &selection.Snapshot{}), "nil state")

	// The existing live selection is untouched on every failure path.
	require.Equal(t, 1, st.RangeCount())
	assert.Equal(t, 2, st.Primary().StartOffset)
}

func TestImport_InvalidSnapshot(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello`)
	st := dom.NewSelectionState()

	assert.False(t, codec.Import(root, st, &selection.Snapshot{Start: -1, End: 3}))
	assert.False(t, codec.Import(root, st, &selection.Snapshot{Start: 4, End: 2}))
	assert.Zero(t, st.RangeCount())
}

func TestImport_Idempotent(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	snap := &selection.Snapshot{Start: 2, End: 8}

	st := dom.NewSelectionState()
	require.True(t, codec.Import(root, st, snap))
	first := codec.Export(root, st)
	require.NotNil(t, first)

	require.True(t, codec.Import(root, st, snap))
	second := codec.Export(root, st)
	require.NotNil(t, second)

	assert.Equal(t, first.Start, second.Start)
	assert.Equal(t, first.End, second.End)
	assert.Equal(t, first.Collapsed, second.Collapsed)
}

func TestImport_TextFreeRoot(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<br/><hr/>`)
	st := dom.NewSelectionState()

	ok := codec.Import(root, st, &selection.Snapshot{Start: 0, End: 0, Collapsed: true})
	require.True(t, ok)

	r := st.Primary()
	require.NotNil(t, r)
	assert.True(t, r.Collapsed())
	assert.Same(t, root, r.StartContainer)
	assert.Zero(t, r.StartOffset)
}

func TestImport_ZeroLengthTextNode(t *testing.T) {
	// An empty text node must not advance the counter, yet stays a valid
	// boundary host when its span [k, k] matches.
	codec := selection.NewCodec()
	root := dom.NewElement("div")
	empty := dom.NewText("")
	rest := dom.NewText("ab")
	root.AppendChild(empty)
	root.AppendChild(rest)

	st := dom.NewSelectionState()
	ok := codec.Import(root, st, &selection.Snapshot{Start: 0, End: 1})
	require.True(t, ok)

	r := st.Primary()
	require.NotNil(t, r)
	assert.Same(t, empty, r.StartContainer, "empty node hosts the start boundary")
	assert.Zero(t, r.StartOffset)
	assert.Same(t, rest, r.EndContainer)
	assert.Equal(t, 1, r.EndOffset)
	assert.Equal(t, "a", st.String())
}

func TestImport_CommentsInvisible(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `a<!-- twenty chars of commentary -->b`)
	st := dom.NewSelectionState()

	ok := codec.Import(root, st, &selection.Snapshot{Start: 1, End: 2})
	require.True(t, ok)
	assert.Equal(t, "b", st.String())
}

func TestImport_MultibyteRunes(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>héllo </p><b>wörld</b>`)
	st := dom.NewSelectionState()

	ok := codec.Import(root, st, &selection.Snapshot{Start: 1, End: 8})
	require.True(t, ok)
	assert.Equal(t, "éllo wö", st.String())
}

func TestImport_FastPathReusesAttachedHints(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello </p><b>World</b>`)
	texts := textNodes(root)

	st := dom.NewSelectionState()
	st.AddRange(&dom.Range{
		StartContainer: texts[0], StartOffset: 2,
		EndContainer: texts[1], EndOffset: 4,
	})

	snap := codec.Export(root, st)
	require.NotNil(t, snap)

	// Tree unchanged: hints are valid and the import lands on them.
	require.True(t, codec.Import(root, st, snap))
	r := st.Primary()
	require.NotNil(t, r)
	assert.Same(t, texts[0], r.StartContainer)
	assert.Same(t, texts[1], r.EndContainer)
}

func TestImport_StaleHintsFallBackToWalk(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `<p>Hello World</p>`)
	st := dom.NewSelectionState()
	selectSpan(t, root, st, 0, 5)

	snap := codec.Export(root, st)
	require.NotNil(t, snap)
	staleStart := snap.StartContainer

	// Replace the content wholesale: same text, new nodes. The snapshot's
	// hints now point into a detached subtree.
	fresh, err := dom.ParseFragment(`<p>Hello</p><p> World</p>`)
	require.NoError(t, err)
	dom.ReplaceChildren(root, fresh...)
	require.False(t, dom.Attached(root, staleStart))

	ok := codec.Import(root, st, snap)
	require.True(t, ok)

	r := st.Primary()
	require.NotNil(t, r)
	assert.True(t, dom.Attached(root, r.StartContainer), "restored range lives in the new tree")
	assert.Equal(t, "Hello", st.String())
}

func TestImport_SurvivesContentMutation(t *testing.T) {
	// The host-editor flow: export, mutate the region, import.
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello World`)
	st := dom.NewSelectionState()
	selectSpan(t, root, st, 6, 11)

	snap := codec.Export(root, st)
	require.NotNil(t, snap)

	// A formatting command wraps the second word in <b>.
	fresh, err := dom.ParseFragment(`Hello <b>World</b>`)
	require.NoError(t, err)
	dom.ReplaceChildren(root, fresh...)

	ok := codec.Import(root, st, snap)
	require.True(t, ok)
	assert.Equal(t, "World", st.String())

	after := codec.Export(root, st)
	require.NotNil(t, after)
	assert.Equal(t, snap.Start, after.Start)
	assert.Equal(t, snap.End, after.End)
}

func TestImport_RecoversFromBackendPanic(t *testing.T) {
	var buf bytes.Buffer
	codec := &selection.Codec{Logger: log.New(&buf)}
	root := parseRoot(t, `Hello`)

	st := &rejectingState{}
	ok := codec.Import(root, st, &selection.Snapshot{Start: 0, End: 5})

	assert.False(t, ok)
	assert.Empty(t, st.ranges, "no partial mutation applied")
	assert.Contains(t, buf.String(), "selection restore failed")
}

func TestImport_PanicWithoutLogger(t *testing.T) {
	codec := selection.NewCodec()
	root := parseRoot(t, `Hello`)

	assert.NotPanics(t, func() {
		ok := codec.Import(root, &rejectingState{}, &selection.Snapshot{Start: 0, End: 1})
		assert.False(t, ok)
	})
}

func TestCodec_ZeroValueUsable(t *testing.T) {
	var codec selection.Codec
	root := parseRoot(t, `Hello`)
	st := dom.NewSelectionState()

	ok := codec.Import(root, st, &selection.Snapshot{Start: 1, End: 4})
	require.True(t, ok)
	assert.Equal(t, "ell", st.String())
}
