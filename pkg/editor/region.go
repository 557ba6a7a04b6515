package editor

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/selection"
)

// Region is one editable root inside an editor's document. It pairs the
// root element with its own live selection; commands mutate the subtree
// under Root and the editor's dispatch keeps the selection aligned.
type Region struct {
	id     string
	root   *html.Node
	sel    *dom.SelectionState
	codec  *selection.Codec
	events *Events
}

// ID returns the region identifier.
func (r *Region) ID() string {
	return r.id
}

// Root returns the region's root element. Commands may mutate the subtree
// under it freely; they must not detach the root itself.
func (r *Region) Root() *html.Node {
	return r.root
}

// Selection returns the region's live selection.
func (r *Region) Selection() *dom.SelectionState {
	return r.sel
}

// Content serializes the region's children to HTML.
func (r *Region) Content() (string, error) {
	return dom.InnerHTML(r.root)
}

// SetContent replaces the region's children with the parsed fragment,
// carrying the selection across the swap: the current selection is exported
// to offsets before the old children are detached and imported against the
// new children afterwards. When the restore fails the selection is cleared
// rather than left pointing at detached nodes.
func (r *Region) SetContent(markup string) error {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("set content: %w", err)
	}

	snap := r.codec.Export(r.root, r.sel)
	dom.ReplaceChildren(r.root, nodes...)
	if snap != nil && !r.codec.Import(r.root, r.sel, snap) {
		r.sel.RemoveAllRanges()
	}

	r.emit(Event{Type: EventContentChanged, RegionID: r.id})
	return nil
}

// Text returns the region's text content: text nodes in document order.
func (r *Region) Text() string {
	return dom.Text(r.root)
}

// TextLength returns the rune length of the region's text content.
func (r *Region) TextLength() int {
	return dom.TextLength(r.root)
}

// Select places the selection at the given rune offsets within the region.
func (r *Region) Select(start, end int) bool {
	return r.codec.Import(r.root, r.sel, &selection.Snapshot{
		Start:     start,
		End:       end,
		Collapsed: start == end,
	})
}

// Snapshot exports the region's current selection, or nil when none is active.
func (r *Region) Snapshot() *selection.Snapshot {
	return r.codec.Export(r.root, r.sel)
}

func (r *Region) emit(ev Event) {
	if r.events != nil {
		r.events.Emit(ev)
	}
}
