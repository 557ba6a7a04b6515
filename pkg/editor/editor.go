// Package editor hosts parsed HTML documents, designates editable regions
// inside them, and dispatches commands against those regions while keeping
// the live selection consistent across the mutations commands make.
//
// The engine is headless: it owns structure and state, never rendering or
// input. It also ships no commands of its own; hosts and plugins register
// the mutations they need and the editor supplies the dispatch plumbing
// around them (region lookup, selection save and restore, events).
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/config"
	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/fsutil"
	"github.com/yaklabco/goeditable/pkg/selection"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNoDocument indicates no document has been loaded yet.
	ErrNoDocument = errors.New("no document loaded")

	// ErrRegionNotFound indicates the requested region ID is not attached.
	ErrRegionNotFound = errors.New("region not found")

	// ErrDuplicateRegion indicates a region with the same ID is already attached.
	ErrDuplicateRegion = errors.New("duplicate region")

	// ErrNotElement indicates a node that is not an element was offered as a region root.
	ErrNotElement = errors.New("node is not an element")
)

// Editor owns a parsed document and the editable regions inside it.
//
// An Editor is not safe for concurrent use: the engine follows a
// single-goroutine cooperative model, matching the synchronous selection
// core it is built around. The command registry and event bus carry their
// own locks only so setup code may register while the document is live.
type Editor struct {
	cfg      *config.Config
	logger   *log.Logger
	codec    *selection.Codec
	registry *Registry
	events   *Events

	doc     *html.Node
	regions map[string]*Region
	order   []string
	nextID  int
	plugins []string
}

// Option configures an Editor during New.
type Option func(*Editor)

// WithConfig sets the editor configuration. Nil is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithLogger sets the logger used by the editor and its selection codec.
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithRegistry sets a pre-populated command registry. Nil is ignored.
func WithRegistry(reg *Registry) Option {
	return func(e *Editor) {
		if reg != nil {
			e.registry = reg
		}
	}
}

// New creates an editor with no document loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		cfg:      config.NewConfig(),
		registry: NewRegistry(),
		events:   NewEvents(),
		regions:  make(map[string]*Region),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.codec = &selection.Codec{Logger: e.logger}
	return e
}

// Config returns the editor configuration.
func (e *Editor) Config() *config.Config {
	return e.cfg
}

// Registry returns the command registry.
func (e *Editor) Registry() *Registry {
	return e.registry
}

// Events returns the event bus.
func (e *Editor) Events() *Events {
	return e.events
}

// Codec returns the selection codec the editor dispatches through.
func (e *Editor) Codec() *selection.Codec {
	return e.codec
}

// Document returns the loaded document root, or nil.
func (e *Editor) Document() *html.Node {
	return e.doc
}

// LoadHTML parses a full HTML document and attaches every element carrying
// the configured editable attribute as a region, in document order. Any
// previously loaded document and its regions are discarded.
func (e *Editor) LoadHTML(r io.Reader) error {
	doc, err := dom.ParseDocument(r)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	e.doc = doc
	e.regions = make(map[string]*Region)
	e.order = nil
	e.nextID = 0

	for _, el := range dom.EditableRegions(doc, e.cfg.EditableAttr) {
		if _, err := e.Attach(el); err != nil {
			return fmt.Errorf("attach region: %w", err)
		}
	}
	return nil
}

// LoadString parses an HTML document held in a string. See LoadHTML.
func (e *Editor) LoadString(markup string) error {
	return e.LoadHTML(strings.NewReader(markup))
}

// LoadFile reads and parses an HTML document from disk. See LoadHTML.
func (e *Editor) LoadFile(ctx context.Context, path string) error {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("load file: %w", err)
	}
	return e.LoadHTML(strings.NewReader(string(content)))
}

// Attach registers el as an editable region and returns it. The region ID
// is the element's id attribute when present, otherwise a generated
// "region-N". Attaching an element whose ID is already taken fails.
func (e *Editor) Attach(el *html.Node) (*Region, error) {
	if el == nil || el.Type != html.ElementNode {
		return nil, ErrNotElement
	}

	id, ok := dom.Attr(el, "id")
	if !ok || id == "" {
		e.nextID++
		id = fmt.Sprintf("region-%d", e.nextID)
	}
	if _, exists := e.regions[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, id)
	}

	region := &Region{
		id:     id,
		root:   el,
		sel:    dom.NewSelectionState(),
		codec:  e.codec,
		events: e.events,
	}
	e.regions[id] = region
	e.order = append(e.order, id)

	e.events.Emit(Event{Type: EventRegionAttached, RegionID: id})
	e.logf("region attached", "region", id)
	return region, nil
}

// Detach removes the region with the given ID. The underlying element
// stays in the document; only the editing state around it is dropped.
func (e *Editor) Detach(id string) bool {
	if _, ok := e.regions[id]; !ok {
		return false
	}
	delete(e.regions, id)
	for i, rid := range e.order {
		if rid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.events.Emit(Event{Type: EventRegionDetached, RegionID: id})
	e.logf("region detached", "region", id)
	return true
}

// Region returns the attached region with the given ID.
func (e *Editor) Region(id string) (*Region, bool) {
	r, ok := e.regions[id]
	return r, ok
}

// Regions returns all attached regions in attachment order.
func (e *Editor) Regions() []*Region {
	out := make([]*Region, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.regions[id])
	}
	return out
}

// RenderHTML serializes the loaded document to w.
func (e *Editor) RenderHTML(w io.Writer) error {
	if e.doc == nil {
		return ErrNoDocument
	}
	if err := html.Render(w, e.doc); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

// SaveFile writes the serialized document to path atomically. A save that
// would not change the file is skipped, so file watchers stay quiet on
// no-op saves.
func (e *Editor) SaveFile(ctx context.Context, path string) error {
	if e.doc == nil {
		return ErrNoDocument
	}
	markup, err := dom.RenderNode(e.doc)
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	wrote, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(markup), 0)
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	if !wrote {
		e.logf("save skipped, file unchanged", "path", path)
	}
	return nil
}

// Use initializes a plugin against this editor. Plugins typically register
// commands and event listeners from Init.
func (e *Editor) Use(p Plugin) error {
	if p == nil {
		return errors.New("nil plugin")
	}
	if err := p.Init(e); err != nil {
		return fmt.Errorf("plugin %s: %w", p.Name(), err)
	}
	e.plugins = append(e.plugins, p.Name())
	e.logf("plugin initialized", "plugin", p.Name())
	return nil
}

// Plugins returns the names of initialized plugins, in Use order.
func (e *Editor) Plugins() []string {
	out := make([]string, len(e.plugins))
	copy(out, e.plugins)
	return out
}

// logf logs a debug message when a logger is configured.
func (e *Editor) logf(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}
