package editor

import (
	"context"

	"github.com/charmbracelet/log"
)

// Command is a named DOM mutation dispatched through Editor.Exec. Commands
// are opaque to the engine: it neither knows nor cares what they do to the
// region's subtree, it only brackets them with selection save and restore.
type Command interface {
	// Name returns the unique command name (e.g., "bold", "insert-text").
	Name() string

	// Description returns a human-readable description of the command.
	Description() string

	// Apply executes the command against the given context.
	//
	// Commands must:
	//   - Mutate only the subtree under cc.Region.Root().
	//   - Return error only for failures, never to signal "no change".
	//   - Respect cancellation via cc.Cancelled() in long loops.
	Apply(cc *Context) error
}

// Context provides everything a command needs to run against a region.
//
// Design note: Context stores context.Context as a field (Ctx) rather than
// passing it as a method parameter. This is acceptable because Context is a
// short-lived parameter object created per dispatch, not a long-lived
// struct. It keeps the Command interface to a single Apply method while
// still providing cancellation via the Cancelled() helper.
type Context struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// Region is the region the command runs against.
	Region *Region

	// Args carries command-specific arguments (may be nil).
	Args map[string]any

	// Logger is the editor's logger (may be nil).
	Logger *log.Logger

	// Registry provides access to the command registry for name lookups.
	Registry *Registry
}

// NewContext creates a command context for the given region and arguments.
func NewContext(ctx context.Context, region *Region, args map[string]any) *Context {
	return &Context{
		Ctx:    ctx,
		Region: region,
		Args:   args,
	}
}

// Cancelled returns true if the context has been cancelled.
func (cc *Context) Cancelled() bool {
	select {
	case <-cc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Arg returns a command argument value, or the default if not set.
func (cc *Context) Arg(key string, defaultValue any) any {
	if cc.Args == nil {
		return defaultValue
	}
	if v, ok := cc.Args[key]; ok {
		return v
	}
	return defaultValue
}

// ArgString returns a string argument, or the default.
func (cc *Context) ArgString(key string, defaultValue string) string {
	if s, ok := cc.Arg(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// ArgInt returns an integer argument, or the default.
func (cc *Context) ArgInt(key string, defaultValue int) int {
	switch v := cc.Arg(key, defaultValue).(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// ArgBool returns a boolean argument, or the default.
func (cc *Context) ArgBool(key string, defaultValue bool) bool {
	if b, ok := cc.Arg(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// funcCommand adapts a plain function into a Command.
type funcCommand struct {
	name        string
	description string
	apply       func(*Context) error
}

// NewCommand wraps fn as a Command with the given name and description.
func NewCommand(name, description string, fn func(*Context) error) Command {
	return &funcCommand{name: name, description: description, apply: fn}
}

func (c *funcCommand) Name() string        { return c.name }
func (c *funcCommand) Description() string { return c.description }

func (c *funcCommand) Apply(cc *Context) error {
	return c.apply(cc)
}
