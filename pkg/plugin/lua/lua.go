// Package lua runs Lua scripts as editor plugins.
//
// Scripts register editor commands through a small `goeditable` API table;
// everything else about dispatch (selection preservation, events) comes
// from the editor itself, so a Lua command behaves exactly like a Go one.
// The VM is a single sandboxed state shared by all scripts of the plugin:
// base, string, table, and math libraries only, with the code loaders
// (dofile, loadfile, load) removed so scripts cannot pull in anything the
// host did not hand them.
package lua

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/yaklabco/goeditable/pkg/editor"
)

// ErrNotInitialized is returned when the plugin runs code before Init.
var ErrNotInitialized = errors.New("lua plugin not initialized")

// Plugin loads Lua scripts into a sandboxed VM and exposes their commands
// to an editor. Create it with New, hand it to Editor.Use, and Close it
// when the editor goes away.
//
// The VM is single-threaded like the editor itself: commands execute on
// the goroutine that called Editor.Exec.
type Plugin struct {
	paths  []string
	state  *lua.LState
	editor *editor.Editor
}

// New creates a plugin that loads the given script files when the editor
// initializes it. No paths is valid; scripts can also be fed to an
// initialized plugin with DoString.
func New(paths ...string) *Plugin {
	return &Plugin{paths: paths}
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "lua"
}

// Init builds the sandboxed VM, installs the script API, and runs every
// configured script file. A script error aborts initialization and tears
// the VM down again.
func (p *Plugin) Init(e *editor.Editor) error {
	if p.state != nil {
		return errors.New("already initialized")
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	removeLoaders(L)

	p.state = L
	p.editor = e
	p.installAPI(L, e)

	for _, path := range p.paths {
		if err := L.DoFile(path); err != nil {
			p.Close()
			return fmt.Errorf("load script %s: %w", path, err)
		}
	}
	return nil
}

// DoString runs a Lua chunk in the plugin's VM, typically to register
// commands without a script file.
func (p *Plugin) DoString(code string) error {
	if p.state == nil {
		return ErrNotInitialized
	}
	if err := p.state.DoString(code); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// Close shuts the VM down. Commands the scripts registered stay in the
// editor's registry but fail when dispatched.
func (p *Plugin) Close() {
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
}

// openSafeLibraries opens only the Lua standard libraries that cannot
// reach outside the VM. io, os, debug, and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// removeLoaders nils the base-library functions that load code from
// arbitrary sources.
func removeLoaders(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installAPI publishes the `goeditable` table:
//
//	goeditable.command(name, fn)  -- register fn as an editor command
//	goeditable.alias(alias, name) -- register a command alias
//
// A command fn receives a region table with id plus content(),
// set_content(html), text(), and text_length(): dot-call style, no
// method receivers.
func (p *Plugin) installAPI(L *lua.LState, e *editor.Editor) {
	mod := L.NewTable()

	L.SetField(mod, "command", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		e.Registry().Register(editor.NewCommand(name, "lua command", p.commandAdapter(fn)))
		return 0
	}))

	L.SetField(mod, "alias", L.NewFunction(func(L *lua.LState) int {
		e.Registry().RegisterAlias(L.CheckString(1), L.CheckString(2))
		return 0
	}))

	L.SetGlobal("goeditable", mod)
}

// commandAdapter turns a Lua function into an editor command body. Lua
// panics are recovered into errors so a broken script cannot take the
// host down.
func (p *Plugin) commandAdapter(fn *lua.LFunction) func(*editor.Context) error {
	return func(cc *editor.Context) (err error) {
		L := p.state
		if L == nil {
			return ErrNotInitialized
		}

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()

		L.Push(fn)
		L.Push(p.regionTable(L, cc.Region))
		if err := L.PCall(1, 0, nil); err != nil {
			return fmt.Errorf("lua command: %w", err)
		}
		return nil
	}
}

// regionTable builds the per-dispatch table a command fn receives.
func (p *Plugin) regionTable(L *lua.LState, region *editor.Region) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(region.ID()))

	L.SetField(t, "content", L.NewFunction(func(L *lua.LState) int {
		content, err := region.Content()
		if err != nil {
			L.RaiseError("content: %s", err.Error())
			return 0
		}
		L.Push(lua.LString(content))
		return 1
	}))

	L.SetField(t, "set_content", L.NewFunction(func(L *lua.LState) int {
		if err := region.SetContent(L.CheckString(1)); err != nil {
			L.RaiseError("set_content: %s", err.Error())
		}
		return 0
	}))

	L.SetField(t, "text", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(region.Text()))
		return 1
	}))

	L.SetField(t, "text_length", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(region.TextLength()))
		return 1
	}))

	return t
}
