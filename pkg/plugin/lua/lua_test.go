package lua_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goeditable/pkg/editor"
	"github.com/yaklabco/goeditable/pkg/plugin/lua"
)

const shoutScript = `
goeditable.command("shout", function(region)
  region.set_content(string.upper(region.content()))
end)
`

func newLuaEditor(t *testing.T) (*editor.Editor, *lua.Plugin) {
	t.Helper()

	e := editor.New()
	require.NoError(t, e.LoadString(`<div id="box" data-editable><p>hello world</p></div>`))

	p := lua.New()
	require.NoError(t, e.Use(p))
	t.Cleanup(p.Close)

	return e, p
}

func region(t *testing.T, e *editor.Editor, id string) *editor.Region {
	t.Helper()

	r, ok := e.Region(id)
	require.True(t, ok, "region %s not attached", id)
	return r
}

func TestPlugin_Name(t *testing.T) {
	assert.Equal(t, "lua", lua.New().Name())
}

func TestPlugin_Init_LoadsScriptFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shout.lua")
	require.NoError(t, os.WriteFile(path, []byte(shoutScript), 0o644))

	e := editor.New()
	require.NoError(t, e.LoadString(`<div id="box" data-editable><p>hi</p></div>`))

	p := lua.New(path)
	require.NoError(t, e.Use(p))
	t.Cleanup(p.Close)

	_, ok := e.Registry().Get("shout")
	assert.True(t, ok)
	assert.Equal(t, []string{"lua"}, e.Plugins())
}

func TestPlugin_Init_MissingScript(t *testing.T) {
	e := editor.New()

	err := e.Use(lua.New(filepath.Join(t.TempDir(), "missing.lua")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load script")
}

func TestPlugin_Init_BrokenScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.lua")
	require.NoError(t, os.WriteFile(path, []byte("this is not lua ("), 0o644))

	p := lua.New(path)
	err := editor.New().Use(p)

	require.Error(t, err)

	// Init tore the VM down, so the plugin is back to uninitialized.
	assert.ErrorIs(t, p.DoString("return 1"), lua.ErrNotInitialized)
}

func TestPlugin_Init_Twice(t *testing.T) {
	p := lua.New()
	require.NoError(t, editor.New().Use(p))
	t.Cleanup(p.Close)

	err := editor.New().Use(p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestPlugin_DoString_BeforeInit(t *testing.T) {
	err := lua.New().DoString("return 1")

	assert.ErrorIs(t, err, lua.ErrNotInitialized)
}

func TestPlugin_Command_MutatesRegion(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(shoutScript))

	_, err := e.Exec(context.Background(), "box", "shout", nil)
	require.NoError(t, err)

	content, err := region(t, e, "box").Content()
	require.NoError(t, err)
	assert.Equal(t, "<p>HELLO WORLD</p>", content)
}

func TestPlugin_Command_PreservesSelection(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(shoutScript))

	r := region(t, e, "box")
	require.True(t, r.Select(0, 5))

	result, err := e.Exec(context.Background(), "box", "shout", nil)
	require.NoError(t, err)

	assert.True(t, result.SelectionRestored)
	snap := r.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 0, snap.Start)
	assert.Equal(t, 5, snap.End)
}

func TestPlugin_Command_RegionText(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(`
goeditable.command("stats", function(region)
  region.set_content("<p>" .. region.text() .. " (" .. region.text_length() .. ")</p>")
end)
`))

	_, err := e.Exec(context.Background(), "box", "stats", nil)
	require.NoError(t, err)

	content, err := region(t, e, "box").Content()
	require.NoError(t, err)
	assert.Equal(t, "<p>hello world (11)</p>", content)
}

func TestPlugin_Command_ScriptError(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(`
goeditable.command("boom", function(region)
  error("kaboom")
end)
`))

	_, err := e.Exec(context.Background(), "box", "boom", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")

	// A failed command leaves the region as the script left it, which for
	// boom is untouched.
	content, cerr := region(t, e, "box").Content()
	require.NoError(t, cerr)
	assert.Equal(t, "<p>hello world</p>", content)
}

func TestPlugin_Alias(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(shoutScript))
	require.NoError(t, p.DoString(`goeditable.alias("upper", "shout")`))

	result, err := e.Exec(context.Background(), "box", "upper", nil)

	require.NoError(t, err)
	assert.Equal(t, "shout", result.Command)
}

func TestPlugin_DispatchAfterClose(t *testing.T) {
	e, p := newLuaEditor(t)
	require.NoError(t, p.DoString(shoutScript))

	p.Close()

	_, err := e.Exec(context.Background(), "box", "shout", nil)
	assert.ErrorIs(t, err, lua.ErrNotInitialized)
}

func TestSandbox_SafeLibrariesAvailable(t *testing.T) {
	_, p := newLuaEditor(t)

	err := p.DoString(`
local s = string.upper("a")
local c = table.concat({"b", "c"})
local m = math.max(1, 2)
`)

	assert.NoError(t, err)
}

func TestSandbox_NoFilesystemAccess(t *testing.T) {
	_, p := newLuaEditor(t)

	assert.Error(t, p.DoString(`io.open("secrets.txt")`), "io must not be open")
	assert.Error(t, p.DoString(`os.remove("secrets.txt")`), "os must not be open")
}

func TestSandbox_LoadersRemoved(t *testing.T) {
	_, p := newLuaEditor(t)

	for _, chunk := range []string{
		`dofile("x.lua")`,
		`loadfile("x.lua")`,
		`load("return 1")`,
		`loadstring("return 1")`,
	} {
		assert.Error(t, p.DoString(chunk), "loader should be disabled: %s", chunk)
	}
}
