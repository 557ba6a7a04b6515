package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func nopCommand(name string) Command {
	return NewCommand(name, "test command", func(*Context) error { return nil })
}

func TestRegistry_Register_And_Get(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nopCommand("bold"))

	got, ok := reg.Get("bold")
	assert.True(t, ok)
	assert.Equal(t, "bold", got.Name())
	assert.Equal(t, "test command", got.Description())
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_Register_Replaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nopCommand("bold"))
	reg.Register(NewCommand("bold", "second registration", func(*Context) error { return nil }))

	got, ok := reg.Get("bold")
	assert.True(t, ok)
	assert.Equal(t, "second registration", got.Description())
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nopCommand("bold"))
	reg.RegisterAlias("strong", "bold")

	tests := []struct {
		key      string
		wantName string
		wantOK   bool
	}{
		{"bold", "bold", true},
		{"strong", "bold", true},
		{"nonexistent", "", false},
	}

	for _, tt := range tests {
		name, _, ok := reg.Resolve(tt.key)
		assert.Equal(t, tt.wantOK, ok, "key: %s", tt.key)
		if tt.wantOK {
			assert.Equal(t, tt.wantName, name, "key: %s", tt.key)
		}
	}
}

func TestRegistry_RegisterAlias_UnknownCommand(t *testing.T) {
	reg := NewRegistry()
	// Registering an alias for an unknown command should not panic.
	reg.RegisterAlias("some-alias", "UNKNOWN")

	_, _, ok := reg.Resolve("some-alias")
	assert.False(t, ok)
}

func TestRegistry_Commands_Sorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nopCommand("italic"))
	reg.Register(nopCommand("bold"))
	reg.Register(nopCommand("underline"))

	cmds := reg.Commands()
	assert.Len(t, cmds, 3)
	assert.Equal(t, "bold", cmds[0].Name())
	assert.Equal(t, "italic", cmds[1].Name())
	assert.Equal(t, "underline", cmds[2].Name())
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register(nopCommand("italic"))
	reg.Register(nopCommand("bold"))

	assert.Equal(t, []string{"bold", "italic"}, reg.Names())
}
