package editor

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds all registered commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> canonical name
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command to the registry.
// If a command with the same name already exists, it is replaced.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[cmd.Name()] = cmd
}

// RegisterAlias maps an alias to a canonical command name.
// Used for host-toolbar compatibility (e.g., "strong" -> "bold").
func (r *Registry) RegisterAlias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = name
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Resolve returns the canonical name and command for a given key.
// The key can be a command name or an alias.
// Returns (name, command, found).
func (r *Registry) Resolve(key string) (string, Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.byName[key]; ok {
		return cmd.Name(), cmd, true
	}
	if target, ok := r.aliases[key]; ok {
		if cmd, ok := r.byName[target]; ok {
			return cmd.Name(), cmd, true
		}
	}
	return "", nil, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		result = append(result, cmd)
	}

	// Sort by name for consistent, deterministic output.
	slices.SortFunc(result, func(a, b Command) int {
		return cmp.Compare(a.Name(), b.Name())
	})

	return result
}

// Names returns all registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byName))
	for name := range r.byName {
		result = append(result, name)
	}

	slices.Sort(result)
	return result
}
