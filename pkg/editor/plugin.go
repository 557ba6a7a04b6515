package editor

// Plugin extends the editor at setup time. Implementations typically
// register commands, aliases, and event listeners from Init; the engine
// itself ships none of those, so plugins (and hosts) supply all behavior.
type Plugin interface {
	// Name returns the plugin's unique name.
	Name() string

	// Init wires the plugin into the editor.
	Init(e *Editor) error
}
