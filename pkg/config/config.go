// Package config defines core configuration types for goeditable.
// These types are pure data structures with no external dependencies on config loaders.
package config

// Flavor specifies the Markdown flavor to use for import.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// MarkdownConfig controls Markdown import and export behavior.
type MarkdownConfig struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// DetectLanguage annotates untagged code blocks with a detected
	// language class on import. A pointer keeps "unset" distinct from
	// "explicitly disabled" so layered configs can turn it off.
	DetectLanguage *bool `yaml:"detect_language"`
}

// DetectLanguageEnabled reports whether code block language detection is
// enabled. Unset defaults to enabled.
func (m MarkdownConfig) DetectLanguageEnabled() bool {
	return m.DetectLanguage == nil || *m.DetectLanguage
}

// Config is the root configuration structure for goeditable.
type Config struct {
	// EditableAttr is the attribute that marks elements as editable regions.
	EditableAttr string `yaml:"editable_attr"`

	// Markdown configures Markdown import and export.
	Markdown MarkdownConfig `yaml:"markdown"`

	// Plugins lists Lua plugin scripts loaded at editor startup.
	Plugins []string `yaml:"plugins"`

	// LogLevel sets logging verbosity: debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// Color controls colorized CLI output: auto, always, or never.
	Color string `yaml:"color"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		EditableAttr: "data-editable",
		Markdown: MarkdownConfig{
			Flavor:         FlavorCommonMark,
			DetectLanguage: BoolPtr(true),
		},
		Plugins:  nil,
		LogLevel: "info",
		Color:    "auto",
	}
}

// BoolPtr returns a pointer to the given bool, for use with tri-state
// configuration fields.
func BoolPtr(v bool) *bool {
	return &v
}
