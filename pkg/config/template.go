package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every setting with its default value spelled out.
	// If false, generates a minimal template with most settings commented.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return []byte(fullTemplate), nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# goeditable configuration
# See: https://github.com/yaklabco/goeditable

# Attribute that marks elements as editable regions
editable_attr: data-editable

# Markdown import/export
markdown:
  # Flavor: commonmark or gfm
  flavor: commonmark
  # Annotate untagged code blocks with a detected language
  detect_language: true

# Lua plugin scripts loaded at editor startup
# plugins:
#   - plugins/wordcount.lua

# Logging verbosity: debug, info, warn, error
# log_level: info

# Colorize CLI output: auto, always, never
# color: auto
`

const fullTemplate = `# goeditable configuration - Full Template
# See: https://github.com/yaklabco/goeditable
#
# This template includes all available settings with their defaults.
# Adjust as needed.

# Attribute that marks elements as editable regions.
# Elements carrying this attribute become independently editable,
# each with its own selection and content lifecycle.
editable_attr: data-editable

# Markdown import/export
markdown:
  # Flavor used when importing Markdown: commonmark or gfm
  flavor: commonmark
  # Annotate untagged code blocks with a detected language
  # (adds class="language-<x>" on import)
  detect_language: true

# Lua plugin scripts loaded at editor startup.
# Scripts run in a sandbox (no io/os) and register commands via
# goeditable.command(name, fn).
plugins: []

# Logging verbosity: debug, info, warn, error
log_level: info

# Colorize CLI output: auto, always, never
color: auto
`

// templateToJSON generates the configuration template in JSON format.
func templateToJSON() ([]byte, error) {
	cfg := map[string]any{
		"editable_attr": "data-editable",
		"markdown": map[string]any{
			"flavor":          "commonmark",
			"detect_language": true,
		},
		"plugins":   []string{},
		"log_level": "info",
		"color":     "auto",
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# goeditable configuration
# See: https://github.com/yaklabco/goeditable`
}
