package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/goeditable/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "markdown.flavor").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., suspicious plugin paths).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// knownLogLevels lists valid log level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// knownColorModes lists valid color mode values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.EditableAttr != "" && !isValidAttrName(cfg.EditableAttr) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "editable_attr",
			Value:   cfg.EditableAttr,
			Message: fmt.Sprintf("invalid attribute name %q", cfg.EditableAttr),
		})
	}

	if cfg.Markdown.Flavor != "" && !knownFlavors[cfg.Markdown.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "markdown.flavor",
			Value:   cfg.Markdown.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Markdown.Flavor),
		})
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	validatePlugins(cfg, result)

	return result
}

// validatePlugins checks plugin script paths for likely mistakes.
func validatePlugins(cfg *config.Config, result *ValidationResult) {
	for i, script := range cfg.Plugins {
		if strings.TrimSpace(script) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("plugins[%d]", i),
				Value:   script,
				Message: "plugin path must not be empty",
			})
			continue
		}

		if filepath.Ext(script) != ".lua" {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   fmt.Sprintf("plugins[%d]", i),
				Value:   script,
				Message: fmt.Sprintf("plugin %q does not look like a Lua script (.lua)", script),
			})
		}
	}
}

// isValidAttrName reports whether s can serve as an HTML attribute name.
// Whitespace, quotes, and the separator characters are rejected.
func isValidAttrName(s string) bool {
	return !strings.ContainsAny(s, " \t\n\r\"'=<>/")
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}

// IsValidLogLevel returns true if the log level string is valid.
func IsValidLogLevel(level string) bool {
	return knownLogLevels[strings.ToLower(level)]
}

// IsValidColorMode returns true if the color mode string is valid.
func IsValidColorMode(mode string) bool {
	return knownColorModes[mode]
}
