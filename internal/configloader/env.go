package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/goeditable/pkg/config"
)

// envVarPrefix is the prefix for all goeditable environment variables.
const envVarPrefix = "GOEDITABLE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"EDITABLE_ATTR":   {field: "editable_attr", typ: envTypeString},
	"FLAVOR":          {field: "markdown.flavor", typ: envTypeString},
	"DETECT_LANGUAGE": {field: "markdown.detect_language", typ: envTypeBool},
	"PLUGINS":         {field: "plugins", typ: envTypeSlice},
	"LOG_LEVEL":       {field: "log_level", typ: envTypeString},
	"COLOR":           {field: "color", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOEDITABLE_ (e.g., GOEDITABLE_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "editable_attr":
		cfg.EditableAttr = value
	case "markdown.flavor":
		cfg.Markdown.Flavor = config.Flavor(value)
	case "log_level":
		cfg.LogLevel = value
	case "color":
		cfg.Color = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "markdown.detect_language":
		cfg.Markdown.DetectLanguage = config.BoolPtr(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "plugins":
		cfg.Plugins = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOEDITABLE_EDITABLE_ATTR":   "Attribute marking editable regions (default: data-editable)",
		"GOEDITABLE_FLAVOR":          "Markdown flavor: commonmark or gfm",
		"GOEDITABLE_DETECT_LANGUAGE": "Annotate untagged code blocks on import: true or false",
		"GOEDITABLE_PLUGINS":         "Comma-separated list of Lua plugin script paths",
		"GOEDITABLE_LOG_LEVEL":       "Log level: debug, info, warn, or error",
		"GOEDITABLE_COLOR":           "Colorized output: auto, always, or never",
	}
}
