package configloader

import "github.com/yaklabco/goeditable/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	if override.EditableAttr != "" {
		result.EditableAttr = override.EditableAttr
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.Markdown.Flavor != "" {
		result.Markdown.Flavor = override.Markdown.Flavor
	}
	// DetectLanguage is a pointer so "unset" and "explicitly false" stay
	// distinct across layers.
	if override.Markdown.DetectLanguage != nil {
		result.Markdown.DetectLanguage = override.Markdown.DetectLanguage
	}

	// Slices: override replaces base entirely if non-nil
	if override.Plugins != nil {
		result.Plugins = override.Plugins
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
