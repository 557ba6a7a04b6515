// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Document fields.
	FieldRegion  = "region"
	FieldRegions = "regions"
	FieldLength  = "length"

	// Selection fields.
	FieldStart = "start"
	FieldEnd   = "end"

	// Command fields.
	FieldCommand = "command"
	FieldPlugin  = "plugin"
	FieldScripts = "scripts"

	// Conversion fields.
	FieldFlavor = "flavor"
	FieldBackup = "backup"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
