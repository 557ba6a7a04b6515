package langdetect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/goeditable/pkg/langdetect"
)

// Samples mimic what users paste into untagged code blocks: short,
// sometimes truncated snippets rather than whole files.
func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{"bash shebang", "#!/bin/bash\nset -e\nmake build", "bash"},
		{"sh shebang normalizes to bash", "#!/bin/sh\necho hi", "bash"},
		{"python shebang", "#!/usr/bin/env python3\nprint('hi')", "python"},
		{"go snippet", "package demo\n\nfunc Add(a, b int) int { return a + b }", "go"},
		{"python snippet", "def handler(event):\n    return event\n\nif __name__ == '__main__':\n    handler({})", "python"},
		{"arrow function", "const sum = (a, b) => a + b;\nconsole.log(sum(1, 2));", "javascript"},
		{"json payload", `{"start": 3, "end": 9, "collapsed": false}`, "json"},
		{"yaml mapping", "editable_attr: data-editable\nlog_level: debug\nplugins:\n  - markdown", "yaml"},
		{"rust snippet", "fn main() {\n    println!(\"hi\");\n}", "rust"},
		{"sql statement", "SELECT id, body FROM documents WHERE id = $1;", "sql"},
		{"html fragment", "<!DOCTYPE html>\n<html><body><p data-editable>hi</p></body></html>", "html"},
		{"dockerfile", "FROM golang:1.25\nWORKDIR /src\nCOPY . .\nRUN go build ./...", "dockerfile"},
		{"prose", "paste this paragraph anywhere you like", langdetect.Unknown},
		{"empty", "", langdetect.Unknown},
		{"whitespace only", " \n\t\n", langdetect.Unknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, langdetect.Detect([]byte(tc.snippet)))
		})
	}
}

func TestDetectShebangWinsOverBody(t *testing.T) {
	t.Parallel()

	// Python-looking body under a bash shebang: the shebang is authoritative.
	got := langdetect.Detect([]byte("#!/bin/bash\ndef foo():\n    pass"))
	assert.Equal(t, "bash", got)
}

func TestDetectReturnsFenceTags(t *testing.T) {
	t.Parallel()

	// Results double as Markdown fence tags, so they must be lowercase.
	for _, snippet := range []string{
		"package main\n\nfunc main() {}",
		"#!/bin/sh\ntrue",
		"SELECT 1;",
	} {
		got := langdetect.Detect([]byte(snippet))
		assert.Equal(t, strings.ToLower(got), got)
		assert.NotContains(t, got, " ")
	}
}
