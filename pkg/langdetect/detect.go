// Package langdetect guesses the language of code-block content.
//
// The editor labels code blocks that arrive without a language tag
// (Markdown paste, raw HTML) so hosts can drive syntax highlighting. Input
// is whatever a user dropped into a block, often short and incomplete, so
// detection layers cheap high-signal checks in front of go-enry's
// classifier and reports Unknown rather than guessing.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be established with confidence.
// It doubles as a valid fence tag for plain content.
const Unknown = "text"

// classifierCandidates bounds the enry classifier to languages commonly
// pasted into documents.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns a lowercase language tag for code content, or Unknown.
//
// Detection runs in three layers: shebang (authoritative), per-language
// pattern matchers (cheap, high signal), then the enry classifier. Each
// layer only answers when confident.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	for _, m := range matchers {
		if m.match(content) {
			return m.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

// matcher pairs a language tag with a content check. Matchers run in
// order and the first hit wins, so more distinctive languages come first.
type matcher struct {
	lang  string
	match func(content []byte) bool
}

var matchers = []matcher{
	{"go", isGo},
	{"python", isPython},
	{"html", isHTML},
	{"json", isJSON},
	{"dockerfile", isDockerfile},
	{"sql", isSQL},
	{"rust", isRust},
	{"javascript", isJavaScript},
	{"yaml", isYAML},
}

func isGo(content []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(content), []byte("package "))
}

func isPython(content []byte) bool {
	s := string(content)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	// import without Go's grouped form; "from x import y" is distinctive.
	if strings.Contains(s, "import ") && !strings.Contains(s, "import (") {
		if strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ") {
			return true
		}
	}
	return strings.Contains(s, "__name__") || strings.Contains(s, "__main__")
}

func isHTML(content []byte) bool {
	lower := bytes.ToLower(bytes.TrimSpace(content))
	return bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<head>")) ||
		bytes.Contains(lower, []byte("<body>"))
}

func isJSON(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`"`))
}

func isDockerfile(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
		(bytes.Contains(content, []byte("\nFROM ")) && bytes.Contains(content, []byte("\nRUN "))) ||
		(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
}

func isSQL(content []byte) bool {
	upper := strings.TrimSpace(strings.ToUpper(string(content)))
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

func isRust(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "fn main()") ||
		strings.Contains(s, "println!") ||
		strings.Contains(s, "let mut ")
}

func isJavaScript(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "=>") ||
		strings.Contains(s, "const ") ||
		strings.Contains(s, "let ") ||
		strings.Contains(s, "console.log")
}

// isYAML counts key: value lines and root-level list items; two or more
// and the block is treated as YAML.
func isYAML(content []byte) bool {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		// Exclude lines that look like code rather than mapping keys.
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// normalize converts enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
