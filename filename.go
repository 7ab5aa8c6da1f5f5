package main

import (
	"regexp"
	"strings"
)

const maxFilenameLen = 64

var (
	spaceRuns      = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^a-z0-9_-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// deriveFilename maps an app label to its artifact filename: lowercase,
// spaces become underscores, anything outside [a-z0-9_-] is dropped, and
// the stem is capped at maxFilenameLen. Distinct labels can normalize to
// the same name; the later write wins. Known limitation.
func deriveFilename(label string) string {
	name := strings.ToLower(label)
	name = spaceRuns.ReplaceAllString(name, "_")
	name = disallowed.ReplaceAllString(name, "")
	name = underscoreRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_-")

	if len(name) > maxFilenameLen {
		name = strings.Trim(name[:maxFilenameLen], "_-")
	}
	if name == "" {
		name = "app"
	}

	return name + ".html"
}
