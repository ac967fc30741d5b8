// Package response turns raw model output into a structured Plan.
package response

import (
	"regexp"
	"strings"
)

var (
	fencedBlockRegex   = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	zeroWidthRegex     = regexp.MustCompile("[\u200B-\u200D\uFEFF]")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
)

// Clean applies best-effort normalisation to a model response so it can be
// handed to a JSON decoder: the first fenced block is unwrapped, text around
// the outermost braces is dropped, zero-width characters and trailing commas
// are removed.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.Contains(s, "```") {
		if m := fencedBlockRegex.FindStringSubmatch(s); m != nil {
			s = strings.TrimSpace(m[1])
		}
	}

	if strings.Contains(s, "{") && strings.Contains(s, "}") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}") + 1
		if start < end {
			s = s[start:end]
		}
	}

	s = zeroWidthRegex.ReplaceAllString(s, "")
	s = trailingCommaRegex.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
