// Package changetracker renders proposed edits as line diffs.
package changetracker

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Color constants for better readability
const (
	RedColor    = "\x1b[31m"
	GreenColor  = "\x1b[32m"
	YellowColor = "\x1b[33m"
	BoldStyle   = "\x1b[1m"
	ResetColor  = "\x1b[0m"
)

// Stats counts changed lines.
type Stats struct {
	Additions int
	Deletions int
}

// LineDiff computes a line-level diff of two texts.
func LineDiff(originalCode, newCode string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(originalCode, newCode)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// CalculateStats counts added and deleted lines in diffs.
func CalculateStats(diffs []diffmatchpatch.Diff) Stats {
	var s Stats
	for _, d := range diffs {
		n := len(splitDiffLines(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Additions += n
		case diffmatchpatch.DiffDelete:
			s.Deletions += n
		}
	}
	return s
}

// GetDiff renders a header with change counts followed by the changed lines
// prefixed with "-" / "+" and unchanged lines with two spaces. Colors are
// added when color is set.
func GetDiff(filename, originalCode, newCode string, color bool) string {
	diffs := LineDiff(originalCode, newCode)
	stats := CalculateStats(diffs)
	if stats.Additions == 0 && stats.Deletions == 0 {
		return ""
	}

	paint := func(c, s string) string {
		if !color {
			return s
		}
		return c + s + ResetColor
	}

	var result strings.Builder
	result.WriteString(paint(BoldStyle+YellowColor, filename))
	result.WriteString(" ")
	result.WriteString(paint(GreenColor, fmt.Sprintf("+%d", stats.Additions)))
	result.WriteString(" ")
	result.WriteString(paint(RedColor, fmt.Sprintf("-%d", stats.Deletions)))
	result.WriteString("\n")

	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				result.WriteString(paint(RedColor, "- "+line))
			case diffmatchpatch.DiffInsert:
				result.WriteString(paint(GreenColor, "+ "+line))
			default:
				result.WriteString("  " + line)
			}
			result.WriteString("\n")
		}
	}
	return result.String()
}

// splitDiffLines splits a diff chunk into lines without the trailing empty
// element produced by a final newline.
func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
