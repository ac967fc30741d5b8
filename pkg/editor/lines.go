package editor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrInvalidRange is returned when a line range does not address lines that
// exist in the file.
var ErrInvalidRange = errors.New("invalid line range")

// LineRange is a 1-based, inclusive pair of line numbers.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of lines covered by the range.
func (r LineRange) Len() int {
	return r.End - r.Start + 1
}

func (r LineRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Validate checks 1 <= Start <= End <= lineCount.
func (r LineRange) Validate(lineCount int) error {
	if r.Start < 1 || r.End < r.Start || r.End > lineCount {
		return fmt.Errorf("%w: %s (file has %d lines)", ErrInvalidRange, r, lineCount)
	}
	return nil
}

// SplitLines splits text on "\n" only. A trailing newline yields a final
// empty line, so SplitLines and JoinLines round-trip exactly.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func readLines(path string) (string, []string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	content := string(b)
	return content, SplitLines(content), nil
}

// Extract returns the lines addressed by rng joined with "\n". A nil range
// returns the whole file unchanged.
func Extract(path string, rng *LineRange) (string, error) {
	content, lines, err := readLines(path)
	if err != nil {
		return "", err
	}
	if rng == nil {
		return content, nil
	}
	if err := rng.Validate(len(lines)); err != nil {
		return "", fmt.Errorf("error reading %s: %w", path, err)
	}
	return JoinLines(lines[rng.Start-1 : rng.End]), nil
}

// Replace swaps the lines addressed by rng for the lines of newContent and
// writes the file back in a single atomic rename.
func Replace(path string, rng LineRange, newContent string) error {
	_, lines, err := readLines(path)
	if err != nil {
		return err
	}
	if err := rng.Validate(len(lines)); err != nil {
		return fmt.Errorf("error modifying %s: %w", path, err)
	}
	return writeLines(path, splice(lines, rng, newContent))
}

func splice(lines []string, rng LineRange, newContent string) []string {
	replacement := SplitLines(newContent)
	out := make([]string, 0, len(lines)-rng.Len()+len(replacement))
	out = append(out, lines[:rng.Start-1]...)
	out = append(out, replacement...)
	out = append(out, lines[rng.End:]...)
	return out
}

// writeLines replaces path atomically. atomic.WriteFile carries the existing
// file's mode over to the replacement before the rename.
func writeLines(path string, lines []string) error {
	if err := atomic.WriteFile(path, strings.NewReader(JoinLines(lines))); err != nil {
		return fmt.Errorf("error modifying file %s: %w", path, err)
	}
	return nil
}
