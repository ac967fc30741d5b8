package editor

import (
	"fmt"
	"strings"
)

// EditResult describes a completed Apply.
type EditResult struct {
	Path        string
	Range       LineRange
	Original    string
	LinesBefore int
	LinesAfter  int
	Backup      *BackupRecord
}

// Apply replaces rng in path with newContent. When backup is set the original
// region is written to the backup file before the file itself is touched.
func Apply(path string, rng LineRange, newContent string, backup bool) (*EditResult, error) {
	_, lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if err := rng.Validate(len(lines)); err != nil {
		return nil, fmt.Errorf("error modifying %s: %w", path, err)
	}

	res := &EditResult{
		Path:        path,
		Range:       rng,
		Original:    JoinLines(lines[rng.Start-1 : rng.End]),
		LinesBefore: len(lines),
	}
	if backup {
		rec, err := WriteBackup(path, rng, res.Original)
		if err != nil {
			return nil, err
		}
		res.Backup = rec
	}

	updated := splice(lines, rng, newContent)
	if err := writeLines(path, updated); err != nil {
		return res, err
	}
	res.LinesAfter = len(updated)
	return res, nil
}

// WholeFile returns the range covering every line of path. The empty line
// after a final newline is left out, so replacing the range keeps the file's
// terminator.
func WholeFile(path string) (LineRange, error) {
	content, lines, err := readLines(path)
	if err != nil {
		return LineRange{}, err
	}
	end := len(lines)
	if end > 1 && strings.HasSuffix(content, "\n") {
		end--
	}
	return LineRange{Start: 1, End: end}, nil
}
