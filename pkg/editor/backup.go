package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// BackupSuffix is appended to the edited file's path to name its backup.
const BackupSuffix = ".backup"

// BackupRecord is the single-slot copy of the most recently replaced region.
type BackupRecord struct {
	Path     string
	Source   string
	Range    LineRange
	Original string
}

// BackupPath returns the sibling backup location for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Header is the first line of the backup file.
func (b BackupRecord) Header() string {
	return fmt.Sprintf("From line %d - %d in %s", b.Range.Start, b.Range.End, filepath.Base(b.Source))
}

// WriteBackup stores original, the lines rng held in path before an edit, in
// path's backup file. Any previous backup is overwritten and keeps its mode;
// a new backup is created owner-only (0600) since it may hold secrets.
func WriteBackup(path string, rng LineRange, original string) (*BackupRecord, error) {
	rec := &BackupRecord{
		Path:     BackupPath(path),
		Source:   path,
		Range:    rng,
		Original: original,
	}
	body := rec.Header() + "\n" + original
	if err := atomic.WriteFile(rec.Path, strings.NewReader(body)); err != nil {
		return nil, fmt.Errorf("error writing backup %s: %w", rec.Path, err)
	}
	return rec, nil
}

// ReadBackup parses a backup file written by WriteBackup. It is used for
// display only; nothing restores from it automatically.
func ReadBackup(path string) (header, original string, err error) {
	content, _, err := readLines(BackupPath(path))
	if err != nil {
		return "", "", err
	}
	header, original, _ = strings.Cut(content, "\n")
	return header, original, nil
}
