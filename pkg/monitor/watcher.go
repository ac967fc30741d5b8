// Package monitor polls files for content changes.
package monitor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/zeebo/blake3"
)

// ChangeKind classifies a detected change.
type ChangeKind string

const (
	Created  ChangeKind = "created"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change is one file whose content differs from the previous scan.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher detects changes under Root by hashing file contents at each poll,
// so touching a file without altering it is not reported.
type Watcher struct {
	Root     string
	Interval time.Duration

	ignore *ignore.GitIgnore
	single bool
	state  map[string][32]byte
}

// NewWatcher prepares a watcher for a file or directory.
func NewWatcher(root string, interval time.Duration, exclude []string) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot monitor %s: %w", root, err)
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	w := &Watcher{Root: root, Interval: interval, single: !info.IsDir()}
	if !w.single {
		w.ignore = GetIgnoreRules(root, exclude...)
	}
	return w, nil
}

// Snapshot hashes every watched file.
func (w *Watcher) Snapshot() (map[string][32]byte, error) {
	state := make(map[string][32]byte)
	if w.single {
		sum, err := hashFile(w.Root)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			state[w.Root] = sum
		}
		return state, nil
	}

	err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.Root {
				return err
			}
			return nil
		}
		rel, relErr := filepath.Rel(w.Root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if w.ignore.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || w.ignore.MatchesPath(rel) {
			return nil
		}
		sum, err := hashFile(path)
		if err != nil {
			return nil
		}
		state[path] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", w.Root, err)
	}
	return state, nil
}

// Scan compares the current contents against the previous scan. The first
// call only records the baseline.
func (w *Watcher) Scan() ([]Change, error) {
	next, err := w.Snapshot()
	if err != nil {
		return nil, err
	}
	prev := w.state
	w.state = next
	if prev == nil {
		return nil, nil
	}

	var changes []Change
	for path, sum := range next {
		old, ok := prev[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Kind: Created})
		case old != sum:
			changes = append(changes, Change{Path: path, Kind: Modified})
		}
	}
	for path := range prev {
		if _, ok := next[path]; !ok {
			changes = append(changes, Change{Path: path, Kind: Removed})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Run polls until ctx is cancelled, calling onChange for each change in
// order. onChange runs on the polling goroutine; the next poll waits for it.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, Change)) error {
	if _, err := w.Scan(); err != nil {
		return err
	}
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changes, err := w.Scan()
			if err != nil {
				return err
			}
			for _, c := range changes {
				if ctx.Err() != nil {
					return nil
				}
				onChange(ctx, c)
			}
		}
	}
}

func hashFile(path string) ([32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(data), nil
}
