package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "line1\nline2\nline3\nline4\nline5"

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.js")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestExtract(t *testing.T) {
	path := writeSample(t, sample)
	original := SplitLines(sample)
	n := len(original)

	for start := 1; start <= n; start++ {
		for end := start; end <= n; end++ {
			t.Run(fmt.Sprintf("%d-%d", start, end), func(t *testing.T) {
				got, err := Extract(path, &LineRange{Start: start, End: end})
				require.NoError(t, err)
				lines := SplitLines(got)
				assert.Len(t, lines, end-start+1)
				assert.Equal(t, original[start-1:end], lines)
			})
		}
	}
}

func TestExtractWholeFile(t *testing.T) {
	for _, content := range []string{sample, sample + "\n", "", "single", "crlf\r\nline\r\n"} {
		path := writeSample(t, content)
		got, err := Extract(path, nil)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	path := writeSample(t, sample)
	rng := &LineRange{Start: 2, End: 4}

	first, err := Extract(path, rng)
	require.NoError(t, err)
	second, err := Extract(path, rng)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, sample, readFile(t, path))
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "nope.go"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "error reading file")
	assert.Contains(t, err.Error(), "no such file")
}

func TestReplaceLineCount(t *testing.T) {
	tests := []struct {
		name       string
		rng        LineRange
		newContent string
		want       string
	}{
		{
			name:       "one for one",
			rng:        LineRange{Start: 2, End: 2},
			newContent: "two",
			want:       "line1\ntwo\nline3\nline4\nline5",
		},
		{
			name:       "shrink",
			rng:        LineRange{Start: 2, End: 4},
			newContent: "middle",
			want:       "line1\nmiddle\nline5",
		},
		{
			name:       "grow",
			rng:        LineRange{Start: 1, End: 1},
			newContent: "a\nb\nc",
			want:       "a\nb\nc\nline2\nline3\nline4\nline5",
		},
		{
			name:       "last line",
			rng:        LineRange{Start: 5, End: 5},
			newContent: "end",
			want:       "line1\nline2\nline3\nline4\nend",
		},
		{
			name:       "empty replacement keeps one blank line",
			rng:        LineRange{Start: 1, End: 5},
			newContent: "",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSample(t, sample)
			n := len(SplitLines(sample))

			require.NoError(t, Replace(path, tt.rng, tt.newContent))

			got := readFile(t, path)
			assert.Equal(t, tt.want, got)
			wantLines := n - tt.rng.Len() + len(SplitLines(tt.newContent))
			assert.Len(t, SplitLines(got), wantLines)
		})
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	for _, content := range []string{sample, sample + "\n", "x\n\ny\n"} {
		path := writeSample(t, content)
		n := len(SplitLines(content))
		for start := 1; start <= n; start++ {
			for end := start; end <= n; end++ {
				rng := LineRange{Start: start, End: end}
				region, err := Extract(path, &rng)
				require.NoError(t, err)
				require.NoError(t, Replace(path, rng, region))
				assert.Equal(t, content, readFile(t, path), "range %s", rng)
			}
		}
	}
}

func TestReplaceRejectsInvalidRange(t *testing.T) {
	tests := []LineRange{
		{Start: 0, End: 2},
		{Start: 3, End: 2},
		{Start: 4, End: 6},
		{Start: -1, End: -1},
	}
	for _, rng := range tests {
		t.Run(rng.String(), func(t *testing.T) {
			path := writeSample(t, sample)
			err := Replace(path, rng, "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRange)
			assert.Equal(t, sample, readFile(t, path))

			_, err = Extract(path, &rng)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestReplacePreservesMode(t *testing.T) {
	path := writeSample(t, sample)
	require.NoError(t, os.Chmod(path, 0755))

	require.NoError(t, Replace(path, LineRange{Start: 1, End: 1}, "#!/bin/sh"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.True(t, strings.HasPrefix(readFile(t, path), "#!/bin/sh\nline2"))
}
