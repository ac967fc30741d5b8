package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyWritesBackupFirst(t *testing.T) {
	path := writeSample(t, sample)

	res, err := Apply(path, LineRange{Start: 2, End: 3}, "fixed", true)
	require.NoError(t, err)
	require.NotNil(t, res.Backup)

	assert.Equal(t, "line2\nline3", res.Original)
	assert.Equal(t, 5, res.LinesBefore)
	assert.Equal(t, 4, res.LinesAfter)
	assert.Equal(t, path+".backup", res.Backup.Path)
	assert.Equal(t, "line1\nfixed\nline4\nline5", readFile(t, path))
	assert.Equal(t, "From line 2 - 3 in sample.js\nline2\nline3", readFile(t, res.Backup.Path))
}

func TestApplyWithoutBackup(t *testing.T) {
	path := writeSample(t, sample)

	res, err := Apply(path, LineRange{Start: 1, End: 1}, "first", false)
	require.NoError(t, err)
	assert.Nil(t, res.Backup)

	_, err = os.Stat(BackupPath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupKeepsOnlyLatestEdit(t *testing.T) {
	path := writeSample(t, sample)

	_, err := Apply(path, LineRange{Start: 1, End: 1}, "one", true)
	require.NoError(t, err)
	_, err = Apply(path, LineRange{Start: 4, End: 5}, "four-five", true)
	require.NoError(t, err)

	header, original, err := ReadBackup(path)
	require.NoError(t, err)
	assert.Equal(t, "From line 4 - 5 in sample.js", header)
	assert.Equal(t, "line4\nline5", original)
	assert.NotContains(t, readFile(t, BackupPath(path)), "line1")
}

func TestApplyInvalidRangeLeavesNoTrace(t *testing.T) {
	path := writeSample(t, sample)

	_, err := Apply(path, LineRange{Start: 5, End: 9}, "x", true)
	require.ErrorIs(t, err, ErrInvalidRange)

	assert.Equal(t, sample, readFile(t, path))
	_, err = os.Stat(BackupPath(path))
	assert.True(t, os.IsNotExist(err))
}

func TestApplyMissingFile(t *testing.T) {
	_, err := Apply(filepath.Join(t.TempDir(), "gone.py"), LineRange{Start: 1, End: 1}, "x", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWholeFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LineRange
	}{
		{name: "no final newline", content: sample, want: LineRange{Start: 1, End: 5}},
		{name: "final newline excluded", content: sample + "\n", want: LineRange{Start: 1, End: 5}},
		{name: "trailing blank line kept", content: sample + "\n\n", want: LineRange{Start: 1, End: 6}},
		{name: "empty file", content: "", want: LineRange{Start: 1, End: 1}},
		{name: "lone newline", content: "\n", want: LineRange{Start: 1, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := WholeFile(writeSample(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rng)
		})
	}
}

func TestApplyWholeFileKeepsFinalNewline(t *testing.T) {
	path := writeSample(t, sample+"\n")
	rng, err := WholeFile(path)
	require.NoError(t, err)

	_, err = Apply(path, rng, "only", false)
	require.NoError(t, err)
	assert.Equal(t, "only\n", readFile(t, path))
}

func TestBackupMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := writeSample(t, sample)

	_, err := Apply(path, LineRange{Start: 1, End: 1}, "x", true)
	require.NoError(t, err)
	info, err := os.Stat(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NoError(t, os.Chmod(BackupPath(path), 0640))
	_, err = Apply(path, LineRange{Start: 1, End: 1}, "y", true)
	require.NoError(t, err)
	info, err = os.Stat(BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}
