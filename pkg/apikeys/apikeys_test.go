package apikeys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	key   string
	err   error
	calls int
}

func (s *stubPrompter) ReadSecret(string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return validate(s.key)
}

func TestResolveOrder(t *testing.T) {
	t.Setenv(EnvVar, "from-env")
	p := &stubPrompter{key: "typed"}

	key, prompted, err := Resolve("from-config", p)
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)
	assert.False(t, prompted)

	key, prompted, err = Resolve("", p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
	assert.False(t, prompted)

	t.Setenv(EnvVar, "")
	key, prompted, err = Resolve("", p)
	require.NoError(t, err)
	assert.Equal(t, "typed", key)
	assert.True(t, prompted)
	assert.Equal(t, 1, p.calls)
}

func TestResolveWithoutPrompter(t *testing.T) {
	t.Setenv(EnvVar, "")
	_, _, err := Resolve("", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestResolveRejectsEmptyInput(t *testing.T) {
	t.Setenv(EnvVar, "")
	_, _, err := Resolve("", &stubPrompter{key: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't be empty")

	boom := errors.New("boom")
	_, _, err = Resolve("", &stubPrompter{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestTerminalPrompterFallsBackToLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte("  key-from-pipe \n"), 0600))
	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	var out bytes.Buffer
	p := &TerminalPrompter{In: in, Out: &out}
	assert.False(t, p.Interactive())

	key, err := p.ReadSecret("key? ")
	require.NoError(t, err)
	assert.Equal(t, "key-from-pipe", key)
	assert.Equal(t, "key? ", out.String())
}
