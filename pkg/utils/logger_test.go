package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	CID   string `json:"cid"`
}

func TestLogger_JSONModeWritesJSONWithCID(t *testing.T) {
	t.Setenv("SHIELD_JSON_LOGS", "1")

	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.SetCorrelationID("abc123")
	l.LogError(errors.New("boom"))

	var rec logRecord
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec), buf.String())
	assert.Equal(t, logRecord{Level: "error", Msg: "boom", CID: "abc123"}, rec)
}

func TestLogger_TextMode(t *testing.T) {
	t.Setenv("SHIELD_JSON_LOGS", "")

	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.LogOperation("replace", "a.go 1-2")
	l.SetCorrelationID("cid-1")
	l.Logf("value=%d", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[info] Operation: replace, Details: a.go 1-2")
	assert.Contains(t, lines[1], "[info] [cid-1] value=7")
}

func TestGetLoggerWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHIELD_LOG_DIR", dir)
	t.Setenv("SHIELD_JSON_LOGS", "")

	l := GetLogger()
	l.Log("hello world")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(filepath.Join(dir, "shield.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello world")
}
