package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/shield/pkg/editor"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     Command
		errorMsg string
	}{
		{
			name: "file only",
			line: "check index.js",
			want: Command{Raw: "check index.js", Action: "check", Target: "index.js", Flags: map[string]string{}},
		},
		{
			name: "range and flag",
			line: "  FIX src/app.js 25-30 --autofix ",
			want: Command{
				Raw:     "FIX src/app.js 25-30 --autofix",
				Action:  "fix",
				Target:  "src/app.js",
				Range:   &editor.LineRange{Start: 25, End: 30},
				AutoFix: true,
				Flags:   map[string]string{"autofix": ""},
			},
		},
		{
			name: "single bound selects whole file",
			line: "check a.go 7",
			want: Command{Raw: "check a.go 7", Action: "check", Target: "a.go", Flags: map[string]string{}},
		},
		{
			name: "open end selects whole file",
			line: "check a.go 7-",
			want: Command{Raw: "check a.go 7-", Action: "check", Target: "a.go", Flags: map[string]string{}},
		},
		{
			name: "open start selects whole file",
			line: "check a.go -7",
			want: Command{Raw: "check a.go -7", Action: "check", Target: "a.go", Flags: map[string]string{}},
		},
		{
			name: "free-form instruction",
			line: "check index.js for sql injection",
			want: Command{Raw: "check index.js for sql injection", Action: "check", Target: "index.js", Instruction: "for sql injection", Flags: map[string]string{}},
		},
		{
			name: "range then instruction",
			line: "fix a.go 1-2 use prepared statements",
			want: Command{Raw: "fix a.go 1-2 use prepared statements", Action: "fix", Target: "a.go", Range: &editor.LineRange{Start: 1, End: 2}, Instruction: "use prepared statements", Flags: map[string]string{}},
		},
		{
			name: "word with dash is instruction",
			line: "check a.go ten-twenty",
			want: Command{Raw: "check a.go ten-twenty", Action: "check", Target: "a.go", Instruction: "ten-twenty", Flags: map[string]string{}},
		},
		{
			name: "valued flag",
			line: "monitor ./src --exclude=node_modules",
			want: Command{Raw: "monitor ./src --exclude=node_modules", Action: "monitor", Target: "./src", Flags: map[string]string{"exclude": "node_modules"}},
		},
		{name: "empty", line: "   ", errorMsg: "empty command"},
		{name: "reversed range", line: "check a.go 9-3", errorMsg: "9-3"},
		{name: "zero start", line: "check a.go 0-3", errorMsg: "invalid line range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRange(t *testing.T) {
	rng, err := ParseRange("10-50")
	require.NoError(t, err)
	assert.Equal(t, &editor.LineRange{Start: 10, End: 50}, rng)

	for _, s := range []string{"10", "10-", "-50"} {
		rng, err := ParseRange(s)
		require.NoError(t, err, s)
		assert.Nil(t, rng, s)
	}

	_, err = ParseRange("a-b")
	assert.ErrorIs(t, err, editor.ErrInvalidRange)
}
