package prompts

import (
	"testing"

	"github.com/alantheprice/shield/pkg/configuration"
	"github.com/stretchr/testify/assert"
)

func TestSecurityPromptWithRange(t *testing.T) {
	r := NewRequest(configuration.NewConfig())
	r.Command = "fix index.js 10-12"
	r.Action = "fix"
	r.TargetFile = "index.js"
	r.Start, r.End, r.HasRange = 10, 12, true
	r.Code = "eval(req.query.x)"

	got := SecurityPrompt(r)
	assert.Contains(t, got, `analyze this command: "fix index.js 10-12"`)
	assert.Contains(t, got, `"targetFile": "index.js"`)
	assert.Contains(t, got, `"start": 10,`)
	assert.Contains(t, got, `"end": 12`)
	assert.Contains(t, got, "eval(req.query.x)")
	assert.Contains(t, got, "Scan level is standard.")
	assert.Contains(t, got, "   - Code injection risks")
}

func TestSecurityPromptWithoutRangeAndRules(t *testing.T) {
	cfg, err := configuration.NewConfig().With("rules.injection", "false")
	assert.NoError(t, err)
	cfg, err = cfg.With("scanLevel", "basic")
	assert.NoError(t, err)

	r := NewRequest(cfg)
	r.Action = "check"
	got := SecurityPrompt(r)

	assert.Contains(t, got, `"start": null,`)
	assert.Contains(t, got, `"end": null`)
	assert.NotContains(t, got, "   - Code injection risks")
	assert.Contains(t, got, "   - File system security")
	assert.Contains(t, got, "high-confidence")
}

func TestSecurityPromptInstruction(t *testing.T) {
	r := NewRequest(configuration.NewConfig())
	r.Action = "check"
	assert.Contains(t, SecurityPrompt(r), "Action: check\nCode:")

	r.Instruction = "for sql injection"
	assert.Contains(t, SecurityPrompt(r), "Action: check\nInstruction: for sql injection\nCode:")
}
