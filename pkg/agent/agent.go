// Package agent runs one security command end to end: read the addressed
// code, ask the model, then report its analysis or apply its fix.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alantheprice/shield/pkg/changetracker"
	"github.com/alantheprice/shield/pkg/configuration"
	"github.com/alantheprice/shield/pkg/editor"
	"github.com/alantheprice/shield/pkg/llm"
	"github.com/alantheprice/shield/pkg/monitor"
	"github.com/alantheprice/shield/pkg/prompts"
	"github.com/alantheprice/shield/pkg/response"
	"github.com/alantheprice/shield/pkg/security"
	"github.com/alantheprice/shield/pkg/utils"
)

// redactedMarker is what security.Redact substitutes for a secret.
const redactedMarker = "[REDACTED]"

// ErrMonitoringDisabled is returned by Monitor when the configuration has
// monitoring turned off.
var ErrMonitoringDisabled = errors.New("monitoring is disabled (config set monitoringEnabled true)")

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string, defaultYes bool) (bool, error)

// Agent executes commands against a configuration snapshot.
type Agent struct {
	cfg     configuration.Config
	client  llm.Client
	out     io.Writer
	confirm Confirmer
	workDir string
	color   bool
	logger  *utils.Logger
}

// Option customises an Agent.
type Option func(*Agent)

func WithOutput(w io.Writer) Option    { return func(a *Agent) { a.out = w } }
func WithConfirmer(c Confirmer) Option { return func(a *Agent) { a.confirm = c } }
func WithWorkDir(dir string) Option    { return func(a *Agent) { a.workDir = dir } }
func WithColor(on bool) Option         { return func(a *Agent) { a.color = on } }
func WithLogger(l *utils.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// New builds an Agent. Without a Confirmer, proposed changes are only
// applied when auto-fix is on.
func New(cfg configuration.Config, client llm.Client, opts ...Option) *Agent {
	a := &Agent{cfg: cfg, client: client, out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	if a.workDir == "" {
		a.workDir, _ = os.Getwd()
	}
	if a.logger == nil {
		a.logger = utils.GetLogger()
	}
	return a
}

// Config returns the current snapshot.
func (a *Agent) Config() configuration.Config {
	return a.cfg
}

// Reload swaps in a new configuration snapshot and client.
func (a *Agent) Reload(cfg configuration.Config, client llm.Client) {
	a.cfg = cfg
	a.client = client
}

func (a *Agent) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.workDir, path)
}

// Execute runs cmd. File, model and parse errors abort the command and are
// returned; no file is modified unless the user (or auto-fix) approves.
func (a *Agent) Execute(ctx context.Context, cmd Command) error {
	cid := uuid.NewString()
	a.logger.SetCorrelationID(cid)
	defer a.logger.SetCorrelationID("")
	a.logger.Logf("command: %q", cmd.Raw)

	var code string
	var findings []security.Finding
	redacted := 0
	if cmd.Target != "" {
		var err error
		code, err = editor.Extract(a.resolve(cmd.Target), cmd.Range)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		firstLine := 1
		if cmd.Range != nil {
			firstLine = cmd.Range.Start
		}
		findings = security.DetectSecurityConcerns(code, firstLine)
		if a.cfg.SecurityRules.DataExposure {
			code, redacted = security.Redact(code)
		}
	}

	req := prompts.NewRequest(a.cfg)
	req.Command = cmd.Raw
	req.Action = cmd.Action
	req.Instruction = cmd.Instruction
	req.TargetFile = cmd.Target
	req.Code = code
	if cmd.Range != nil {
		req.Start, req.End, req.HasRange = cmd.Range.Start, cmd.Range.End, true
	}

	start := time.Now()
	raw, err := a.client.Generate(ctx, prompts.SecurityPrompt(req))
	if err != nil {
		return fmt.Errorf("model request failed: %w", err)
	}
	a.logger.Logf("model %s replied in %s (%d bytes)", a.client.Name(), time.Since(start).Round(time.Millisecond), len(raw))

	plan, err := response.Parse(raw)
	if err != nil {
		a.logger.LogError(err)
		return err
	}

	a.renderFindings(findings, redacted)
	switch plan.Type {
	case response.TypeAnalysis:
		a.renderAnalysis(plan)
		return nil
	case response.TypeModification:
		return a.applyModification(cmd, plan)
	case response.TypeInvalid:
		guidance := plan.Guidance
		if guidance == "" {
			guidance = "The command could not be understood. Type 'help' for usage."
		}
		a.printf("%s\n", a.paint(colorYellow, guidance))
		return nil
	default:
		return fmt.Errorf("unexpected response type %q", plan.Type)
	}
}

func (a *Agent) applyModification(cmd Command, plan *response.Plan) error {
	a.renderProposal(plan.CodeChanges)

	target := cmd.Target
	if target == "" {
		target = plan.Action.TargetFile
	}
	if target == "" {
		return fmt.Errorf("the proposed change names no target file")
	}
	path := a.resolve(target)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}

	var rng editor.LineRange
	switch {
	case cmd.Range != nil:
		rng = *cmd.Range
	case plan.Action.LineRange.Valid():
		rng = editor.LineRange{Start: *plan.Action.LineRange.Start, End: *plan.Action.LineRange.End}
	default:
		whole, err := editor.WholeFile(path)
		if err != nil {
			return fmt.Errorf("failed to apply changes: %w", err)
		}
		rng = whole
	}

	modified := plan.CodeChanges.Modified
	if strings.Contains(modified, redactedMarker) {
		return fmt.Errorf("the proposed change contains %s placeholders; apply it by hand", redactedMarker)
	}

	current, err := editor.Extract(path, &rng)
	if err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}
	diff := changetracker.GetDiff(target, current, modified, a.color)
	if diff == "" {
		a.printf("%s\n", a.paint(colorGreen, "No changes needed."))
		return nil
	}
	a.printf("\n%s", diff)

	apply := a.cfg.AutoFix || cmd.AutoFix
	if !apply && a.confirm != nil {
		apply, err = a.confirm("Do you want to apply these changes?", true)
		if err != nil {
			return err
		}
	}
	if !apply {
		a.printf("%s\n", a.paint(colorGray, "Changes not applied."))
		return nil
	}

	res, err := editor.Apply(path, rng, modified, a.cfg.BackupOriginalFile)
	if err != nil {
		a.logger.LogError(err)
		return fmt.Errorf("failed to apply changes: %w", err)
	}
	a.logger.LogOperation("replace", fmt.Sprintf("%s %s (%d -> %d lines)", path, rng, res.LinesBefore, res.LinesAfter))

	a.printf("%s\n", a.paint(colorGreen, "✔ File updated successfully"))
	if res.Backup != nil {
		a.printf("%s\n", a.paint(colorBlue, "✔ Backup created as "+target+editor.BackupSuffix))
	}
	return nil
}

// Monitor watches target and runs a check on every file whose content
// changes, until ctx is cancelled. Check failures are reported and watching
// continues.
func (a *Agent) Monitor(ctx context.Context, target string, exclude []string, interval time.Duration, force bool) error {
	if !a.cfg.MonitoringEnabled && !force {
		return ErrMonitoringDisabled
	}
	w, err := monitor.NewWatcher(a.resolve(target), interval, exclude)
	if err != nil {
		return err
	}
	a.printf("%s\n", a.paint(colorCyan, fmt.Sprintf("Monitoring %s for security concerns (Ctrl-C to stop)...", target)))
	return w.Run(ctx, func(ctx context.Context, c monitor.Change) {
		if c.Kind == monitor.Removed {
			a.printf("%s\n", a.paint(colorGray, "removed: "+c.Path))
			return
		}
		a.printf("%s\n", a.paint(colorCyan, fmt.Sprintf("\n%s: %s", c.Kind, c.Path)))
		cmd := Command{Raw: "check " + c.Path, Action: "check", Target: c.Path}
		if err := a.Execute(ctx, cmd); err != nil {
			a.printf("%s\n", a.paint(colorRed, "Error: "+err.Error()))
		}
	})
}
