// Package console is the interactive read-eval-print loop.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/alantheprice/shield/pkg/agent"
	"github.com/alantheprice/shield/pkg/configuration"
	"github.com/alantheprice/shield/pkg/llm"
	"github.com/alantheprice/shield/pkg/utils"
)

// HistoryFileName lives in the user's home directory.
const HistoryFileName = ".shield_history"

// ClientFactory builds a model client for a configuration snapshot.
type ClientFactory func(configuration.Config) (llm.Client, error)

// Console owns the interactive session. Commands run one at a time.
type Console struct {
	agent     *agent.Agent
	cfgPath   string
	newClient ClientFactory
	out       io.Writer
	line      *liner.State
}

func New(a *agent.Agent, cfgPath string, newClient ClientFactory, out io.Writer) *Console {
	return &Console{agent: a, cfgPath: cfgPath, newClient: newClient, out: out}
}

// Confirm asks a yes/no question on the console's line editor.
func (c *Console) Confirm(prompt string, defaultYes bool) (bool, error) {
	if c.line == nil {
		return defaultYes, nil
	}
	hint := " (y/N) "
	if defaultYes {
		hint = " (Y/n) "
	}
	for {
		answer, err := c.line.Prompt(prompt + hint)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.out, "Please answer yes or no.")
	}
}

// Run reads commands until exit or EOF. Errors from individual commands are
// reported and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	c.line = liner.NewLiner()
	defer c.line.Close()
	c.line.SetCtrlCAborts(true)
	c.line.SetCompleter(complete)

	historyPath := historyFile()
	if f, err := os.Open(historyPath); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprint(c.out, banner)
	fmt.Fprintln(c.out, intro)

	for {
		input, err := c.line.Prompt("shield > ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("error reading input: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		c.line.AppendHistory(input)

		cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		exit, err := c.Handle(cmdCtx, input)
		stop()
		if err != nil {
			utils.GetLogger().LogError(err)
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		if exit {
			fmt.Fprintln(c.out, "Thank you for using AI Code Security Agent! Stay secure!")
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Handle executes one input line and reports whether the session should end.
func (c *Console) Handle(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}
	switch strings.ToLower(fields[0]) {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(c.out, helpText)
		return false, nil
	case "config":
		return false, c.handleConfig(fields[1:])
	}

	cmd, err := agent.ParseCommand(input)
	if err != nil {
		return false, err
	}
	if cmd.Action == "monitor" {
		return false, c.handleMonitor(ctx, cmd)
	}
	return false, c.agent.Execute(ctx, cmd)
}

func (c *Console) handleMonitor(ctx context.Context, cmd agent.Command) error {
	if cmd.Target == "" {
		return fmt.Errorf("usage: monitor <path> [--exclude=pattern] [--interval=2s]")
	}
	var exclude []string
	if ex := cmd.Flags["exclude"]; ex != "" {
		exclude = strings.Split(ex, ",")
	}
	interval := 2 * time.Second
	if iv := cmd.Flags["interval"]; iv != "" {
		d, err := time.ParseDuration(iv)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", iv, err)
		}
		interval = d
	}
	_, force := cmd.Flags["force"]
	return c.agent.Monitor(ctx, cmd.Target, exclude, interval, force)
}

func (c *Console) handleConfig(args []string) error {
	cfg := c.agent.Config()
	if len(args) == 0 || args[0] == "show" {
		data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s\n\nConfig file: %s\nKeys: %s\n", data, c.cfgPath, strings.Join(configuration.Keys(), ", "))
		return nil
	}
	if args[0] != "set" || len(args) < 3 {
		return fmt.Errorf("usage: config set <key> <value>")
	}

	key, value := args[1], strings.Join(args[2:], " ")
	next, err := cfg.With(key, value)
	if err != nil {
		return err
	}
	client, err := c.newClient(next)
	if err != nil {
		return fmt.Errorf("configuration not applied: %w", err)
	}
	if next.AutoSave || key == "autoSave" {
		if err := next.Save(c.cfgPath); err != nil {
			return err
		}
	}
	c.agent.Reload(next, client)
	if key == "apiKey" {
		value = next.Redacted().APIKey
	}
	fmt.Fprintf(c.out, "✔ %s set to: %s\n", key, value)
	return nil
}

var commands = []string{"check ", "fix ", "monitor ", "help", "config", "config set ", "exit"}

func complete(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return HistoryFileName
	}
	return filepath.Join(home, HistoryFileName)
}
