package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alantheprice/shield/pkg/agent"
	"github.com/alantheprice/shield/pkg/apikeys"
	"github.com/alantheprice/shield/pkg/configuration"
	"github.com/alantheprice/shield/pkg/llm"
)

// clientFactory is swapped out in tests.
var clientFactory = newClient

// session is the loaded configuration and the agent built from it.
type session struct {
	cfg   configuration.Config
	path  string
	agent *agent.Agent
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return configuration.DefaultPath()
}

func loadConfig() (configuration.Config, string, error) {
	path, err := configPath()
	if err != nil {
		return configuration.Config{}, "", err
	}
	cfg, err := configuration.Load(path)
	if err != nil {
		return configuration.Config{}, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, path, nil
}

// newClient resolves a missing API key from the environment before building
// the client. The key found there is not written back to the config file.
func newClient(cfg configuration.Config) (llm.Client, error) {
	if cfg.RequiresAPIKey() {
		key, _, err := apikeys.Resolve(cfg.APIKey, nil)
		if err != nil {
			return nil, err
		}
		cfg.APIKey = key
	}
	return llm.NewClient(cfg)
}

// ensureAPIKey asks for a key on first run and stores it in the config file.
func ensureAPIKey(cfg configuration.Config, path string, out io.Writer) (configuration.Config, error) {
	if !cfg.RequiresAPIKey() {
		return cfg, nil
	}
	var p apikeys.Prompter
	if tp := apikeys.NewTerminalPrompter(); tp.Interactive() {
		p = tp
	}
	key, prompted, err := apikeys.Resolve(cfg.APIKey, p)
	if err != nil || !prompted {
		return cfg, err
	}
	next, err := cfg.With("apiKey", key)
	if err != nil {
		return cfg, err
	}
	if err := next.Save(path); err != nil {
		return cfg, err
	}
	fmt.Fprintf(out, "✔ API key saved to %s\n", path)
	return next, nil
}

func newSession(cmd *cobra.Command, confirm agent.Confirmer) (*session, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	if cfg, err = ensureAPIKey(cfg, path, out); err != nil {
		return nil, err
	}
	client, err := clientFactory(cfg)
	if err != nil {
		return nil, err
	}
	a := agent.New(cfg, client,
		agent.WithOutput(out),
		agent.WithConfirmer(confirm),
		agent.WithColor(isTerminal(out)),
	)
	return &session{cfg: cfg, path: path, agent: a}, nil
}

// lineConfirmer asks on in/out, reading one line per question.
func lineConfirmer(in io.Reader, out io.Writer) agent.Confirmer {
	reader := bufio.NewReader(in)
	return func(prompt string, defaultYes bool) (bool, error) {
		if assumeYes {
			return true, nil
		}
		hint := " (y/N) "
		if defaultYes {
			hint = " (Y/n) "
		}
		fmt.Fprint(out, prompt+hint)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// runAction executes one check or fix command outside the console.
func runAction(cmd *cobra.Command, action string, args []string, autoFix bool) error {
	line := action + " " + strings.Join(args, " ")
	c, err := agent.ParseCommand(line)
	if err != nil {
		return err
	}
	c.AutoFix = c.AutoFix || autoFix

	s, err := newSession(cmd, lineConfirmer(cmd.InOrStdin(), cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	return s.agent.Execute(ctx, c)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
