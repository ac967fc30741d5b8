package apikeys

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// EnvVar is consulted when the configuration holds no key.
const EnvVar = "GEMINI_API_KEY"

// ErrNoAPIKey is returned when no key is configured and none can be asked for.
var ErrNoAPIKey = errors.New("API key not found")

// Prompter reads a secret from the user.
type Prompter interface {
	ReadSecret(prompt string) (string, error)
}

// Resolve returns configured if set, then the environment variable, then
// asks p. A nil p disables prompting.
func Resolve(configured string, p Prompter) (key string, prompted bool, err error) {
	if configured != "" {
		return configured, false, nil
	}
	if key := strings.TrimSpace(os.Getenv(EnvVar)); key != "" {
		return key, false, nil
	}
	if p == nil {
		return "", false, fmt.Errorf("%w: set %s or run interactively", ErrNoAPIKey, EnvVar)
	}
	key, err = p.ReadSecret("Enter your Google Generative AI API Key: ")
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// TerminalPrompter reads hidden input when In is a terminal and falls back
// to a plain line otherwise.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stdout}
}

// Interactive reports whether the prompter is attached to a terminal.
func (p *TerminalPrompter) Interactive() bool {
	return term.IsTerminal(int(p.In.Fd()))
}

func (p *TerminalPrompter) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)

	var raw []byte
	var err error
	if p.Interactive() {
		raw, err = term.ReadPassword(int(p.In.Fd()))
		fmt.Fprintln(p.Out)
	} else {
		var line string
		line, err = bufio.NewReader(p.In).ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		raw = []byte(line)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return validate(string(raw))
}

func validate(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: API key can't be empty", ErrNoAPIKey)
	}
	return key, nil
}
