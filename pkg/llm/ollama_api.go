package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// ollamaChatter is the subset of the ollama client used here.
type ollamaChatter interface {
	Chat(ctx context.Context, req *ollama.ChatRequest, fn ollama.ChatResponseFunc) error
}

// OllamaClient talks to a local ollama server located via OLLAMA_HOST.
type OllamaClient struct {
	Model   string
	Timeout time.Duration
	client  ollamaChatter
}

func NewOllamaClient(model string, timeout time.Duration) (*OllamaClient, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return &OllamaClient{Model: model, Timeout: timeout, client: client}, nil
}

func (c *OllamaClient) Name() string {
	return "ollama/" + c.Model
}

// Generate streams the chat reply and returns it concatenated.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req := &ollama.ChatRequest{
		Model:    strings.TrimPrefix(c.Model, "ollama:"),
		Messages: []ollama.Message{{Role: "user", Content: prompt}},
		Format:   []byte(`"json"`),
		Options: map[string]interface{}{
			"temperature": 0.1,
			"num_ctx":     numCtx(prompt),
		},
	}

	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(res ollama.ChatResponse) error {
		sb.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no content in response")
	}
	return text, nil
}

// numCtx sizes the context window from a rough token estimate.
func numCtx(prompt string) int {
	n := len(prompt)/4 + 1000
	if n < 4096 {
		n = 4096
	}
	return n
}
