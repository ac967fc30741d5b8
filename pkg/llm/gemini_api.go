package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alantheprice/shield/pkg/utils"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Backoff *RateLimitBackoff
	HTTP    *http.Client
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: geminiBaseURL,
		Timeout: timeout,
		Backoff: NewRateLimitBackoff(),
		HTTP:    &http.Client{},
	}
}

func (c *GeminiClient) Name() string {
	return "gemini/" + c.Model
}

// Generate sends prompt as a single user turn. Rate-limited calls are retried
// within the overall timeout.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(GeminiRequest{
		Contents: []GeminiContent{{Role: "user", Parts: []GeminiPart{{Text: prompt}}}},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     0.1,
			MaxOutputTokens: 8192,
			TopP:            0.9,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		text, resp, err := c.post(ctx, body)
		if err == nil {
			return text, nil
		}
		if !c.Backoff.IsRateLimitError(err, resp) || !c.Backoff.ShouldRetry(attempt) {
			return "", err
		}
		delay := c.Backoff.CalculateBackoffDelay(resp, attempt)
		utils.GetLogger().Logf("gemini rate limited, retrying in %s (attempt %d)", delay, attempt+1)
		if err := sleepContext(ctx, delay); err != nil {
			return "", fmt.Errorf("gemini request cancelled while backing off: %w", err)
		}
	}
}

func (c *GeminiClient) post(ctx context.Context, body []byte) (string, *http.Response, error) {
	apiURL := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, url.PathEscape(c.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL so transport errors cannot echo it.
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", resp, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", resp, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if geminiResp.UsageMetadata != nil {
		utils.GetLogger().Logf("gemini usage: prompt=%d completion=%d total=%d",
			geminiResp.UsageMetadata.PromptTokenCount,
			geminiResp.UsageMetadata.CandidatesTokenCount,
			geminiResp.UsageMetadata.TotalTokenCount)
	}

	for _, candidate := range geminiResp.Candidates {
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return text, resp, nil
		}
	}
	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		return "", resp, fmt.Errorf("gemini blocked the prompt: %s", geminiResp.PromptFeedback.BlockReason)
	}
	return "", resp, fmt.Errorf("no content in response")
}
