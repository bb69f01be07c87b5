package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"gapdash/models"

	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	providerOpenAI = "openai"
	maxErrorBody   = 512
)

// Config configures an OpenAI-compatible chat-completions client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient implements ports.CompletionClient against /chat/completions
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client; the API key is required
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatRequest struct {
	Model               string               `json:"model"`
	Messages            []models.ChatMessage `json:"messages"`
	MaxCompletionTokens int                  `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends the prompt and returns the first choice's content verbatim
func (c *OpenAIClient) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, &SerializationError{Op: "build request", Err: fmt.Errorf("missing model")}
	}
	if len(req.Messages) == 0 {
		return nil, &SerializationError{Op: "build request", Err: fmt.Errorf("no messages")}
	}

	raw, err := json.Marshal(chatRequest{
		Model:               req.Model,
		Messages:            req.Messages,
		MaxCompletionTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, &SerializationError{Op: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Printf("[OpenAIClient] %s responded %d in %v (%d bytes)", req.Model, resp.StatusCode, time.Since(start), len(respRaw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorMessage(respRaw)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, &SerializationError{Op: "unmarshal response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: "response missing choices"}
	}

	out := &models.CompletionResponse{Content: decoded.Choices[0].Message.Content}
	if decoded.Usage != nil {
		model := decoded.Model
		if model == "" {
			model = req.Model
		}
		out.Usage = &models.UsageData{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
			Model:            model,
			Provider:         providerOpenAI,
		}
	}
	return out, nil
}

// errorMessage prefers the API's error.message over the raw body
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
		return truncate(msg.String(), maxErrorBody)
	}
	return truncate(string(body), maxErrorBody)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	// cut on a rune boundary
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
