package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenRouterProvider implements the Provider interface for OpenRouter and
// other OpenAI-compatible chat completion APIs.
type OpenRouterProvider struct {
	apiKey     string
	baseURL    string
	model      string
	referer    string
	httpClient *http.Client
}

// OpenRouterConfig holds configuration for the OpenRouter provider
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string // default: https://openrouter.ai/api/v1
	Model   string // default: meta-llama/llama-3.1-8b-instruct:free
	Referer string // sent as HTTP-Referer for OpenRouter app attribution
}

// NewOpenRouterProvider creates a new OpenRouter provider
func NewOpenRouterProvider(cfg OpenRouterConfig) *OpenRouterProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-3.1-8b-instruct:free"
	}
	if cfg.Referer == "" {
		cfg.Referer = "http://localhost:3000"
	}

	return &OpenRouterProvider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		referer:    cfg.Referer,
		httpClient: newLLMHTTPClient(),
	}
}

func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

type openRouterRequest struct {
	Model       string              `json:"model"`
	Messages    []openRouterMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (p *OpenRouterProvider) Complete(ctx context.Context, req *Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openRouterMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openRouterMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, openRouterMessage{Role: "user", Content: req.User})

	body, err := json.Marshal(&openRouterRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("HTTP-Referer", p.referer)
	httpReq.Header.Set("X-Title", "HintForge")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bodyBytes)}
	}

	var orResp openRouterResponse
	if err := json.NewDecoder(resp.Body).Decode(&orResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(orResp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := strings.TrimSpace(orResp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Content:      content,
		FinishReason: orResp.Choices[0].FinishReason,
		Usage: Usage{
			InputTokens:  orResp.Usage.PromptTokens,
			OutputTokens: orResp.Usage.CompletionTokens,
		},
	}, nil
}
