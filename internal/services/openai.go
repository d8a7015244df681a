package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAIService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIService returns a chat completions client for OpenAI-compatible APIs.
func NewOpenAIService(apiKey, baseURL string, timeout time.Duration) (Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &openAIService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionsRequest carries either the classic (temperature, max_tokens)
// or the reasoning (max_completion_tokens) shape.
type chatCompletionsRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         *float32      `json:"temperature,omitempty"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatCompletionsResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete implements Completer.
func (s *openAIService) Complete(ctx context.Context, prompt string, params GenerationParams) (*Completion, error) {
	reqBody := chatCompletionsRequest{
		Model:    params.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	if params.Family == FamilyReasoning {
		reqBody.MaxCompletionTokens = params.MaxCompletionTokens
	} else {
		reqBody.Temperature = params.Temperature
		reqBody.MaxTokens = params.MaxTokens
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chat completions returned http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(out.Choices) == 0 {
		return nil, errors.New("no choices returned by model")
	}

	model := out.Model
	if model == "" {
		model = params.Model
	}

	choice := out.Choices[0]
	return &Completion{
		Text:         choice.Message.Content,
		Model:        model,
		FinishReason: choice.FinishReason,
		Truncated:    choice.FinishReason == "length",
	}, nil
}
