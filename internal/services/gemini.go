package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models generativeModels
}

func NewGeminiService(ctx context.Context, apiKey string) (Completer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{models: client.Models}, nil
}

// Complete implements Completer. Thinking models get no temperature override.
func (g *geminiService) Complete(ctx context.Context, prompt string, params GenerationParams) (*Completion, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(params.OutputCap()),
	}
	if params.Family == FamilyClassic {
		config.Temperature = params.Temperature
	}

	resp, err := g.models.GenerateContent(ctx, params.Model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return nil, errors.New("no response generated (nil response)")
	}

	completion := &Completion{Model: params.Model}
	if resp.ModelVersion != "" {
		completion.Model = resp.ModelVersion
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		if completion.FinishReason == "" {
			completion.FinishReason = string(candidate.FinishReason)
			completion.Truncated = candidate.FinishReason == genai.FinishReasonMaxTokens
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// Only the first candidate is used.
		break
	}

	completion.Text = builder.String()
	return completion, nil
}
