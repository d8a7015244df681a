package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"resume-matcher/internal/config"
	"resume-matcher/internal/repositories"
	"resume-matcher/internal/services"
)

// NewCompleter builds a provider router from whichever API keys are set.
func NewCompleter(ctx context.Context, cfg *config.Config) (services.Completer, error) {
	router := &services.ProviderRouter{}

	if cfg.OpenAI.APIKey != "" {
		openai, err := services.NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.LLM.CompletionTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		router.OpenAI = openai
	}

	if cfg.Gemini.APIKey != "" {
		gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		router.Gemini = gemini
	}

	if router.OpenAI == nil && router.Gemini == nil {
		return nil, errors.New("no completion provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	return router, nil
}

func MatcherOptionsFrom(cfg *config.Config) services.MatcherOptions {
	opts := services.MatcherOptions{
		Primary: services.ModelConfig{
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.Temperature,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		},
		ReasoningPrefixes: cfg.LLM.ReasoningPrefixes,
		CompletionTimeout: cfg.LLM.CompletionTimeout,
		FetchTimeout:      cfg.LLM.FetchTimeout,
	}

	if cfg.LLM.FallbackModel != "" {
		opts.Fallback = &services.ModelConfig{
			Model:           cfg.LLM.FallbackModel,
			Temperature:     cfg.LLM.Temperature,
			MaxOutputTokens: cfg.LLM.FallbackMaxOutputTokens,
		}
	}

	return opts
}

// NewMatchService wires the extractor, fetcher and providers into a matcher.
func NewMatchService(ctx context.Context, cfg *config.Config, auditRepo repositories.AuditRepository, log *zap.Logger) (services.MatchService, error) {
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return services.NewMatchService(
		services.NewDocumentExtractor(),
		services.NewJobAdFetcher(cfg.LLM.FetchTimeout),
		completer,
		auditRepo,
		MatcherOptionsFrom(cfg),
		log,
	), nil
}
