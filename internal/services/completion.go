package services

import (
	"context"
	"fmt"
	"strings"
)

// Completion is the text returned by a completion API.
type Completion struct {
	Text         string
	Model        string
	FinishReason string
	// Truncated is set when the output hit the token cap.
	Truncated bool
}

// Empty reports whether the completion carries no usable text.
func (c *Completion) Empty() bool {
	return c == nil || strings.TrimSpace(c.Text) == ""
}

type Completer interface {
	Complete(ctx context.Context, prompt string, params GenerationParams) (*Completion, error)
}

// ProviderRouter sends gemini-* models to Gemini and everything else to the
// OpenAI-compatible API. Either provider may be nil when not configured.
type ProviderRouter struct {
	OpenAI Completer
	Gemini Completer
}

// Complete implements Completer.
func (r *ProviderRouter) Complete(ctx context.Context, prompt string, params GenerationParams) (*Completion, error) {
	provider, name := r.OpenAI, "openai"
	if strings.HasPrefix(strings.ToLower(params.Model), "gemini") {
		provider, name = r.Gemini, "gemini"
	}

	if provider == nil {
		return nil, fmt.Errorf("no %s provider configured for model %q", name, params.Model)
	}

	return provider.Complete(ctx, prompt, params)
}
