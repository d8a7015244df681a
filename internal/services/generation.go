package services

import "strings"

const DefaultTemperature float32 = 0.7

// ModelFamily decides which parameter shape the completion API accepts.
type ModelFamily string

const (
	// FamilyClassic accepts a temperature and a max_tokens cap.
	FamilyClassic ModelFamily = "classic"
	// FamilyReasoning has a fixed temperature and caps output with max_completion_tokens.
	FamilyReasoning ModelFamily = "reasoning"
)

// ModelConfig is the configured model and its optional overrides.
type ModelConfig struct {
	Model           string
	Temperature     *float32
	MaxOutputTokens int
}

// GenerationParams is the call shape sent to a provider. Exactly one of
// MaxTokens and MaxCompletionTokens is set.
type GenerationParams struct {
	Model               string
	Family              ModelFamily
	Temperature         *float32
	MaxTokens           int
	MaxCompletionTokens int
}

// OutputCap returns whichever token cap applies to the family.
func (p GenerationParams) OutputCap() int {
	if p.Family == FamilyReasoning {
		return p.MaxCompletionTokens
	}
	return p.MaxTokens
}

func FamilyOf(model string, reasoningPrefixes []string) ModelFamily {
	name := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range reasoningPrefixes {
		prefix = strings.ToLower(strings.TrimSpace(prefix))
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return FamilyReasoning
		}
	}
	return FamilyClassic
}

func SelectParams(cfg ModelConfig, reasoningPrefixes []string) GenerationParams {
	params := GenerationParams{
		Model:  strings.TrimSpace(cfg.Model),
		Family: FamilyOf(cfg.Model, reasoningPrefixes),
	}

	if params.Family == FamilyReasoning {
		params.MaxCompletionTokens = cfg.MaxOutputTokens
		return params
	}

	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	params.Temperature = &temperature
	params.MaxTokens = cfg.MaxOutputTokens

	return params
}
