// Package llm abstracts the single-shot completion call the planner makes
// against a language model. Anthropic and OpenAI backends are supported,
// selected by configuration.
package llm

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Provider identifiers accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds the settings for the planner's model call.
type Config struct {
	// Provider selects the backend: "anthropic" (default) or "openai".
	Provider string
	// Model overrides the backend's default model when set.
	Model string
	// APIKey overrides the environment variable lookup when set.
	APIKey string
	// BaseURL overrides the backend's API endpoint when set.
	BaseURL string
	// MaxTokens caps the reply size. Defaults to 1024; planner decisions
	// are small JSON objects.
	MaxTokens int
	// Timeout bounds each completion call. Defaults to 30s.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderAnthropic
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// Completer issues one completion request and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewCompleter builds a Completer for the configured provider.
func NewCompleter(config Config) (Completer, error) {
	config = config.withDefaults()
	switch config.Provider {
	case ProviderAnthropic:
		return newAnthropicCompleter(config)
	case ProviderOpenAI:
		return newOpenAICompleter(config)
	default:
		return nil, errors.Errorf("unsupported llm provider %q", config.Provider)
	}
}

func resolveAPIKey(config Config, envVar string) (string, error) {
	if config.APIKey != "" {
		return config.APIKey, nil
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", errors.Errorf("%s environment variable is required", envVar)
}
