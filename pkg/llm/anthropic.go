package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

type anthropicCompleter struct {
	client anthropic.Client
	config Config
}

func newAnthropicCompleter(config Config) (*anthropicCompleter, error) {
	apiKey, err := resolveAPIKey(config, "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = string(anthropic.ModelClaude3_5HaikuLatest)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicCompleter{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

func (c *anthropicCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		MaxTokens: int64(c.config.MaxTokens),
		Model:     anthropic.Model(c.config.Model),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic completion failed")
	}

	var text strings.Builder
	for _, block := range response.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic completion returned no text content")
	}
	return text.String(), nil
}
