package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

type openaiCompleter struct {
	client *openai.Client
	config Config
}

func newOpenAICompleter(config Config) (*openaiCompleter, error) {
	apiKey, err := resolveAPIKey(config, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &openaiCompleter{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

func (c *openaiCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	response, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai completion failed")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("openai completion returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}
