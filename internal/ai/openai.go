package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = openai.GPT4oMini
	openAIMaxTokens    = 800
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGenerator sends prompts to the OpenAI chat completions API.
type OpenAIGenerator struct {
	client    chatCompleter
	modelName string
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return newOpenAIGenerator(openai.NewClient(apiKey), model), nil
}

func newOpenAIGenerator(client chatCompleter, model string) *OpenAIGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGenerator{client: client, modelName: model}
}

func (g *OpenAIGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: openAIMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai api returned empty response")
	}
	return output, nil
}

func (g *OpenAIGenerator) Model() string {
	return g.modelName
}
