package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// chatCompleter is the subset of the go-openai client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICompatibleService talks to any OpenAI-compatible chat endpoint.
// Groq is the default primary backend.
type OpenAICompatibleService struct {
	client      chatCompleter
	name        string
	model       string
	temperature float32
}

func NewOpenAICompatibleService(name, apiKey, baseURL, model string, temperature float32) (*OpenAICompatibleService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAICompatibleService{
		client:      openai.NewClientWithConfig(cfg),
		name:        name,
		model:       model,
		temperature: temperature,
	}, nil
}

func (s *OpenAICompatibleService) Name() string {
	return s.name
}

func (s *OpenAICompatibleService) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.temperature,
		MaxTokens:   4096,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", s.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", s.name)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s returned empty content", s.name)
	}

	return text, nil
}
