package ai

import (
	"context"
	"errors"
	"strings"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

// Gemini serves an OpenAI-compatible API, which is the default target.
const (
	DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultOpenAIModel   = "gemini-2.0-flash"
)

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client openaiclient.Client
	model  string
}

func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(cfg.APIKey),
		openaioption.WithMaxRetries(0),
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	opts = append(opts, openaioption.WithBaseURL(base))
	if cfg.Timeout > 0 {
		opts = append(opts, openaioption.WithRequestTimeout(cfg.Timeout))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{client: openaiclient.NewClient(opts...), model: model}
}

func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	messages := make([]openaiclient.ChatCompletionMessageParamUnion, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openaiclient.SystemMessage(prompt.System))
	}
	messages = append(messages, openaiclient.UserMessage(prompt.User))

	params := openaiclient.ChatCompletionNewParams{
		Model:    openaiclient.ChatModel(p.model),
		Messages: messages,
	}
	if prompt.MaxTokens > 0 {
		params.MaxTokens = openaiclient.Int(prompt.MaxTokens)
	}
	if prompt.Temperature > 0 {
		params.Temperature = openaiclient.Float(prompt.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaiclient.Error
		if errors.As(err, &apiErr) {
			return "", classify(ctx, err, apiErr.StatusCode, apiErr.Message)
		}
		return "", classify(ctx, err, 0, "")
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
