package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Supported text generation providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// ErrEmptyCompletion is returned when the provider answers without content
var ErrEmptyCompletion = errors.New("empty completion")

// Client wraps the OpenAI API client
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	jsonMode    bool
	logger      zerolog.Logger
}

// ClientOptions holds options for creating a new text generation client
type ClientOptions struct {
	APIKey      string
	Provider    string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	// JSONMode asks the provider for a JSON object response
	JSONMode bool
}

// NewClient creates a new OpenAI-compatible client
func NewClient(opts ClientOptions) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)

	baseURL := opts.BaseURL
	if baseURL == "" && opts.Provider == ProviderGemini {
		baseURL = GeminiBaseURL
	}
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel(opts.Provider)
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1500
	}

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		jsonMode:    opts.JSONMode,
		logger:      log.With().Str("component", "openai_client").Str("model", model).Logger(),
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return openai.GPT4oMini
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// GenerateCompletion sends a system and user prompt and returns the completion
func (c *Client) GenerateCompletion(ctx context.Context, system, prompt string) (string, error) {
	c.logger.Debug().Int("prompt_length", len(prompt)).Msg("Sending prompt to OpenAI")

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if c.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Msg("OpenAI API error")
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.logger.Warn().Msg("OpenAI returned empty choices")
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
