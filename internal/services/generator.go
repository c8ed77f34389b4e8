package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sashabaranov/go-openai"
	"github.com/seoforge/backend/internal/config"
	"github.com/seoforge/backend/pkg/logger"
)

// Generator is the narrow interface to the external generative content
// provider. Callers own the quota protocol around it: TryConsume before a
// call, Consume only after a successful one.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIGenerator selects a concrete provider from config: "openai" covers any
// OpenAI-compatible endpoint via BaseURL, "anthropic" uses the Anthropic API.
type AIGenerator struct {
	cfg *config.AIConfig
}

func NewAIGenerator(cfg *config.AIConfig) *AIGenerator {
	return &AIGenerator{cfg: cfg}
}

func (g *AIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	timeout := time.Duration(g.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var (
		text string
		err  error
	)

	switch g.cfg.Provider {
	case "anthropic":
		text, err = g.callAnthropic(ctx, systemPrompt, userPrompt)
	default:
		// openai and other OpenAI-compatible services
		text, err = g.callOpenAI(ctx, systemPrompt, userPrompt)
	}

	if err != nil {
		logger.Warnf("[Generator] %s call failed after %s: %v", g.cfg.Provider, time.Since(start), err)
		return "", err
	}

	logger.Infof("[Generator] %s call completed in %s (%d chars)", g.cfg.Provider, time.Since(start), len(text))
	return text, nil
}

func (g *AIGenerator) callOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("no API key configured for provider %q", g.cfg.Provider)
	}

	clientConfig := openai.DefaultConfig(g.cfg.APIKey)
	if g.cfg.BaseURL != "" {
		clientConfig.BaseURL = g.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", g.cfg.Model)
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *AIGenerator) callAnthropic(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.cfg.AnthropicAPIKey == "" {
		return "", fmt.Errorf("no API key configured for provider %q", g.cfg.Provider)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(g.cfg.AnthropicAPIKey),
	)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.cfg.AnthropicModel),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var out string
	for _, block := range resp.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", fmt.Errorf("empty response from model %s", g.cfg.AnthropicModel)
	}
	return out, nil
}
