package deepseek

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/prompt"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// Client is an ExplanationProvider backed by the DeepSeek chat API. DeepSeek
// speaks the OpenAI wire protocol, so the client only differs in base URL.
type Client struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new DeepSeek client
func NewClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Explain requests a structured risk analysis of the text. Transport errors
// are returned; a malformed completion is not an error, its unparseable
// fields are simply absent from the result.
func (c *Client) Explain(ctx context.Context, text string) (*core.ExplanationResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Build(processed),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with DeepSeek: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from DeepSeek")
	}

	result := prompt.Parse(resp.Choices[0].Message.Content)
	c.logger.Debug("DeepSeek analysis parsed",
		zap.String("model", c.modelName),
		zap.String("completion_id", resp.ID),
		zap.Bool("has_verdict", result.Verdict != nil),
		zap.Bool("has_explanation", result.Explanation != nil),
		zap.Bool("has_highlights", result.HighlightedText != nil))

	return result, nil
}
