package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/prompt"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// Client is an ExplanationProvider backed by Google Gemini
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates a new Gemini client
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Explain requests a structured risk analysis of the text
func (c *Client) Explain(ctx context.Context, text string) (*core.ExplanationResult, error) {
	processed := c.textProcessor.ProcessText(text, c.maxBodySize)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt.Build(processed)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	result := prompt.Parse(responseText)
	c.logger.Debug("Gemini analysis parsed",
		zap.String("model", c.modelName),
		zap.Bool("has_verdict", result.Verdict != nil),
		zap.Bool("has_explanation", result.Explanation != nil),
		zap.Bool("has_highlights", result.HighlightedText != nil))

	return result, nil
}
