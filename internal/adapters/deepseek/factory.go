package deepseek

import (
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// Factory creates new instances of Client
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for DeepSeek clients
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateProvider creates a new DeepSeek explanation provider
func (f *Factory) CreateProvider() (core.ExplanationProvider, error) {
	dsCfg := f.cfg.GetDeepSeek()

	clientCfg := openai.DefaultConfig(dsCfg.APIKey)
	if dsCfg.BaseURL != "" {
		clientCfg.BaseURL = dsCfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientCfg)

	return NewClient(
		client,
		dsCfg.ModelName,
		dsCfg.MaxTokens,
		dsCfg.Temperature,
		dsCfg.TopP,
		dsCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
