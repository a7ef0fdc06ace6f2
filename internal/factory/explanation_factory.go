package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/adapters/bedrock"
	"github.com/deepcatch/deepcatch/internal/adapters/deepseek"
	"github.com/deepcatch/deepcatch/internal/adapters/gemini"
	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// ExplanationFactory creates explanation providers
type ExplanationFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewExplanationFactory creates a new explanation provider factory
func NewExplanationFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ExplanationFactory {
	return &ExplanationFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateProvider creates an explanation provider based on the configuration
func (f *ExplanationFactory) CreateProvider() (core.ExplanationProvider, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "deepseek":
		factory := deepseek.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateProvider()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateProvider()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateProvider()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
