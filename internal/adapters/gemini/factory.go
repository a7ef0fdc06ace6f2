package gemini

import (
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

// NewFactory creates a new factory for Gemini clients
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateProvider creates a new Gemini explanation provider
func (f *Factory) CreateProvider() (core.ExplanationProvider, error) {
	gemCfg := f.cfg.GetGemini()

	return NewClient(
		gemCfg.APIKey,
		gemCfg.ModelName,
		gemCfg.MaxTokens,
		gemCfg.Temperature,
		gemCfg.TopP,
		gemCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	)
}
