package factory

import (
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// TextProcessorFactory creates text processors
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new text processor factory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new text processor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}
