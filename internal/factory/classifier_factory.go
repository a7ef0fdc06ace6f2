package factory

import (
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/adapters/classifier"
	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
)

// ClassifierFactory creates text classifiers
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates a text classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.TextClassifier, error) {
	factory := classifier.NewFactory(f.cfg, f.logger)
	return factory.CreateClassifier()
}
