package classifier

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
)

// Factory creates classifier instances based on configuration
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new classifier factory
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// CreateClassifier creates a text classifier for the configured provider
func (f *Factory) CreateClassifier() (core.TextClassifier, error) {
	clsCfg := f.cfg.GetClassifier()

	switch clsCfg.Provider {
	case "inference":
		return NewInferenceClient(
			clsCfg.InferenceURL,
			clsCfg.InferenceTimeout,
			clsCfg.PositiveLabels,
			f.logger,
		), nil
	case "lexical":
		return NewLexicalClassifier(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", clsCfg.Provider)
	}
}
