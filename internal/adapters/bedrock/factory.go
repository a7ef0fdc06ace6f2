package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
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

// NewFactory creates a new factory for Bedrock clients
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateProvider creates a new Bedrock explanation provider
func (f *Factory) CreateProvider() (core.ExplanationProvider, error) {
	brCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(brCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	return NewClient(
		client,
		brCfg.ModelID,
		brCfg.MaxTokens,
		brCfg.Temperature,
		brCfg.TopP,
		brCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
