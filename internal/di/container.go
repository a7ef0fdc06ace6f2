package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/factory"
	"github.com/deepcatch/deepcatch/internal/logging"
	"github.com/deepcatch/deepcatch/internal/ports"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExplanationFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.TextClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register explanation provider
	if err := container.Provide(func(f *factory.ExplanationFactory) (core.ExplanationProvider, error) {
		return f.CreateProvider()
	}); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(
		classifier core.TextClassifier,
		explainer core.ExplanationProvider,
		cache core.CacheRepository,
		textProcessor *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
		cacheFactory *factory.CacheFactory,
	) (*core.AnalysisService, error) {
		cacheTTL, err := cacheFactory.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		explanationTimeout, err := cfg.GetDuration("analysis.explanation_timeout")
		if err != nil {
			return nil, err
		}
		return core.NewAnalysisService(
			classifier,
			explainer,
			cache,
			textProcessor,
			logger,
			cacheFactory.IsCacheEnabled(),
			cacheTTL,
			explanationTimeout,
			cfg.GetInt("analysis.max_text_size"),
			cfg.GetBool("classifier.serialize"),
		), nil
	}); err != nil {
		return nil, err
	}

	// Register gateways
	if err := container.Provide(func(f *factory.GatewayFactory, service *core.AnalysisService) []ports.Gateway {
		return f.CreateGateways(service)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
