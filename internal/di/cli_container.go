package di

import (
	"flag"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/config"
	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/factory"
	"github.com/deepcatch/deepcatch/internal/logging"
	"github.com/deepcatch/deepcatch/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// LLM provider flags
	Provider    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxBodySize int

	// DeepSeek flags
	DeepSeekAPIKey    string
	DeepSeekBaseURL   string
	DeepSeekModelName string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Classifier flags
	ClassifierProvider string
	InferenceURL       string

	// Analysis flags
	ExplanationTimeout time.Duration
	MaxTextSize        int

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	JSONOutput bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM provider flags
	flag.StringVar(&flags.Provider, "provider", "deepseek", "LLM provider (deepseek, gemini, bedrock)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 2000, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.3, "Temperature for LLM generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for LLM generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 8192, "Maximum content size to send to LLM")

	// DeepSeek flags
	flag.StringVar(&flags.DeepSeekAPIKey, "deepseek-api-key", "", "API key for DeepSeek")
	flag.StringVar(&flags.DeepSeekBaseURL, "deepseek-base-url", "https://api.deepseek.com", "Base URL for the DeepSeek API")
	flag.StringVar(&flags.DeepSeekModelName, "deepseek-model", "deepseek-chat", "DeepSeek model name")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Classifier flags
	flag.StringVar(&flags.ClassifierProvider, "classifier", "lexical", "Classifier provider (lexical, inference)")
	flag.StringVar(&flags.InferenceURL, "inference-url", "http://127.0.0.1:8500", "URL of the classifier inference server")

	// Analysis flags
	flag.DurationVar(&flags.ExplanationTimeout, "explanation-timeout", 30*time.Second, "Timeout for the explanation request")
	flag.IntVar(&flags.MaxTextSize, "max-text-size", 8192, "Maximum input text size")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input text file (use stdin if not specified)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.BoolVar(&flags.JSONOutput, "json", false, "Print the full report as JSON")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExplanationFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
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

	// Register analysis service with no cache
	if err := container.Provide(func(
		classifier core.TextClassifier,
		explainer core.ExplanationProvider,
		textProcessor *utils.TextProcessor,
		flags *CLIFlags,
		logger *zap.Logger,
	) *core.AnalysisService {
		return core.NewAnalysisService(
			classifier,
			explainer,
			nil, // No cache for CLI
			textProcessor,
			logger,
			false,
			time.Duration(0),
			flags.ExplanationTimeout,
			flags.MaxTextSize,
			false,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("cli.verbose", flags.Verbose)

	// Set LLM provider
	v.Set("llm.provider", flags.Provider)

	// Set provider-specific configuration
	switch flags.Provider {
	case "deepseek":
		v.Set("deepseek.api_key", flags.DeepSeekAPIKey)
		v.Set("deepseek.base_url", flags.DeepSeekBaseURL)
		v.Set("deepseek.model_name", flags.DeepSeekModelName)
		v.Set("deepseek.max_tokens", flags.MaxTokens)
		v.Set("deepseek.temperature", flags.Temperature)
		v.Set("deepseek.top_p", flags.TopP)
		v.Set("deepseek.max_body_size", flags.MaxBodySize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	}

	// Set classifier configuration
	v.Set("classifier.provider", flags.ClassifierProvider)
	v.Set("classifier.inference_url", flags.InferenceURL)
	v.Set("classifier.positive_labels", []string{"phishing", "LABEL_1", "spam"})
	v.Set("classifier.inference_timeout", "10s")

	return config.NewFromViper(v)
}
