package config

import "time"

// LLMConfig represents the configuration for the explanation provider
type LLMConfig struct {
	Provider string
}

// ClassifierConfig represents the configuration for the local classifier
type ClassifierConfig struct {
	Provider         string
	Serialize        bool
	PositiveLabels   []string
	InferenceURL     string
	InferenceTimeout time.Duration
}

// DeepSeekConfig represents the configuration for the DeepSeek API
type DeepSeekConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetLLM returns the explanation provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Provider:         c.GetString("classifier.provider"),
		Serialize:        c.GetBool("classifier.serialize"),
		PositiveLabels:   c.GetStringSlice("classifier.positive_labels"),
		InferenceURL:     c.GetString("classifier.inference_url"),
		InferenceTimeout: c.v.GetDuration("classifier.inference_timeout"),
	}
}

// GetDeepSeek returns the DeepSeek configuration
func (c *Config) GetDeepSeek() DeepSeekConfig {
	return DeepSeekConfig{
		APIKey:      c.GetString("deepseek.api_key"),
		BaseURL:     c.GetString("deepseek.base_url"),
		ModelName:   c.GetString("deepseek.model_name"),
		MaxTokens:   c.GetInt("deepseek.max_tokens"),
		Temperature: float32(c.GetFloat64("deepseek.temperature")),
		TopP:        float32(c.GetFloat64("deepseek.top_p")),
		MaxBodySize: c.GetInt("deepseek.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}
