package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/deepcatch/")
	v.AddConfigPath("$HOME/.deepcatch")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("DEEPCATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Explanation provider defaults
	v.SetDefault("llm.provider", "deepseek")

	// HTTP server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")

	// Classifier defaults
	v.SetDefault("classifier.provider", "lexical")
	v.SetDefault("classifier.serialize", true)
	v.SetDefault("classifier.positive_labels", []string{"phishing", "LABEL_1", "spam"})
	v.SetDefault("classifier.inference_url", "http://127.0.0.1:8500")
	v.SetDefault("classifier.inference_timeout", "10s")

	// DeepSeek defaults
	v.SetDefault("deepseek.api_key", "")
	v.SetDefault("deepseek.base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek.model_name", "deepseek-chat")
	v.SetDefault("deepseek.max_tokens", 2000)
	v.SetDefault("deepseek.temperature", 0.3)
	v.SetDefault("deepseek.top_p", 0.9)
	v.SetDefault("deepseek.max_body_size", 8192)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 2000)
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 8192)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 2000)
	v.SetDefault("bedrock.temperature", 0.3)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 8192)

	// Analysis defaults
	v.SetDefault("analysis.explanation_timeout", "30s")
	v.SetDefault("analysis.max_text_size", 8192)

	// SMTP gateway defaults
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.listen_address", "0.0.0.0:10025")
	v.SetDefault("smtp.block_high_risk", false)
	v.SetDefault("smtp.headers.verdict", "X-Phishing-Verdict")
	v.SetDefault("smtp.headers.confidence", "X-Phishing-Confidence")
	v.SetDefault("smtp.headers.reason", "X-Phishing-Reason")
	v.SetDefault("smtp.postfix_addr", "127.0.0.1")
	v.SetDefault("smtp.postfix_port", 10026)
	v.SetDefault("smtp.postfix_enabled", true)
	v.SetDefault("smtp.subject_prefix", "")
	v.SetDefault("smtp.modify_subject", false)
	v.SetDefault("smtp.trusted_domains", []string{})

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_frequency", "10m")
	v.SetDefault("cache.sqlite_path", "/data/analysis_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/deepcatch")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
