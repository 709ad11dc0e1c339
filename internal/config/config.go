package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// PlaceholderAPIKey 是示例 .env 中的占位值，视同未配置。
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// 支持的模型提供方。
const (
	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
	ProviderGemini = "gemini"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Environment Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`

	Server ServerConfig
	AI     AIConfig
}

// Load 从环境变量加载配置并校验。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	cfg.Environment = ParseEnvironment(string(cfg.Environment))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验字段取值范围。
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Server.Addr(); err != nil {
		return err
	}
	return nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"5000"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Addr 解析服务器监听地址。
func (c ServerConfig) Addr() (string, error) {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5000" 或 "127.0.0.1:5000"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider          string        `envconfig:"AI_PROVIDER" default:"openai" validate:"oneof=openai ark gemini"`
	Model             string        `envconfig:"AI_MODEL" default:"gpt-5-turbo" validate:"required"`
	Timeout           time.Duration `envconfig:"AI_TIMEOUT" default:"30s" validate:"min=1s,max=5m"`
	EmotionLLMEnabled bool          `envconfig:"AI_EMOTION_LLM_ENABLED" default:"true"`

	OpenAI OpenAIConfig
	Ark    ArkConfig
	Gemini GeminiConfig
}

// OpenAIConfig OpenAI 兼容接口。
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1" validate:"url"`
}

// ArkConfig 火山方舟。
type ArkConfig struct {
	APIKey    string `envconfig:"ARK_API_KEY"`
	AccessKey string `envconfig:"ARK_ACCESS_KEY"`
	SecretKey string `envconfig:"ARK_SECRET_KEY"`
	BaseURL   string `envconfig:"ARK_BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	Region    string `envconfig:"ARK_REGION" default:"cn-beijing"`
}

// GeminiConfig Google Gemini。
type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
}

// APIKey 返回当前提供方使用的密钥。
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case ProviderArk:
		return strings.TrimSpace(c.Ark.APIKey)
	case ProviderGemini:
		return strings.TrimSpace(c.Gemini.APIKey)
	default:
		return strings.TrimSpace(c.OpenAI.APIKey)
	}
}

// APIKeyConfigured 表示是否提供了可用的凭证（占位值不算）。
func (c AIConfig) APIKeyConfigured() bool {
	if c.Provider == ProviderArk && c.Ark.AccessKey != "" && c.Ark.SecretKey != "" {
		return true
	}
	key := c.APIKey()
	return key != "" && key != PlaceholderAPIKey
}

// ProviderName 返回对外展示的提供方名称。
func (c AIConfig) ProviderName() string {
	switch c.Provider {
	case ProviderArk:
		return "Ark"
	case ProviderGemini:
		return "Gemini"
	default:
		return "OpenAI"
	}
}

// MaskedAPIKey 只保留前 10 个字符用于启动日志。
func (c AIConfig) MaskedAPIKey() string {
	key := c.APIKey()
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:10] + "..."
}
