package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/cloudwego/eino-ext/components/model/ark"
)

// 支持的下游模型提供方。
const (
	ProviderOpenRouter  = "openrouter"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderArk         = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	HTTP   HTTPConfig
	LLM    LLMConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := resolveAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if err := cfg.LLM.resolve(); err != nil {
		return nil, err
	}

	if cfg.HTTP.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES value: %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.HTTP.RateLimitPerMinute < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE value: %d", cfg.HTTP.RateLimitPerMinute)
	}

	return &cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Addr string
}

// resolveAddr 解析服务器监听地址。
func resolveAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// HTTPConfig covers the inbound HTTP surface shared by all routes.
type HTTPConfig struct {
	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"20971520"`
}

// LogConfig 日志输出配置。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// LLMConfig 描述大模型相关配置。
type LLMConfig struct {
	Provider          string        `env:"LLM_PROVIDER" envDefault:"openrouter"`
	OpenRouterAPIKey  string        `env:"OPENROUTER_API_KEY"`
	HuggingFaceAPIKey string        `env:"HF_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	BaseURL           string        `env:"LLM_BASE_URL"`
	TextModel         string        `env:"LLM_TEXT_MODEL"`
	VisionModel       string        `env:"LLM_VISION_MODEL"`
	Temperature       float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens         int           `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	Timeout           time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	Referer           string        `env:"LLM_REFERER" envDefault:"https://openrouter.ai/"`
	AppTitle          string        `env:"LLM_APP_TITLE" envDefault:"Poker Advisor AI"`
	Ark               ArkConfig
}

// ArkConfig 火山方舟凭证。
type ArkConfig struct {
	APIKey    string `env:"ARK_API_KEY"`
	AccessKey string `env:"ARK_ACCESS_KEY"`
	SecretKey string `env:"ARK_SECRET_KEY"`
	Region    string `env:"ARK_REGION" envDefault:"cn-beijing"`
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != "")
}

type providerDefaults struct {
	baseURL     string
	textModel   string
	visionModel string
}

var defaults = map[string]providerDefaults{
	ProviderOpenRouter: {
		baseURL:     "https://openrouter.ai/api/v1",
		textModel:   "mistralai/mixtral-8x7b-instruct:free",
		visionModel: "meta-llama/llama-3.2-11b-vision-instruct:free",
	},
	ProviderHuggingFace: {
		baseURL:     "https://router.huggingface.co/v1",
		textModel:   "mistralai/Mistral-7B-Instruct-v0.3",
		visionModel: "meta-llama/Llama-3.2-11B-Vision-Instruct",
	},
	ProviderOpenAI: {
		textModel:   "gpt-4o-mini",
		visionModel: "gpt-4o",
	},
	ProviderArk: {
		baseURL: "https://ark.cn-beijing.volces.com/api/v3",
	},
}

func (c *LLMConfig) resolve() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenRouter
	}
	d, ok := defaults[c.Provider]
	if !ok {
		return fmt.Errorf("invalid LLM_PROVIDER value: %q", c.Provider)
	}

	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = d.baseURL
	}

	c.TextModel = strings.TrimSpace(c.TextModel)
	if c.TextModel == "" {
		c.TextModel = d.textModel
	}
	if c.TextModel == "" {
		// Ark 的模型是用户自己的推理接入点，没有通用默认值。
		return fmt.Errorf("LLM_TEXT_MODEL is required for provider %s", c.Provider)
	}

	c.VisionModel = strings.TrimSpace(c.VisionModel)
	if c.VisionModel == "" {
		c.VisionModel = d.visionModel
	}
	if c.VisionModel == "" {
		c.VisionModel = c.TextModel
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid LLM_TEMPERATURE value: %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("invalid LLM_MAX_TOKENS value: %d", c.MaxTokens)
	}
	return nil
}

// APIKey returns the key of the selected provider, empty when unset.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenRouter:
		return strings.TrimSpace(c.OpenRouterAPIKey)
	case ProviderHuggingFace:
		return strings.TrimSpace(c.HuggingFaceAPIKey)
	case ProviderOpenAI:
		return strings.TrimSpace(c.OpenAIAPIKey)
	case ProviderArk:
		return strings.TrimSpace(c.Ark.APIKey)
	default:
		return ""
	}
}

// HasCredentials reports whether the selected provider can authenticate.
func (c LLMConfig) HasCredentials() bool {
	if c.Provider == ProviderArk {
		return c.Ark.Enabled()
	}
	return c.APIKey() != ""
}

// NewArkChatModel 使用配置创建一个方舟模型实例。
func (c LLMConfig) NewArkChatModel(ctx context.Context) (*ark.ChatModel, error) {
	if !c.Ark.Enabled() {
		return nil, fmt.Errorf("Ark 凭证缺失，至少提供 ARK_API_KEY 或 AK/SK 组合")
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Ark.Region,
		APIKey:      c.Ark.APIKey,
		AccessKey:   c.Ark.AccessKey,
		SecretKey:   c.Ark.SecretKey,
		Model:       c.TextModel,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}
