package config

import (
	"os"
	"strconv"
	"time"
)

// Config はサーバ全体の設定。環境変数から読み込む。
type Config struct {
	Port       string
	ServerMode string

	DatabasePath string

	AIProvider      string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	MaxOutputTokens int

	DailyQuotaLimit   int
	MaxRetries        int
	RetryDelay        time.Duration
	EnableValidation  bool
	DisableQuotaCheck bool
}

// Load は環境変数から設定を組み立てる。未設定の項目は既定値を使う。
func Load() *Config {
	return &Config{
		Port:       getEnv("PORT", "8080"),
		ServerMode: getEnv("SERVER_MODE", "debug"),

		DatabasePath: getEnv("DATABASE_PATH", "data/eiken.db"),

		AIProvider:      getEnv("AI_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		MaxOutputTokens: getEnvInt("MAX_OUTPUT_TOKENS", 30000),

		DailyQuotaLimit:   getEnvInt("DAILY_QUOTA_LIMIT", 1400),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RetryDelay:        time.Duration(getEnvInt("RETRY_DELAY_MS", 5000)) * time.Millisecond,
		EnableValidation:  getEnvBool("ENABLE_VALIDATION", false),
		DisableQuotaCheck: getEnvBool("DISABLE_QUOTA_CHECK", false),
	}
}

// APIKeyForProvider は選択中のプロバイダのAPIキーを返す。
func (c *Config) APIKeyForProvider() string {
	switch c.AIProvider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// ModelForProvider は選択中のプロバイダのモデル名を返す。
func (c *Config) ModelForProvider() string {
	switch c.AIProvider {
	case "openai":
		return c.OpenAIModel
	case "anthropic", "claude":
		return c.AnthropicModel
	default:
		return c.GeminiModel
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
