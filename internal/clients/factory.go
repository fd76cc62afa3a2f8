package clients

import (
	"context"
	"fmt"
	"strings"
)

// New は設定のProviderに応じたクライアントを生成する。
// 未指定の場合はGeminiを使う。
func New(ctx context.Context, cfg Config) (TextClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini", "google":
		return NewGeminiClient(ctx, cfg)
	case "openai":
		return NewOpenAIClient(cfg)
	case "anthropic", "claude":
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("未対応のAIプロバイダです: %q", cfg.Provider)
	}
}
