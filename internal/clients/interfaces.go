package clients

import "context"

// TextClient は生成AIプロバイダの共通インターフェース。
// プロンプトを送り、生成テキストをそのまま返す。
type TextClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Config はクライアント生成に必要な接続情報。
type Config struct {
	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int
}

// DefaultMaxOutputTokens は生成1回あたりの出力トークン上限の既定値。
const DefaultMaxOutputTokens = 30000
