package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type geminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiClient はGoogle Gemini APIのクライアントを生成する。
func NewGeminiClient(ctx context.Context, cfg Config) (TextClient, error) {
	if cfg.APIKey == "" {
		return nil, NewInvalidAPIKeyError("GEMINI_API_KEY が設定されていません")
	}
	if cfg.Model == "" {
		return nil, NewModelNotFoundError("Geminiモデル名が設定されていません")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("geminiクライアントの初期化に失敗: %w", err)
	}

	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	return &geminiClient{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

func (c *geminiClient) Model() string {
	return c.model
}

func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.maxTokens),
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", mapGeminiError(c.model, err)
	}

	if len(result.Candidates) == 0 {
		return "", NewGeneralError("Gemini APIから候補が返されませんでした")
	}
	if result.Candidates[0].FinishReason == "MAX_TOKENS" {
		return "", NewTokenLimitError("生成結果が出力トークン上限で打ち切られました")
	}

	text := result.Text()
	if text == "" {
		return "", NewGeneralError(fmt.Sprintf("Gemini APIから空の応答 (finishReason: %s)", result.Candidates[0].FinishReason))
	}
	return text, nil
}

func mapGeminiError(model string, err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest:
			if strings.Contains(apiErr.Message, "too many tokens") ||
				strings.Contains(apiErr.Message, "maximum context length") {
				return NewTokenLimitError(apiErr.Message)
			}
			return NewGeneralError(fmt.Sprintf("Gemini APIリクエストエラー: %s", apiErr.Message))
		case http.StatusForbidden:
			return NewInvalidAPIKeyError(apiErr.Message)
		case http.StatusNotFound:
			return NewModelNotFoundError(fmt.Sprintf("モデル「%s」: %s", model, apiErr.Message))
		case http.StatusTooManyRequests:
			if strings.Contains(strings.ToLower(apiErr.Message), "quota") {
				return NewQuotaExceededError(apiErr.Message)
			}
			return NewRateLimitError(apiErr.Message)
		}
		return NewGeneralError(fmt.Sprintf("Gemini APIエラー (code %d): %s", apiErr.Code, apiErr.Message))
	}
	return fmt.Errorf("gemini API呼び出しに失敗: %w", err)
}
