package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openaiClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient はOpenAI Chat Completions APIのクライアントを生成する。
// BaseURLを差し替えればOpenAI互換API (OpenRouter等) も使える。
func NewOpenAIClient(cfg Config) (TextClient, error) {
	if cfg.APIKey == "" {
		return nil, NewInvalidAPIKeyError("OPENAI_API_KEY が設定されていません")
	}
	if cfg.Model == "" {
		return nil, NewModelNotFoundError("OpenAIモデル名が設定されていません")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	return &openaiClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: c.maxTokens,
	})
	if err != nil {
		return "", mapOpenAIError(c.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", NewGeneralError("OpenAI APIから選択肢が返されませんでした")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return "", NewTokenLimitError("生成結果が出力トークン上限で打ち切られました")
	}
	if choice.Message.Content == "" {
		return "", NewGeneralError("OpenAI APIから空の応答")
	}
	return choice.Message.Content, nil
}

func mapOpenAIError(model string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return NewInvalidAPIKeyError(apiErr.Message)
		case http.StatusNotFound:
			return NewModelNotFoundError(fmt.Sprintf("モデル「%s」: %s", model, apiErr.Message))
		case http.StatusTooManyRequests:
			if strings.Contains(strings.ToLower(apiErr.Message), "quota") {
				return NewQuotaExceededError(apiErr.Message)
			}
			return NewRateLimitError(apiErr.Message)
		case http.StatusBadRequest:
			if strings.Contains(apiErr.Message, "maximum context length") {
				return NewTokenLimitError(apiErr.Message)
			}
			return NewGeneralError(fmt.Sprintf("OpenAI APIリクエストエラー: %s", apiErr.Message))
		}
		return NewGeneralError(fmt.Sprintf("OpenAI APIエラー (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
	}
	return fmt.Errorf("openAI API呼び出しに失敗: %w", err)
}
