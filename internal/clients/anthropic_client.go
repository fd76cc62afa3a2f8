package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicClient はAnthropic Messages APIのクライアントを生成する。
func NewAnthropicClient(cfg Config) (TextClient, error) {
	if cfg.APIKey == "" {
		return nil, NewInvalidAPIKeyError("ANTHROPIC_API_KEY が設定されていません")
	}
	if cfg.Model == "" {
		return nil, NewModelNotFoundError("Anthropicモデル名が設定されていません")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	return &anthropicClient{
		client:    &client,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

func (c *anthropicClient) Model() string {
	return c.model
}

func (c *anthropicClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
			},
		},
	})
	if err != nil {
		return "", mapAnthropicError(c.model, err)
	}

	if msg.StopReason == "max_tokens" {
		return "", NewTokenLimitError("生成結果が出力トークン上限で打ち切られました")
	}

	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", NewGeneralError("Anthropic APIからテキスト応答が返されませんでした")
}

func mapAnthropicError(model string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return NewInvalidAPIKeyError(err.Error())
		case http.StatusNotFound:
			return NewModelNotFoundError(fmt.Sprintf("モデル「%s」: %s", model, err.Error()))
		case http.StatusTooManyRequests:
			if strings.Contains(strings.ToLower(err.Error()), "quota") {
				return NewQuotaExceededError(err.Error())
			}
			return NewRateLimitError(err.Error())
		}
		return NewGeneralError(fmt.Sprintf("Anthropic APIエラー (status %d): %s", apiErr.StatusCode, err.Error()))
	}
	return fmt.Errorf("anthropic API呼び出しに失敗: %w", err)
}
