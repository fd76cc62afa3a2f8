package clients

import (
	"errors"
	"fmt"
)

// CustomError はAIクライアントのエラー種別を保持する。
type CustomError struct {
	Type    ErrorType
	Message string
}

type ErrorType int

const (
	ErrorTypeGeneral ErrorType = iota
	ErrorTypeTokenLimit
	ErrorTypeInvalidAPIKey
	ErrorTypeRateLimit
	ErrorTypeModelNotFound
	ErrorTypeQuotaExceeded
)

func (e *CustomError) Error() string {
	return e.Message
}

func errorTypeOf(err error) (ErrorType, bool) {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Type, true
	}
	return ErrorTypeGeneral, false
}

// IsTokenLimitError はトークン上限超過かどうかを返す。
func IsTokenLimitError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeTokenLimit
}

// IsRateLimitError はレート制限エラーかどうかを返す。
func IsRateLimitError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeRateLimit
}

// IsQuotaExceededError はAPIクォータ不足かどうかを返す。
func IsQuotaExceededError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeQuotaExceeded
}

// IsInvalidAPIKeyError はAPIキー無効エラーかどうかを返す。
func IsInvalidAPIKeyError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeInvalidAPIKey
}

// IsModelNotFoundError はモデル未提供エラーかどうかを返す。
func IsModelNotFoundError(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeModelNotFound
}

// IsRetryable は時間をおいて再試行する価値のあるエラーかどうかを返す。
func IsRetryable(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && (t == ErrorTypeRateLimit || t == ErrorTypeQuotaExceeded)
}

func NewTokenLimitError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeTokenLimit,
		Message: fmt.Sprintf("トークン数が上限を超えています: %s", message),
	}
}

func NewInvalidAPIKeyError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeInvalidAPIKey,
		Message: fmt.Sprintf("APIキーが無効です: %s", message),
	}
}

func NewRateLimitError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeRateLimit,
		Message: fmt.Sprintf("レート制限に達しました: %s", message),
	}
}

func NewModelNotFoundError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeModelNotFound,
		Message: fmt.Sprintf("指定されたモデルが見つかりません: %s", message),
	}
}

func NewQuotaExceededError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeQuotaExceeded,
		Message: fmt.Sprintf("APIクォータが不足しています: %s", message),
	}
}

func NewGeneralError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeGeneral,
		Message: message,
	}
}
