package clients

import (
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err       error
		rateLimit bool
		quota     bool
		retryable bool
	}{
		{NewRateLimitError("429"), true, false, true},
		{NewQuotaExceededError("quota"), false, true, true},
		{NewInvalidAPIKeyError("bad key"), false, false, false},
		{NewModelNotFoundError("gone"), false, false, false},
		{NewTokenLimitError("long"), false, false, false},
		{NewGeneralError("boom"), false, false, false},
		{fmt.Errorf("plain error"), false, false, false},
		{nil, false, false, false},
	}
	for _, tc := range cases {
		if got := IsRateLimitError(tc.err); got != tc.rateLimit {
			t.Errorf("IsRateLimitError(%v) = %v", tc.err, got)
		}
		if got := IsQuotaExceededError(tc.err); got != tc.quota {
			t.Errorf("IsQuotaExceededError(%v) = %v", tc.err, got)
		}
		if got := IsRetryable(tc.err); got != tc.retryable {
			t.Errorf("IsRetryable(%v) = %v", tc.err, got)
		}
	}
}

func TestErrorPredicates_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("生成に失敗: %w", NewRateLimitError("429"))
	if !IsRateLimitError(wrapped) {
		t.Error("wrapped rate limit error not detected")
	}
	if !IsRetryable(wrapped) {
		t.Error("wrapped rate limit error should be retryable")
	}
}

func TestCustomError_Message(t *testing.T) {
	err := NewQuotaExceededError("daily limit")
	if err.Error() == "" {
		t.Fatal("empty message")
	}
	if err.Type != ErrorTypeQuotaExceeded {
		t.Fatalf("type = %v", err.Type)
	}
}
