package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/clients"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
)

type stubPrintService struct {
	weaknessErr error
}

func (s *stubPrintService) BuildSheet(context.Context, string, string, string, models.PrintSettings) (*models.PrintSheet, error) {
	return &models.PrintSheet{}, nil
}

func (s *stubPrintService) BuildWeaknessPrint(context.Context, string, int) (*models.WeaknessPrint, error) {
	if s.weaknessErr != nil {
		return nil, s.weaknessErr
	}
	return &models.WeaknessPrint{ID: "wp-1", Type: models.TypeVocabulary}, nil
}

func (s *stubPrintService) History(context.Context, models.PrintHistoryFilter) ([]*models.PrintHistoryEntry, error) {
	return nil, nil
}

func (s *stubPrintService) RecordQREvent(context.Context, models.RecordQREventRequest) (*models.QREvent, error) {
	return &models.QREvent{}, nil
}

func (s *stubPrintService) ListQREvents(context.Context, string, int) ([]*models.QREvent, error) {
	return nil, nil
}

func postWeakness(t *testing.T, svc *stubPrintService) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewPrintHandler(svc, zap.NewNop())
	engine := gin.New()
	engine.POST("/api/print/weakness", h.BuildWeaknessPrint)

	req := httptest.NewRequest(http.MethodPost, "/api/print/weakness", strings.NewReader(`{"studentId":"sid","count":3}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestWeaknessPrintHandler_Success(t *testing.T) {
	rec := postWeakness(t, &stubPrintService{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

// 内部のAI生成で起きたエラーは生成エンドポイントと同じ対応表で返す
func TestWeaknessPrintHandler_GenerationErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", clients.NewRateLimitError("レート制限"), http.StatusTooManyRequests},
		{"quota exceeded", clients.NewQuotaExceededError("上限到達"), http.StatusTooManyRequests},
		{"invalid api key", clients.NewInvalidAPIKeyError("APIキーが不正"), http.StatusUnauthorized},
		{"missing student", repositories.ErrNotFound, http.StatusNotFound},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postWeakness(t, &stubPrintService{weaknessErr: tt.err})
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
