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
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
)

type stubGenerationService struct {
	err    error
	status models.GenerationStatus
}

func (s *stubGenerationService) Generate(_ context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.GenerationResult{
		Questions:      []models.Question{{ID: "q1", Content: "She ( ) tennis."}},
		TotalGenerated: 1,
		Grade:          req.Grade,
		QuestionType:   req.QuestionType,
	}, nil
}

func (s *stubGenerationService) Status() models.GenerationStatus { return s.status }
func (s *stubGenerationService) ResetQuota()                     {}

func newGenerationRouter(svc services.GenerationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGenerationHandler(svc, zap.NewNop())
	engine := gin.New()
	engine.POST("/api/generate", h.Generate)
	engine.GET("/api/generate/status", h.Status)
	return engine
}

func postGenerate(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"grade":"3級","questionType":"語彙","count":1}`

func TestGenerateHandler_Success(t *testing.T) {
	engine := newGenerationRouter(&stubGenerationService{})

	rec := postGenerate(t, engine, validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"totalGenerated":1`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGenerateHandler_BadJSON(t *testing.T) {
	engine := newGenerationRouter(&stubGenerationService{})

	rec := postGenerate(t, engine, `{"grade":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGenerateHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid count", services.ErrInvalidCount, http.StatusBadRequest},
		{"quota exceeded", services.ErrQuotaExceeded, http.StatusTooManyRequests},
		{"rate limited", clients.NewRateLimitError("レート制限"), http.StatusTooManyRequests},
		{"invalid api key", clients.NewInvalidAPIKeyError("APIキーが不正"), http.StatusUnauthorized},
		{"model not found", clients.NewModelNotFoundError("モデルなし"), http.StatusNotFound},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newGenerationRouter(&stubGenerationService{err: tt.err})
			rec := postGenerate(t, engine, validBody)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGenerateHandler_Status(t *testing.T) {
	engine := newGenerationRouter(&stubGenerationService{status: models.GenerationStatus{
		Status:     "ok",
		DailyCount: 3,
		DailyLimit: 1400,
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/generate/status", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"dailyCount":3`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
