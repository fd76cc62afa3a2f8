package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/api/middleware"
	"github.com/iwasawa-gakuin/eiken-gen/internal/clients"
	"github.com/iwasawa-gakuin/eiken-gen/internal/eiken"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
	"github.com/iwasawa-gakuin/eiken-gen/internal/utils"
)

type GenerationHandler struct {
	service services.GenerationService
	logger  *zap.Logger
}

func NewGenerationHandler(service services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{service: service, logger: logger}
}

// Generate は POST /api/generate を処理する。
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		middleware.CountGeneration(string(req.Grade), string(req.QuestionType), "error")
		respondGenerationError(c, h.logger, err)
		return
	}

	middleware.CountGeneration(string(req.Grade), string(req.QuestionType), "success")
	utils.RespondJSON(c, http.StatusOK, result)
}

// respondGenerationError は問題生成を伴う処理のエラーをHTTPステータスへ変換する。
func respondGenerationError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, eiken.ErrUnsupportedGrade),
		errors.Is(err, eiken.ErrUnsupportedQuestionType),
		errors.Is(err, services.ErrInvalidCount):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrQuotaExceeded),
		clients.IsRateLimitError(err),
		clients.IsQuotaExceededError(err):
		utils.RespondError(c, http.StatusTooManyRequests, err.Error())
	case clients.IsInvalidAPIKeyError(err):
		utils.RespondError(c, http.StatusUnauthorized, err.Error())
	case clients.IsModelNotFoundError(err), errors.Is(err, repositories.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err.Error())
	default:
		logger.Error("問題生成に失敗", zap.Error(err))
		utils.RespondError(c, http.StatusInternalServerError, "問題の生成に失敗しました")
	}
}

// Status は GET /api/generate/status を処理する。
func (h *GenerationHandler) Status(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, h.service.Status())
}

// ResetQuota は POST /api/generate/reset-quota を処理する。
func (h *GenerationHandler) ResetQuota(c *gin.Context) {
	h.service.ResetQuota()
	utils.RespondJSON(c, http.StatusOK, h.service.Status())
}
