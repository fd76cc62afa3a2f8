package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
	"github.com/iwasawa-gakuin/eiken-gen/internal/utils"
)

type PrintHandler struct {
	service services.PrintService
	logger  *zap.Logger
}

func NewPrintHandler(service services.PrintService, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{service: service, logger: logger}
}

type buildSheetRequest struct {
	QuestionSetID string                `json:"questionSetId" binding:"required"`
	SheetType     string                `json:"type" binding:"required"`
	StudentName   string                `json:"studentName"`
	Settings      *models.PrintSettings `json:"printSettings"`
}

// BuildSheet は POST /api/print/sheet を処理する。
func (h *PrintHandler) BuildSheet(c *gin.Context) {
	var req buildSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	settings := models.DefaultPrintSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	sheet, err := h.service.BuildSheet(c.Request.Context(), req.QuestionSetID, req.SheetType, req.StudentName, settings)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedSheetType) {
			utils.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, sheet)
}

type weaknessPrintRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Count     int    `json:"count"`
}

// BuildWeaknessPrint は POST /api/print/weakness を処理する。
func (h *PrintHandler) BuildWeaknessPrint(c *gin.Context) {
	var req weaknessPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	// 内部でAI生成を呼ぶため、クォータ/認証系エラーもここへ届く
	print, err := h.service.BuildWeaknessPrint(c.Request.Context(), req.StudentID, req.Count)
	if err != nil {
		respondGenerationError(c, h.logger, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, print)
}

// History は GET /api/print/history を処理する。
func (h *PrintHandler) History(c *gin.Context) {
	filter := models.PrintHistoryFilter{
		StudentID: c.Query("studentId"),
		SheetType: c.Query("type"),
		Limit:     queryInt(c, "limit", 0),
		Offset:    queryInt(c, "offset", 0),
	}

	entries, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, entries)
}

// RecordQREvent は POST /api/qr-events を処理する。
func (h *PrintHandler) RecordQREvent(c *gin.Context) {
	var req models.RecordQREventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	event, err := h.service.RecordQREvent(c.Request.Context(), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, event)
}

// ListQREvents は GET /api/qr-events を処理する。
func (h *PrintHandler) ListQREvents(c *gin.Context) {
	events, err := h.service.ListQREvents(c.Request.Context(), c.Query("studentId"), queryInt(c, "limit", 50))
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, events)
}
