package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
	"github.com/iwasawa-gakuin/eiken-gen/internal/utils"
)

type ScoreHandler struct {
	service services.ScoreService
}

func NewScoreHandler(service services.ScoreService) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// Record は POST /api/scores を処理する。
func (h *ScoreHandler) Record(c *gin.Context) {
	var req models.CreateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	record, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, record)
}

// Get は GET /api/scores/:id を処理する。
func (h *ScoreHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, record)
}

// List は GET /api/scores を処理する。
func (h *ScoreHandler) List(c *gin.Context) {
	filter := models.ScoreFilter{
		StudentID: c.Query("studentId"),
		Grade:     models.Grade(c.Query("grade")),
		Type:      models.QuestionType(c.Query("questionType")),
		Limit:     queryInt(c, "limit", 0),
		Offset:    queryInt(c, "offset", 0),
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, records)
}

// Stats は GET /api/scores/stats/:studentId を処理する。
func (h *ScoreHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, stats)
}

// Delete は DELETE /api/scores/:id を処理する。
func (h *ScoreHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"deleted": true})
}
