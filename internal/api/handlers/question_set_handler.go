package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
	"github.com/iwasawa-gakuin/eiken-gen/internal/utils"
)

type QuestionSetHandler struct {
	service services.QuestionSetService
}

func NewQuestionSetHandler(service services.QuestionSetService) *QuestionSetHandler {
	return &QuestionSetHandler{service: service}
}

// Create は POST /api/question-sets を処理する。
func (h *QuestionSetHandler) Create(c *gin.Context) {
	var req models.CreateQuestionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	set, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, set)
}

// Get は GET /api/question-sets/:id を処理する。
func (h *QuestionSetHandler) Get(c *gin.Context) {
	set, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, set)
}

// List は GET /api/question-sets を処理する。
func (h *QuestionSetHandler) List(c *gin.Context) {
	filter := models.QuestionSetFilter{
		Grade:  models.Grade(c.Query("grade")),
		Type:   models.QuestionType(c.Query("questionType")),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}

	sets, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, sets)
}

// Update は PUT /api/question-sets/:id を処理する。
func (h *QuestionSetHandler) Update(c *gin.Context) {
	var req models.UpdateQuestionSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	set, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, set)
}

// Delete は DELETE /api/question-sets/:id を処理する。
func (h *QuestionSetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"deleted": true})
}
