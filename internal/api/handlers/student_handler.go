package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iwasawa-gakuin/eiken-gen/internal/eiken"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
	"github.com/iwasawa-gakuin/eiken-gen/internal/utils"
)

type StudentHandler struct {
	service services.StudentService
}

func NewStudentHandler(service services.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// Create は POST /api/students を処理する。
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, student)
}

// Get は GET /api/students/:id を処理する。
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, student)
}

// List は GET /api/students を処理する。
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Grade:  models.Grade(c.Query("grade")),
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, students)
}

// Update は PUT /api/students/:id を処理する。
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "リクエスト形式が不正です: "+err.Error())
		return
	}

	student, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, student)
}

// Delete は DELETE /api/students/:id を処理する。
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondCRUDError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, gin.H{"deleted": true})
}

// respondCRUDError はCRUD系エラーをHTTPステータスへ変換する。
func respondCRUDError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, eiken.ErrUnsupportedGrade),
		errors.Is(err, eiken.ErrUnsupportedQuestionType):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(c, http.StatusInternalServerError, err.Error())
	}
}

// queryInt はクエリパラメータを整数として読む。不正値は既定値。
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
