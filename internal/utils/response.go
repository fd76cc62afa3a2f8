package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse はエラー応答の共通形。
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse はデータつき成功応答の共通形。
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// RespondError はエラー応答を書き込む。
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Success: false, Error: message})
}

// RespondJSON はデータを共通エンベロープで書き込む。
func RespondJSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Success: true, Data: data})
}
