package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/api/handlers"
	"github.com/iwasawa-gakuin/eiken-gen/internal/api/middleware"
)

// Handlers はルーティングに必要なハンドラ一式。
type Handlers struct {
	Health      *handlers.HealthHandler
	Generation  *handlers.GenerationHandler
	Student     *handlers.StudentHandler
	QuestionSet *handlers.QuestionSetHandler
	Score       *handlers.ScoreHandler
	Print       *handlers.PrintHandler
}

// New はginエンジンを構築し全ルートを登録する。
func New(mode string, logger *zap.Logger, h Handlers) *gin.Engine {
	gin.SetMode(ginMode(mode))

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORS(),
		middleware.Secure(),
		middleware.Metrics(),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/metrics", middleware.PrometheusHandler())

	api := engine.Group("/api")
	api.Use(middleware.RateLimiter(100, time.Minute))
	{
		api.POST("/generate", h.Generation.Generate)
		api.GET("/generate/status", h.Generation.Status)
		api.POST("/generate/reset-quota", h.Generation.ResetQuota)

		api.POST("/students", h.Student.Create)
		api.GET("/students", h.Student.List)
		api.GET("/students/:id", h.Student.Get)
		api.PUT("/students/:id", h.Student.Update)
		api.DELETE("/students/:id", h.Student.Delete)

		api.POST("/question-sets", h.QuestionSet.Create)
		api.GET("/question-sets", h.QuestionSet.List)
		api.GET("/question-sets/:id", h.QuestionSet.Get)
		api.PUT("/question-sets/:id", h.QuestionSet.Update)
		api.DELETE("/question-sets/:id", h.QuestionSet.Delete)

		api.POST("/scores", h.Score.Record)
		api.GET("/scores", h.Score.List)
		api.GET("/scores/stats/:studentId", h.Score.Stats)
		api.GET("/scores/:id", h.Score.Get)
		api.DELETE("/scores/:id", h.Score.Delete)

		api.POST("/print/sheet", h.Print.BuildSheet)
		api.POST("/print/weakness", h.Print.BuildWeaknessPrint)
		api.GET("/print/history", h.Print.History)

		api.POST("/qr-events", h.Print.RecordQREvent)
		api.GET("/qr-events", h.Print.ListQREvents)
	}

	return engine
}

func ginMode(mode string) string {
	switch mode {
	case "release", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
