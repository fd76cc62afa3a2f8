package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/api/handlers"
	"github.com/iwasawa-gakuin/eiken-gen/internal/api/middleware"
	"github.com/iwasawa-gakuin/eiken-gen/internal/api/routes"
	"github.com/iwasawa-gakuin/eiken-gen/internal/clients"
	"github.com/iwasawa-gakuin/eiken-gen/internal/config"
	"github.com/iwasawa-gakuin/eiken-gen/internal/logger"
	"github.com/iwasawa-gakuin/eiken-gen/internal/repositories"
	"github.com/iwasawa-gakuin/eiken-gen/internal/services"
)

func main() {
	// 環境変数の読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.Load()

	zapLogger := logger.New(cfg.ServerMode)
	defer zapLogger.Sync()

	// データベース接続の初期化（リトライ機能付き）
	db, err := config.NewDatabaseWithRetry(cfg.DatabasePath)
	if err != nil {
		log.Printf("❌ データベース接続に失敗しました: %v", err)
		log.Printf("⚠️ メモリベースのリポジトリを使用します")
	} else {
		defer db.Close()
	}

	// リポジトリを初期化（DB接続に失敗した場合はメモリベースへフォールバック）
	var studentRepo repositories.StudentRepository
	var setRepo repositories.QuestionSetRepository
	var scoreRepo repositories.ScoreRepository
	var printRepo repositories.PrintRepository

	if db != nil {
		studentRepo = repositories.NewSQLiteStudentRepository(db)
		setRepo = repositories.NewSQLiteQuestionSetRepository(db)
		scoreRepo = repositories.NewSQLiteScoreRepository(db)
		printRepo = repositories.NewSQLitePrintRepository(db)
		log.Printf("✅ SQLiteベースのリポジトリを初期化しました: %s", cfg.DatabasePath)
	} else {
		studentRepo = repositories.NewMemoryStudentRepository()
		setRepo = repositories.NewMemoryQuestionSetRepository()
		scoreRepo = repositories.NewMemoryScoreRepository()
		printRepo = repositories.NewMemoryPrintRepository()
		log.Printf("✅ メモリベースのリポジトリを初期化しました")
	}

	// AIクライアントを初期化
	client, err := clients.New(context.Background(), clients.Config{
		Provider:        cfg.AIProvider,
		APIKey:          cfg.APIKeyForProvider(),
		Model:           cfg.ModelForProvider(),
		BaseURL:         cfg.OpenAIBaseURL,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	if err != nil {
		zapLogger.Fatal("AIクライアントの初期化に失敗", zap.Error(err))
	}
	log.Printf("🤖 AIクライアントを初期化しました (provider=%s, model=%s)", cfg.AIProvider, cfg.ModelForProvider())

	// サービスを初期化
	quota := services.NewQuotaCounter(cfg.DailyQuotaLimit, cfg.DisableQuotaCheck)
	generationService := services.NewGenerationService(client, quota, zapLogger, cfg.MaxRetries, cfg.RetryDelay, cfg.EnableValidation, cfg.APIKeyForProvider() != "")
	studentService := services.NewStudentService(studentRepo)
	questionSetService := services.NewQuestionSetService(setRepo)
	scoreService := services.NewScoreService(scoreRepo, studentRepo)
	printService := services.NewPrintService(printRepo, setRepo, studentRepo, scoreRepo, generationService, zapLogger)

	// ハンドラーの初期化
	h := routes.Handlers{
		Health:      handlers.NewHealthHandler(),
		Generation:  handlers.NewGenerationHandler(generationService, zapLogger),
		Student:     handlers.NewStudentHandler(studentService),
		QuestionSet: handlers.NewQuestionSetHandler(questionSetService),
		Score:       handlers.NewScoreHandler(scoreService),
		Print:       handlers.NewPrintHandler(printService, zapLogger),
	}

	middleware.InitMetrics()
	router := routes.New(cfg.ServerMode, zapLogger, h)

	log.Printf("🚀 Eiken Question Generator starting on port %s", cfg.Port)
	log.Printf("📋 Available endpoints:")
	log.Printf("  - GET  /health")
	log.Printf("  - GET  /metrics")
	log.Printf("  - POST /api/generate")
	log.Printf("  - GET  /api/generate/status")
	log.Printf("  - POST /api/generate/reset-quota")
	log.Printf("  - CRUD /api/students")
	log.Printf("  - CRUD /api/question-sets")
	log.Printf("  - CRUD /api/scores (+ GET /api/scores/stats/:studentId)")
	log.Printf("  - POST /api/print/sheet, /api/print/weakness, GET /api/print/history")
	log.Printf("  - POST /api/qr-events, GET /api/qr-events")

	if err := router.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("サーバの起動に失敗", zap.Error(err))
	}
}
