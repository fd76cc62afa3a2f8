package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iwasawa-gakuin/eiken-gen/internal/clients"
	"github.com/iwasawa-gakuin/eiken-gen/internal/eiken"
	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// ErrInvalidCount は問題数が許容範囲外の場合に返る。
var ErrInvalidCount = fmt.Errorf("問題数は1〜20の範囲で指定してください")

// MaxQuestionCount は1リクエストで生成できる問題数の上限。
const MaxQuestionCount = 20

type GenerationService interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error)
	Status() models.GenerationStatus
	ResetQuota()
}

type generationService struct {
	client        clients.TextClient
	quota         *QuotaCounter
	logger        *zap.Logger
	maxRetries    int
	retryDelay    time.Duration
	validate      bool
	keyConfigured bool

	// テストから差し替えられるように分離してある
	sleep func(ctx context.Context, d time.Duration) error
}

func NewGenerationService(
	client clients.TextClient,
	quota *QuotaCounter,
	logger *zap.Logger,
	maxRetries int,
	retryDelay time.Duration,
	validate bool,
	keyConfigured bool,
) GenerationService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &generationService{
		client:        client,
		quota:         quota,
		logger:        logger,
		maxRetries:    maxRetries,
		retryDelay:    retryDelay,
		validate:      validate,
		keyConfigured: keyConfigured,
		sleep:         sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *generationService) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	start := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt, err := eiken.BuildPrompt(req.Grade, req.QuestionType, req.Count, req.Topics, req.CustomInstructions)
	if err != nil {
		return nil, err
	}

	s.logger.Info("問題生成を開始",
		zap.String("grade", string(req.Grade)),
		zap.String("questionType", string(req.QuestionType)),
		zap.Int("count", req.Count),
		zap.String("model", s.client.Model()))

	raw, err := s.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if s.validate {
		raw = s.validatePass(ctx, req.Grade, raw)
	}

	questions := eiken.Normalize(raw, req.Grade, req.QuestionType, req.Count)

	fallback := 0
	for _, q := range questions {
		if q.IsFallback {
			fallback++
		}
	}
	if fallback > 0 {
		s.logger.Warn("応答の解釈に失敗し、代替問題を返します",
			zap.Int("fallbackCount", fallback),
			zap.Int("rawLength", len(raw)))
	}

	s.logger.Info("問題生成が完了",
		zap.Int("generated", len(questions)),
		zap.Duration("elapsed", time.Since(start)))

	return &models.GenerationResult{
		Questions:      questions,
		TotalGenerated: len(questions),
		GenerationTime: time.Now().Format(time.RFC3339),
		Grade:          req.Grade,
		QuestionType:   req.QuestionType,
	}, nil
}

func validateRequest(req models.GenerationRequest) error {
	if _, err := eiken.Lookup(req.Grade); err != nil {
		return err
	}
	supported := false
	for _, qtype := range models.QuestionTypes {
		if req.QuestionType == qtype {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %q", eiken.ErrUnsupportedQuestionType, req.QuestionType)
	}
	if req.Count < 1 || req.Count > MaxQuestionCount {
		return fmt.Errorf("%w (指定値: %d)", ErrInvalidCount, req.Count)
	}
	return nil
}

// callWithRetry はクォータを1試行ごとに消費しながらAI呼び出しを繰り返す。
// レート制限・クォータ系のエラーは試行回数に比例した待機を挟む。
func (s *generationService) callWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if err := s.quota.Acquire(); err != nil {
			return "", err
		}

		raw, err := s.client.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if clients.IsInvalidAPIKeyError(err) || clients.IsModelNotFoundError(err) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == s.maxRetries {
			break
		}

		delay := s.retryDelay
		if clients.IsRetryable(err) {
			delay = s.retryDelay * time.Duration(attempt)
		}
		s.logger.Warn("AI呼び出しに失敗。再試行します",
			zap.Int("attempt", attempt),
			zap.Int("maxRetries", s.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		if err := s.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("AI呼び出しが%d回失敗しました: %w", s.maxRetries, lastErr)
}

// validatePass は生成済みJSONを2回目のプロンプトで検品させる。
// 失敗しても元の応答をそのまま使う（生成自体は成立しているため）。
func (s *generationService) validatePass(ctx context.Context, grade models.Grade, raw string) string {
	span, ok := eiken.ExtractJSONSpan(raw)
	if !ok {
		return raw
	}
	profile, err := eiken.Lookup(grade)
	if err != nil {
		return raw
	}
	if err := s.quota.Acquire(); err != nil {
		s.logger.Warn("検品パスをスキップ（クォータ不足）", zap.Error(err))
		return raw
	}

	validated, err := s.client.GenerateContent(ctx, eiken.BuildValidationPrompt(profile, span))
	if err != nil {
		s.logger.Warn("検品パスに失敗。元の応答を使用します", zap.Error(err))
		return raw
	}

	fixedSpan, ok := eiken.ExtractJSONSpan(validated)
	if !ok || !hasItemsPayload(fixedSpan) {
		s.logger.Warn("検品パスの応答に問題データがありません。元の応答を使用します")
		return raw
	}
	return fixedSpan
}

// hasItemsPayload は検品応答が問題データ本体を含むかを判定する。
// ステータス報告だけのJSONで元の応答を潰さないためのガード。
func hasItemsPayload(span string) bool {
	var payload struct {
		Items     json.RawMessage `json:"items"`
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return false
	}
	return isPresent(payload.Items) || isPresent(payload.Questions)
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func (s *generationService) Status() models.GenerationStatus {
	usage := s.quota.Usage()
	return models.GenerationStatus{
		Status:            "ok",
		Service:           "eiken-question-generator",
		Timestamp:         time.Now().Format(time.RFC3339),
		Model:             s.client.Model(),
		APIKeyConfigured:  s.keyConfigured,
		DailyCount:        usage.Count,
		DailyLimit:        usage.Limit,
		Remaining:         usage.Remaining,
		ValidationEnabled: s.validate,
	}
}

func (s *generationService) ResetQuota() {
	s.quota.Reset()
}
