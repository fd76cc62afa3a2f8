package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// NewDatabase はSQLiteデータベースを開き、マイグレーションとseed投入を行う。
func NewDatabase(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("データベースディレクトリの作成に失敗: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// SQLiteは書き込みが単一接続前提なので接続数を絞る
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seedStudents(db); err != nil {
		log.Printf("⚠️ seedデータの投入に失敗: %v", err)
	}

	return db, nil
}

// NewDatabaseWithRetry はリトライ付きでデータベースを開く。
func NewDatabaseWithRetry(path string) (*sqlx.DB, error) {
	maxRetries := 5
	retryInterval := 2 * time.Second

	log.Printf("📦 データベース接続を開始します: %s", path)

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := NewDatabase(path)
		if err == nil {
			log.Printf("✅ データベース接続成功: %s", path)
			return db, nil
		}
		lastErr = err
		if i < maxRetries-1 {
			log.Printf("⏳ リトライ %d/%d: %v", i+1, maxRetries, err)
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました (最大%d回試行): %w", maxRetries, lastErr)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		grade TEXT NOT NULL,
		email TEXT DEFAULT '',
		school_year TEXT DEFAULT '',
		school TEXT DEFAULT '',
		joined_at TIMESTAMP NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS question_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT DEFAULT '',
		grade TEXT NOT NULL,
		question_type TEXT NOT NULL,
		questions TEXT NOT NULL,
		created_by TEXT DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		question_set_id TEXT NOT NULL,
		grade TEXT NOT NULL,
		question_type TEXT NOT NULL,
		score REAL NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		time_spent INTEGER NOT NULL DEFAULT 0,
		answers TEXT NOT NULL DEFAULT '[]',
		completed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS print_history (
		id TEXT PRIMARY KEY,
		student_id TEXT DEFAULT '',
		student_name TEXT DEFAULT '',
		sheet_type TEXT NOT NULL,
		question_set_id TEXT DEFAULT '',
		question_set_name TEXT DEFAULT '',
		printed_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'completed'
	)`,
	`CREATE TABLE IF NOT EXISTS qr_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		student_id TEXT DEFAULT '',
		student_name TEXT DEFAULT '',
		question_set_id TEXT DEFAULT '',
		question_id TEXT DEFAULT '',
		correct BOOLEAN NOT NULL DEFAULT 0,
		qr_id TEXT DEFAULT '',
		override BOOLEAN NOT NULL DEFAULT 0,
		scanned_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_student ON scores(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_print_history_student ON print_history(student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_qr_events_student ON qr_events(student_id)`,
}

// Migrate はスキーマを作成する。冪等なので起動のたびに実行してよい。
func Migrate(db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("マイグレーションの実行に失敗: %w", err)
		}
	}
	return nil
}

// seedStudents は塾生テーブルが空の場合にサンプルデータを投入する。
func seedStudents(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM students"); err != nil {
		return fmt.Errorf("塾生数の取得に失敗: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		name       string
		grade      string
		schoolYear string
	}{
		{"田中太郎", "3級", "中学2年"},
		{"佐藤花子", "準2級", "中学3年"},
		{"鈴木一郎", "2級", "高校1年"},
		{"高橋美咲", "準1級", "高校2年"},
		{"伊藤健太", "4級", "中学1年"},
	}

	now := time.Now()
	for _, s := range seeds {
		_, err := db.Exec(
			`INSERT INTO students (id, name, grade, school_year, joined_at, is_active) VALUES (?, ?, ?, ?, ?, 1)`,
			uuid.NewString(), s.name, s.grade, s.schoolYear, now)
		if err != nil {
			return fmt.Errorf("seed塾生の投入に失敗: %w", err)
		}
	}
	log.Printf("📝 seed塾生を %d 件投入しました", len(seeds))
	return nil
}
