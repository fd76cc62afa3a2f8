package models

import "time"

// PrintSettings は印刷オプション。
type PrintSettings struct {
	IncludeAnswers      bool   `json:"includeAnswers"`
	IncludeExplanations bool   `json:"includeExplanations"`
	FontSize            string `json:"fontSize"`
	PageBreak           bool   `json:"pageBreak"`
	HeaderFooter        bool   `json:"headerFooter"`
}

// DefaultPrintSettings は問題用紙の既定オプション。
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		FontSize:     "medium",
		PageBreak:    true,
		HeaderFooter: true,
	}
}

// PrintSheet は問題用紙・解答用紙の印刷データ。
type PrintSheet struct {
	ID                 string        `json:"id"`
	QuestionSetID      string        `json:"questionSetId"`
	StudentName        string        `json:"studentName,omitempty"`
	Date               string        `json:"date"`
	SheetType          string        `json:"type"`
	CustomInstructions string        `json:"customInstructions,omitempty"`
	Questions          []Question    `json:"questions,omitempty"`
	PrintSettings      PrintSettings `json:"printSettings"`
}

// WeaknessPrint は弱点対策プリント。
type WeaknessPrint struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"studentId"`
	Grade         Grade         `json:"grade"`
	Type          QuestionType  `json:"questionType"`
	FocusAreas    []string      `json:"focusAreas"`
	Questions     []Question    `json:"questions"`
	GeneratedAt   string        `json:"generatedAt"`
	PrintSettings PrintSettings `json:"printSettings"`
}

// PrintHistoryEntry は印刷履歴の1件。
type PrintHistoryEntry struct {
	ID              string    `json:"id" db:"id"`
	StudentID       string    `json:"studentId,omitempty" db:"student_id"`
	StudentName     string    `json:"studentName,omitempty" db:"student_name"`
	SheetType       string    `json:"type" db:"sheet_type"`
	QuestionSetID   string    `json:"questionSetId,omitempty" db:"question_set_id"`
	QuestionSetName string    `json:"questionSetName,omitempty" db:"question_set_name"`
	PrintedAt       time.Time `json:"printedAt" db:"printed_at"`
	Status          string    `json:"status" db:"status"`
}

// PrintHistoryFilter は印刷履歴の絞り込み条件。
type PrintHistoryFilter struct {
	StudentID string
	SheetType string
	Limit     int
	Offset    int
}

// QREvent は印刷物のQRコードを読み取った際の採点イベント。
type QREvent struct {
	ID            string    `json:"id" db:"id"`
	EventType     string    `json:"eventType" db:"event_type"`
	StudentID     string    `json:"studentId,omitempty" db:"student_id"`
	StudentName   string    `json:"studentName,omitempty" db:"student_name"`
	QuestionSetID string    `json:"questionSetId,omitempty" db:"question_set_id"`
	QuestionID    string    `json:"questionId,omitempty" db:"question_id"`
	Correct       bool      `json:"correct" db:"correct"`
	QRID          string    `json:"qrId,omitempty" db:"qr_id"`
	Override      bool      `json:"override" db:"override"`
	ScannedAt     time.Time `json:"scannedAt" db:"scanned_at"`
}

// RecordQREventRequest はQRイベント登録リクエスト。
type RecordQREventRequest struct {
	EventType     string `json:"eventType" binding:"required"`
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	QuestionSetID string `json:"questionSetId"`
	QuestionID    string `json:"questionId"`
	Correct       bool   `json:"correct"`
	QRID          string `json:"qrId"`
	Override      bool   `json:"override"`
}
