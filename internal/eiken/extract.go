package eiken

import "strings"

// ExtractJSONSpan はAIの自由文応答から最初の '{' と最後の '}' で挟まれた
// 部分文字列を切り出す。厳密な括弧対応は取らない貪欲マッチで、
// 実際のAI応答（JSONの前後に散文が付く）との互換性のために維持している。
// JSONらしき部分が見つからなければ ok=false を返す。
func ExtractJSONSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
