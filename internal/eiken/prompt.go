package eiken

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwasawa-gakuin/eiken-gen/internal/models"
)

// ErrUnsupportedQuestionType はテンプレートが存在しない問題形式を指定した場合に返る。
var ErrUnsupportedQuestionType = fmt.Errorf("対応していない問題形式です")

// BuildPrompt は級・形式・問題数・トピック・追加指示から生成プロンプトを組み立てる。
// 入力が同じなら出力は常に同一のバイト列になる（乱数・I/Oなし）。
func BuildPrompt(grade models.Grade, qtype models.QuestionType, count int, topics []string, customInstructions string) (string, error) {
	profile, err := Lookup(grade)
	if err != nil {
		return "", err
	}

	topic := "一般的な話題"
	if len(topics) > 0 {
		topic = strings.Join(topics, ", ")
	}

	var body string
	switch qtype {
	case models.TypeVocabulary:
		body = vocabularyPrompt(profile, count)
	case models.TypeRearrangement:
		body = rearrangementPrompt(profile, count)
	case models.TypeReading:
		body = readingPrompt(profile, count, topic)
	case models.TypeEssay:
		body = essayPrompt(profile, count)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedQuestionType, qtype)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `あなたは日本の英語検定(英検)に似た形式の問題作成者です。

共通システム指示：
・既存の過去問や文章を記憶から再現・転載しない。必ず新規に創作する。
・各級らしさを語彙/文法/文長/設問タイプで再現する。
・出力は必ず日本語説明つきJSONで返す（コード以外の文章は出力しない）。
・難易度は %s（CEFRおおよそ %s）に合わせる。
・トピックは %s（中立的・文化的偏りを避ける）。
・解説は日本語(learners向け)、根拠は英文中の該当箇所を引用して示す。
・選択肢は紛らわしいが文法的に成立するダミーを作る（ただし正解は一つ）。

%s

注意事項：
- 必ず有効なJSON形式で出力してください
- 各級の語彙レベルと文長制限を厳守してください
- 文化的偏りを避け、中立的な内容にしてください
- 既存の過去問を再現せず、必ず新規創作してください`,
		profile.Grade, profile.TargetCEFR, topic, body)

	if customInstructions != "" {
		fmt.Fprintf(&b, "\n\n追加指示: %s", customInstructions)
	}

	return b.String(), nil
}

// BuildValidationPrompt は生成済み問題JSONを grade_profile に照らして
// 検品・自動修正させる2回目のプロンプトを組み立てる。
func BuildValidationPrompt(profile GradeProfile, itemsJSON string) string {
	return fmt.Sprintf(`下の問題JSONを grade_profile に照らして検品。NGがあれば**修正方針**を箇条書き→
**修正済みJSONのみ**を返す（余計なテキストは不要）。

チェック観点：
1) 語彙：高頻度中心か。低頻度/専門語が混入していないか（同義の平易語に置換）。
2) 文法：allowed_grammar内か。banned_grammarが混入していないか。
3) 文長/情報量：規定範囲か。従属節の数が過多でないか。
4) 並べ替え唯一解：句読点・限定詞・時制で多解を封じているか。多解なら具体例を示し修正。
5) 語彙4択ダミー：全て文法的に成立しうるが、意味/語法の一点で外れているか。場違い語は不可。
6) 読解の設問設計：主旨/詳細/推論/語彙のバランス、根拠の妥当性。
7) 作文：語数/形式/ルーブリックの整合。
8) 自己採点：各指標が3±1に収まること。外れる場合は**再設計**してから返す。

入力：
- grade_profile: %s
- items_json: %s

出力：修正後JSONのみ`, gradeProfileJSON(profile), itemsJSON)
}

// gradeProfileJSON はプロンプトへ埋め込む grade_profile ブロックを返す。
// 構造体経由でエンコードするためフィールド順は固定。
func gradeProfileJSON(p GradeProfile) string {
	data, err := json.Marshal(profileJSON{
		Grade:          string(p.Grade),
		TargetCEFR:     p.TargetCEFR,
		SentenceWords:  p.SentenceWordRange,
		AllowedGrammar: p.AllowedGrammar,
		BannedGrammar:  p.BannedGrammar,
		VocabPolicy:    p.VocabPolicy,
		Confusability:  p.Confusability,
		UniquenessRule: p.UniquenessRule,
		MaxClauses:     p.MaxClauses,
	})
	if err != nil {
		return "{}"
	}
	return string(data)
}

func vocabularyPrompt(p GradeProfile, count int) string {
	return fmt.Sprintf(`あなたは英検風の問題作成者。以下の grade_profile に**厳密準拠**で、
%d問の1空所4択を作成し、**JSONのみ**出力してください。

**問題の多様性を確保してください：**
- 動詞、名詞、形容詞、副詞、前置詞など様々な品詞をバランスよく出題
- 時制、受動態、比較級、関係代名詞など様々な文法項目を含む
- 日常会話、学校生活、趣味、家族、旅行、環境、科学、文化など様々なトピックから出題
- 単語の意味、文法、語法、慣用表現など様々な観点から出題

要件：
- **文長は必ず %d-%d 語**、空所は( )。
- **文構造の複雑さ**：級に応じて従属節、関係代名詞、完了形などを適切に使用
- **重要**：短い文は禁止。必ず指定された語数以上で作成してください。
- 選択肢は**品詞一致**。ダミーは「%s」ズレで自然に見せる（場違い語×）。
- 各問に日本語解説 `+"`rationale_ja`"+` と、誤答ごとの `+"`distractor_notes_ja`"+` を付す。
- `+"`targets`"+` に grammar / vocab_tier / length などメタ情報を格納。
- `+"`self_check`"+`で5段階自己採点：語彙難度/文法難度/多解リスク/文長適合/級適合（期待=3）。外れたら**自動修正**後に出力。
- 禁止：過去問再現、低頻度専門語、固有名詞、時事依存。

入力 grade_profile:
{"grade_profile": %s}

出力JSON：
{
  "type":"cloze_mcq",
  "grade":"%s",
  "items":[
    {
      "stem":"The students who ( ) the exam last week are now preparing for their next challenge.",
      "options":["passed","pass","passing","will pass"],
      "answer":"passed",
      "rationale_ja":"関係代名詞whoの先行詞はstudentsで、last weekという過去の時間表現があるため過去形passedが正解。",
      "distractor_notes_ja":{"pass":"現在形で時間表現と矛盾","passing":"進行形で文脈に合わない","will pass":"未来形で時間表現と矛盾"},
      "targets":{"grammar":"関係代名詞+過去形","vocab_tier":"中頻度","length":15},
      "self_check":{"lex_level":3,"gram_level":3,"grade_fit":3,"notes_ja":"級相当の文構造"}
    }
  ]
}`,
		count,
		p.SentenceWordRange.Min, p.SentenceWordRange.Max,
		strings.Join(p.Confusability, "/"),
		gradeProfileJSON(p),
		p.Grade)
}

func rearrangementPrompt(p GradeProfile, count int) string {
	header := `あなたは日本の英語検定(英検)に似た形式の問題作成者かつ検査官です。
- 既存の過去問の再現は禁止。すべて新規に創作。
- 出力はJSONのみ。余計なテキストは出さない。
- 固有名詞や時事依存は使わない。
- 「唯一解」を最優先。多解の疑いが残るものは破棄。

`

	var body string
	switch {
	case len(p.Patterns) > 0:
		body = patternedRearrangement(p, count)
	case len(p.RequiredGrammar) > 0:
		body = advancedRearrangement(p, count)
	default:
		body = basicRearrangement(p, count)
	}

	return header + body
}

// patternedRearrangement は構文パターンゲート付きの級（準2級・2級）向け。
func patternedRearrangement(p GradeProfile, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "目的: %s(%s)の並べ替え問題を %d 問作る。出力はJSONのみ。級差を出すために下記ゲートを厳守。\n\n",
		p.Grade, p.TargetCEFR, count)

	fmt.Fprintf(&b, "【必須構文（いずれか1つのみ）】\n")
	for _, pat := range p.Patterns {
		fmt.Fprintf(&b, "- %s: %s\n", pat.Code, pat.Description)
	}

	fmt.Fprintf(&b, "\n【禁止】\n- %s\n", strings.Join(p.BannedJumbled, "・"))

	fmt.Fprintf(&b, `
【トークン/要素 目標】
- tokens: **%d–%d**（句読点を必ず1つ含める→これは1トークン）
- anchors: **%d個以上**（句読点1 + 助動/時制マーカー/限定詞）
- movables: **%d–%d**（頻度副詞/前置詞句/時副詞句/to不定詞句/従属節 から）
- 語彙: %s

【唯一解ルール（必須）】
- 句読点を1つ入れ、位置で語順を固定（挿入カンマ or 疑問倒置）。
- this/theseは片方しか使わない（両方禁止）。
- 頻度副詞の位置は be動詞の直後 または 一般動詞の直前 に限定。
- 前置詞句は意味上一箇所（ふつう文末）にしか置けない内容語を選ぶ。

【自己検査(必ず各アイテムに付与)】
- grammar_gate: 必須構文のいずれか1つだけ=Yes
- tokens_in_range: Yes（%d–%d）
- anchors_count >= %d
- movables_count ∈ {%d..%d}
- forbidden_detected: No
`,
		p.TokenCountRange.Min, p.TokenCountRange.Max,
		p.AnchorMin,
		p.MovableRange.Min, p.MovableRange.Max,
		p.Lexicon,
		p.TokenCountRange.Min, p.TokenCountRange.Max,
		p.AnchorMin,
		p.MovableRange.Min, p.MovableRange.Max)

	if p.DifficultyRange != nil {
		fmt.Fprintf(&b, `- difficulty_index 目標 **%.2f–%.2f**
  - 計算: 0.4*(grammar_tier/%d) + 0.3*(movables/%d) + 0.2*token_norm + 0.1*(1 - anchor_ratio)
  - grammar_tier(%s)=%d
  - token_norm: %d→0, %d→1 に正規化
  - anchor_ratio = anchors/tokens
`,
			p.DifficultyRange.Min, p.DifficultyRange.Max,
			p.GrammarTier, p.MaxMovables,
			p.Grade, p.GrammarTier,
			p.TokenCountRange.Min, p.TokenCountRange.Max)
	}

	fmt.Fprintf(&b, `- どれか1つでも外れた候補は**出力しない**（内部で破棄し、合格のみを返す）。

【出力JSONスキーマ（合格 %d 件）】
{
  "type":"jumbled_sentence",
  "grade":"%s",
  "items":[
    {
      "tokens":["..."],
      "answer":"Sentence ... .",
      "features":{
        "pattern":"%s",
        "anchors":%d,
        "movables":%d,
        "grammar_tier":%d,
        "tokens":%d,
        "difficulty_index":0.58,
        "why_unique_ja":"唯一解の理由（頻度副詞位置/句読点/前置詞句の固定など）"
      }
    }
  ]
}`,
		count, p.Grade,
		patternCodes(p.Patterns),
		p.AnchorMin, p.MovableRange.Min, p.GrammarTier, p.TokenCountRange.Min)

	return b.String()
}

// basicRearrangement は構文パターンを持たない下位級（5級・4級・3級）向け。
func basicRearrangement(p GradeProfile, count int) string {
	return fmt.Sprintf(`目的: %s(%s)の並べ替え問題を %d 問作る。出力はJSONのみ。

【%sの必須要素】
- tokens: **%d–%d**（句読点を必ず1つ含める）
- anchors: **%d個以上**（句読点1 + 助動/時制マーカー/限定詞）
- movables: **%d–%d個**（頻度副詞/前置詞句/時副詞句/to不定詞句/従属節）
- grammar_tier: **%d**

【禁止事項】
- %s

【唯一解ルール（必須）】
- 句読点を1つ入れて位置で固定（挿入カンマ or 疑問倒置）
- this/theseは片方のみ使用（両方禁止）
- 頻度副詞は be動詞の直後 or 一般動詞の直前
- 前置詞句は意味上一箇所（ふつう文末）にしか置けない内容語を選ぶ

【自己検査（各アイテムに必須）】
- tokens_in_range: Yes（%d–%d）
- anchors_count >= %d
- movables_count ∈ {%d..%d}
- forbidden_detected: No
- 外れた候補は**出力しない**

【出力JSONスキーマ】
{
  "type":"jumbled_sentence",
  "grade":"%s",
  "items":[
    {
      "tokens":["..."],
      "answer":"Sentence ... .",
      "features":{
        "anchors":%d,
        "movables":%d,
        "grammar_tier":%d,
        "tokens":%d,
        "why_unique_ja":"唯一解の理由（頻度副詞位置/句読点/前置詞句の固定など）"
      }
    }
  ]
}`,
		p.Grade, p.TargetCEFR, count,
		p.Grade,
		p.TokenCountRange.Min, p.TokenCountRange.Max,
		p.AnchorMin,
		p.MovableRange.Min, p.MovableRange.Max,
		p.GrammarTier,
		strings.Join(p.BannedJumbled, "・"),
		p.TokenCountRange.Min, p.TokenCountRange.Max,
		p.AnchorMin,
		p.MovableRange.Min, p.MovableRange.Max,
		p.Grade,
		p.AnchorMin, p.MovableRange.Min, p.GrammarTier, p.TokenCountRange.Min)
}

// advancedRearrangement は必須文法指定のある上位級（準1級・1級）向け。
func advancedRearrangement(p GradeProfile, count int) string {
	return fmt.Sprintf(`目的: %s(%s)向け並べ替え問題を %d 問作る。生成→検査→基準外は捨てて再生成までここで完結。

【ターゲット】
- tokens=%d–%d, anchors>=%d, movables=%d–%d, grammar_tier=%d（%s のいずれか必須）
- 禁止: %s

定義:
- anchors=「句読点1つ」「限定詞(this/the等はどちらか一方のみ)」「助動詞/時制マーカー(does/did/was/has など)」
- movables=「頻度副詞」「前置詞句」「副詞句」「to不定詞句」「従属節」など位置が動かせる要素
- grammar_tier= 1:基本文 / 2:時制・進行 / 3:because・if・比較 / 4:受動・不定詞・that節 / 5:完了・関係代名詞・倒置 / 6:分詞修飾・非定形節 / 7:高度従属・倒置

唯一解ルール（必ず適用）:
- 句読点(., ?)を1つ入れて位置を固定。
- 限定詞は this/these のどちらかのみ使用（両方は不可）。
- 頻度副詞は be動詞の直後 or 一般動詞の直前に固定。
- 前置詞句は意味上一箇所（通常は文末）にしか置けない内容語を選ぶ。

手順（内部で繰り返す）:
1) 候補を最大50件まで生成（級のターゲットに沿うように）。
2) 各候補に対し自己検査: tokens/anchors/movables/grammar_tier が級のレンジ内か、
   他に文法的に自然な語順が成立しないか（多解チェック）。多解がありそうなら reject。
3) 基準外や多解は破棄。十分に集まらなければ再生成を繰り返す（最大50件まで）。
4) %d 問集まった時点で出力。

出力JSONスキーマ:
{
  "type": "jumbled_sentence",
  "grade": "%s",
  "items": [
    {
      "tokens": ["..."],
      "answer": "Sentence ... .",
      "features": {
        "anchors": %d, "movables": %d, "grammar_tier": %d, "tokens": %d,
        "why_unique_ja": "頻度副詞の位置規則と倒置/句読点で一意化。"
      }
    }
  ]
}`,
		p.Grade, p.TargetCEFR, count,
		p.TokenCountRange.Min, p.TokenCountRange.Max,
		p.AnchorMin,
		p.MovableRange.Min, p.MovableRange.Max,
		p.GrammarTier,
		strings.Join(p.RequiredGrammar, " or "),
		strings.Join(p.BannedJumbled, "・"),
		count,
		p.Grade,
		p.AnchorMin, p.MovableRange.Min, p.GrammarTier, p.TokenCountRange.Min)
}

func readingPrompt(p GradeProfile, count int, topic string) string {
	return fmt.Sprintf(`あなたは英検風の読解作成者。grade_profileに従い、%d本文の読解セットを**JSONのみ**で作成。

**問題の多様性を確保してください：**
- 日常会話、学校生活、趣味、家族、旅行、環境、科学、文化、歴史、社会問題など様々なトピックから出題
- 時制、受動態、比較級、関係代名詞など様々な文法項目を含む

要件：
- 本文語数：%d-%d語、段落数：%d。
- 設問は各本文につき%d問。主旨/詳細/推論/語彙(文脈)をバランス良く。
- 各設問は4択(A–D)。本文の文言と意味で正解が一意。
- 各設問に根拠文 `+"`evidence`"+` と日本語解説 `+"`rationale_ja`"+` を付す。
- 本文末に級相当の見出し語リスト `+"`glossary`"+`（<=10語）。
- 固有名詞は一般的な範囲。文化的バイアスは避ける。
- `+"`self_check`"+`で語彙/文法/文長/設問難度/級適合を5段階評価（期待=3）。外れたら修正。

入力 grade_profile:
{"grade_profile": %s}

出力JSON：
{
  "type":"reading_set",
  "grade":"%s",
  "topic":"%s",
  "passage":{ "title":"{auto_title}","text":"{本文}","word_count":0 },
  "questions":[
    {"qtype":"main_idea","stem":"What is the main idea of the passage?","options":["A ...","B ...","C ...","D ..."],"answer":"B","evidence":"第2段落: '...'","rationale_ja":"..."}
  ],
  "glossary":[ {"word":"habit","ja":"習慣"} ],
  "self_check": {"lex_level":3,"gram_level":3,"length_fit":3,"q_difficulty":3,"grade_fit":3,"notes_ja":"..."}
}`,
		count,
		p.Reading.WordMin, p.Reading.WordMax, p.Reading.ParagraphCount,
		p.Reading.QuestionsPerPassage,
		gradeProfileJSON(p),
		p.Grade, topic)
}

func essayPrompt(p GradeProfile, count int) string {
	return fmt.Sprintf(`あなたは英検風のライティング作成者。grade_profileに従い、%d題の英作文タスクを**JSONのみ**で作成。

**問題の多様性を確保してください：**
- 日常会話、学校生活、趣味、家族、旅行、環境、科学、文化、歴史、社会問題など様々なトピックから出題
- 賛否、意見説明、メール返信、体験談、将来の計画など様々な形式で出題

要件：
- 形式：賛否/意見説明/メール返信。語数：%d-%d語。
- 評価観点：内容/構成/文法/語彙（各0–4）。観点定義をJSONに含める。
- モデル解答は任意（include_reference=true）。含める場合は級に合った自然さで。
- `+"`self_check`"+`で語彙/文法/構成/級適合（期待=3）。外れたら修正。

入力 grade_profile:
{"grade_profile": %s}

出力JSON：
{
  "type":"writing_task",
  "grade":"%s",
  "prompt":"Do you agree or disagree that {statement}? Give two reasons.",
  "word_limit":{"min":%d,"max":%d},
  "rubric":{
    "content":"主張と理由が明確か（0–4）",
    "organization":"段落構成・論理の流れ（0–4）",
    "grammar":"時制/一致/語法の正確さ（0–4）",
    "vocabulary":"適切さと多様性（0–4）"
  },
  "reference_answer_optional": null,
  "self_check": {"lex_level":3,"gram_level":3,"organization":3,"grade_fit":3,"notes_ja":"..."}
}`,
		count,
		p.EssayWordRange.Min, p.EssayWordRange.Max,
		gradeProfileJSON(p),
		p.Grade,
		p.EssayWordRange.Min, p.EssayWordRange.Max)
}

func patternCodes(patterns []SyntaxPattern) string {
	codes := make([]string, len(patterns))
	for i, p := range patterns {
		codes[i] = p.Code
	}
	return strings.Join(codes, "|")
}
