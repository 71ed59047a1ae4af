package types

import "time"

// ----------------------------------------------------------------------
// 収集レコードの定義
// ----------------------------------------------------------------------

// RunType は実行モードを表します。daily は差分収集、initial は全件収集です。
type RunType string

const (
	RunDaily   RunType = "daily"
	RunInitial RunType = "initial"
)

// Candidate は一覧ページから抽出された記事候補です。
// 詳細ページの取得前に重複判定へ渡される最小限のメタデータを保持します。
type Candidate struct {
	URL      string // 詳細ページの絶対URL (安定した識別子)
	Title    string
	Date     string // サイト表記のままの日付文字列 (正規化は後段)
	Category string
}

// Attachment は記事に添付されたバイナリ文書 (PDF/Excel/CSV/Word) の抽出結果です。
type Attachment struct {
	URL           string            `json:"url"`
	FileName      string            `json:"file_name"`
	ExtractedText string            `json:"extracted_text"`
	Sheets        map[string]string `json:"sheets,omitempty"` // Excelの場合のシート別テキスト
	ContentHash   string            `json:"content_hash,omitempty"`
}

// Item は収集単位 (記事・スピーチ・公表文書・行政処分など) の1レコードです。
// URL がラン間で安定した同一性キーとなります。一度永続化されたレコードは
// 以後のランで再取得されません (更新パスなし)。
type Item struct {
	URL          string       `json:"url"`
	Headline     string       `json:"headline"`
	Date         string       `json:"date"`
	Theme        string       `json:"theme,omitempty"`
	Content      string       `json:"content"`
	ImageURL     string       `json:"image_url,omitempty"`
	RelatedLinks []string     `json:"related_links,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	ScrapedDate  string       `json:"scraped_date"` // 取得日 (ISO形式)
}

// ----------------------------------------------------------------------
// 実行統計
// ----------------------------------------------------------------------

// Stats は1サイト分のラン統計です。
// グローバルなカウンタではなく、パイプラインに明示的に引き回します。
type Stats struct {
	Site               string
	PagesFetched       int
	Candidates         int
	Skipped            int // 重複判定で除外された候補数
	NewItems           int
	DetailFailures     int
	AttachmentFailures int
	Checkpoints        int
	Started            time.Time
	Finished           time.Time
}

// Duration はランの所要時間を返します。未完了の場合はゼロ値です。
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}
