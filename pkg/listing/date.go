package listing

import (
	"strings"
	"time"
)

// dateLayouts は当局サイトで観測された日付表記のバリエーションです。
// 先頭から順に試行します。
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2 January 2006",
	"02 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"02/01/2006",
	"2006/01/02",
	"2006年1月2日",
	"2006年01月02日",
}

// ParseDate は様々な表記の日付文字列を解析します。
// 解析できない場合は2番目の戻り値がfalseになります。
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate は日付文字列をISO形式 (2006-01-02) へ正規化します。
// 解析できない表記は原文のまま返します。
func NormalizeDate(raw string) string {
	if t, ok := ParseDate(raw); ok {
		return t.Format("2006-01-02")
	}
	return strings.TrimSpace(raw)
}
