package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-reg-harvest/pkg/types"
)

// csvHeader はCSVエクスポートの列順です。
var csvHeader = []string{
	"headline", "url", "date", "theme", "content",
	"related_links", "image_url", "attachments", "scraped_date",
}

// ExportCSV はレコード列を表計算向けのCSVへ書き出します。
// ネストしたフィールド (関連リンク・添付) はJSON文字列として1セルに収めます。
func ExportCSV(path string, items []types.Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("CSVファイルの作成に失敗しました (%s): %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("CSVヘッダの書き込みに失敗しました: %w", err)
	}

	for _, item := range items {
		row, err := csvRow(item)
		if err != nil {
			return err
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("CSV行の書き込みに失敗しました: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("CSVのフラッシュに失敗しました: %w", err)
	}
	return nil
}

func csvRow(item types.Item) ([]string, error) {
	relatedLinks, err := flattenJSON(item.RelatedLinks)
	if err != nil {
		return nil, fmt.Errorf("関連リンクの変換に失敗しました (%s): %w", item.URL, err)
	}
	attachments, err := flattenJSON(item.Attachments)
	if err != nil {
		return nil, fmt.Errorf("添付の変換に失敗しました (%s): %w", item.URL, err)
	}

	return []string{
		item.Headline,
		item.URL,
		item.Date,
		item.Theme,
		item.Content,
		relatedLinks,
		item.ImageURL,
		attachments,
		item.ScrapedDate,
	}, nil
}

// flattenJSON はスライスをコンパクトなJSON文字列へ変換します。空は空文字列です。
func flattenJSON(v any) (string, error) {
	switch s := v.(type) {
	case []string:
		if len(s) == 0 {
			return "", nil
		}
	case []types.Attachment:
		if len(s) == 0 {
			return "", nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
