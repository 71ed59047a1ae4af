package doctext

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// extractCSV はCSVを行単位のテキストへ整形します。
// 列数の揺れがあるファイルも多いため、フィールド数チェックは無効化します。
func extractCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var lines []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("CSVの読み込みに失敗しました: %w", err)
		}

		var cells []string
		for _, cell := range record {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, " | "))
		}
	}

	if len(lines) == 0 {
		return "", errEmptyDocument
	}
	return strings.Join(lines, "\n"), nil
}
