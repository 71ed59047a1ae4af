package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractWorkbook はワークブックの全シートをテキスト化します。
// 戻り値は (シート名見出し付きの全文, シート別テキスト) です。
func extractWorkbook(data []byte) (string, map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("ワークブックのオープンに失敗しました: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]string)
	var sb strings.Builder

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}

		var lines []string
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if c := strings.TrimSpace(cell); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
		if len(lines) == 0 {
			continue
		}

		sheetText := strings.Join(lines, "\n")
		sheets[name] = sheetText

		sb.WriteString("## " + name + "\n")
		sb.WriteString(sheetText)
		sb.WriteString("\n\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", nil, errEmptyDocument
	}
	return text, sheets, nil
}
