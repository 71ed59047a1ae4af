package doctext

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfRowsStrategy は行構造を保ったPDFテキスト抽出です。表組みの多い
// 当局の統計資料ではこちらの方が読みやすい結果になります。
type pdfRowsStrategy struct{}

func (s *pdfRowsStrategy) Name() string { return "pdf-rows" }

func (s *pdfRowsStrategy) Extract(data []byte) (text string, err error) {
	// ledongthuc/pdf は壊れたPDFでpanicすることがあるため回復する
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF解析中にpanicが発生しました: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("PDFの読み込みに失敗しました: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var cells []string
			for _, word := range row.Content {
				if w := strings.TrimSpace(word.S); w != "" {
					cells = append(cells, w)
				}
			}
			if len(cells) > 0 {
				sb.WriteString(strings.Join(cells, " "))
				sb.WriteString("\n")
			}
		}
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", errEmptyDocument
	}
	return result, nil
}

// pdfPlainStrategy は素のテキストストリーム抽出です。行構造は失われますが、
// GetTextByRow が空を返すPDFでも文字を拾えることがあります。
type pdfPlainStrategy struct{}

func (s *pdfPlainStrategy) Name() string { return "pdf-plain" }

func (s *pdfPlainStrategy) Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF解析中にpanicが発生しました: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("PDFの読み込みに失敗しました: %w", err)
	}

	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("PDFテキストの取得に失敗しました: %w", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("PDFテキストの読み込みに失敗しました: %w", err)
	}

	result := strings.TrimSpace(string(raw))
	if result == "" {
		return "", errEmptyDocument
	}
	return result, nil
}
