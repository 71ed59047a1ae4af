package doctext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxDocument は word/document.xml のうちテキスト抽出に必要な要素のみを
// 対象としたスキーマです。段落と表セルを拾います。
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

type docxTable struct {
	Rows []docxTableRow `xml:"tr"`
}

type docxTableRow struct {
	Cells []docxTableCell `xml:"tc"`
}

type docxTableCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

// extractDocx は .docx (OOXML) から段落と表のテキストを抽出します。
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docxアーカイブのオープンに失敗しました: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("document.xmlのオープンに失敗しました: %w", err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("document.xmlの読み込みに失敗しました: %w", err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("word/document.xml が見つかりません")
	}

	var doc docxDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return "", fmt.Errorf("document.xmlの解析に失敗しました: %w", err)
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		if text := paragraphText(p); text != "" {
			lines = append(lines, text)
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var parts []string
				for _, p := range cell.Paragraphs {
					if text := paragraphText(p); text != "" {
						parts = append(parts, text)
					}
				}
				if len(parts) > 0 {
					cells = append(cells, strings.Join(parts, " "))
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
	}

	if len(lines) == 0 {
		return "", errEmptyDocument
	}
	return strings.Join(lines, "\n"), nil
}

func paragraphText(p docxParagraph) string {
	var sb strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			sb.WriteString(t)
		}
	}
	return strings.TrimSpace(sb.String())
}
