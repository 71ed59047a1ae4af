package doctext

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeStrategy はChainのテスト用戦略です。
type fakeStrategy struct {
	name string
	text string
	err  error
}

func (f *fakeStrategy) Name() string { return f.name }
func (f *fakeStrategy) Extract(data []byte) (string, error) {
	return f.text, f.err
}

func TestChain_Extract(t *testing.T) {
	long := strings.Repeat("regulatory text ", 20) // 閾値を十分超える長さ

	tests := []struct {
		name       string
		strategies []Strategy
		expected   string
	}{
		{
			"先頭戦略が十分な結果を返す",
			[]Strategy{
				&fakeStrategy{name: "a", text: long},
				&fakeStrategy{name: "b", text: "should not be used"},
			},
			strings.TrimSpace(long),
		},
		{
			"不十分な結果は次の戦略へフォールバック",
			[]Strategy{
				&fakeStrategy{name: "a", text: "too short"},
				&fakeStrategy{name: "b", text: long},
			},
			strings.TrimSpace(long),
		},
		{
			"失敗した戦略はスキップされる",
			[]Strategy{
				&fakeStrategy{name: "a", err: errors.New("broken")},
				&fakeStrategy{name: "b", text: long},
			},
			strings.TrimSpace(long),
		},
		{
			"全戦略が閾値未満なら最長の結果を採用",
			[]Strategy{
				&fakeStrategy{name: "a", text: "short"},
				&fakeStrategy{name: "b", text: "slightly longer text"},
			},
			"slightly longer text",
		},
		{
			"全戦略が失敗した場合は空文字列",
			[]Strategy{
				&fakeStrategy{name: "a", err: errors.New("broken")},
				&fakeStrategy{name: "b", err: errors.New("also broken")},
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain(DefaultMinYield, tt.strategies...)
			assert.Equal(t, tt.expected, chain.Extract("test.pdf", nil))
		})
	}
}

func TestExtract_PDF(t *testing.T) {
	e := NewExtractor(0)

	t.Run("壊れたPDFは空の結果", func(t *testing.T) {
		result := e.Extract("broken.pdf", []byte("this is not a pdf"))
		assert.Equal(t, "", result.Text)
	})
}

func TestExtract_Workbook(t *testing.T) {
	e := NewExtractor(0)

	t.Run("全シートがシート別テキストと全文に含まれる", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "Quarter"))
		require.NoError(t, f.SetCellValue("Sheet1", "B1", "Total"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", "Q1"))
		require.NoError(t, f.SetCellValue("Sheet1", "B2", 42))
		_, err := f.NewSheet("Notes")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Notes", "A1", "Source: quarterly survey"))

		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))

		result := e.Extract("stats.xlsx", buf.Bytes())

		assert.Contains(t, result.Text, "## Sheet1")
		assert.Contains(t, result.Text, "Quarter | Total")
		assert.Contains(t, result.Text, "Q1 | 42")
		assert.Contains(t, result.Text, "## Notes")
		require.Contains(t, result.Sheets, "Sheet1")
		require.Contains(t, result.Sheets, "Notes")
		assert.Equal(t, "Source: quarterly survey", result.Sheets["Notes"])
	})

	t.Run("壊れたワークブックは空の結果", func(t *testing.T) {
		result := e.Extract("broken.xlsx", []byte("not a workbook"))
		assert.Equal(t, "", result.Text)
		assert.Nil(t, result.Sheets)
	})
}

func TestExtract_CSV(t *testing.T) {
	e := NewExtractor(0)

	t.Run("行単位で整形される", func(t *testing.T) {
		data := []byte("Quarter,Total\nQ1,42\nQ2,57\n")
		result := e.Extract("stats.csv", data)
		assert.Equal(t, "Quarter | Total\nQ1 | 42\nQ2 | 57", result.Text)
	})

	t.Run("列数の揺れを許容する", func(t *testing.T) {
		data := []byte("a,b,c\nd,e\n")
		result := e.Extract("ragged.csv", data)
		assert.Equal(t, "a | b | c\nd | e", result.Text)
	})
}

func TestExtract_Docx(t *testing.T) {
	e := NewExtractor(0)

	t.Run("段落と表を抽出", func(t *testing.T) {
		docXML := `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>The prudential framework applies to all licensed entities.</t></r></p>
    <tbl><tr>
      <tc><p><r><t>Entity</t></r></p></tc>
      <tc><p><r><t>Status</t></r></p></tc>
    </tr></tbl>
  </body>
</document>`

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/document.xml")
		require.NoError(t, err)
		_, err = w.Write([]byte(docXML))
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		result := e.Extract("guidance.docx", buf.Bytes())
		assert.Contains(t, result.Text, "prudential framework")
		assert.Contains(t, result.Text, "Entity | Status")
	})

	t.Run("壊れたdocxは空の結果", func(t *testing.T) {
		result := e.Extract("broken.docx", []byte("not a zip"))
		assert.Equal(t, "", result.Text)
	})
}

func TestExtract_LegacyFormats(t *testing.T) {
	e := NewExtractor(0)
	assert.Equal(t, Result{}, e.Extract("old.doc", []byte{0xd0, 0xcf}))
	assert.Equal(t, Result{}, e.Extract("old.xls", []byte{0xd0, 0xcf}))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("report.pdf"))
	assert.True(t, Supported("stats.XLSX"))
	assert.True(t, Supported("legacy.doc"))
	assert.False(t, Supported("page.html"))
	assert.False(t, Supported("archive.zip"))
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"パス末尾", "https://example.gov.au/reports/annual.pdf", "annual.pdf"},
		{"クエリ付き", "https://example.gov.au/download/stats.xlsx?v=2", "stats.xlsx"},
		{"末尾スラッシュ", "https://example.gov.au/reports/annual.pdf/", "annual.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileNameFromURL(tt.input))
		})
	}
}
