// Package doctext は添付文書 (PDF, Excel, CSV, Word) からの本文テキスト抽出を
// 提供します。抽出は常にベストエフォートであり、どの戦略も失敗した場合は
// 空テキストを返します。添付の抽出失敗が記事本体の収集を止めることはありません。
package doctext

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
)

// DefaultMinYield は戦略の抽出結果を「十分」とみなす最小文字数です。
// これを下回る場合は次の戦略を試行します。
const DefaultMinYield = 200

// Strategy は1つの抽出手法を表します。
// OCRのような追加手法はChainに戦略を足すことで組み込めます。
type Strategy interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Chain は戦略を順に試行し、最初に十分な長さのテキストを得た戦略の結果を
// 採用します。全戦略が閾値を下回った場合は、その中で最長の結果を返します。
type Chain struct {
	strategies []Strategy
	minYield   int
}

// NewChain は新しい Chain を初期化します。minYield が0以下の場合は
// DefaultMinYield を使用します。
func NewChain(minYield int, strategies ...Strategy) *Chain {
	if minYield <= 0 {
		minYield = DefaultMinYield
	}
	return &Chain{strategies: strategies, minYield: minYield}
}

// Extract はチェーンを実行します。失敗した戦略はログに記録して次へ進みます。
func (c *Chain) Extract(fileName string, data []byte) string {
	var best string
	for _, st := range c.strategies {
		text, err := st.Extract(data)
		if err != nil {
			log.Printf("テキスト抽出戦略 %s が失敗しました (%s): %v", st.Name(), fileName, err)
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) >= c.minYield {
			return text
		}
		if len(text) > len(best) {
			best = text
		}
	}
	return best
}

// Result は1つの添付文書から抽出した内容です。
type Result struct {
	Text   string
	Sheets map[string]string // Excelのシート別テキスト (Excel以外はnil)
}

// Extractor は拡張子に応じた抽出処理のディスパッチャです。
type Extractor struct {
	pdfChain *Chain
}

// NewExtractor は既定の戦略構成でExtractorを初期化します。
// PDFは行単位抽出を優先し、結果が乏しい場合は素のテキスト抽出へ退行します。
func NewExtractor(minYield int) *Extractor {
	return &Extractor{
		pdfChain: NewChain(minYield, &pdfRowsStrategy{}, &pdfPlainStrategy{}),
	}
}

// Supported は拡張子がテキスト抽出の対象かを返します。
func Supported(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".xlsx", ".csv", ".docx", ".xls", ".doc":
		return true
	}
	return false
}

// Extract はファイル名の拡張子から形式を判定し、テキストを抽出します。
// 形式ごとの抽出失敗はエラーではなく空の結果として扱います。
func (e *Extractor) Extract(fileName string, data []byte) Result {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return Result{Text: e.pdfChain.Extract(fileName, data)}

	case ".xlsx":
		text, sheets, err := extractWorkbook(data)
		if err != nil {
			log.Printf("Excelの解析に失敗しました (%s): %v", fileName, err)
			return Result{}
		}
		return Result{Text: text, Sheets: sheets}

	case ".csv":
		text, err := extractCSV(data)
		if err != nil {
			log.Printf("CSVの解析に失敗しました (%s): %v", fileName, err)
			return Result{}
		}
		return Result{Text: text}

	case ".docx":
		text, err := extractDocx(data)
		if err != nil {
			log.Printf("Word文書の解析に失敗しました (%s): %v", fileName, err)
			return Result{}
		}
		return Result{Text: text}

	case ".doc", ".xls":
		// レガシーバイナリ形式は対応外。添付としては記録される
		log.Printf("レガシー形式のためテキスト抽出をスキップします: %s", fileName)
		return Result{}

	default:
		return Result{}
	}
}

// FileNameFromURL はURLのパス末尾からファイル名を導出します。
func FileNameFromURL(rawURL string) string {
	trimmed := strings.TrimSuffix(rawURL, "/")
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := filepath.Base(trimmed)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// errEmptyDocument は文書から1文字も抽出できなかった場合のエラーです。
var errEmptyDocument = fmt.Errorf("文書からテキストを抽出できませんでした")
