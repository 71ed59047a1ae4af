package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"golang.org/x/net/html/charset"
)

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------
const (
	MinParagraphLength = 20
	MinHeadingLength   = 3

	// fallbackContentSelectors はサイト固有ルールが1つもマッチしない場合の
	// 汎用的なメインコンテンツ候補です。
	fallbackContentSelectors = "article, main, div[role='main'], #main, #content, .post-content, .article-body, .entry-content"
	noiseSelectors           = "header, footer, nav, aside, .sidebar, script, style, form, .related-posts, .social-share, .comments, .ad-banner, .advertisement, .breadcrumb, .pagination"

	// textExtractionTags は本文抽出に使用するHTMLタグを定義します。
	textExtractionTags = "p, h1, h2, h3, h4, h5, h6, li, blockquote"
)

// ----------------------------------------------------------------------
// セレクタルールチェーン
// ----------------------------------------------------------------------

// RuleChain は順序付きのCSSセレクタ列です。先頭から評価し、最初に
// マッチしたセレクタの選択範囲を採用します。サイトのテンプレート変更で
// セレクタが静かに壊れることを前提とした多段フォールバックです。
// どのルールもマッチしない場合は「空の結果」であり、エラーではありません。
type RuleChain []string

// FirstMatch はチェーン中で最初にマッチした選択範囲を返します。
// マッチがない場合は nil を返します。
func (rc RuleChain) FirstMatch(doc *goquery.Document) *goquery.Selection {
	for _, sel := range rc {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return nil
}

// Text はチェーン中で最初にマッチした要素の正規化済みテキストを返します。
func (rc RuleChain) Text(doc *goquery.Document) string {
	s := rc.FirstMatch(doc)
	if s == nil {
		return ""
	}
	return textUtils.NormalizeText(s.Text())
}

// Attr はチェーン中で最初にマッチした要素の属性値を返します。
func (rc RuleChain) Attr(doc *goquery.Document, attr string) string {
	s := rc.FirstMatch(doc)
	if s == nil {
		return ""
	}
	v, _ := s.Attr(attr)
	return strings.TrimSpace(v)
}

// ----------------------------------------------------------------------
// ドキュメント構築
// ----------------------------------------------------------------------

// NewDocument は生バイト配列とContent-Typeから goquery.Document を構築します。
// 非UTF-8の当局サイト (Shift_JIS, Big5, ISO-8859系) を透過的にデコードします。
func NewDocument(body []byte, contentType string) (*goquery.Document, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// 文字コード判定に失敗した場合はUTF-8と仮定して続行
		reader = io.Reader(bytes.NewReader(body))
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return doc, nil
}

// ----------------------------------------------------------------------
// 本文抽出
// ----------------------------------------------------------------------

// BodyText は本文ルールチェーンに従ってメインコンテンツのテキストを抽出します。
// サイト固有ルールが全滅した場合は汎用セレクタへ、それも失敗した場合は
// body全体からノイズを除いたテキストへ段階的に退行します。
// 何も抽出できない場合は空文字列を返します (エラーにはなりません)。
func BodyText(doc *goquery.Document, bodyRules RuleChain) string {
	mainContent := bodyRules.FirstMatch(doc)
	if mainContent == nil {
		mainContent = doc.Find(fallbackContentSelectors).First()
	}
	if mainContent.Length() == 0 {
		mainContent = doc.Find("body").First()
	}
	if mainContent.Length() == 0 {
		return ""
	}

	// ノイズ要素の除去 (元のDOMを汚さないようクローンに対して行う)
	content := mainContent.Clone()
	content.Find(noiseSelectors).Remove()

	var parts []string
	content.Find(textExtractionTags + ", table").Each(func(i int, s *goquery.Selection) {
		var text string
		if s.Is("table") {
			text = tableText(s)
		} else {
			text = generalElementText(s)
		}
		if text != "" {
			parts = append(parts, text)
		}
	})

	// 構造化タグが一切ない単純なページでは全文を1ブロックとして扱う
	if len(parts) == 0 {
		if text := textUtils.NormalizeText(content.Text()); len(text) > MinParagraphLength {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n")
}

// generalElementText は一般的なテキスト要素 (p, h*, li, blockquote) を整形します。
func generalElementText(s *goquery.Selection) string {
	tempSelection := s.Clone()
	tempSelection.Find("table").Remove() // 子孫のtableは個別に処理される

	text := textUtils.NormalizeText(tempSelection.Text())
	if text == "" {
		return ""
	}

	if s.Is("h1, h2, h3, h4, h5, h6") {
		if len(text) > MinHeadingLength {
			return "## " + text
		}
		return ""
	}
	if s.Is("li") || len(text) > MinParagraphLength {
		return text
	}
	return ""
}

// tableText は goquery.Selection からテーブルの内容を抽出し、行単位で整形します。
func tableText(s *goquery.Selection) string {
	var tableContent []string
	captionText := strings.TrimSpace(s.Find("caption").First().Text())
	if captionText != "" {
		tableContent = append(tableContent, captionText)
	}
	s.Find("tr").Each(func(rowIndex int, row *goquery.Selection) {
		var rowTexts []string
		row.Find("th, td").Each(func(cellIndex int, cell *goquery.Selection) {
			rowTexts = append(rowTexts, textUtils.NormalizeText(cell.Text()))
		})
		if len(rowTexts) > 0 {
			tableContent = append(tableContent, strings.Join(rowTexts, " | "))
		}
	})
	if len(tableContent) == 0 {
		return ""
	}
	return strings.Join(tableContent, "\n")
}
