package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// 本文として抽出されるための十分な長さを持つパラグラフ
const longParagraph = "The regulator today released its quarterly statistics on authorised deposit-taking institutions."

func TestRuleChain_FirstMatch(t *testing.T) {
	html := `<html><body><div class="media-release"><p>hit</p></div></body></html>`
	doc := mustDoc(t, html)

	tests := []struct {
		name     string
		chain    RuleChain
		expected string
	}{
		{"先頭ルールがマッチ", RuleChain{".media-release", ".news-item"}, "hit"},
		{"後続ルールへフォールバック", RuleChain{".does-not-exist", ".media-release"}, "hit"},
		{"全ルール不一致は空結果", RuleChain{".nope", ".also-nope"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.chain.FirstMatch(doc)
			if tt.expected == "" {
				assert.Nil(t, s, "マッチなしはnilであること (エラーではない)")
				return
			}
			require.NotNil(t, s)
			assert.Equal(t, tt.expected, strings.TrimSpace(s.Text()))
		})
	}
}

func TestBodyText(t *testing.T) {
	t.Run("サイト固有ルールで本文を抽出", func(t *testing.T) {
		doc := mustDoc(t, `<html><body>
			<nav>Site navigation</nav>
			<div class="article-content"><h2>Release heading</h2><p>`+longParagraph+`</p></div>
			<footer>Contact the media unit</footer>
		</body></html>`)

		text := BodyText(doc, RuleChain{".article-content"})
		assert.Contains(t, text, "## Release heading")
		assert.Contains(t, text, longParagraph)
		assert.NotContains(t, text, "Site navigation")
		assert.NotContains(t, text, "media unit")
	})

	t.Run("ルール全滅時は汎用セレクタへ退行", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><main><p>`+longParagraph+`</p></main></body></html>`)
		text := BodyText(doc, RuleChain{".site-specific-selector"})
		assert.Contains(t, text, longParagraph)
	})

	t.Run("短い段落は無視される", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><main><p>Short</p><p>`+longParagraph+`</p></main></body></html>`)
		text := BodyText(doc, nil)
		assert.NotContains(t, text, "Short")
		assert.Contains(t, text, longParagraph)
	})

	t.Run("テーブルは行単位で整形される", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><main>
			<table><caption>Quarterly data</caption>
			<tr><th>Quarter</th><th>Total</th></tr>
			<tr><td>Q1</td><td>42</td></tr></table>
		</main></body></html>`)

		text := BodyText(doc, nil)
		assert.Contains(t, text, "Quarterly data")
		assert.Contains(t, text, "Quarter | Total")
		assert.Contains(t, text, "Q1 | 42")
	})

	t.Run("何も抽出できない場合は空文字列", func(t *testing.T) {
		doc := mustDoc(t, `<html><body></body></html>`)
		assert.Equal(t, "", BodyText(doc, nil))
	})
}

func TestLinks(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/news/item-1">Item 1</a>
		<a href="https://www.example.gov.au/reports/annual.pdf">Annual report</a>
		<a href="https://twitter.com/regulator">Tweet</a>
		<a href="https://sub.facebook.com/page">FB</a>
		<a href="mailto:media@example.gov.au">Mail</a>
		<a href="#section">Anchor</a>
		<a href="/news/item-1">Duplicate</a>
	</body></html>`)

	links := Links(doc, "https://www.example.gov.au/news", DefaultLinkBlocklist)

	assert.Equal(t, []string{
		"https://www.example.gov.au/news/item-1",
		"https://www.example.gov.au/reports/annual.pdf",
	}, links, "ソーシャルドメイン・アンカー・mailto・重複が除外されること")
}

func TestAttachmentLinks(t *testing.T) {
	links := []string{
		"https://example.gov.au/reports/annual.pdf",
		"https://example.gov.au/data/stats.XLSX",
		"https://example.gov.au/news/item-1",
		"https://example.gov.au/letters/letter.docx",
	}

	assert.Equal(t, []string{
		"https://example.gov.au/reports/annual.pdf",
		"https://example.gov.au/data/stats.XLSX",
		"https://example.gov.au/letters/letter.docx",
	}, AttachmentLinks(links))
}

func TestLeadImage(t *testing.T) {
	t.Run("og:imageを優先", func(t *testing.T) {
		doc := mustDoc(t, `<html><head>
			<meta property="og:image" content="/images/hero.jpg">
		</head><body><main><img src="/images/inline.png"></main></body></html>`)
		assert.Equal(t, "https://example.gov.au/images/hero.jpg",
			LeadImage(doc, "https://example.gov.au/news/item"))
	})

	t.Run("og:imageがなければ本文内の最初のimg", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><main><img src="/images/inline.png"></main></body></html>`)
		assert.Equal(t, "https://example.gov.au/images/inline.png",
			LeadImage(doc, "https://example.gov.au/news/item"))
	})

	t.Run("画像なしは空文字列", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><main><p>text</p></main></body></html>`)
		assert.Equal(t, "", LeadImage(doc, "https://example.gov.au/"))
	})
}

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument([]byte(`<html><body><p>ok</p></body></html>`), "text/html; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("p").Text())
}
