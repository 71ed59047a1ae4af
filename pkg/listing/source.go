package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/feed"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// Fetcher は、一覧ページの生バイト配列を取得する機能のインターフェースを定義します。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Source は候補の一覧をページ単位で供給します。
// Page は1始まりのページ番号を受け取り、候補列と「次ページが存在するか」を返します。
type Source interface {
	Page(ctx context.Context, n int) ([]types.Candidate, bool, error)
}

// ----------------------------------------------------------------------
// HTML一覧ページソース
// ----------------------------------------------------------------------

// RowRules は一覧ページから候補の各フィールドを抽出するためのセレクタ群です。
type RowRules struct {
	Row      extract.RuleChain // 候補1件に対応する行要素
	Title    extract.RuleChain // 行内のタイトル要素 (空の場合はリンクのテキスト)
	Link     extract.RuleChain // 行内のリンク要素 (空の場合は行内の最初のa)
	Date     extract.RuleChain
	Category extract.RuleChain
	NextPage extract.RuleChain // 「次へ」リンク。空の場合はURLパターンの有無で継続判定
}

// HTMLSource はHTMLの一覧ページをページネーションを辿りながら解析するソースです。
type HTMLSource struct {
	fetcher Fetcher
	listURL string
	pageURL string // 2ページ目以降のURLフォーマット (%dにページ番号)。空なら単一ページ
	rules   RowRules
}

// NewHTMLSource は新しい HTMLSource を初期化します。
func NewHTMLSource(fetcher Fetcher, listURL, pageURL string, rules RowRules) *HTMLSource {
	return &HTMLSource{
		fetcher: fetcher,
		listURL: listURL,
		pageURL: pageURL,
		rules:   rules,
	}
}

// Page は指定ページを取得・解析し、候補列を返します。
func (s *HTMLSource) Page(ctx context.Context, n int) ([]types.Candidate, bool, error) {
	pageURL := s.listURL
	if n > 1 {
		if s.pageURL == "" {
			return nil, false, nil
		}
		pageURL = fmt.Sprintf(s.pageURL, n)
	}

	body, err := s.fetcher.FetchBytes(ctx, pageURL)
	if err != nil {
		return nil, false, fmt.Errorf("一覧ページの取得に失敗しました (page %d): %w", n, err)
	}

	doc, err := extract.NewDocument(body, "")
	if err != nil {
		return nil, false, fmt.Errorf("一覧ページの解析に失敗しました (page %d): %w", n, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, false, fmt.Errorf("一覧ページURLが不正です: %w", err)
	}

	var candidates []types.Candidate
	findAll(doc, s.rules.Row).Each(func(i int, row *goquery.Selection) {
		if c, ok := s.candidateFromRow(row, base); ok {
			candidates = append(candidates, c)
		}
	})

	return candidates, s.hasNextPage(doc, len(candidates)), nil
}

// candidateFromRow は行要素1つから候補を組み立てます。
// リンクを解決できない行は候補になりません。
func (s *HTMLSource) candidateFromRow(row *goquery.Selection, base *url.URL) (types.Candidate, bool) {
	link := findInRow(row, s.rules.Link)
	if link == nil {
		link = row.Find("a[href]").First()
	}
	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return types.Candidate{}, false
	}
	resolved, err := base.Parse(href)
	if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
		return types.Candidate{}, false
	}

	title := rowText(row, s.rules.Title)
	if title == "" {
		title = textUtils.NormalizeText(link.Text())
	}

	return types.Candidate{
		URL:      resolved.String(),
		Title:    title,
		Date:     NormalizeDate(rowText(row, s.rules.Date)),
		Category: rowText(row, s.rules.Category),
	}, true
}

// hasNextPage は次ページの有無を判定します。NextPageルールがある場合はその
// マッチで、ない場合はページURLパターンの有無と候補の有無で判断します。
func (s *HTMLSource) hasNextPage(doc *goquery.Document, found int) bool {
	if len(s.rules.NextPage) > 0 {
		return s.rules.NextPage.FirstMatch(doc) != nil
	}
	return s.pageURL != "" && found > 0
}

// findAll はチェーン中で最初にマッチしたセレクタの全要素を返します。
func findAll(doc *goquery.Document, chain extract.RuleChain) *goquery.Selection {
	for _, sel := range chain {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return doc.Find("") // 空の選択範囲
}

// findInRow は行要素内でチェーンを評価し、最初にマッチした要素を返します。
func findInRow(row *goquery.Selection, chain extract.RuleChain) *goquery.Selection {
	for _, sel := range chain {
		if s := row.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return nil
}

// rowText は行要素内でチェーンを評価し、正規化済みテキストを返します。
func rowText(row *goquery.Selection, chain extract.RuleChain) string {
	s := findInRow(row, chain)
	if s == nil {
		return ""
	}
	return textUtils.NormalizeText(s.Text())
}

// ----------------------------------------------------------------------
// RSS/Atomフィードソース
// ----------------------------------------------------------------------

// FeedSource はRSS/Atomフィードを単一ページのソースとして扱うアダプタです。
type FeedSource struct {
	parser  *feed.Parser
	feedURL string
}

// NewFeedSource は新しい FeedSource を初期化します。
func NewFeedSource(parser *feed.Parser, feedURL string) *FeedSource {
	return &FeedSource{parser: parser, feedURL: feedURL}
}

// Page はフィードを取得します。フィードにページネーションはないため、
// 2ページ目以降は常に空です。
func (s *FeedSource) Page(ctx context.Context, n int) ([]types.Candidate, bool, error) {
	if n > 1 {
		return nil, false, nil
	}
	parsed, err := s.parser.FetchAndParse(ctx, s.feedURL)
	if err != nil {
		return nil, false, err
	}
	candidates := feed.Candidates(parsed)
	for i := range candidates {
		candidates[i].Date = NormalizeDate(candidates[i].Date)
	}
	return candidates, false, nil
}
