// Package detail は候補1件の詳細ページを取得し、本文・関連リンク・添付を
// 含む完全なレコードへ組み立てます。
package detail

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	textUtils "github.com/shouni/go-utils/text"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/doctext"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/listing"
	"github.com/shouni/go-reg-harvest/pkg/robots"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// ErrDisallowed は robots.txt により取得が禁止されているURLを表します。
var ErrDisallowed = errors.New("robots.txtにより取得が禁止されています")

// Fetcher は、詳細ページと添付ファイルを取得する機能のインターフェースを定義します。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Rules は詳細ページから各フィールドを抽出するためのセレクタ群です。
type Rules struct {
	Headline extract.RuleChain
	Date     extract.RuleChain
	Theme    extract.RuleChain
	Body     extract.RuleChain

	// LinkBlocklist が空の場合は extract.DefaultLinkBlocklist を使用します。
	LinkBlocklist []string
}

// Extractor は詳細ページの取得と解析を行います。
type Extractor struct {
	fetcher Fetcher
	checker *robots.Checker
	docs    *doctext.Extractor
	index   *dedupe.Index
	rules   Rules
	now     func() time.Time
}

// NewExtractor は新しい Extractor を初期化し、依存関係を注入します。
// checker はnilでも動作します (robots.txt未取得のサイト)。
// now はテストで時刻を固定するためのフックです。nilは time.Now です。
func NewExtractor(fetcher Fetcher, checker *robots.Checker, docs *doctext.Extractor, index *dedupe.Index, rules Rules, now func() time.Time) *Extractor {
	if len(rules.LinkBlocklist) == 0 {
		rules.LinkBlocklist = extract.DefaultLinkBlocklist
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{
		fetcher: fetcher,
		checker: checker,
		docs:    docs,
		index:   index,
		rules:   rules,
		now:     now,
	}
}

// Item は候補の詳細ページを取得し、レコードを組み立てます。
// 2番目の戻り値は添付処理の失敗件数です。添付の失敗はレコード全体を
// 失敗させず、該当添付をテキストなしで記録した上で継続します。
func (e *Extractor) Item(ctx context.Context, cand types.Candidate) (types.Item, int, error) {
	if !e.checker.Allowed(cand.URL) {
		return types.Item{}, 0, fmt.Errorf("%w: %s", ErrDisallowed, cand.URL)
	}

	// 1. 詳細ページの取得と解析
	body, err := e.fetcher.FetchBytes(ctx, cand.URL)
	if err != nil {
		return types.Item{}, 0, fmt.Errorf("詳細ページの取得に失敗しました (%s): %w", cand.URL, err)
	}
	doc, err := extract.NewDocument(body, "")
	if err != nil {
		return types.Item{}, 0, fmt.Errorf("詳細ページの解析に失敗しました (%s): %w", cand.URL, err)
	}

	// 2. 各フィールドの抽出 (ルール → 一覧ページの値 → 汎用フォールバック)
	headline := e.rules.Headline.Text(doc)
	if headline == "" {
		headline = cand.Title
	}
	if headline == "" {
		headline = textUtils.NormalizeText(doc.Find("h1").First().Text())
	}
	if headline == "" {
		headline = textUtils.NormalizeText(doc.Find("title").First().Text())
	}

	date := listing.NormalizeDate(e.rules.Date.Text(doc))
	if date == "" {
		date = cand.Date
	}

	theme := e.rules.Theme.Text(doc)
	if theme == "" {
		theme = cand.Category
	}

	// 3. リンク収集と添付処理
	links := extract.Links(doc, cand.URL, e.rules.LinkBlocklist)
	attachmentURLs := extract.AttachmentLinks(links)
	attachments, attachFailures := e.processAttachments(ctx, attachmentURLs)

	return types.Item{
		URL:          cand.URL,
		Headline:     headline,
		Date:         date,
		Theme:        theme,
		Content:      extract.BodyText(doc, e.rules.Body),
		ImageURL:     extract.LeadImage(doc, cand.URL),
		RelatedLinks: relatedLinks(links, attachmentURLs),
		Attachments:  attachments,
		ScrapedDate:  e.now().UTC().Format("2006-01-02"),
	}, attachFailures, nil
}

// processAttachments は添付ファイルを取得・テキスト化します。
// 既に処理済みのURL、robots.txtで禁止されたURLはダウンロードしません。
func (e *Extractor) processAttachments(ctx context.Context, urls []string) ([]types.Attachment, int) {
	var attachments []types.Attachment
	failures := 0

	for _, u := range urls {
		att := types.Attachment{
			URL:      u,
			FileName: doctext.FileNameFromURL(u),
		}

		if !e.checker.Allowed(u) {
			log.Printf("robots.txtにより添付をスキップします: %s", u)
			attachments = append(attachments, att)
			continue
		}
		if e.index != nil && !e.index.MarkAttachment(u) {
			// 別の記事から既に処理済み。メタデータのみ記録する
			attachments = append(attachments, att)
			continue
		}

		data, err := e.fetcher.Download(ctx, u)
		if err != nil {
			log.Printf("添付のダウンロードに失敗しました (%s): %v", u, err)
			failures++
			attachments = append(attachments, att)
			continue
		}

		hash := sha256.Sum256(data)
		att.ContentHash = hex.EncodeToString(hash[:])

		result := e.docs.Extract(att.FileName, data)
		att.ExtractedText = result.Text
		att.Sheets = result.Sheets
		attachments = append(attachments, att)
	}

	return attachments, failures
}

// relatedLinks は収集済みリンクから添付URLを除いたものを返します。
func relatedLinks(links, attachmentURLs []string) []string {
	attachmentSet := make(map[string]struct{}, len(attachmentURLs))
	for _, u := range attachmentURLs {
		attachmentSet[u] = struct{}{}
	}

	var related []string
	for _, link := range links {
		if _, ok := attachmentSet[link]; ok {
			continue
		}
		related = append(related, link)
	}
	return related
}
