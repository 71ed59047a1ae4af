package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/go-reg-harvest/pkg/types"
)

// Fetcher は、フィードの生バイト配列を取得する機能のインターフェースを定義します。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Parser はRSS/Atomフィードを取得・解析し、記事候補へ変換します。
// フィード取得はステルス対策が不要なため、軽量な httpkit クライアントで十分です。
type Parser struct {
	client Fetcher
}

// NewParser は新しい Parser インスタンスを初期化し、依存関係を注入します。
func NewParser(client Fetcher) *Parser {
	return &Parser{client: client}
}

// NewDefaultParser はタイムアウトとリトライ回数から httpkit ベースのParserを構築します。
func NewDefaultParser(timeout time.Duration, maxRetries uint64) *Parser {
	return NewParser(httpkit.New(timeout, httpkit.WithMaxRetries(maxRetries)))
}

// FetchAndParse は指定されたURLからフィードを取得し、パースします。
func (p *Parser) FetchAndParse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := p.client.FetchBytes(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("フィードの取得失敗 (URL: %s): %w", feedURL, err)
	}

	fp := gofeed.NewParser()
	feed, parseErr := fp.Parse(bytes.NewReader(body))
	if parseErr != nil {
		return nil, fmt.Errorf("フィードのパース失敗 (URL: %s): %w", feedURL, parseErr)
	}
	return feed, nil
}

// Candidates はフィードの各アイテムを一覧クローラーの候補形式へ変換します。
// リンクを持たないアイテムは候補になりません。
func Candidates(feed *gofeed.Feed) []types.Candidate {
	if feed == nil || len(feed.Items) == 0 {
		return nil
	}

	candidates := make([]types.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		date := item.Published
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.UTC().Format("2006-01-02")
		}

		category := ""
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		}

		candidates = append(candidates, types.Candidate{
			URL:      item.Link,
			Title:    item.Title,
			Date:     date,
			Category: category,
		})
	}
	return candidates
}
