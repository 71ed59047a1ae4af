// Package pipeline は1サイト分の収集を5段階で実行します:
// セッション確立 → 一覧巡回 → 重複排除 → 詳細取得 → 永続化。
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/doctext"
	"github.com/shouni/go-reg-harvest/pkg/feed"
	"github.com/shouni/go-reg-harvest/pkg/listing"
	"github.com/shouni/go-reg-harvest/pkg/robots"
	"github.com/shouni/go-reg-harvest/pkg/sites"
	"github.com/shouni/go-reg-harvest/pkg/store"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

const (
	// DefaultMaxConcurrency は、詳細ページ取得のデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 3
	// DefaultRateLimit は、詳細ページ取得のレートリミッターを定義します。
	DefaultRateLimit = 1000 * time.Millisecond
)

// Fetcher は、パイプラインが必要とするHTTP取得機能のインターフェースを定義します。
type Fetcher interface {
	WarmUp(ctx context.Context, baseURL string) error
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Options はパイプラインの実行時パラメータです。
type Options struct {
	RunType            types.RunType
	MaxPagesOverride   int // 0はサイト定義に従う
	OutputDir          string
	Concurrency        int
	RateLimit          time.Duration
	CheckpointInterval int
	RespectRobots      bool
	MinYield           int
	ExportCSV          bool

	// FeedParser はRSS/Atomサイトの一覧取得に使用します。フィードは
	// ステルス対策が不要なため、軽量な httpkit クライアントで十分です。
	// nilの場合は fetcher ベースのパーサーで代替します。
	FeedParser *feed.Parser

	// Now はテストで時刻を固定するためのフックです。nilは time.Now です。
	Now func() time.Time
}

// Runner は1サイト分の収集を実行します。
type Runner struct {
	site        sites.Site
	fetcher     Fetcher
	listFetcher listing.Fetcher // JS描画サイトはブラウザ取得器。nilはfetcherを使用
	opts        Options
}

// NewRunner は新しい Runner を初期化し、依存関係を注入します。
func NewRunner(site sites.Site, fetcher Fetcher, listFetcher listing.Fetcher, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultMaxConcurrency
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if listFetcher == nil {
		listFetcher = fetcher
	}
	return &Runner{site: site, fetcher: fetcher, listFetcher: listFetcher, opts: opts}
}

// Run はパイプライン全体を実行します。
// 詳細ページ単位の失敗は記録して継続し、セッション確立の失敗や
// 出力ファイルの破損のような全体に関わる失敗のみがエラーになります。
func (r *Runner) Run(ctx context.Context) (*types.Stats, error) {
	stats := &types.Stats{Site: r.site.Name, Started: r.opts.Now()}
	defer func() { stats.Finished = r.opts.Now() }()

	// 1. セッション確立 (Cookie取得とウォームアップ)
	if err := r.fetcher.WarmUp(ctx, r.site.BaseURL); err != nil {
		return stats, fmt.Errorf("[%s] セッションの確立に失敗しました: %w", r.site.Name, err)
	}

	var checker *robots.Checker
	if r.opts.RespectRobots {
		checker = robots.Load(ctx, r.fetcher, r.site.BaseURL, "Mozilla/5.0")
	}

	// 2. 既読IDの読み込み (出力ファイル本体 + サイドカー)
	// サイドカーが失われていても、出力ファイルに残るレコードは既読として
	// 復元される。再取得や添付の再ダウンロードは発生しない
	outputPath := r.site.OutputPath(r.opts.OutputDir)
	st := store.New(outputPath, r.site.Identity())
	existing, err := st.Load()
	if err != nil {
		return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
	}
	index, err := dedupe.Load(dedupe.SidecarPath(outputPath), r.site.Identity())
	if err != nil {
		return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
	}
	for _, item := range existing {
		index.IsNew(item.URL, item.Headline, item.Date)
	}

	// 3. 一覧巡回
	policy := r.site.Policy(r.opts.RunType, r.opts.MaxPagesOverride, r.opts.Now())
	candidates, pages, err := listing.Crawl(ctx, r.site.Name, r.newSource(), policy)
	stats.PagesFetched = pages
	stats.Candidates = len(candidates)
	if err != nil {
		return stats, fmt.Errorf("[%s] 一覧巡回に失敗しました: %w", r.site.Name, err)
	}

	// 4. 重複排除
	var fresh []types.Candidate
	for _, c := range candidates {
		if index.IsNew(c.URL, c.Title, c.Date) {
			fresh = append(fresh, c)
		} else {
			stats.Skipped++
		}
	}
	log.Printf("[%s] 候補 %d件 (新規 %d件, 既読 %d件)", r.site.Name, len(candidates), len(fresh), stats.Skipped)

	// 5. 詳細取得と永続化
	checkpointer := store.NewCheckpointer(st, index, r.opts.CheckpointInterval)
	extractor := detail.NewExtractor(r.fetcher, checker, doctext.NewExtractor(r.opts.MinYield), index, r.site.DetailRules, r.opts.Now)

	r.fetchDetails(ctx, extractor, checkpointer, index, fresh, stats)

	if err := checkpointer.Flush(); err != nil {
		return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
	}
	stats.Checkpoints = checkpointer.Flushes()

	if err := index.Save(dedupe.SidecarPath(outputPath)); err != nil {
		return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
	}

	if r.opts.ExportCSV {
		items, err := st.Load()
		if err != nil {
			return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
		}
		if err := store.ExportCSV(r.site.CSVPath(r.opts.OutputDir), items); err != nil {
			return stats, fmt.Errorf("[%s] %w", r.site.Name, err)
		}
	}

	// 更新頻度の高いサイトでの新着ゼロは取得側の破損を疑う
	if stats.NewItems == 0 && r.site.EmptyRunIsError && r.opts.RunType == types.RunDaily {
		return stats, fmt.Errorf("[%s] 日次実行で新着が0件でした。セレクタの破損を確認してください", r.site.Name)
	}
	return stats, nil
}

// newSource はサイト定義に応じた一覧ソースを組み立てます。
func (r *Runner) newSource() listing.Source {
	if r.site.FeedURL != "" {
		parser := r.opts.FeedParser
		if parser == nil {
			parser = feed.NewParser(r.fetcher)
		}
		return listing.NewFeedSource(parser, r.site.FeedURL)
	}
	return listing.NewHTMLSource(r.listFetcher, r.site.ListURL, r.site.PageURL, r.site.ListRules)
}

// fetchDetails は新規候補の詳細を並行取得します。
// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限します。
func (r *Runner) fetchDetails(ctx context.Context, extractor *detail.Extractor, checkpointer *store.Checkpointer, index *dedupe.Index, fresh []types.Candidate, stats *types.Stats) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	semaphore := make(chan struct{}, r.opts.Concurrency)
	ticker := time.NewTicker(r.opts.RateLimit)
	defer ticker.Stop()
	rateLimiter := ticker.C

	for _, cand := range fresh {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(c types.Candidate) {
			defer wg.Done()
			defer func() { <-semaphore }()

			select {
			case <-rateLimiter:
			case <-ctx.Done():
				index.Forget(c.URL, c.Title, c.Date)
				mu.Lock()
				stats.DetailFailures++
				mu.Unlock()
				return
			}

			item, attachFailures, err := extractor.Item(ctx, c)

			mu.Lock()
			stats.AttachmentFailures += attachFailures
			mu.Unlock()

			if err != nil {
				// 1件の失敗でサイト全体を止めない。既読登録を取り消して
				// 次回実行で再試行させる
				log.Printf("[%s] 詳細取得に失敗しました (%s): %v", r.site.Name, c.URL, err)
				index.Forget(c.URL, c.Title, c.Date)
				mu.Lock()
				stats.DetailFailures++
				mu.Unlock()
				return
			}

			if err := checkpointer.Add(item); err != nil {
				log.Printf("[%s] %v", r.site.Name, err)
			}
			mu.Lock()
			stats.NewItems++
			mu.Unlock()
		}(cand)
	}

	wg.Wait()
}
