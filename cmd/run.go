package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-reg-harvest/internal/browser"
	"github.com/shouni/go-reg-harvest/pkg/feed"
	"github.com/shouni/go-reg-harvest/pkg/httpclient"
	"github.com/shouni/go-reg-harvest/pkg/listing"
	"github.com/shouni/go-reg-harvest/pkg/pipeline"
	"github.com/shouni/go-reg-harvest/pkg/sites"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// コマンドラインフラグ変数を定義
var (
	runAll         bool   // --all 全サイトを対象にする
	runRegion      string // --region 地域で対象を絞る
	runInitial     bool   // --initial 初期取り込みモード
	runMaxPages    int    // --max-pages 最大ページ数の上書き
	runConcurrency int    // --concurrency 詳細取得の並列数
	runExportCSV   bool   // --csv CSVも出力する
)

// selectSites はフラグと位置引数から収集対象のサイトを決定します。
func selectSites(args []string) ([]sites.Site, error) {
	if runAll {
		return sites.All(), nil
	}
	if runRegion != "" {
		matched := sites.ByRegion(runRegion)
		if len(matched) == 0 {
			return nil, fmt.Errorf("地域 %q に該当するサイトがありません", runRegion)
		}
		return matched, nil
	}

	names := args
	if len(names) == 0 {
		names = GetConfig().Sites
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("対象サイトを指定してください (サイト名、--region、または --all)")
	}

	var selected []sites.Site
	for _, name := range names {
		s, err := sites.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// newSiteRunner は1サイト分のパイプラインを依存関係込みで組み立てます。
func newSiteRunner(site sites.Site, runType types.RunType) *pipeline.Runner {
	cfg := GetConfig()
	timeout := time.Duration(Flags.TimeoutSec) * time.Second

	clientOpts := []httpclient.ClientOption{
		httpclient.WithMaxRetries(uint64(Flags.MaxRetries)),
		httpclient.WithDelayRange(site.DelayMin, site.DelayMax),
		httpclient.WithReferer(site.RefererOrBase()),
	}
	if site.InsecureTLS {
		clientOpts = append(clientOpts, httpclient.WithInsecureTLS())
	}
	client := httpclient.New(timeout, clientOpts...)

	// JS描画が必要なサイトは一覧の取得のみヘッドレスブラウザで行う
	var listFetcher listing.Fetcher
	if site.UseBrowser {
		listFetcher = browser.New(browser.DefaultTimeout, "")
	}

	// フィード配信サイトの一覧取得はステルス不要のため軽量クライアントで行う
	var feedParser *feed.Parser
	if site.FeedURL != "" {
		feedParser = feed.NewDefaultParser(timeout, uint64(Flags.MaxRetries))
	}

	concurrency := runConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}

	return pipeline.NewRunner(site, client, listFetcher, pipeline.Options{
		RunType:            runType,
		MaxPagesOverride:   runMaxPages,
		OutputDir:          cfg.OutputDir,
		Concurrency:        concurrency,
		CheckpointInterval: cfg.CheckpointInterval,
		RespectRobots:      cfg.RespectRobots,
		MinYield:           cfg.MinYield,
		ExportCSV:          runExportCSV,
		FeedParser:         feedParser,
	})
}

// printStats は1サイト分の実行結果を出力します。
func printStats(stats *types.Stats) {
	fmt.Printf("  %-12s ページ %d / 候補 %d / 新規 %d / 既読 %d / 失敗 %d (添付 %d) / %s\n",
		stats.Site, stats.PagesFetched, stats.Candidates, stats.NewItems,
		stats.Skipped, stats.DetailFailures, stats.AttachmentFailures,
		stats.Duration().Round(time.Second))
}

var runCmd = &cobra.Command{
	Use:   "run [site...]",
	Short: "当局サイトの収集パイプラインを実行します",
	Long: `指定されたサイト (または --all で全サイト) の一覧巡回・詳細取得・永続化を実行します。
サイトごとの失敗は記録して次のサイトへ進み、全サイト完了後にまとめて報告します。`,

	RunE: func(cmd *cobra.Command, args []string) error {
		selected, err := selectSites(args)
		if err != nil {
			return err
		}

		runType := types.RunDaily
		if runInitial {
			runType = types.RunInitial
		}

		// Ctrl-Cで進行中のサイトを安全に中断できるようにする
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Printf("収集を開始します (対象 %d サイト, モード: %s)", len(selected), runType)

		var failed []string
		fmt.Println("--- 収集結果 ---")
		for _, site := range selected {
			stats, err := newSiteRunner(site, runType).Run(ctx)
			printStats(stats)
			if err != nil {
				log.Printf("サイトの収集に失敗しました: %v", err)
				failed = append(failed, site.Name)
			}
			if ctx.Err() != nil {
				return fmt.Errorf("収集が中断されました: %w", ctx.Err())
			}
		}
		fmt.Println("----------------")

		if len(failed) > 0 {
			return fmt.Errorf("%d/%d サイトの収集に失敗しました: %v", len(failed), len(selected), failed)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "登録済みの全サイトを収集する")
	runCmd.Flags().StringVar(&runRegion, "region", "", "地域コードで対象を絞る (au, nz, asia, europe, americas)")
	runCmd.Flags().BoolVar(&runInitial, "initial", false, "初期取り込みモード (ページ数無制限・カットオフなし)")
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "最大ページ数の上書き (0はサイト定義に従う)")
	runCmd.Flags().IntVarP(&runConcurrency, "concurrency", "c", 0,
		fmt.Sprintf("詳細取得の最大並列数 (デフォルト: %d)", pipeline.DefaultMaxConcurrency))
	runCmd.Flags().BoolVar(&runExportCSV, "csv", false, "JSONに加えてCSVも出力する")
}
