package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/doctext"
	"github.com/shouni/go-reg-harvest/pkg/httpclient"
	"github.com/shouni/go-reg-harvest/pkg/sites"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

var extractSite string // --site 適用するサイト定義

// extractCmd は単一URLの抽出を実行する、セレクタ調整用のデバッグコマンドです。
var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "単一の詳細ページを抽出し、レコードをJSONで出力します",
	Long: `サイト定義のセレクタルールを1つのURLに適用し、組み立てられたレコードを
標準出力へJSONで表示します。既読IDには影響しません。セレクタの動作確認に使用します。`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		rawURL := args[0]

		var rules detail.Rules
		var clientOpts []httpclient.ClientOption
		if extractSite != "" {
			site, err := sites.Get(extractSite)
			if err != nil {
				return err
			}
			rules = site.DetailRules
			clientOpts = append(clientOpts, httpclient.WithReferer(site.RefererOrBase()))
			if site.InsecureTLS {
				clientOpts = append(clientOpts, httpclient.WithInsecureTLS())
			}
		}

		timeout := time.Duration(Flags.TimeoutSec) * time.Second
		clientOpts = append(clientOpts, httpclient.WithMaxRetries(uint64(Flags.MaxRetries)))
		client := httpclient.New(timeout, clientOpts...)

		ctx, cancel := context.WithTimeout(context.Background(), timeout*2)
		defer cancel()

		extractor := detail.NewExtractor(client, nil,
			doctext.NewExtractor(GetConfig().MinYield), dedupe.NewIndex(nil), rules, nil)

		item, attachFailures, err := extractor.Item(ctx, types.Candidate{URL: rawURL})
		if err != nil {
			return fmt.Errorf("抽出に失敗しました: %w", err)
		}
		if attachFailures > 0 {
			fmt.Printf("注意: 添付 %d 件の処理に失敗しました\n", attachFailures)
		}

		out, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("JSONへの変換に失敗しました: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractSite, "site", "", "適用するサイト定義の名前 (省略時は汎用ルール)")
}
