// Package sites は収集対象の金融当局サイトの定義を保持します。
// サイトの追加はこのパッケージに定義を1つ足すだけで完了し、
// パイプライン側のコード変更を必要としません。
package sites

import (
	"path/filepath"
	"time"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/detail"
	"github.com/shouni/go-reg-harvest/pkg/listing"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// 既定値。サイト定義で明示された値が優先されます。
const (
	DefaultMaxPagesDaily = 3
	DefaultCutoffDays    = 30
)

// Site は1つの当局サイトの収集定義です。
type Site struct {
	Name     string // 識別子 (出力ファイル名にも使用)
	FullName string // 当局の正式名称
	Region   string // 地域コード (au, nz, asia, europe, americas)

	BaseURL string // セッション確立のウォームアップ先
	ListURL string // 一覧ページ (1ページ目)
	PageURL string // 2ページ目以降のURLフォーマット (%dにページ番号)
	FeedURL string // RSS/Atomフィード。設定時は一覧ページの代わりに使用

	ListRules   listing.RowRules
	DetailRules detail.Rules

	// ページネーション設定
	MaxPagesDaily   int // 日次実行の最大ページ数 (0は既定値)
	MaxPagesInitial int // 初期取り込みの最大ページ数 (0は無制限)
	CutoffDays      int // 日次実行でこの日数より古い候補が出たら打ち切り (-1で無効)
	MaxEmptyPages   int

	// HTTP挙動
	DelayMin    time.Duration
	DelayMax    time.Duration
	Referer     string // 既定はBaseURL
	InsecureTLS bool   // 証明書チェーンが不完全なサイト向け
	UseBrowser  bool   // JS描画が必要なサイトはヘッドレスブラウザで取得

	// 同一URLで内容が更新されるサイトはURL+タイトル+日付の複合IDを使う
	HashIdentity bool

	// 新着ゼロの日次実行を異常として扱うサイト (更新頻度の高い当局のみ)
	EmptyRunIsError bool
}

// Identity はこのサイトの重複判定IDの導出方法を返します。
func (s Site) Identity() dedupe.Identity {
	if s.HashIdentity {
		return dedupe.HashIdentity
	}
	return dedupe.CanonicalURL
}

// Policy は実行種別に応じたページネーション打ち切り条件を組み立てます。
// maxPagesOverride が正の場合はコマンドラインの指定が優先されます。
func (s Site) Policy(runType types.RunType, maxPagesOverride int, now time.Time) listing.Policy {
	p := listing.Policy{MaxEmptyPages: s.MaxEmptyPages}

	switch runType {
	case types.RunInitial:
		p.MaxPages = s.MaxPagesInitial
	default:
		p.MaxPages = s.MaxPagesDaily
		if p.MaxPages <= 0 {
			p.MaxPages = DefaultMaxPagesDaily
		}
		cutoffDays := s.CutoffDays
		if cutoffDays == 0 {
			cutoffDays = DefaultCutoffDays
		}
		if cutoffDays > 0 {
			p.Cutoff = now.AddDate(0, 0, -cutoffDays)
		}
	}

	if maxPagesOverride > 0 {
		p.MaxPages = maxPagesOverride
	}
	return p
}

// RefererOrBase はステルスヘッダに使用するRefererを返します。
func (s Site) RefererOrBase() string {
	if s.Referer != "" {
		return s.Referer
	}
	return s.BaseURL
}

// OutputPath は出力ディレクトリ配下のJSONファイルパスを返します。
func (s Site) OutputPath(dir string) string {
	return filepath.Join(dir, s.Name+".json")
}

// CSVPath は出力ディレクトリ配下のCSVファイルパスを返します。
func (s Site) CSVPath(dir string) string {
	return filepath.Join(dir, s.Name+".csv")
}
