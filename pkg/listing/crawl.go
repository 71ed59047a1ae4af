package listing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shouni/go-reg-harvest/pkg/types"
)

// DefaultMaxEmptyPages は候補ゼロのページがこの回数連続した時点で
// ページネーションを打ち切る既定値です。
const DefaultMaxEmptyPages = 2

// Policy はページネーションの打ち切り条件を定義します。
// いずれかの条件を満たした時点で巡回を終了します。
type Policy struct {
	MaxPages      int       // 最大ページ数 (0は無制限)
	Cutoff        time.Time // この日付より古い候補しかないページで打ち切り (ゼロ値は無効)
	MaxEmptyPages int       // 連続空ページの許容数 (0はDefaultMaxEmptyPages)
}

// Crawl はソースのページを順に巡回し、候補を収集します。
// 戻り値は (収集した候補, 取得したページ数, エラー) です。
// ページ取得エラーの場合もそれまでに収集した候補を返します。
func Crawl(ctx context.Context, siteName string, src Source, policy Policy) ([]types.Candidate, int, error) {
	maxEmpty := policy.MaxEmptyPages
	if maxEmpty <= 0 {
		maxEmpty = DefaultMaxEmptyPages
	}

	var collected []types.Candidate
	pages := 0
	consecutiveEmpty := 0

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return collected, pages, fmt.Errorf("一覧巡回が中断されました: %w", err)
		}

		// 1. ページ取得
		candidates, hasMore, err := src.Page(ctx, n)
		if err != nil {
			return collected, pages, err
		}
		pages++

		// 2. カットオフ日付より古い候補を除外
		fresh, sawOnlyStale := applyCutoff(candidates, policy.Cutoff)
		collected = append(collected, fresh...)

		// 3. 打ち切り判定
		if sawOnlyStale {
			log.Printf("[%s] ページ %d はカットオフ日付以前の候補のみのため巡回を終了します", siteName, n)
			return collected, pages, nil
		}
		if len(candidates) == 0 {
			consecutiveEmpty++
			if consecutiveEmpty >= maxEmpty {
				log.Printf("[%s] 空ページが%d回連続したため巡回を終了します", siteName, consecutiveEmpty)
				return collected, pages, nil
			}
		} else {
			consecutiveEmpty = 0
		}
		if !hasMore {
			return collected, pages, nil
		}
		if policy.MaxPages > 0 && n >= policy.MaxPages {
			log.Printf("[%s] 最大ページ数 (%d) に到達しました", siteName, policy.MaxPages)
			return collected, pages, nil
		}
	}
}

// applyCutoff はカットオフ日付より古い候補を除外します。
// 2番目の戻り値は「ページに候補はあったが全て古かった」場合にtrueです。
// 日付を解析できない候補は安全側 (新しい扱い) に倒します。
func applyCutoff(candidates []types.Candidate, cutoff time.Time) ([]types.Candidate, bool) {
	if cutoff.IsZero() || len(candidates) == 0 {
		return candidates, false
	}

	var fresh []types.Candidate
	for _, c := range candidates {
		t, ok := ParseDate(c.Date)
		if ok && t.Before(cutoff) {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, len(fresh) == 0
}
