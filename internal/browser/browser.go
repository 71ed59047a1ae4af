// Package browser はJS描画が必要な一覧ページをヘッドレスChromeで取得します。
// 取得結果はHTMLバイト列であり、通常のHTTPクライアントと同じ
// Fetcherインターフェースとしてパイプラインへ注入できます。
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout はページ描画完了までの既定の待機時間です。
const DefaultTimeout = 60 * time.Second

// Fetcher はヘッドレスブラウザによるページ取得器です。
type Fetcher struct {
	userAgent string
	timeout   time.Duration
}

// New は新しい Fetcher を初期化します。
func New(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{userAgent: userAgent, timeout: timeout}
}

// FetchBytes はページを描画し、描画後のHTMLを返します。
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		// navigator.webdriver等による自動化検出を抑止する
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("ブラウザでのページ取得に失敗しました (%s): %w", url, err)
	}
	return []byte(html), nil
}
