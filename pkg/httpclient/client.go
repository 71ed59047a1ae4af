package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-reg-harvest/pkg/retry"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 30 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: HTMLレスポンスボディの最大読み込みサイズ
	MaxAttachmentSize  = int64(50 * 1024 * 1024) // 50MB: 添付ファイルの最大ダウンロードサイズ

	// errorBodyLimit はエラーメッセージに含めるボディの最大長です。
	errorBodyLimit = 1024
)

// defaultUserAgents は規制当局サイトからのブロックを避けるための実ブラウザUAプールです。
// リクエストごとにランダムに選択されます。
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
}

// ----------------------------------------------------------------------
// エラー型
// ----------------------------------------------------------------------

// NonRetryableHTTPError はリトライしても回復しないHTTPステータス (404等の4xx系) を示すカスタムエラー型です。
type NonRetryableHTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *NonRetryableHTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディなし", e.StatusCode)
	}
	body := strings.TrimSpace(string(e.Body))
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit] + "..."
	}
	return fmt.Sprintf("HTTPクライアントエラー (非リトライ対象): ステータスコード %d, ボディ: %s", e.StatusCode, body)
}

// IsNonRetryableError は与えられたエラーが非リトライ対象のHTTPエラーであるかを判断します。
func IsNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var nonRetryable *NonRetryableHTTPError
	return errors.As(err, &nonRetryable)
}

// ----------------------------------------------------------------------
// Doer インターフェースと Client 本体
// ----------------------------------------------------------------------

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースを定義します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client は規制当局サイト向けのステルス設定付きHTTPクライアントです。
// Cookieジャー、UAローテーション、リクエスト間のランダム遅延、
// 指数バックオフによるリトライ (403/429/5xx) をカプセル化します。
type Client struct {
	httpClient  Doer
	retryConfig retry.Config

	userAgents []string
	referer    string

	// リクエスト間のランダム遅延レンジ。delayMax が 0 の場合は遅延なし。
	delayMin time.Duration
	delayMax time.Duration

	mu  sync.Mutex
	rng *rand.Rand

	insecureTLS   bool
	disableBypass bool
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します (主にテスト用)。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) { c.httpClient = doer }
}

// WithMaxRetries は最大リトライ回数を設定します。
func WithMaxRetries(max uint64) ClientOption {
	return func(c *Client) { c.retryConfig.MaxRetries = max }
}

// WithUserAgents はUAプールを差し替えます。
func WithUserAgents(agents []string) ClientOption {
	return func(c *Client) {
		if len(agents) > 0 {
			c.userAgents = agents
		}
	}
}

// WithDelayRange はリクエスト間のランダム遅延レンジを設定します。
func WithDelayRange(min, max time.Duration) ClientOption {
	return func(c *Client) {
		c.delayMin = min
		c.delayMax = max
	}
}

// WithReferer は全リクエストに付与するRefererを設定します。通常はサイトのベースURLです。
func WithReferer(referer string) ClientOption {
	return func(c *Client) { c.referer = referer }
}

// WithInsecureTLS は証明書検証をスキップします。
// 一部の当局サイトは中間証明書の構成不備があるため、サイト単位で有効化します。
func WithInsecureTLS() ClientOption {
	return func(c *Client) { c.insecureTLS = true }
}

// WithoutCloudFlareByPass はバイパス用トランスポートの適用を無効化します。
func WithoutCloudFlareByPass() ClientOption {
	return func(c *Client) { c.disableBypass = true }
}

// New は、新しいClientを生成します。
// カスタムDoerが指定されない場合、Cookieジャーとアンチボット対策の
// トランスポートを組み込んだ *http.Client を構築します。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		retryConfig: retry.DefaultConfig(),
		userAgents:  defaultUserAgents,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.insecureTLS {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}

		var rt http.RoundTripper = transport
		if !c.disableBypass {
			// ブラウザ相当のTLSフィンガープリントとヘッダー順序を付与する
			rt = cloudflarebp.AddCloudFlareByPass(rt)
		}

		// cookiejar.New はオプションがnilの場合エラーを返さない
		jar, _ := cookiejar.New(nil)

		c.httpClient = &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: rt,
		}
	}

	return c
}

// ----------------------------------------------------------------------
// リクエスト構築
// ----------------------------------------------------------------------

// addStealthHeaders は実ブラウザを模したHTTPヘッダーを設定します。
func (c *Client) addStealthHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.pickUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "max-age=0")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
}

// pickUserAgent はUAプールからランダムに1つ選択します。
func (c *Client) pickUserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userAgents[c.rng.Intn(len(c.userAgents))]
}

// politeDelay はリクエスト間のランダム遅延を挿入します。
// コンテキストのキャンセルで即座に中断します。
func (c *Client) politeDelay(ctx context.Context) error {
	if c.delayMax <= 0 {
		return nil
	}

	d := c.delayMin
	if span := c.delayMax - c.delayMin; span > 0 {
		c.mu.Lock()
		d += time.Duration(c.rng.Int63n(int64(span)))
		c.mu.Unlock()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ----------------------------------------------------------------------
// 取得 API
// ----------------------------------------------------------------------

// WarmUp はサイトのトップページへウォームアップリクエストを送信し、Cookieを収集します。
// ブートストラップ失敗は致命的エラーであり、呼び出し元はラン全体を中断すべきです。
func (c *Client) WarmUp(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return fmt.Errorf("ウォームアップリクエストの作成に失敗しました: %w", err)
	}
	c.addStealthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ウォームアップリクエストに失敗しました (URL: %s): %w", baseURL, err)
	}
	defer resp.Body.Close()

	// ステータスは問わずボディを読み捨ててCookieを確定させる
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
	return nil
}

// FetchBytes はURLからコンテンツを取得し、生のバイト配列として返します。
// リクエスト前にランダム遅延を挿入し、403/429/5xxは指数バックオフでリトライします。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return c.fetchWithRetry(ctx, url, MaxBodySize)
}

// FetchDocument はURLからHTMLを取得し、goquery.Documentを返します。
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.fetchWithRetry(ctx, url, MaxBodySize)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", url, err)
	}
	return doc, nil
}

// Download は添付ファイル用の取得APIです。HTMLより大きなサイズ上限を適用します。
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	return c.fetchWithRetry(ctx, url, MaxAttachmentSize)
}

// fetchWithRetry は遅延・リトライ込みの取得処理の共通実装です。
func (c *Client) fetchWithRetry(ctx context.Context, url string, limit int64) ([]byte, error) {
	if err := c.politeDelay(ctx); err != nil {
		return nil, err
	}

	var bodyBytes []byte
	op := func() error {
		var fetchErr error
		bodyBytes, fetchErr = c.doFetch(ctx, url, limit)
		return fetchErr
	}

	err := retry.Do(
		ctx,
		c.retryConfig,
		fmt.Sprintf("URL(%s)のフェッチ", url),
		op,
		isHTTPRetryableError,
	)
	if err != nil {
		return nil, err
	}
	return bodyBytes, nil
}

// doFetch は実際の一度のHTTP GETリクエストを実行します。
func (c *Client) doFetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	c.addStealthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました (ネットワーク/接続エラー): %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponseForRetry(resp); err != nil {
		return nil, err
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if resp.ContentLength > 0 && resp.ContentLength > limit {
		return nil, fmt.Errorf("レスポンスボディが最大サイズ (%dバイト) を超えました", limit)
	}

	return bodyBytes, nil
}

// checkResponseForRetry はHTTPレスポンスのステータスコードを評価し、
// リトライすべきエラーか、非リトライ対象のエラーかを返します。
func checkResponseForRetry(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

	// 403 (アンチボット) / 408 / 429 / 5xx 系: リトライ対象
	if isRetryableStatus(resp.StatusCode) {
		if readErr != nil {
			return fmt.Errorf("HTTPステータスコードエラー (リトライ対象, ボディ読み込み失敗): %d, 原因: %w", resp.StatusCode, readErr)
		}
		return fmt.Errorf("HTTPステータスコードエラー (リトライ対象): %d, 詳細: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	// その他の 4xx 系: 非リトライ対象のクライアントエラー
	if readErr != nil {
		return &NonRetryableHTTPError{StatusCode: resp.StatusCode}
	}
	return &NonRetryableHTTPError{StatusCode: resp.StatusCode, Body: bodyBytes}
}

// isRetryableStatus はリトライで回復する可能性のあるステータスコードを判定します。
// 403 はブロック検出の典型であり、UAローテーションによる再試行で通ることがあります。
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return code >= 500 && code <= 599
}

// isHTTPRetryableError はエラーがHTTPリトライ対象かどうかを判定します。
// retry.ShouldRetryFunc 型のシグネチャを満たします。
func isHTTPRetryableError(err error) bool {
	if err == nil {
		return false
	}
	// 非リトライ対象エラー (4xx) はリトライしない
	if IsNonRetryableError(err) {
		return false
	}
	// リトライ対象ステータスとネットワークエラーはすべてリトライ対象
	return true
}
