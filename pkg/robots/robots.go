package robots

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// Fetcher は robots.txt の取得に必要な機能のインターフェースです。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Checker はサイトの robots.txt を保持し、パス単位の取得可否を判定します。
// robots.txt が取得できないサイトでは全パスを許可として扱います。
type Checker struct {
	data  *robotstxt.RobotsData
	agent string
}

// Load はサイトのベースURLから robots.txt を取得し、Checkerを構築します。
// 取得失敗・パース失敗は許可側に倒します (当局サイトの多くはrobots.txtを持たないため)。
func Load(ctx context.Context, fetcher Fetcher, baseURL, agent string) *Checker {
	c := &Checker{agent: agent}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return c
	}
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)

	body, err := fetcher.FetchBytes(ctx, robotsURL)
	if err != nil {
		return c
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return c
	}
	c.data = data
	return c
}

// Allowed は指定URLのパスへのアクセスが許可されているかを返します。
func (c *Checker) Allowed(rawURL string) bool {
	if c == nil || c.data == nil {
		return true
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}

	agent := c.agent
	if agent == "" {
		agent = "Mozilla/5.0"
	}
	// グループ判定はUA文字列の先頭トークンで十分
	if i := strings.IndexByte(agent, '/'); i > 0 {
		agent = agent[:i]
	}
	return c.data.TestAgent(path, agent)
}
