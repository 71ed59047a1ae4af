package robots

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockFetcher は Fetcher インターフェースのテスト用実装です。
type MockFetcher struct {
	body []byte
	err  error
	url  string
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.url = url
	if m.err != nil {
		return nil, m.err
	}
	return m.body, nil
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Disallowパスが拒否される", func(t *testing.T) {
		fetcher := &MockFetcher{body: []byte("User-agent: *\nDisallow: /internal/\n")}
		c := Load(ctx, fetcher, "https://www.example.gov.au/news", "Mozilla/5.0")

		assert.Equal(t, "https://www.example.gov.au/robots.txt", fetcher.url)
		assert.False(t, c.Allowed("https://www.example.gov.au/internal/report"))
		assert.True(t, c.Allowed("https://www.example.gov.au/news/media-release"))
	})

	t.Run("取得失敗は許可側に倒す", func(t *testing.T) {
		fetcher := &MockFetcher{err: errors.New("503")}
		c := Load(ctx, fetcher, "https://www.example.gov.au", "Mozilla/5.0")
		assert.True(t, c.Allowed("https://www.example.gov.au/anything"))
	})

	t.Run("nilチェッカーは全て許可", func(t *testing.T) {
		var c *Checker
		assert.True(t, c.Allowed("https://www.example.gov.au/x"))
	})
}
