package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFetcher は Fetcher インターフェースのモック実装です。
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Media releases</title>
<item>
  <title>Quarterly statistics released</title>
  <link>https://www.example.gov.au/news/quarterly-statistics</link>
  <pubDate>Mon, 17 Aug 2026 03:00:00 GMT</pubDate>
  <category>Statistics</category>
</item>
<item>
  <title>No link item</title>
</item>
</channel>
</rss>`

func TestParser_FetchAndParse(t *testing.T) {
	ctx := context.Background()
	feedURL := "https://www.example.gov.au/rss.xml"

	t.Run("成功ケース_正常なフィードをパースできる", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, feedURL).Return([]byte(sampleRSS), nil).Once()

		p := NewParser(fetcher)
		feed, err := p.FetchAndParse(ctx, feedURL)

		require.NoError(t, err)
		require.NotNil(t, feed)
		assert.Equal(t, "Media releases", feed.Title)
		assert.Len(t, feed.Items, 2)
		fetcher.AssertExpectations(t)
	})

	t.Run("エラーケース_取得失敗", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, feedURL).Return(nil, errors.New("connection refused")).Once()

		p := NewParser(fetcher)
		_, err := p.FetchAndParse(ctx, feedURL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "フィードの取得失敗")
	})

	t.Run("エラーケース_不正なXML", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, feedURL).Return([]byte("not xml at all"), nil).Once()

		p := NewParser(fetcher)
		_, err := p.FetchAndParse(ctx, feedURL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "フィードのパース失敗")
	})
}

func TestCandidates(t *testing.T) {
	published := time.Date(2026, 8, 17, 3, 0, 0, 0, time.UTC)

	t.Run("アイテムを候補へ変換する", func(t *testing.T) {
		feed := &gofeed.Feed{Items: []*gofeed.Item{
			{
				Title:           "Quarterly statistics released",
				Link:            "https://www.example.gov.au/news/quarterly-statistics",
				PublishedParsed: &published,
				Categories:      []string{"Statistics"},
			},
			{Title: "No link item"},
		}}

		candidates := Candidates(feed)

		require.Len(t, candidates, 1, "リンクを持たないアイテムは除外されること")
		assert.Equal(t, "https://www.example.gov.au/news/quarterly-statistics", candidates[0].URL)
		assert.Equal(t, "Quarterly statistics released", candidates[0].Title)
		assert.Equal(t, "2026-08-17", candidates[0].Date)
		assert.Equal(t, "Statistics", candidates[0].Category)
	})

	t.Run("日付未解析の場合は生のPublishedを使う", func(t *testing.T) {
		feed := &gofeed.Feed{Items: []*gofeed.Item{
			{Link: "https://example.gov.au/a", Published: "17 August 2026"},
		}}
		candidates := Candidates(feed)
		require.Len(t, candidates, 1)
		assert.Equal(t, "17 August 2026", candidates[0].Date)
	})

	t.Run("エッジケース_nilフィード", func(t *testing.T) {
		assert.Nil(t, Candidates(nil))
	})
}
