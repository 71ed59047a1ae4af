package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/doctext"
	"github.com/shouni/go-reg-harvest/pkg/extract"
	"github.com/shouni/go-reg-harvest/pkg/robots"
	"github.com/shouni/go-reg-harvest/pkg/types"
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

func (m *MockFetcher) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

const detailHTML = `<html><head><title>Fallback title</title></head><body>
<article>
  <h1 class="headline">Quarterly statistics released</h1>
  <span class="published">17 August 2026</span>
  <span class="topic">Banking</span>
  <div class="body-content">
    <p>The regulator today released its quarterly statistics on authorised deposit-taking institutions.</p>
  </div>
  <a href="/reports/quarterly.csv">Data file</a>
  <a href="/news/background">Background briefing</a>
  <a href="https://twitter.com/regulator">Share</a>
</article>
</body></html>`

func testRules() Rules {
	return Rules{
		Headline: extract.RuleChain{".headline"},
		Date:     extract.RuleChain{".published"},
		Theme:    extract.RuleChain{".topic"},
		Body:     extract.RuleChain{".body-content"},
	}
}

func TestExtractor_Item(t *testing.T) {
	ctx := context.Background()
	pageURL := "https://www.example.gov.au/news/quarterly-statistics"
	csvURL := "https://www.example.gov.au/reports/quarterly.csv"
	cand := types.Candidate{URL: pageURL, Title: "listing title", Date: "2026-08-10"}

	t.Run("成功ケース_完全なレコードを組み立てる", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, pageURL).Return([]byte(detailHTML), nil).Once()
		fetcher.On("Download", ctx, csvURL).Return([]byte("Quarter,Total\nQ1,42\n"), nil).Once()

		// 収集日時は注入した時計から導出される
		fixedNow := func() time.Time {
			return time.Date(2026, 8, 23, 9, 30, 0, 0, time.UTC)
		}
		e := NewExtractor(fetcher, nil, doctext.NewExtractor(0), dedupe.NewIndex(nil), testRules(), fixedNow)
		item, attachFailures, err := e.Item(ctx, cand)

		require.NoError(t, err)
		assert.Equal(t, 0, attachFailures)
		assert.Equal(t, "Quarterly statistics released", item.Headline, "詳細ページのルールが一覧のタイトルより優先")
		assert.Equal(t, "2026-08-17", item.Date)
		assert.Equal(t, "Banking", item.Theme)
		assert.Contains(t, item.Content, "quarterly statistics on authorised deposit-taking institutions")
		assert.Equal(t, "2026-08-23", item.ScrapedDate)

		assert.Equal(t, []string{"https://www.example.gov.au/news/background"}, item.RelatedLinks,
			"添付URLとブロック対象は関連リンクに含まれないこと")

		require.Len(t, item.Attachments, 1)
		att := item.Attachments[0]
		assert.Equal(t, csvURL, att.URL)
		assert.Equal(t, "quarterly.csv", att.FileName)
		assert.Equal(t, "Quarter | Total\nQ1 | 42", att.ExtractedText)
		assert.Len(t, att.ContentHash, 64)
		fetcher.AssertExpectations(t)
	})

	t.Run("ルール不一致時は一覧ページの値へフォールバック", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, pageURL).
			Return([]byte("<html><body><p>bare page</p></body></html>"), nil).Once()

		e := NewExtractor(fetcher, nil, doctext.NewExtractor(0), dedupe.NewIndex(nil), testRules(), nil)
		item, _, err := e.Item(ctx, cand)

		require.NoError(t, err)
		assert.Equal(t, "listing title", item.Headline)
		assert.Equal(t, "2026-08-10", item.Date)
	})

	t.Run("添付の失敗はレコードを失敗させない", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, pageURL).Return([]byte(detailHTML), nil).Once()
		fetcher.On("Download", ctx, csvURL).Return(nil, errors.New("timeout")).Once()

		e := NewExtractor(fetcher, nil, doctext.NewExtractor(0), dedupe.NewIndex(nil), testRules(), nil)
		item, attachFailures, err := e.Item(ctx, cand)

		require.NoError(t, err)
		assert.Equal(t, 1, attachFailures)
		require.Len(t, item.Attachments, 1)
		assert.Empty(t, item.Attachments[0].ExtractedText, "失敗した添付はテキストなしで記録")
		assert.Empty(t, item.Attachments[0].ContentHash)
	})

	t.Run("処理済み添付は再ダウンロードしない", func(t *testing.T) {
		index := dedupe.NewIndex(nil)
		require.True(t, index.MarkAttachment(csvURL))

		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, pageURL).Return([]byte(detailHTML), nil).Once()

		e := NewExtractor(fetcher, nil, doctext.NewExtractor(0), index, testRules(), nil)
		item, attachFailures, err := e.Item(ctx, cand)

		require.NoError(t, err)
		assert.Equal(t, 0, attachFailures)
		require.Len(t, item.Attachments, 1, "メタデータは記録されること")
		assert.Empty(t, item.Attachments[0].ExtractedText)
		fetcher.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
	})

	t.Run("エラーケース_robotsで禁止されたURL", func(t *testing.T) {
		checker := robots.Load(ctx, staticFetcher("User-agent: *\nDisallow: /news/\n"),
			"https://www.example.gov.au", "Mozilla/5.0")

		e := NewExtractor(new(MockFetcher), checker, doctext.NewExtractor(0), dedupe.NewIndex(nil), testRules(), nil)
		_, _, err := e.Item(ctx, cand)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDisallowed)
	})

	t.Run("エラーケース_詳細ページの取得失敗", func(t *testing.T) {
		fetcher := new(MockFetcher)
		fetcher.On("FetchBytes", ctx, pageURL).Return(nil, errors.New("503")).Once()

		e := NewExtractor(fetcher, nil, doctext.NewExtractor(0), dedupe.NewIndex(nil), testRules(), nil)
		_, _, err := e.Item(ctx, cand)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "詳細ページの取得に失敗しました")
	})
}

// staticFetcher は固定のrobots.txtを返すテスト用Fetcherです。
type staticFetcher string

func (s staticFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return []byte(s), nil
}
