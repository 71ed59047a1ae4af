package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-reg-harvest/pkg/retry"
)

// MockHTTPClient は Doer インターフェースを満たすモックです。
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	err := args.Error(1)
	if args.Get(0) != nil {
		return args.Get(0).(*http.Response), err
	}
	return nil, err
}

// fastRetry はテスト用の高速なリトライ設定です。
var fastRetry = retry.Config{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}

func newTestClient(doer Doer) *Client {
	c := New(0, WithHTTPClient(doer))
	c.retryConfig = fastRetry
	return c
}

func TestNonRetryableHTTPError_Error(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		expected   string
		statusCode int
	}{
		{"non-empty body", []byte("error body"), "HTTPクライアントエラー (非リトライ対象): ステータスコード 400, ボディ: error body", 400},
		{"empty body", nil, "HTTPクライアントエラー (非リトライ対象): ステータスコード 400, ボディなし", 400},
		{"truncated body", []byte(strings.Repeat("a", 1025)), "HTTPクライアントエラー (非リトライ対象): ステータスコード 400, ボディ: " + strings.Repeat("a", 1024) + "...", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &NonRetryableHTTPError{StatusCode: tt.statusCode, Body: tt.body}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestFetchBytes(t *testing.T) {
	url := "https://example.com"
	ctx := context.Background()

	t.Run("successful fetch", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		expectedBody := []byte("<html></html>")
		mockResponse := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(expectedBody)),
		}
		mockClient.On("Do", mock.Anything).Return(mockResponse, nil).Once()

		client := newTestClient(mockClient)
		body, err := client.FetchBytes(ctx, url)
		assert.NoError(t, err)
		assert.Equal(t, expectedBody, body)
		mockClient.AssertExpectations(t)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		mockResponse := &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewReader([]byte("not found"))),
		}
		mockClient.On("Do", mock.Anything).Return(mockResponse, nil).Once()

		client := newTestClient(mockClient)
		body, err := client.FetchBytes(ctx, url)
		assert.Error(t, err)
		assert.True(t, IsNonRetryableError(err))
		assert.Nil(t, body)
		mockClient.AssertNumberOfCalls(t, "Do", 1)
	})

	t.Run("retries on 503 then succeeds", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		expectedBody := []byte("Success")

		mockClient.On("Do", mock.Anything).Return(
			&http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(bytes.NewReader(nil))}, nil,
		).Once()
		mockClient.On("Do", mock.Anything).Return(
			&http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(expectedBody))}, nil,
		).Once()

		client := newTestClient(mockClient)
		body, err := client.FetchBytes(ctx, url)
		assert.NoError(t, err)
		assert.Equal(t, expectedBody, body)
		mockClient.AssertNumberOfCalls(t, "Do", 2)
	})

	t.Run("403 is retried", func(t *testing.T) {
		mockClient := new(MockHTTPClient)

		// MaxRetries=2 のため、Doは合計3回 (初回＋2回リトライ) 呼ばれる
		mockClient.On("Do", mock.Anything).Return(
			&http.Response{StatusCode: http.StatusForbidden, Body: io.NopCloser(bytes.NewReader(nil))}, nil,
		).Times(3)

		client := newTestClient(mockClient)
		body, err := client.FetchBytes(ctx, url)
		assert.Error(t, err)
		assert.Nil(t, body)
		mockClient.AssertNumberOfCalls(t, "Do", 3)
	})

	t.Run("network error exhausts retries", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		var resp *http.Response
		mockClient.On("Do", mock.Anything).Return(resp, errors.New("network error")).Times(3)

		client := newTestClient(mockClient)
		body, err := client.FetchBytes(ctx, url)
		assert.Error(t, err)
		assert.Nil(t, body)
		mockClient.AssertNumberOfCalls(t, "Do", 3)
	})
}

func TestFetchDocument(t *testing.T) {
	mockClient := new(MockHTTPClient)
	mockResponse := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`<html><body><h1>Prudential Standard</h1></body></html>`)),
	}
	mockClient.On("Do", mock.Anything).Return(mockResponse, nil).Once()

	client := newTestClient(mockClient)
	doc, err := client.FetchDocument(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "Prudential Standard", doc.Find("h1").Text())
}

func TestWarmUp(t *testing.T) {
	t.Run("Cookieが収集される", func(t *testing.T) {
		var warmedUp atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
			warmedUp.Store(true)
		}))
		defer srv.Close()

		client := New(5*time.Second, WithoutCloudFlareByPass())
		err := client.WarmUp(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.True(t, warmedUp.Load())

		// 内部の *http.Client がCookieジャーを保持していること
		hc, ok := client.httpClient.(*http.Client)
		require.True(t, ok)
		require.NotNil(t, hc.Jar)
	})

	t.Run("到達不能なホストはエラー", func(t *testing.T) {
		client := New(500*time.Millisecond, WithoutCloudFlareByPass())
		err := client.WarmUp(context.Background(), "http://127.0.0.1:1")
		assert.Error(t, err)
	})
}

func TestStealthHeaders(t *testing.T) {
	var gotUA, gotReferer, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(5*time.Second,
		WithoutCloudFlareByPass(),
		WithReferer("https://www.example.gov.au"),
	)
	_, err := client.FetchBytes(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, gotUA, "Mozilla/5.0", "UAプールの実ブラウザUAが付与されること")
	assert.Equal(t, "https://www.example.gov.au", gotReferer)
	assert.Contains(t, gotAccept, "text/html")
}

func TestPoliteDelay(t *testing.T) {
	t.Run("遅延レンジ未設定なら待機しない", func(t *testing.T) {
		client := New(0, WithHTTPClient(new(MockHTTPClient)))
		start := time.Now()
		require.NoError(t, client.politeDelay(context.Background()))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("キャンセルで中断する", func(t *testing.T) {
		client := New(0,
			WithHTTPClient(new(MockHTTPClient)),
			WithDelayRange(5*time.Second, 10*time.Second),
		)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := client.politeDelay(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsNonRetryableError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.False(t, IsNonRetryableError(nil))
	})
	t.Run("non-retryable error", func(t *testing.T) {
		err := &NonRetryableHTTPError{}
		assert.True(t, IsNonRetryableError(err))
	})
	t.Run("other error type", func(t *testing.T) {
		assert.False(t, IsNonRetryableError(errors.New("some error")))
	})
}
