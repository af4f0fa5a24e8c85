package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HypeSentinel/internal/recorder"
	"HypeSentinel/internal/upstream"
)

const streamFixture = `{
  "response": {"status": 200},
  "symbol": {"id": 1, "symbol": "ABCD", "title": "ABCD Corp", "watchlist_count": 1200},
  "messages": [
    {"id": 1, "body": "to the moon", "created_at": "2025-03-10T14:00:00Z", "entities": {"sentiment": {"basic": "Bullish"}}, "user": {"username": "a", "followers": 10}},
    {"id": 2, "body": "puts", "created_at": "2025-03-10T14:01:00Z", "entities": {"sentiment": {"basic": "Bearish"}}, "user": {"username": "b", "followers": 3}},
    {"id": 3, "body": "hmm", "created_at": "2025-03-10T14:02:00Z", "entities": {"sentiment": null}, "user": {"username": "c", "followers": 0}},
    {"id": 4, "body": "calls", "created_at": "2025-03-10T14:03:00Z", "entities": {"sentiment": {"basic": "Bullish"}}, "user": {"username": "d", "followers": 7}},
    {"id": 5, "body": "no entities", "created_at": "2025-03-10T14:04:00Z", "user": {"username": "e", "followers": 1}}
  ]
}`

const trendingFixture = `{
  "response": {"status": 200},
  "symbols": [
    {"id": 1, "symbol": "gme", "title": "GameStop", "watchlist_count": 100},
    {"id": 2, "symbol": "TSLA", "title": "Tesla", "watchlist_count": 200},
    {"id": 3, "symbol": "NVDA", "title": "NVIDIA", "watchlist_count": 300}
  ]
}`

const newsFixture = `{
  "items": "3",
  "feed": [
    {"title": "Relevant bullish", "url": "https://n/1", "time_published": "20250310T140000", "source": "Wire",
     "overall_sentiment_score": 0.1,
     "ticker_sentiment": [{"ticker": "ABCD", "relevance_score": "0.8", "ticker_sentiment_score": "0.6"}]},
    {"title": "Irrelevant", "url": "https://n/2", "time_published": "20250310T130000", "source": "Wire",
     "overall_sentiment_score": -0.9,
     "ticker_sentiment": [{"ticker": "ABCD", "relevance_score": "0.1", "ticker_sentiment_score": "-0.9"}]},
    {"title": "No ticker entry", "url": "https://n/3", "time_published": "20250310T120000", "source": "Blog",
     "overall_sentiment_score": -0.2}
  ]
}`

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"regularMarketPrice": 110.0, "chartPreviousClose": 100.0},
      "timestamp": [1741564800, 1741651200],
      "indicators": {"quote": [{"open": [99, 101], "high": [101, 111], "low": [98, 100], "close": [100, 110], "volume": [1000, 2000]}]}
    }],
    "error": null
  }
}`

func fixtureServer(t *testing.T, routes map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		for prefix, body := range routes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				if strings.HasPrefix(body, "<") {
					w.Header().Set("Content-Type", "text/html")
				}
				_, _ = w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testClient(name string) *upstream.Client {
	return upstream.NewClient(upstream.Config{Name: name, Timeout: 2 * time.Second})
}

func TestStockTwitsSentimentTally(t *testing.T) {
	srv, hits := fixtureServer(t, map[string]string{"/streams/symbol/ABCD.json": streamFixture})
	f := NewStockTwitsFetcher(srv.URL, testClient("stocktwits"), recorder.NewNoopRecorder())

	s, err := f.FetchSentiment(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", s.Symbol)
	assert.Equal(t, 2, s.Bullish)
	assert.Equal(t, 1, s.Bearish)
	assert.Len(t, s.Messages, 5)
	assert.Equal(t, 1200, s.WatchlistCount)
	assert.Equal(t, "", s.Messages[2].Sentiment, "messages without sentiment count in neither bucket")

	_, err = f.FetchSentiment(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits), "second call must be served from cache")
}

func TestStockTwitsHTMLIsRateLimited(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/streams/": "<!DOCTYPE html><html>Slow down</html>"})
	f := NewStockTwitsFetcher(srv.URL, testClient("stocktwits"), recorder.NewNoopRecorder())

	s, err := f.FetchSentiment(context.Background(), "GME")
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, upstream.ErrRateLimited))
}

func TestStockTwitsBadStatusIsNoData(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/streams/": `{"response": {"status": 404}, "errors": [{"message": "Symbol not found"}]}`})
	f := NewStockTwitsFetcher(srv.URL, testClient("stocktwits"), recorder.NewNoopRecorder())

	_, err := f.FetchSentiment(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, upstream.ErrNoData)
	assert.False(t, errors.Is(err, upstream.ErrRateLimited))
}

func TestStockTwitsTrending(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/trending/symbols.json": trendingFixture})
	f := NewStockTwitsFetcher(srv.URL, testClient("stocktwits"), recorder.NewNoopRecorder())

	syms, err := f.Trending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.Equal(t, "GME", syms[0].Symbol)
	assert.Equal(t, "TSLA", syms[1].Symbol)
}

func TestAlphaVantageWeightedScore(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/": newsFixture})
	f := NewAlphaVantageFetcher(srv.URL, "demo", testClient("alphavantage"), recorder.NewNoopRecorder())

	n, err := f.FetchNews(context.Background(), "ABCD")
	require.NoError(t, err)
	require.Len(t, n.Articles, 2, "article below 0.3 relevance is dropped")

	// (80*0.8 + 40*0.5) / 1.3 = 64.6
	assert.Equal(t, 80, n.Articles[0].SentimentScore)
	assert.Equal(t, "Bullish", n.Articles[0].SentimentLabel)
	assert.Equal(t, 40, n.Articles[1].SentimentScore)
	assert.Equal(t, "Bearish", n.Articles[1].SentimentLabel)
	assert.Equal(t, 65, n.OverallScore)
}

func TestAlphaVantageNoQualifyingArticlesIsNeutral(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/": `{"items": "0", "feed": []}`})
	f := NewAlphaVantageFetcher(srv.URL, "demo", testClient("alphavantage"), recorder.NewNoopRecorder())

	n, err := f.FetchNews(context.Background(), "QUIET")
	require.NoError(t, err)
	assert.Equal(t, 50, n.OverallScore)
	assert.Empty(t, n.Articles)
}

func TestAlphaVantageLimitNoteIsRateLimited(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/": `{"Information": "Our standard API rate limit is 25 requests per day."}`})
	f := NewAlphaVantageFetcher(srv.URL, "demo", testClient("alphavantage"), recorder.NewNoopRecorder())

	n, err := f.FetchNews(context.Background(), "ABCD")
	assert.Nil(t, n)
	assert.ErrorIs(t, err, upstream.ErrRateLimited)
}

func TestAlphaVantageWithoutKeyIsDisabled(t *testing.T) {
	srv, hits := fixtureServer(t, map[string]string{"/": newsFixture})
	f := NewAlphaVantageFetcher(srv.URL, "", testClient("alphavantage"), recorder.NewNoopRecorder())

	_, err := f.FetchNews(context.Background(), "ABCD")
	assert.ErrorIs(t, err, upstream.ErrNoData)
	assert.EqualValues(t, 0, atomic.LoadInt32(hits))
}

func TestRescaleSentiment(t *testing.T) {
	assert.Equal(t, 0, RescaleSentiment(-1))
	assert.Equal(t, 50, RescaleSentiment(0))
	assert.Equal(t, 100, RescaleSentiment(1))
	assert.Equal(t, 100, RescaleSentiment(1.4))
	assert.Equal(t, 68, RescaleSentiment(0.36))
}

func TestYahooQuote(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/ABCD": chartFixture})
	f := NewYahooFetcher(srv.URL, testClient("yahoo"), recorder.NewNoopRecorder())

	q, err := f.FetchQuote(context.Background(), "abcd")
	require.NoError(t, err)
	assert.InDelta(t, 110.0, q.Price, 1e-9)
	assert.InDelta(t, 10.0, q.Change, 1e-9)
	assert.InDelta(t, 10.0, q.ChangePercent, 1e-9)
}

func TestYahooChartError(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{"/": `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`})
	f := NewYahooFetcher(srv.URL, testClient("yahoo"), recorder.NewNoopRecorder())

	_, err := f.FetchQuote(context.Background(), "GONE")
	assert.ErrorIs(t, err, upstream.ErrNoData)
}

func TestCollectDegradesPerSource(t *testing.T) {
	social, _ := fixtureServer(t, map[string]string{"/streams/": streamFixture})
	news, _ := fixtureServer(t, map[string]string{"/": "<html><body>429</body></html>"})
	quote, _ := fixtureServer(t, map[string]string{})

	c := NewCollector(
		NewStockTwitsFetcher(social.URL, testClient("stocktwits"), recorder.NewNoopRecorder()),
		NewAlphaVantageFetcher(news.URL, "demo", testClient("alphavantage"), recorder.NewNoopRecorder()),
		NewYahooFetcher(quote.URL, testClient("yahoo"), recorder.NewNoopRecorder()),
	)

	r := c.Collect(context.Background(), "ABCD")
	require.NotNil(t, r.Social)
	assert.Nil(t, r.News)
	assert.True(t, r.NewsRateLimited)
	assert.Nil(t, r.Quote)
}

func TestCollectWithNilSources(t *testing.T) {
	r := NewCollector(nil, nil, nil).Collect(context.Background(), "ABCD")
	assert.Nil(t, r.Social)
	assert.Nil(t, r.News)
	assert.Nil(t, r.Quote)
}

func TestFetchersWithoutRecorder(t *testing.T) {
	social, _ := fixtureServer(t, map[string]string{"/streams/": streamFixture})
	news, _ := fixtureServer(t, map[string]string{"/": newsFixture})
	quote, _ := fixtureServer(t, map[string]string{"/ABCD": chartFixture})

	c := NewCollector(
		NewStockTwitsFetcher(social.URL, testClient("stocktwits"), nil),
		NewAlphaVantageFetcher(news.URL, "demo", testClient("alphavantage"), nil),
		NewYahooFetcher(quote.URL, testClient("yahoo"), nil),
	)

	var r Readings
	require.NotPanics(t, func() { r = c.Collect(context.Background(), "ABCD") })
	assert.NotNil(t, r.Social)
	assert.NotNil(t, r.News)
	assert.NotNil(t, r.Quote)
}
