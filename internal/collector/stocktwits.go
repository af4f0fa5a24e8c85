package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/cache"
	"HypeSentinel/internal/model"
	"HypeSentinel/internal/recorder"
	"HypeSentinel/internal/upstream"
)

// DefaultStockTwitsURL is the public StockTwits API root.
const DefaultStockTwitsURL = "https://api.stocktwits.com/api/2"

// StockTwitsFetcher implements SocialSource using the public StockTwits API.
type StockTwitsFetcher struct {
	BaseURL  string
	Client   *upstream.Client
	Recorder recorder.Recorder

	sentiment *cache.Cache[*model.SocialSentiment]
	trending  *cache.Cache[[]model.TrendingSymbol]
}

// NewStockTwitsFetcher creates a social adapter with its own cache namespace.
func NewStockTwitsFetcher(baseURL string, client *upstream.Client, rec recorder.Recorder) *StockTwitsFetcher {
	if baseURL == "" {
		baseURL = DefaultStockTwitsURL
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &StockTwitsFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Client:    client,
		Recorder:  rec,
		sentiment: cache.New[*model.SocialSentiment](),
		trending:  cache.New[[]model.TrendingSymbol](),
	}
}

func (f *StockTwitsFetcher) Name() string { return "stocktwits" }

// StartJanitor sweeps both cache namespaces until ctx is cancelled.
func (f *StockTwitsFetcher) StartJanitor(ctx context.Context, interval time.Duration) {
	f.sentiment.StartJanitor(ctx, interval)
	f.trending.StartJanitor(ctx, interval)
}

type stResponseStatus struct {
	Status int `json:"status"`
}

type stSymbolStream struct {
	Response stResponseStatus `json:"response"`
	Symbol   struct {
		Symbol         string `json:"symbol"`
		WatchlistCount int    `json:"watchlist_count"`
	} `json:"symbol"`
	Messages []struct {
		ID        int64  `json:"id"`
		Body      string `json:"body"`
		CreatedAt string `json:"created_at"`
		Entities  *struct {
			Sentiment *struct {
				Basic string `json:"basic"`
			} `json:"sentiment"`
		} `json:"entities"`
		User struct {
			Username  string `json:"username"`
			Followers int    `json:"followers"`
		} `json:"user"`
	} `json:"messages"`
}

type stTrending struct {
	Response stResponseStatus `json:"response"`
	Symbols  []struct {
		Symbol         string `json:"symbol"`
		Title          string `json:"title"`
		WatchlistCount int    `json:"watchlist_count"`
	} `json:"symbols"`
}

// FetchSentiment returns the message stream for symbol with a bullish/bearish tally.
// Messages without an explicit sentiment count toward neither bucket.
func (f *StockTwitsFetcher) FetchSentiment(ctx context.Context, symbol string) (*model.SocialSentiment, error) {
	symbol = strings.ToUpper(symbol)
	key := "stocktwits:sentiment:" + symbol
	if v, ok := f.sentiment.Get(key); ok {
		f.Recorder.RecordCache("stocktwits", true)
		return v, nil
	}
	f.Recorder.RecordCache("stocktwits", false)

	endpoint := fmt.Sprintf("%s/streams/symbol/%s.json", f.BaseURL, url.PathEscape(symbol))
	var stream stSymbolStream
	if err := f.Client.GetJSON(ctx, endpoint, &stream); err != nil {
		f.Recorder.RecordFetch(f.Name(), outcome(err))
		log.Warn().Err(err).Str("symbol", symbol).Msg("stocktwits sentiment fetch failed")
		return nil, err
	}
	if stream.Response.Status != 200 {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("stocktwits: response status %d: %w", stream.Response.Status, upstream.ErrNoData)
	}

	out := &model.SocialSentiment{
		Symbol:         symbol,
		WatchlistCount: stream.Symbol.WatchlistCount,
		Messages:       make([]model.Message, 0, len(stream.Messages)),
	}
	for _, m := range stream.Messages {
		var sentiment string
		if m.Entities != nil && m.Entities.Sentiment != nil {
			switch m.Entities.Sentiment.Basic {
			case "Bullish":
				out.Bullish++
				sentiment = "bullish"
			case "Bearish":
				out.Bearish++
				sentiment = "bearish"
			}
		}
		out.Messages = append(out.Messages, model.Message{
			ID:        m.ID,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
			Sentiment: sentiment,
			Username:  m.User.Username,
			Followers: m.User.Followers,
		})
	}

	f.Recorder.RecordFetch(f.Name(), recorder.FetchOK)
	f.sentiment.Set(key, out, cache.TTLSocialSentiment)
	return out, nil
}

// Trending returns up to limit trending symbols in upstream order.
func (f *StockTwitsFetcher) Trending(ctx context.Context, limit int) ([]model.TrendingSymbol, error) {
	key := fmt.Sprintf("stocktwits:trending:%d", limit)
	if v, ok := f.trending.Get(key); ok {
		f.Recorder.RecordCache("stocktwits", true)
		return v, nil
	}
	f.Recorder.RecordCache("stocktwits", false)

	var resp stTrending
	if err := f.Client.GetJSON(ctx, f.BaseURL+"/trending/symbols.json", &resp); err != nil {
		f.Recorder.RecordFetch(f.Name(), outcome(err))
		log.Warn().Err(err).Msg("stocktwits trending fetch failed")
		return nil, err
	}
	if resp.Response.Status != 200 {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("stocktwits trending: response status %d: %w", resp.Response.Status, upstream.ErrNoData)
	}

	symbols := resp.Symbols
	if limit > 0 && len(symbols) > limit {
		symbols = symbols[:limit]
	}
	out := make([]model.TrendingSymbol, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, model.TrendingSymbol{
			Symbol:         strings.ToUpper(s.Symbol),
			Title:          s.Title,
			WatchlistCount: s.WatchlistCount,
		})
	}

	f.Recorder.RecordFetch(f.Name(), recorder.FetchOK)
	f.trending.Set(key, out, cache.TTLSocialTrending)
	return out, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return recorder.FetchOK
	case errors.Is(err, upstream.ErrRateLimited):
		return recorder.FetchRateLimited
	default:
		return recorder.FetchNoData
	}
}
