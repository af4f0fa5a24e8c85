package collector

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/cache"
	"HypeSentinel/internal/model"
	"HypeSentinel/internal/recorder"
	"HypeSentinel/internal/upstream"
)

// DefaultAlphaVantageURL is the Alpha Vantage query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

const (
	minRelevance     = 0.3
	defaultRelevance = 0.5
	neutralNewsScore = 50
	maxArticles      = 10
)

// AlphaVantageFetcher implements NewsSource using the NEWS_SENTIMENT function.
type AlphaVantageFetcher struct {
	BaseURL  string
	APIKey   string
	Client   *upstream.Client
	Recorder recorder.Recorder

	news *cache.Cache[*model.NewsSentiment]
}

// NewAlphaVantageFetcher creates a news adapter. An empty apiKey disables it.
func NewAlphaVantageFetcher(baseURL, apiKey string, client *upstream.Client, rec recorder.Recorder) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &AlphaVantageFetcher{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Client:   client,
		Recorder: rec,
		news:     cache.New[*model.NewsSentiment](),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

func (f *AlphaVantageFetcher) StartJanitor(ctx context.Context, interval time.Duration) {
	f.news.StartJanitor(ctx, interval)
}

type avNewsResponse struct {
	Feed []struct {
		Title                 string  `json:"title"`
		URL                   string  `json:"url"`
		TimePublished         string  `json:"time_published"`
		Source                string  `json:"source"`
		OverallSentimentScore float64 `json:"overall_sentiment_score"`
		TickerSentiment       []struct {
			Ticker               string `json:"ticker"`
			RelevanceScore       string `json:"relevance_score"`
			TickerSentimentScore string `json:"ticker_sentiment_score"`
		} `json:"ticker_sentiment"`
	} `json:"feed"`
	Information  string `json:"Information"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// FetchNews returns the relevance-weighted news sentiment for symbol.
// No qualifying articles yields the neutral score rather than an error.
func (f *AlphaVantageFetcher) FetchNews(ctx context.Context, symbol string) (*model.NewsSentiment, error) {
	symbol = strings.ToUpper(symbol)
	if f.APIKey == "" {
		log.Debug().Str("symbol", symbol).Msg("alphavantage api key not set, skipping news")
		return nil, fmt.Errorf("alphavantage: api key not set: %w", upstream.ErrNoData)
	}

	key := "alphavantage:news:" + symbol
	if v, ok := f.news.Get(key); ok {
		f.Recorder.RecordCache("alphavantage", true)
		return v, nil
	}
	f.Recorder.RecordCache("alphavantage", false)

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", symbol)
	q.Set("limit", "50")
	q.Set("apikey", f.APIKey)

	var resp avNewsResponse
	if err := f.Client.GetJSON(ctx, f.BaseURL+"?"+q.Encode(), &resp); err != nil {
		f.Recorder.RecordFetch(f.Name(), outcome(err))
		log.Warn().Err(err).Str("symbol", symbol).Msg("alphavantage news fetch failed")
		return nil, err
	}
	if msg := resp.Information + resp.Note; msg != "" {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchRateLimited)
		log.Warn().Str("symbol", symbol).Str("message", msg).Msg("alphavantage limit reached")
		return nil, fmt.Errorf("alphavantage: %s: %w", msg, upstream.ErrRateLimited)
	}
	if resp.ErrorMessage != "" {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("alphavantage: %s: %w", resp.ErrorMessage, upstream.ErrNoData)
	}

	out := &model.NewsSentiment{Symbol: symbol, OverallScore: neutralNewsScore}
	var weighted, totalRelevance float64
	for _, a := range resp.Feed {
		relevance := defaultRelevance
		sentiment := a.OverallSentimentScore
		for _, ts := range a.TickerSentiment {
			if !strings.EqualFold(ts.Ticker, symbol) {
				continue
			}
			if r, err := strconv.ParseFloat(ts.RelevanceScore, 64); err == nil {
				relevance = r
			}
			if s, err := strconv.ParseFloat(ts.TickerSentimentScore, 64); err == nil {
				sentiment = s
			}
			break
		}
		if relevance < minRelevance {
			continue
		}

		score := RescaleSentiment(sentiment)
		out.Articles = append(out.Articles, model.NewsArticle{
			Title:          a.Title,
			URL:            a.URL,
			Source:         a.Source,
			PublishedAt:    a.TimePublished,
			SentimentScore: score,
			SentimentLabel: sentimentLabel(score),
			RelevanceScore: relevance,
		})
		weighted += float64(score) * relevance
		totalRelevance += relevance
	}
	if totalRelevance > 0 {
		out.OverallScore = int(math.Round(weighted / totalRelevance))
	}
	if len(out.Articles) > maxArticles {
		out.Articles = out.Articles[:maxArticles]
	}

	f.Recorder.RecordFetch(f.Name(), recorder.FetchOK)
	f.news.Set(key, out, cache.TTLNewsSentiment)
	return out, nil
}

// RescaleSentiment maps a provider score in [-1, 1] onto [0, 100].
func RescaleSentiment(s float64) int {
	v := int(math.Round((s + 1) * 50))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sentimentLabel(score int) string {
	switch {
	case score >= 60:
		return "Bullish"
	case score <= 40:
		return "Bearish"
	default:
		return "Neutral"
	}
}
