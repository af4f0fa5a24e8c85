package collector

import (
	"context"

	"HypeSentinel/internal/model"
)

// SocialSource fetches social-stream sentiment and the trending symbol list.
type SocialSource interface {
	FetchSentiment(ctx context.Context, symbol string) (*model.SocialSentiment, error)
	Trending(ctx context.Context, limit int) ([]model.TrendingSymbol, error)
	Name() string
}

// NewsSource fetches relevance-weighted news sentiment.
type NewsSource interface {
	FetchNews(ctx context.Context, symbol string) (*model.NewsSentiment, error)
	Name() string
}

// QuoteSource fetches the latest price snapshot.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}
