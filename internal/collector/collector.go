package collector

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"HypeSentinel/internal/model"
	"HypeSentinel/internal/upstream"
)

// Readings holds whatever each source returned. A nil field means no data.
type Readings struct {
	Social *model.SocialSentiment
	News   *model.NewsSentiment
	Quote  *model.Quote

	SocialRateLimited bool
	NewsRateLimited   bool
}

// Collector fans out to all sources for one symbol.
type Collector struct {
	Social SocialSource
	News   NewsSource
	Quote  QuoteSource
}

// NewCollector creates a new Collector. Any source may be nil.
func NewCollector(social SocialSource, news NewsSource, quote QuoteSource) *Collector {
	return &Collector{Social: social, News: news, Quote: quote}
}

// Collect queries every source concurrently and waits for all of them.
// Source failures are logged and leave the matching field nil; Collect never fails.
func (c *Collector) Collect(ctx context.Context, symbol string) Readings {
	var r Readings
	var wg conc.WaitGroup

	if c.Social != nil {
		wg.Go(func() {
			s, err := c.Social.FetchSentiment(ctx, symbol)
			if err != nil {
				r.SocialRateLimited = errors.Is(err, upstream.ErrRateLimited)
				log.Debug().Err(err).Str("symbol", symbol).Str("provider", c.Social.Name()).Msg("social reading unavailable")
				return
			}
			r.Social = s
		})
	}
	if c.News != nil {
		wg.Go(func() {
			n, err := c.News.FetchNews(ctx, symbol)
			if err != nil {
				r.NewsRateLimited = errors.Is(err, upstream.ErrRateLimited)
				log.Debug().Err(err).Str("symbol", symbol).Str("provider", c.News.Name()).Msg("news reading unavailable")
				return
			}
			r.News = n
		})
	}
	if c.Quote != nil {
		wg.Go(func() {
			q, err := c.Quote.FetchQuote(ctx, symbol)
			if err != nil {
				log.Debug().Err(err).Str("symbol", symbol).Str("provider", c.Quote.Name()).Msg("quote unavailable")
				return
			}
			r.Quote = q
		})
	}

	if p := wg.WaitAndRecover(); p != nil {
		log.Error().Str("symbol", symbol).Str("panic", p.String()).Msg("source panicked during collect")
	}
	return r
}
