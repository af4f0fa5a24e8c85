package hype

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/cache"
	"HypeSentinel/internal/collector"
	"HypeSentinel/internal/model"
	"HypeSentinel/internal/recorder"
)

var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// DefaultTimeframe is used when the caller does not pick one.
const DefaultTimeframe = "24h"

var timeframes = map[string]bool{"1h": true, "4h": true, "24h": true, "7d": true}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// ValidTimeframe reports whether tf is an accepted timeframe.
func ValidTimeframe(tf string) bool { return timeframes[tf] }

// NormalizeSymbol upper-cases symbol and checks its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// Gatherer collects raw readings for one symbol. *collector.Collector satisfies it.
type Gatherer interface {
	Collect(ctx context.Context, symbol string) collector.Readings
}

// Engine computes composite scores. Upstream failures degrade the score, never fail it.
type Engine struct {
	gatherer Gatherer
	rec      recorder.Recorder
	scores   *cache.Cache[*model.CompositeScore]
	history  *History
	now      func() time.Time
}

// NewEngine creates a score aggregator backed by g.
func NewEngine(g Gatherer, rec recorder.Recorder) *Engine {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Engine{
		gatherer: g,
		rec:      rec,
		scores:   cache.New[*model.CompositeScore](),
		history:  NewHistory(),
		now:      time.Now,
	}
}

// WithClock replaces the time source of the engine, its cache and its history.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	e.scores.WithClock(now)
	e.history.now = now
	return e
}

// StartJanitor periodically drops expired scores until ctx is cancelled.
func (e *Engine) StartJanitor(ctx context.Context, interval time.Duration) {
	e.scores.StartJanitor(ctx, interval)
}

// History exposes the momentum history.
func (e *Engine) History() *History { return e.history }

// Invalidate drops cached scores for symbol, or all scores when symbol is empty.
func (e *Engine) Invalidate(symbol string) {
	if symbol == "" {
		e.scores.Invalidate("")
		return
	}
	e.scores.Invalidate("hype:" + strings.ToUpper(symbol) + ":")
}

// ComputeScore returns the composite score for symbol. A cached value is returned
// verbatim and leaves the momentum history untouched.
func (e *Engine) ComputeScore(ctx context.Context, symbol, timeframe string) (*model.CompositeScore, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	if !ValidTimeframe(timeframe) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeframe, timeframe)
	}

	key := fmt.Sprintf("hype:%s:%s", sym, timeframe)
	if v, ok := e.scores.Get(key); ok {
		e.rec.RecordCache("hype", true)
		return v, nil
	}
	e.rec.RecordCache("hype", false)

	r := e.gatherer.Collect(ctx, sym)

	social := SocialScore(r.Social)
	news := NewsScore(r.News)
	score := Composite(social, news)
	ratio := Ratio(r.Social)
	momentum := e.history.Observe(sym, score)

	out := &model.CompositeScore{
		Symbol:         sym,
		HypeScore:      score,
		Breakdown:      model.Breakdown{Social: social, News: news},
		SentimentRatio: ratio,
		Momentum:       momentum,
		Summary:        Summarize(sym, score, momentum, ratio.Bullish),
		LastUpdated:    e.now().UTC(),
	}
	if r.Social != nil {
		out.MentionCount = len(r.Social.Messages)
	}
	if q := r.Quote; q != nil {
		price, change, pct := q.Price, q.Change, q.ChangePercent
		out.CurrentPrice, out.PriceChange, out.PriceChangePercent = &price, &change, &pct
	}

	log.Debug().
		Str("symbol", sym).
		Int("score", score).
		Int("social", social).
		Int("news", news).
		Str("momentum", string(momentum)).
		Bool("social_rate_limited", r.SocialRateLimited).
		Bool("news_rate_limited", r.NewsRateLimited).
		Msg("composite score computed")

	e.scores.Set(key, out, cache.TTLHypeScore)
	e.rec.RecordScore(out)
	return out, nil
}
