package hype

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"

	"HypeSentinel/internal/model"
)

// Ranking limits.
const (
	DefaultLimit  = 10
	MaxLimit      = 50
	maxCandidates = 30
	batchSize     = 5
)

// TrendingSource lists currently trending symbols.
type TrendingSource interface {
	Trending(ctx context.Context, limit int) ([]model.TrendingSymbol, error)
}

// Scorer computes the composite score of a symbol.
type Scorer interface {
	ComputeScore(ctx context.Context, symbol, timeframe string) (*model.CompositeScore, error)
}

// Ranker orders trending symbols by composite score.
type Ranker struct {
	Source TrendingSource
	Scorer Scorer
}

// NewRanker creates a Ranker.
func NewRanker(src TrendingSource, scorer Scorer) *Ranker {
	return &Ranker{Source: src, Scorer: scorer}
}

// ClampLimit bounds a requested ranking size to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Rank scores every trending candidate and returns the top limit entries, best first.
// Candidates are scored in sequential batches, concurrently within a batch.
// An unavailable trending list yields an empty ranking.
func (r *Ranker) Rank(ctx context.Context, limit int) ([]model.TrendingEntry, error) {
	limit = ClampLimit(limit)

	candidates, err := r.Source.Trending(ctx, min(limit*2, maxCandidates))
	if err != nil {
		log.Warn().Err(err).Msg("trending candidates unavailable")
		return []model.TrendingEntry{}, nil
	}

	entries := make([]model.TrendingEntry, 0, len(candidates))
	for start := 0; start < len(candidates); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := candidates[start:min(start+batchSize, len(candidates))]
		scores := iter.Map(batch, func(c *model.TrendingSymbol) *model.CompositeScore {
			s, err := r.Scorer.ComputeScore(ctx, c.Symbol, DefaultTimeframe)
			if err != nil {
				log.Debug().Err(err).Str("symbol", c.Symbol).Msg("skipping trending candidate")
				return nil
			}
			return s
		})
		for i, s := range scores {
			if s == nil {
				continue
			}
			entries = append(entries, model.TrendingEntry{
				Symbol:         batch[i].Symbol,
				HypeScore:      s.HypeScore,
				Momentum:       s.Momentum,
				MentionCount:   s.MentionCount,
				BullishPercent: s.SentimentRatio.Bullish,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].HypeScore > entries[j].HypeScore })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
