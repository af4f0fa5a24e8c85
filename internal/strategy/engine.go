package strategy

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/model"
)

var (
	ErrNoCandidates = errors.New("no trending tickers available for suggestions")
	ErrInvalidRisk  = errors.New("invalid risk tolerance")
)

// Ranker produces the trending ranking the engine picks from.
type Ranker interface {
	Rank(ctx context.Context, limit int) ([]model.TrendingEntry, error)
}

// Engine turns composite scores into recommendations.
type Engine struct {
	Scorer hype.Scorer
	Ranker Ranker

	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewEngine creates a decision engine.
func NewEngine(scorer hype.Scorer, ranker Ranker) *Engine {
	return &Engine{
		Scorer: scorer,
		Ranker: ranker,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:    time.Now,
	}
}

// WithRand replaces the random source used for the joke slot.
func (e *Engine) WithRand(r *rand.Rand) *Engine {
	e.mu.Lock()
	e.rnd = r
	e.mu.Unlock()
	return e
}

// WithClock replaces the time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Suggest scores symbol and runs the decision table on the result.
func (e *Engine) Suggest(ctx context.Context, symbol string, risk model.RiskTolerance, maxCapital float64) (model.Recommendation, error) {
	s, err := e.Scorer.ComputeScore(ctx, symbol, hype.DefaultTimeframe)
	if err != nil {
		return model.Recommendation{}, err
	}
	return Decide(SignalOf(s), risk, maxCapital), nil
}

// TopSuggestion picks the first accelerating symbol among the top five trending,
// falling back to the top-ranked one.
func (e *Engine) TopSuggestion(ctx context.Context, risk model.RiskTolerance) (model.Recommendation, error) {
	trending, err := e.Ranker.Rank(ctx, 5)
	if err != nil {
		return model.Recommendation{}, err
	}
	if len(trending) == 0 {
		return model.Recommendation{}, ErrNoCandidates
	}

	best := trending[0]
	for _, t := range trending {
		if t.Momentum == model.MomentumAccelerating {
			best = t
			break
		}
	}
	return e.Suggest(ctx, best.Symbol, risk, 0)
}
