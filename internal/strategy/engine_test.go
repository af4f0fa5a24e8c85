package strategy

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/model"
)

const (
	acc    = model.MomentumAccelerating
	stable = model.MomentumStable
	dec    = model.MomentumDecelerating
)

func TestDecide_AllRows(t *testing.T) {
	tests := []struct {
		score    int
		momentum model.Momentum
		bullish  int
		risk     model.RiskTolerance
		strategy string
		typ      model.StrategyType
		conf     model.Confidence
	}{
		{29, acc, 90, model.RiskAggressive, "No Trade - Low Interest", model.StrategyNoTrade, model.ConfidenceLow},
		{95, acc, 80, model.RiskAggressive, "Speculative Buy - Ride the Wave", model.StrategyBuyShares, model.ConfidenceMedium},
		{90, acc, 80, model.RiskModerate, "Watch Only - Too Hot", model.StrategyWatch, model.ConfidenceHigh},
		{90, acc, 80, model.RiskConservative, "Watch Only - Too Hot", model.StrategyWatch, model.ConfidenceHigh},
		{75, acc, 80, model.RiskConservative, "Small Position - Scale In", model.StrategyBuyShares, model.ConfidenceMedium},
		{70, acc, 80, model.RiskModerate, "Buy - Momentum Play", model.StrategyBuyShares, model.ConfidenceHigh},
		{95, dec, 80, model.RiskAggressive, "Wait for Clarity", model.StrategyWatch, model.ConfidenceMedium},
		{95, stable, 80, model.RiskModerate, "Buy - Steady Hype", model.StrategyBuyShares, model.ConfidenceHigh},
		{50, acc, 40, model.RiskModerate, "Early Mover - Buy", model.StrategyBuyShares, model.ConfidenceMedium},
		{64, stable, 80, model.RiskModerate, "Accumulate - Bullish Setup", model.StrategyBuyShares, model.ConfidenceMedium},
		{69, dec, 65, model.RiskModerate, "Accumulate - Bullish Setup", model.StrategyBuyShares, model.ConfidenceMedium},
		{60, stable, 64, model.RiskModerate, "Hold/Watch", model.StrategyWatch, model.ConfidenceLow},
		{30, acc, 50, model.RiskModerate, "Speculative Watch", model.StrategyWatch, model.ConfidenceLow},
		{49, stable, 90, model.RiskModerate, "No Trade - Insufficient Signal", model.StrategyNoTrade, model.ConfidenceLow},
		{30, dec, 90, model.RiskModerate, "No Trade - Insufficient Signal", model.StrategyNoTrade, model.ConfidenceLow},
	}
	for _, tt := range tests {
		rec := Decide(Signal{Symbol: "ABCD", HypeScore: tt.score, Momentum: tt.momentum, Bullish: tt.bullish}, tt.risk, 0)
		assert.Equal(t, tt.strategy, rec.Strategy, "score=%d momentum=%s risk=%s", tt.score, tt.momentum, tt.risk)
		assert.Equal(t, tt.typ, rec.StrategyType, tt.strategy)
		assert.Equal(t, tt.conf, rec.ConfidenceLevel, tt.strategy)
		assert.Equal(t, Disclaimer, rec.Disclaimer)
		assert.NotEmpty(t, rec.Risks)
		assert.Contains(t, rec.Rationale, "ABCD")
		assert.Nil(t, rec.Allocation)
	}
}

func TestDecide_Allocation(t *testing.T) {
	sig := Signal{Symbol: "ABCD", HypeScore: 64, Momentum: stable, Bullish: 80}

	rec := Decide(sig, model.RiskConservative, 10000)
	require.NotNil(t, rec.Allocation)
	assert.InDelta(t, 2500, *rec.Allocation, 1e-9)
	assert.Contains(t, rec.Rationale, "With your 10,000 budget, I'd allocate around 2,500 to this play.")

	rec = Decide(sig, model.RiskAggressive, 10000)
	assert.InDelta(t, 7500, *rec.Allocation, 1e-9)

	rec = Decide(Signal{Symbol: "ABCD", HypeScore: 60, Momentum: stable, Bullish: 50}, model.RiskModerate, 10000)
	assert.Nil(t, rec.Allocation, "no allocation for non-buy strategies")
}

func TestDecide_RisksAreCopied(t *testing.T) {
	rec := Decide(Signal{Symbol: "X", HypeScore: 10}, model.RiskModerate, 0)
	rec.Risks[0] = "mutated"
	assert.Equal(t, "Low liquidity periods", Rules[0].Risks[0])
}

func TestParseRisk(t *testing.T) {
	r, err := ParseRisk("")
	require.NoError(t, err)
	assert.Equal(t, model.RiskModerate, r)

	r, err = ParseRisk("Aggressive")
	require.NoError(t, err)
	assert.Equal(t, model.RiskAggressive, r)

	_, err = ParseRisk("yolo")
	assert.ErrorIs(t, err, ErrInvalidRisk)
}

type stubScorer map[string]*model.CompositeScore

func (s stubScorer) ComputeScore(_ context.Context, symbol, _ string) (*model.CompositeScore, error) {
	if v, ok := s[symbol]; ok {
		return v, nil
	}
	return nil, hype.ErrInvalidSymbol
}

type stubRanker struct {
	entries []model.TrendingEntry
	err     error
	limits  []int
}

func (r *stubRanker) Rank(_ context.Context, limit int) ([]model.TrendingEntry, error) {
	r.limits = append(r.limits, limit)
	if r.err != nil {
		return nil, r.err
	}
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func score(symbol string, s int, m model.Momentum, bullish int, price float64) *model.CompositeScore {
	return &model.CompositeScore{
		Symbol:         symbol,
		HypeScore:      s,
		Momentum:       m,
		SentimentRatio: model.SentimentRatio{Bullish: bullish, Bearish: 100 - bullish},
		CurrentPrice:   &price,
	}
}

func entry(symbol string, s int, m model.Momentum, bullish, rank int) model.TrendingEntry {
	return model.TrendingEntry{Symbol: symbol, HypeScore: s, Momentum: m, BullishPercent: bullish, Rank: rank}
}

func TestSuggest_ABCD(t *testing.T) {
	e := NewEngine(stubScorer{"ABCD": score("ABCD", 64, stable, 80, 10)}, &stubRanker{})

	rec, err := e.Suggest(context.Background(), "ABCD", model.RiskModerate, 0)
	require.NoError(t, err)
	assert.Equal(t, "Accumulate - Bullish Setup", rec.Strategy)
	assert.Equal(t, 64, rec.HypeScore)
}

func TestTopSuggestion(t *testing.T) {
	scorer := stubScorer{
		"AAA": score("AAA", 88, stable, 70, 10),
		"BBB": score("BBB", 72, acc, 70, 10),
	}
	ranker := &stubRanker{entries: []model.TrendingEntry{
		entry("AAA", 88, stable, 70, 1),
		entry("BBB", 72, acc, 70, 2),
	}}
	e := NewEngine(scorer, ranker)

	rec, err := e.TopSuggestion(context.Background(), model.RiskModerate)
	require.NoError(t, err)
	assert.Equal(t, "BBB", rec.Symbol, "first accelerating entry wins")
	assert.Equal(t, []int{5}, ranker.limits)

	ranker.entries = ranker.entries[:1]
	rec, err = e.TopSuggestion(context.Background(), model.RiskModerate)
	require.NoError(t, err)
	assert.Equal(t, "AAA", rec.Symbol)

	ranker.entries = nil
	_, err = e.TopSuggestion(context.Background(), model.RiskModerate)
	assert.True(t, errors.Is(err, ErrNoCandidates))
}

func TestDailySlate_Pools(t *testing.T) {
	scorer := stubScorer{
		"HOT":  score("HOT", 92, acc, 75, 200),
		"GOOD": score("GOOD", 70, stable, 70, 100),
		"SAFE": score("SAFE", 50, stable, 55, 50),
		"MEH":  score("MEH", 35, dec, 40, 20),
	}
	ranker := &stubRanker{entries: []model.TrendingEntry{
		entry("HOT", 92, acc, 75, 1),
		entry("GOOD", 70, stable, 70, 2),
		entry("SAFE", 50, stable, 55, 3),
		entry("MEH", 35, dec, 40, 4),
	}}
	fixed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := NewEngine(scorer, ranker).WithRand(rand.New(rand.NewPCG(1, 2))).WithClock(func() time.Time { return fixed })

	slate, err := e.DailySlate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, slate.Recommendations, 3)
	assert.Equal(t, []int{slateSize}, ranker.limits)
	assert.Equal(t, fixed, slate.GeneratedAt)
	assert.Contains(t, DonkPool, slate.DonkSuggestion)

	best, def, degen := slate.Recommendations[0], slate.Recommendations[1], slate.Recommendations[2]

	assert.Equal(t, model.PlayBestBet, best.Category)
	assert.Equal(t, "GOOD", best.Symbol)
	assert.Equal(t, model.StrategyBuyCalls, best.StrategyType)
	assert.Equal(t, "~$105 (5% OTM)", best.OptionsDetails.SuggestedStrike)
	assert.Equal(t, "2-3 weeks out", best.OptionsDetails.SuggestedExpiry)

	assert.Equal(t, model.PlayDefensive, def.Category)
	assert.Equal(t, "SAFE", def.Symbol)
	assert.Equal(t, model.StrategySellCashSecuredPuts, def.StrategyType)
	assert.Equal(t, "~$45 (10% below current)", def.OptionsDetails.SuggestedStrike)
	assert.Equal(t, "4-6 weeks out", def.OptionsDetails.SuggestedExpiry)

	assert.Equal(t, model.PlayDegen, degen.Category)
	assert.Equal(t, "HOT", degen.Symbol)
	assert.Equal(t, "Could lose it all. This is gambling, not investing.", degen.Risk)
	assert.Equal(t, "~$210 (5% OTM)", degen.OptionsDetails.SuggestedStrike)
	assert.Equal(t, "1-2 weeks out", degen.OptionsDetails.SuggestedExpiry)
}

func TestDailySlate_Fallbacks(t *testing.T) {
	scorer := stubScorer{
		"AAA": score("AAA", 95, dec, 30, 10),
		"BBB": score("BBB", 20, dec, 30, 10),
		"CCC": score("CCC", 20, acc, 30, 10),
	}
	ranker := &stubRanker{entries: []model.TrendingEntry{
		entry("AAA", 95, dec, 30, 1),
		entry("BBB", 20, dec, 30, 2),
		entry("CCC", 20, acc, 30, 3),
	}}
	slate, err := NewEngine(scorer, ranker).DailySlate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, slate.Recommendations, 3)
	assert.Equal(t, "AAA", slate.Recommendations[0].Symbol, "best bet falls back to rank 1")
	assert.Equal(t, "BBB", slate.Recommendations[1].Symbol, "defensive falls back to the first lowest score")
	assert.Equal(t, "AAA", slate.Recommendations[2].Symbol, "degen falls back to the highest score")
}

func TestDailySlate_SingleAndEmpty(t *testing.T) {
	ranker := &stubRanker{entries: []model.TrendingEntry{entry("AAA", 40, dec, 50, 1)}}
	slate, err := NewEngine(stubScorer{}, ranker).DailySlate(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, slate.Recommendations, 2, "no defensive fallback with a single entry")
	assert.Equal(t, "~$105 (5% OTM)", slate.Recommendations[0].OptionsDetails.SuggestedStrike, "missing price falls back to 100")

	ranker.entries = nil
	slate, err = NewEngine(stubScorer{}, ranker).DailySlate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, slate.Recommendations)
	assert.NotEmpty(t, slate.DonkSuggestion)
}

func TestDailySlate_CoveredCalls(t *testing.T) {
	scorer := stubScorer{
		"NVDA": score("NVDA", 80, stable, 70, 900),
		"TSLA": score("TSLA", 60, stable, 50, 200),
	}
	ranker := &stubRanker{entries: []model.TrendingEntry{
		entry("NVDA", 80, stable, 70, 1),
		entry("TSLA", 60, stable, 50, 2),
	}}
	slate, err := NewEngine(scorer, ranker).DailySlate(context.Background(), []string{"nvda", "TSLA", "AAPL", "$NVDA"})
	require.NoError(t, err)

	var covered []model.DailyMove
	for _, m := range slate.Recommendations {
		if m.StrategyType == model.StrategySellCoveredCalls {
			covered = append(covered, m)
		}
	}
	require.Len(t, covered, 1)
	assert.Equal(t, "NVDA", covered[0].Symbol)
	assert.Equal(t, model.PlayBestBet, covered[0].Category)
	assert.Equal(t, "~$945 (5% OTM)", covered[0].OptionsDetails.SuggestedStrike)
	assert.Equal(t, "Sell calls against your existing shares for income", covered[0].OptionsDetails.Notes)
}

func TestDailySlate_RankerError(t *testing.T) {
	_, err := NewEngine(stubScorer{}, &stubRanker{err: context.Canceled}).DailySlate(context.Background(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDonkIsDeterministicWithSeed(t *testing.T) {
	a := NewEngine(stubScorer{}, &stubRanker{}).WithRand(rand.New(rand.NewPCG(7, 7)))
	b := NewEngine(stubScorer{}, &stubRanker{}).WithRand(rand.New(rand.NewPCG(7, 7)))
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.donk(), b.donk())
	}
}
