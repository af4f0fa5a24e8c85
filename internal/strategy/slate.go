package strategy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/model"
)

const slateSize = 10

// DonkPool holds the joke suggestions for the fourth slot.
var DonkPool = []string{
	"Buy 47 cases of Monster Energy and flip them at a music festival",
	"Acquire a struggling car wash and rename it 'Tendies & Suds'",
	"Corner the market on 1st edition Charizards",
	"Sell your Magic: The Gathering collection (finally)",
	"Invest in a taco truck outside the SEC building",
	"Start a GoFundMe for your trading losses",
	"Buy vintage Air Jordans and hold for the cultural appreciation",
	"Hoard Pokemon cards from Costco like it's a hedge fund strategy",
	"Put it all in a vending machine empire",
	"Become a part-owner of a struggling minor league baseball team",
	"Buy every Beanie Baby on eBay - they're due for a comeback",
	"Start a premium Discord server for 'trading alpha'",
	"Invest in a hot dog cart near Wall Street",
	"Corner the market on vintage Pyrex bowls",
	"Buy a storage unit at auction - what could go wrong?",
}

type play struct {
	Strategy  string
	Type      model.StrategyType
	Direction string
	Horizon   Horizon
	Rationale func(t model.TrendingEntry) string
	Risk      string
}

var plays = map[model.PlayCategory]play{
	model.PlayBestBet: {
		Strategy:  "Buy shares OR buy calls (2-3 weeks out, ~5% OTM)",
		Type:      model.StrategyBuyCalls,
		Direction: DirectionBullish,
		Horizon:   HorizonMedium,
		Rationale: func(t model.TrendingEntry) string {
			return fmt.Sprintf("Strong momentum with %d%% bullish sentiment. Social volume is elevated but not overheated.", t.BullishPercent)
		},
		Risk: "Momentum could stall if sentiment shifts",
	},
	model.PlayDefensive: {
		Strategy:  "Sell cash-secured puts (4-6 weeks out, ~10% OTM) OR buy shares with tight stop",
		Type:      model.StrategySellCashSecuredPuts,
		Direction: DirectionNeutral,
		Horizon:   HorizonLong,
		Rationale: func(t model.TrendingEntry) string {
			return fmt.Sprintf("Stable sentiment at %d%% bullish. Collect premium or get a discount entry.", t.BullishPercent)
		},
		Risk: "Limited upside, but controlled downside",
	},
	model.PlayDegen: {
		Strategy:  "Buy calls (1-2 weeks out, ATM or slightly OTM)",
		Type:      model.StrategyBuyCalls,
		Direction: DirectionBullish,
		Horizon:   HorizonShort,
		Rationale: func(t model.TrendingEntry) string {
			return fmt.Sprintf("Maximum hype at %d/100. Social media is going absolutely bonkers. Pure momentum play.", t.HypeScore)
		},
		Risk: "Could lose it all. This is gambling, not investing.",
	},
}

func isBestBet(t model.TrendingEntry) bool {
	return t.HypeScore >= 60 && t.HypeScore <= 85 &&
		t.Momentum != model.MomentumDecelerating && t.BullishPercent >= 65
}

func isDefensive(t model.TrendingEntry) bool {
	return t.HypeScore >= 40 && t.HypeScore <= 60 && t.Momentum == model.MomentumStable
}

func isDegen(t model.TrendingEntry) bool {
	return t.HypeScore >= 80 && t.Momentum == model.MomentumAccelerating
}

func first(entries []model.TrendingEntry, pred func(model.TrendingEntry) bool) (model.TrendingEntry, bool) {
	for _, t := range entries {
		if pred(t) {
			return t, true
		}
	}
	return model.TrendingEntry{}, false
}

// pickSlots chooses the entry for each market slot. entries must be sorted by score, best first.
func pickSlots(entries []model.TrendingEntry) map[model.PlayCategory]model.TrendingEntry {
	out := make(map[model.PlayCategory]model.TrendingEntry, 3)
	if len(entries) == 0 {
		return out
	}

	if t, ok := first(entries, isBestBet); ok {
		out[model.PlayBestBet] = t
	} else {
		out[model.PlayBestBet] = entries[0]
	}

	if t, ok := first(entries, isDefensive); ok {
		out[model.PlayDefensive] = t
	} else if len(entries) > 1 {
		lowest := entries[0]
		for _, t := range entries[1:] {
			if t.HypeScore < lowest.HypeScore {
				lowest = t
			}
		}
		out[model.PlayDefensive] = lowest
	}

	if t, ok := first(entries, isDegen); ok {
		out[model.PlayDegen] = t
	} else {
		highest := entries[0]
		for _, t := range entries[1:] {
			if t.HypeScore > highest.HypeScore {
				highest = t
			}
		}
		out[model.PlayDegen] = highest
	}
	return out
}

// DailySlate builds the categorized plays for today plus the joke slot.
// Held positions that are trending hot add covered-call entries.
func (e *Engine) DailySlate(ctx context.Context, positions []string) (*model.Slate, error) {
	trending, err := e.Ranker.Rank(ctx, slateSize)
	if err != nil {
		return nil, err
	}

	slate := &model.Slate{Recommendations: []model.DailyMove{}}
	slots := pickSlots(trending)
	for _, cat := range []model.PlayCategory{model.PlayBestBet, model.PlayDefensive, model.PlayDegen} {
		t, ok := slots[cat]
		if !ok {
			continue
		}
		p := plays[cat]
		slate.Recommendations = append(slate.Recommendations, model.DailyMove{
			Category:       cat,
			Symbol:         t.Symbol,
			HypeScore:      t.HypeScore,
			Momentum:       t.Momentum,
			BullishPercent: t.BullishPercent,
			Strategy:       p.Strategy,
			StrategyType:   p.Type,
			Rationale:      p.Rationale(t),
			Risk:           p.Risk,
			OptionsDetails: EstimateOptions(e.price(ctx, t.Symbol), p.Direction, p.Horizon),
		})
	}

	for _, sym := range NormalizePositions(positions) {
		t, ok := first(trending, func(t model.TrendingEntry) bool { return t.Symbol == sym })
		if !ok || t.HypeScore < 50 || t.BullishPercent < 60 {
			continue
		}
		opts := EstimateOptions(e.price(ctx, sym), DirectionBullish, HorizonMedium)
		opts.Notes = "Sell calls against your existing shares for income"
		slate.Recommendations = append(slate.Recommendations, model.DailyMove{
			Category:       model.PlayBestBet,
			Symbol:         sym,
			HypeScore:      t.HypeScore,
			Momentum:       t.Momentum,
			BullishPercent: t.BullishPercent,
			Strategy:       "Sell covered calls (2-4 weeks out, 5-8% OTM) against your position",
			StrategyType:   model.StrategySellCoveredCalls,
			Rationale:      fmt.Sprintf("You're already holding %s. Generate income by selling calls against it.", sym),
			Risk:           "Caps upside if stock moons",
			OptionsDetails: opts,
		})
	}

	slate.DonkSuggestion = e.donk()
	slate.GeneratedAt = e.now().UTC()
	return slate, nil
}

func (e *Engine) price(ctx context.Context, symbol string) *float64 {
	s, err := e.Scorer.ComputeScore(ctx, symbol, hype.DefaultTimeframe)
	if err != nil {
		log.Debug().Err(err).Str("symbol", symbol).Msg("no price for options estimate")
		return nil
	}
	return s.CurrentPrice
}

func (e *Engine) donk() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return DonkPool[e.rnd.IntN(len(DonkPool))]
}
