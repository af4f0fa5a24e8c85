package strategy

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"HypeSentinel/internal/model"
)

// Disclaimer is attached to every recommendation.
const Disclaimer = "This is sentiment-based analysis, not financial advice. Social media hype does not guarantee price movement. Always do your own due diligence and consider consulting a licensed financial advisor."

// Signal is the subset of a composite score the decision table reads.
type Signal struct {
	Symbol    string
	HypeScore int
	Momentum  model.Momentum
	Bullish   int
}

// SignalOf extracts the decision inputs from a composite score.
func SignalOf(s *model.CompositeScore) Signal {
	return Signal{Symbol: s.Symbol, HypeScore: s.HypeScore, Momentum: s.Momentum, Bullish: s.SentimentRatio.Bullish}
}

func (s Signal) accelerating() bool { return s.Momentum == model.MomentumAccelerating }

type rule struct {
	Match      func(s Signal, risk model.RiskTolerance) bool
	Strategy   string
	Type       model.StrategyType
	Confidence model.Confidence
	Rationale  func(s Signal) string
	Risks      []string
}

// Rules is the ordered decision table. The first matching row wins.
var Rules = []rule{
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore < 30 },
		Strategy:   "No Trade - Low Interest",
		Type:       model.StrategyNoTrade,
		Confidence: model.ConfidenceLow,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s isn't generating much social buzz right now. Without strong hype signals, there's no clear sentiment-driven entry point. I'd sit this one out and wait for more action.", s.Symbol)
		},
		Risks: []string{"Low liquidity periods", "Lack of momentum"},
	},
	{
		Match: func(s Signal, r model.RiskTolerance) bool {
			return s.HypeScore >= 90 && s.accelerating() && r == model.RiskAggressive
		},
		Strategy:   "Speculative Buy - Ride the Wave",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceMedium,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s is absolutely cooking with a %d hype score and accelerating momentum. This is peak degen territory. If you're going to play this, use a tight stop loss because when the music stops, it stops fast.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Potential blow-off top imminent", "Extreme volatility expected", "Could reverse sharply", "FOMO-driven buying may be exhausted"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 90 && s.accelerating() },
		Strategy:   "Watch Only - Too Hot",
		Type:       model.StrategyWatch,
		Confidence: model.ConfidenceHigh,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("Look, %s has a %d hype score and it's still accelerating. Everyone and their grandma is bullish. That's exactly when I get nervous. This could keep running, but the risk-reward here isn't great for a new entry. If you're not already in, maybe wait for a pullback.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Likely near local top", "Risk of sharp reversal", "Late to the party"},
	},
	{
		Match: func(s Signal, r model.RiskTolerance) bool {
			return s.HypeScore >= 70 && s.accelerating() && r == model.RiskConservative
		},
		Strategy:   "Small Position - Scale In",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceMedium,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s has strong momentum at %d hype and accelerating. For a conservative play, I'd take a small position here - maybe 25-30%% of what you'd normally allocate - and see how it develops. Don't chase.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Momentum could stall", "Partial position may underperform if it keeps running"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 70 && s.accelerating() },
		Strategy:   "Buy - Momentum Play",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceHigh,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s is running hot at %d with %d%% bullish sentiment. The momentum is real. I'd get in here but set a stop at 5-8%% below entry. Let winners run but protect your downside.", s.Symbol, s.HypeScore, s.Bullish)
		},
		Risks: []string{"Chasing momentum", "Potential for quick reversal", "High volatility"},
	},
	{
		Match: func(s Signal, _ model.RiskTolerance) bool {
			return s.HypeScore >= 70 && s.Momentum == model.MomentumDecelerating
		},
		Strategy:   "Wait for Clarity",
		Type:       model.StrategyWatch,
		Confidence: model.ConfidenceMedium,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s still has a solid %d hype score, but momentum is fading. Could be a pause before another leg up, or could be the start of a pullback. I'd wait for either: (1) momentum to pick back up, or (2) a better entry on a dip.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Trend reversal possible", "Dead cat bounce risk"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 70 },
		Strategy:   "Buy - Steady Hype",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceHigh,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s has consistent interest at %d hype score with stable momentum. This isn't the explosive setup, but it's a solid one. Good risk-reward for a position here.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Could consolidate", "Needs catalyst for next move"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 50 && s.accelerating() },
		Strategy:   "Early Mover - Buy",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceMedium,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s is starting to pick up steam - %d hype and climbing. This could be the early innings of a bigger move. I like getting in before the crowd shows up.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Hype may not sustain", "Could be false breakout", "Need to monitor closely"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 50 && s.Bullish >= 65 },
		Strategy:   "Accumulate - Bullish Setup",
		Type:       model.StrategyBuyShares,
		Confidence: model.ConfidenceMedium,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s has moderate attention at %d but sentiment is %d%% bullish. The bulls are in control even if volume is moderate. Good spot to start building a position.", s.Symbol, s.HypeScore, s.Bullish)
		},
		Risks: []string{"Low volume may persist", "Needs catalyst"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.HypeScore >= 50 },
		Strategy:   "Hold/Watch",
		Type:       model.StrategyWatch,
		Confidence: model.ConfidenceLow,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s is in no-man's land right now. %d hype score isn't bad but nothing special. Sentiment is mixed. I'd either wait for a clearer signal or look elsewhere.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Sideways action likely", "No clear catalyst"},
	},
	{
		Match:      func(s Signal, _ model.RiskTolerance) bool { return s.accelerating() },
		Strategy:   "Speculative Watch",
		Type:       model.StrategyWatch,
		Confidence: model.ConfidenceLow,
		Rationale: func(s Signal) string {
			return fmt.Sprintf("%s is showing signs of life - hype is low at %d but picking up. Could be early. Put it on your watchlist and see if this develops into something real.", s.Symbol, s.HypeScore)
		},
		Risks: []string{"Early signal may be noise", "Need confirmation", "Limited liquidity"},
	},
}

// Fallback applies when no row of Rules matches.
var Fallback = rule{
	Strategy:   "No Trade - Insufficient Signal",
	Type:       model.StrategyNoTrade,
	Confidence: model.ConfidenceLow,
	Rationale: func(s Signal) string {
		return fmt.Sprintf("%s just doesn't have the social momentum right now to generate a clear signal. Score of %d isn't compelling. Save your powder for better setups.", s.Symbol, s.HypeScore)
	},
	Risks: []string{"Opportunity cost", "Dead money"},
}

func match(s Signal, risk model.RiskTolerance) rule {
	for _, r := range Rules {
		if r.Match(s, risk) {
			return r
		}
	}
	return Fallback
}

// allocationShare is the fraction of maxCapital suggested per risk level.
var allocationShare = map[model.RiskTolerance]float64{
	model.RiskConservative: 0.25,
	model.RiskModerate:     0.5,
	model.RiskAggressive:   0.75,
}

// ParseRisk maps a query value to a risk tolerance. Empty means moderate.
func ParseRisk(v string) (model.RiskTolerance, error) {
	switch r := model.RiskTolerance(strings.ToLower(strings.TrimSpace(v))); r {
	case "":
		return model.RiskModerate, nil
	case model.RiskConservative, model.RiskModerate, model.RiskAggressive:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRisk, v)
	}
}

// Decide runs the decision table. It is pure: the same inputs give the same output.
func Decide(s Signal, risk model.RiskTolerance, maxCapital float64) model.Recommendation {
	if _, ok := allocationShare[risk]; !ok {
		risk = model.RiskModerate
	}
	r := match(s, risk)

	rec := model.Recommendation{
		Symbol:          s.Symbol,
		HypeScore:       s.HypeScore,
		Strategy:        r.Strategy,
		StrategyType:    r.Type,
		Rationale:       r.Rationale(s),
		ConfidenceLevel: r.Confidence,
		Risks:           append([]string(nil), r.Risks...),
		Disclaimer:      Disclaimer,
	}

	if maxCapital > 0 && r.Type == model.StrategyBuyShares {
		size := maxCapital * allocationShare[risk]
		rec.Allocation = &size
		rec.Rationale += fmt.Sprintf(" With your %s budget, I'd allocate around %s to this play.",
			humanize.Commaf(maxCapital), humanize.Commaf(size))
	}
	return rec
}
