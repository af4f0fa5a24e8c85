package strategy

import (
	"fmt"
	"math"

	"HypeSentinel/internal/model"
)

// Option directions.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// Horizon picks the expiry bucket of an options estimate.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// fallbackPrice is used when no quote is available.
const fallbackPrice = 100.0

// EstimateOptions returns a rough strike and expiry for the given direction.
// A missing or zero price falls back to 100.
func EstimateOptions(price *float64, direction string, horizon Horizon) *model.OptionsEstimate {
	p := fallbackPrice
	if price != nil && *price > 0 {
		p = *price
	}

	switch direction {
	case DirectionBullish:
		return &model.OptionsEstimate{
			Direction:       direction,
			SuggestedStrike: fmt.Sprintf("~$%d (5%% OTM)", int(math.Round(p*1.05))),
			SuggestedExpiry: expiry(horizon, "2-3 weeks out"),
			Notes:           "Slightly OTM calls capture upside while limiting premium cost",
		}
	case DirectionBearish:
		return &model.OptionsEstimate{
			Direction:       direction,
			SuggestedStrike: fmt.Sprintf("~$%d (5%% OTM)", int(math.Round(p*0.95))),
			SuggestedExpiry: expiry(horizon, "2-4 weeks out"),
			Notes:           "OTM puts for hedging or bearish bets",
		}
	default:
		return &model.OptionsEstimate{
			Direction:       DirectionNeutral,
			SuggestedStrike: fmt.Sprintf("~$%d (10%% below current)", int(math.Round(p*0.9))),
			SuggestedExpiry: "4-6 weeks out",
			Notes:           "Collect premium while waiting for a better entry point",
		}
	}
}

func expiry(h Horizon, medium string) string {
	switch h {
	case HorizonShort:
		return "1-2 weeks out"
	case HorizonLong:
		return "4-6 weeks out"
	default:
		return medium
	}
}
