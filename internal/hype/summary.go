package hype

import (
	"fmt"
	"strings"

	"HypeSentinel/internal/model"
)

// Level bands of the composite score.
const (
	LevelLow     = "low"
	LevelMedium  = "medium"
	LevelHigh    = "high"
	LevelExtreme = "extreme"
)

// Level maps a composite score to its band.
func Level(score int) string {
	switch {
	case score >= 90:
		return LevelExtreme
	case score >= 70:
		return LevelHigh
	case score >= 50:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Summarize builds the human-readable rationale attached to a composite score.
func Summarize(symbol string, score int, momentum model.Momentum, bullish int) string {
	var b strings.Builder

	switch Level(score) {
	case LevelExtreme:
		fmt.Fprintf(&b, "%s is on fire right now. ", symbol)
	case LevelHigh:
		fmt.Fprintf(&b, "%s is generating serious buzz. ", symbol)
	case LevelMedium:
		fmt.Fprintf(&b, "%s has moderate social interest. ", symbol)
	default:
		fmt.Fprintf(&b, "%s is relatively quiet on social media. ", symbol)
	}

	switch momentum {
	case model.MomentumAccelerating:
		b.WriteString("Interest is picking up fast. ")
	case model.MomentumDecelerating:
		b.WriteString("Hype appears to be cooling off. ")
	default:
		b.WriteString("Sentiment is holding steady. ")
	}

	switch {
	case bullish >= 70:
		fmt.Fprintf(&b, "Strong bullish sentiment at %d%%.", bullish)
	case bullish >= 55:
		fmt.Fprintf(&b, "Leaning bullish at %d%%.", bullish)
	case bullish <= 40:
		fmt.Fprintf(&b, "Bearish undertones with only %d%% bullish.", bullish)
	default:
		fmt.Fprintf(&b, "Mixed sentiment at %d%% bullish.", bullish)
	}

	if score >= 90 && momentum == model.MomentumAccelerating {
		b.WriteString(" Caution: Could be approaching a local top.")
	}
	return b.String()
}
