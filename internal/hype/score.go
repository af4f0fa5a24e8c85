package hype

import (
	"math"

	"HypeSentinel/internal/model"
)

// Composite weights.
const (
	SocialWeight = 0.6
	NewsWeight   = 0.4
)

const (
	maxVolumeScore    = 80
	maxWatchlistBonus = 10
	neutralNews       = 50
	maxArticleBonus   = 10
)

// SocialScore normalizes a social reading onto [0, 100].
// Message volume is log-scaled, then adjusted by the bullish ratio and the watchlist size.
func SocialScore(s *model.SocialSentiment) int {
	if s == nil || len(s.Messages) == 0 {
		return 0
	}

	volume := math.Min(maxVolumeScore, math.Log10(float64(len(s.Messages))+1)*40)

	ratio := 0.5
	if t := s.Tally(); t > 0 {
		ratio = float64(s.Bullish) / float64(t)
	}
	multiplier := 1.0
	switch {
	case ratio > 0.7:
		multiplier = 1 + (ratio-0.7)*0.5
	case ratio < 0.4:
		multiplier = 0.8 + ratio*0.5
	}

	var bonus float64
	if s.WatchlistCount > 0 {
		bonus = math.Min(maxWatchlistBonus, math.Log10(float64(s.WatchlistCount))*3)
	}

	return clamp(int(math.Round(volume*multiplier + bonus)))
}

// NewsScore normalizes a news reading onto [0, 100]. Absent news is neutral.
func NewsScore(n *model.NewsSentiment) int {
	if n == nil || len(n.Articles) == 0 {
		return neutralNews
	}
	coverage := math.Min(maxArticleBonus, float64(len(n.Articles))) * 0.5
	return clamp(int(math.Round(float64(n.OverallScore) + coverage)))
}

// Composite blends the normalized source scores.
func Composite(social, news int) int {
	return clamp(int(math.Round(float64(social)*SocialWeight + float64(news)*NewsWeight)))
}

// Ratio derives bullish/bearish percentages from the social tally.
// Without any tagged messages the split is even.
func Ratio(s *model.SocialSentiment) model.SentimentRatio {
	t := s.Tally()
	if t == 0 {
		return model.SentimentRatio{Bullish: 50, Bearish: 50}
	}
	bullish := int(math.Round(float64(s.Bullish) / float64(t) * 100))
	return model.SentimentRatio{Bullish: bullish, Bearish: 100 - bullish}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
