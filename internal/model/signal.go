package model

import "time"

// Momentum classifies the change of a symbol's score against its recent history.
type Momentum string

const (
	MomentumAccelerating Momentum = "accelerating"
	MomentumStable       Momentum = "stable"
	MomentumDecelerating Momentum = "decelerating"
)

// Breakdown holds the per-source normalized scores.
type Breakdown struct {
	Social int `json:"stocktwits"`
	News   int `json:"news"`
}

// SentimentRatio holds percentages that sum to 100.
type SentimentRatio struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

// CompositeScore is the aggregated hype reading for one symbol.
// A value is never mutated after construction; a newer computation replaces it.
type CompositeScore struct {
	Symbol             string         `json:"ticker"`
	HypeScore          int            `json:"hypeScore"`
	Breakdown          Breakdown      `json:"breakdown"`
	MentionCount       int            `json:"mentionCount"`
	SentimentRatio     SentimentRatio `json:"sentimentRatio"`
	Momentum           Momentum       `json:"momentum"`
	CurrentPrice       *float64       `json:"currentPrice,omitempty"`
	PriceChange        *float64       `json:"priceChange,omitempty"`
	PriceChangePercent *float64       `json:"priceChangePercent,omitempty"`
	Summary            string         `json:"summary"`
	LastUpdated        time.Time      `json:"lastUpdated"`
}

// TrendingEntry is one row of the trending ranking. Rank is positional only.
type TrendingEntry struct {
	Symbol         string   `json:"ticker"`
	HypeScore      int      `json:"hypeScore"`
	Momentum       Momentum `json:"momentum"`
	MentionCount   int      `json:"mentionCount"`
	BullishPercent int      `json:"bullishPercent"`
	Rank           int      `json:"rank"`
}
