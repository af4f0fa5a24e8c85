package model

import "time"

// RiskTolerance selects how aggressive a recommendation may be.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// StrategyType is the closed set of strategy kinds.
type StrategyType string

const (
	StrategyBuyShares           StrategyType = "buy_shares"
	StrategySellShares          StrategyType = "sell_shares"
	StrategyHold                StrategyType = "hold"
	StrategyWatch               StrategyType = "watch"
	StrategyNoTrade             StrategyType = "no_trade"
	StrategyBuyCalls            StrategyType = "buy_calls"
	StrategyBuyPuts             StrategyType = "buy_puts"
	StrategySellCoveredCalls    StrategyType = "sell_covered_calls"
	StrategySellCashSecuredPuts StrategyType = "sell_cash_secured_puts"
)

// Confidence of a recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Recommendation is the output of the decision table for one symbol.
type Recommendation struct {
	Symbol          string       `json:"ticker"`
	HypeScore       int          `json:"hypeScore"`
	Strategy        string       `json:"strategy"`
	StrategyType    StrategyType `json:"strategyType"`
	Rationale       string       `json:"rationale"`
	ConfidenceLevel Confidence   `json:"confidenceLevel"`
	Risks           []string     `json:"risks"`
	Allocation      *float64     `json:"allocation,omitempty"`
	Disclaimer      string       `json:"disclaimer"`
}

// PlayCategory tags a daily slate slot.
type PlayCategory string

const (
	PlayBestBet   PlayCategory = "best_bet"
	PlayDefensive PlayCategory = "defensive"
	PlayDegen     PlayCategory = "degen"
)

// OptionsEstimate is a rough strike/expiry hint for options-oriented plays.
type OptionsEstimate struct {
	Direction       string `json:"direction"`
	SuggestedStrike string `json:"suggestedStrike"`
	SuggestedExpiry string `json:"suggestedExpiry"`
	Notes           string `json:"notes"`
}

// DailyMove is one market slot of the daily slate.
type DailyMove struct {
	Category       PlayCategory     `json:"category"`
	Symbol         string           `json:"ticker"`
	HypeScore      int              `json:"hypeScore"`
	Momentum       Momentum         `json:"momentum"`
	BullishPercent int              `json:"bullishPercent"`
	Strategy       string           `json:"strategy"`
	StrategyType   StrategyType     `json:"strategyType"`
	Rationale      string           `json:"rationale"`
	Risk           string           `json:"risk"`
	OptionsDetails *OptionsEstimate `json:"optionsDetails,omitempty"`
}

// Slate is the daily set of categorized plays plus the joke slot.
type Slate struct {
	Recommendations []DailyMove `json:"recommendations"`
	DonkSuggestion  string      `json:"donkSuggestion"`
	GeneratedAt     time.Time   `json:"generatedAt"`
}
