package model

import "time"

// Quote is the latest price snapshot for a symbol.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
