package hype

import (
	"sync"
	"time"

	"HypeSentinel/internal/model"
)

// Momentum comparison parameters.
const (
	MomentumWindow    = 4 * time.Hour
	MomentumThreshold = 10
)

type observation struct {
	score int
	at    time.Time
}

// History remembers the last computed score per symbol for the life of the process.
// Observations older than the window are ignored, not removed.
type History struct {
	mu      sync.Mutex
	entries map[string]observation
	now     func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{entries: make(map[string]observation), now: time.Now}
}

// Observe classifies score against the previous observation for symbol and
// then records score as the latest one.
func (h *History) Observe(symbol string, score int) model.Momentum {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	prev, ok := h.entries[symbol]
	h.entries[symbol] = observation{score: score, at: now}

	if !ok || now.Sub(prev.at) > MomentumWindow {
		return model.MomentumStable
	}
	switch diff := score - prev.score; {
	case diff > MomentumThreshold:
		return model.MomentumAccelerating
	case diff < -MomentumThreshold:
		return model.MomentumDecelerating
	default:
		return model.MomentumStable
	}
}

// Last returns the latest observation for symbol.
func (h *History) Last(symbol string) (score int, at time.Time, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.entries[symbol]
	return o.score, o.at, ok
}
