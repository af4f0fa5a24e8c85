package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/recorder"
)

// DefaultCandidates is the fallback order used when none is configured.
var DefaultCandidates = []Candidate{
	{Provider: "gemini", Model: "gemini-2.0-flash"},
	{Provider: "gemini", Model: "gemini-2.5-flash"},
	{Provider: "gemini", Model: "gemini-2.0-flash-lite"},
}

// Result is a successful generation.
type Result struct {
	Text     string
	Provider string
	Model    string
	Attempts []Attempt
}

// CascadeError reports that every candidate failed.
type CascadeError struct {
	AllRateLimited bool
	Attempts       []Attempt
}

func (e *CascadeError) Error() string {
	if e.AllRateLimited {
		return fmt.Sprintf("%s (%d attempts)", ErrRateLimited, len(e.Attempts))
	}
	return fmt.Sprintf("%s: %s", ErrGenerationFailed, e.Last())
}

// Last returns the message of the most recent failed attempt.
func (e *CascadeError) Last() string {
	for i := len(e.Attempts) - 1; i >= 0; i-- {
		if e.Attempts[i].Err != nil {
			return e.Attempts[i].Err.Error()
		}
	}
	return "unknown error"
}

func (e *CascadeError) Unwrap() error {
	if e.AllRateLimited {
		return ErrRateLimited
	}
	return ErrGenerationFailed
}

// Cascade tries candidates strictly in order and stops at the first success.
type Cascade struct {
	providers  map[string]Provider
	candidates []Candidate
	rec        recorder.Recorder
}

// NewCascade builds a cascade over the given providers, keyed by Name().
func NewCascade(candidates []Candidate, rec recorder.Recorder, providers ...Provider) *Cascade {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	c := &Cascade{providers: make(map[string]Provider, len(providers)), candidates: candidates, rec: rec}
	for _, p := range providers {
		c.providers[p.Name()] = p
	}
	return c
}

// Candidates returns the configured fallback order.
func (c *Cascade) Candidates() []Candidate { return c.candidates }

// Configured reports whether at least one candidate has credentials.
func (c *Cascade) Configured() bool {
	for _, cand := range c.candidates {
		if p, ok := c.providers[cand.Provider]; ok && p.Configured() {
			return true
		}
	}
	return false
}

// Generate runs the conversation through the candidates. Candidates whose
// provider is unknown or lacks credentials are skipped.
func (c *Cascade) Generate(ctx context.Context, conversation []Message) (*Result, error) {
	if !c.Configured() {
		c.rec.RecordCascade("not_configured")
		return nil, ErrNotConfigured
	}

	var attempts []Attempt
	allRateLimited := true
	for _, cand := range c.candidates {
		p, ok := c.providers[cand.Provider]
		if !ok || !p.Configured() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a := p.Complete(ctx, cand.Model, conversation)
		attempts = append(attempts, a)
		c.rec.RecordAttempt(cand.Provider, cand.Model, a.Outcome)

		switch a.Outcome {
		case OutcomeSuccess:
			log.Info().Str("provider", cand.Provider).Str("model", cand.Model).Int("attempts", len(attempts)).Msg("generation succeeded")
			c.rec.RecordCascade(OutcomeSuccess)
			return &Result{Text: a.Text, Provider: cand.Provider, Model: cand.Model, Attempts: attempts}, nil
		case OutcomeRateLimited:
			log.Warn().Err(a.Err).Str("provider", cand.Provider).Str("model", cand.Model).Msg("model rate limited, trying next")
		default:
			allRateLimited = false
			log.Warn().Err(a.Err).Str("provider", cand.Provider).Str("model", cand.Model).Msg("model failed, trying next")
		}
	}

	err := &CascadeError{AllRateLimited: allRateLimited, Attempts: attempts}
	if allRateLimited {
		c.rec.RecordCascade(OutcomeRateLimited)
	} else {
		c.rec.RecordCascade("failed")
	}
	log.Error().Err(err).Bool("all_rate_limited", allRateLimited).Msg("all models failed")
	return nil, err
}

// IsRateLimited reports whether err means every candidate was throttled.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
