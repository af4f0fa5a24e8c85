package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRateLimited means every candidate was throttled.
	ErrRateLimited = errors.New("all models are rate limited")
	// ErrGenerationFailed means the candidates were exhausted and at least one failed hard.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrEmptyResponse means a provider answered without any generated text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrNotConfigured means no candidate has credentials.
	ErrNotConfigured = errors.New("API key not configured")
)

// Attempt outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeHardError   = "hard_error"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Candidate is one entry of the ordered fallback list.
type Candidate struct {
	Provider string `yaml:"provider" json:"provider"`
	Model    string `yaml:"model" json:"model"`
}

func (c Candidate) String() string { return c.Provider + "/" + c.Model }

// ParseCandidates reads a comma separated "provider:model" list.
func ParseCandidates(s string) ([]Candidate, error) {
	var out []Candidate
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		provider, model, ok := strings.Cut(part, ":")
		if !ok || provider == "" || model == "" {
			return nil, fmt.Errorf("invalid candidate %q, want provider:model", part)
		}
		out = append(out, Candidate{Provider: strings.TrimSpace(provider), Model: strings.TrimSpace(model)})
	}
	return out, nil
}

// Attempt records how one candidate fared.
type Attempt struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Outcome  string `json:"outcome"`
	Text     string `json:"-"`
	Err      error  `json:"-"`
}

// Provider performs a single generation exchange and classifies the result.
type Provider interface {
	Name() string
	Configured() bool
	Complete(ctx context.Context, model string, conversation []Message) Attempt
}
