package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// DefaultOpenAIURL is the OpenAI API root. Any compatible endpoint works.
const DefaultOpenAIURL = "https://api.openai.com/v1"

// OpenAIProvider talks to an OpenAI-compatible chat/completions endpoint.
type OpenAIProvider struct {
	APIKey      string
	BaseURL     string
	System      string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

func (o *OpenAIProvider) Name() string     { return "openai" }
func (o *OpenAIProvider) Configured() bool { return o.APIKey != "" }

type openaiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

func (r *openaiResponse) apiErr() *apiError { return r.Error }

func (r *openaiResponse) text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Complete sends the conversation to model with the persona as the leading system message.
func (o *OpenAIProvider) Complete(ctx context.Context, model string, conversation []Message) Attempt {
	msgs := make([]Message, 0, len(conversation)+1)
	if o.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: o.System})
	}
	for _, m := range conversation {
		role := m.Role
		if role != "assistant" && role != "system" {
			role = "user"
		}
		msgs = append(msgs, Message{Role: role, Content: m.Content})
	}

	body, err := json.Marshal(openaiRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: o.Temperature,
		MaxTokens:   o.MaxTokens,
	})
	if err != nil {
		return Attempt{Provider: o.Name(), Model: model, Outcome: OutcomeHardError, Err: err}
	}

	base := o.BaseURL
	if base == "" {
		base = DefaultOpenAIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Attempt{Provider: o.Name(), Model: model, Outcome: OutcomeHardError, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := httpClient(o.Client).Do(req)
	a := exchange(resp, err, &openaiResponse{})
	a.Provider, a.Model = o.Name(), model
	return a
}
