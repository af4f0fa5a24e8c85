package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultGeminiURL is the Generative Language API root.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider talks to the generateContent endpoint.
type GeminiProvider struct {
	APIKey      string
	BaseURL     string
	System      string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

func (g *GeminiProvider) Name() string     { return "gemini" }
func (g *GeminiProvider) Configured() bool { return g.APIKey != "" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

func (r *geminiResponse) apiErr() *apiError { return r.Error }

func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// Complete sends the conversation to model. Assistant turns map to the "model" role.
func (g *GeminiProvider) Complete(ctx context.Context, model string, conversation []Message) Attempt {
	req := geminiRequest{Contents: make([]geminiContent, 0, len(conversation))}
	for _, m := range conversation {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		req.Contents = append(req.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	if g.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: g.System}}}
	}
	req.GenerationConfig.Temperature = g.Temperature
	req.GenerationConfig.MaxOutputTokens = g.MaxTokens

	body, err := json.Marshal(req)
	if err != nil {
		return Attempt{Provider: g.Name(), Model: model, Outcome: OutcomeHardError, Err: err}
	}

	base := g.BaseURL
	if base == "" {
		base = DefaultGeminiURL
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(base, "/"), url.PathEscape(model))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Attempt{Provider: g.Name(), Model: model, Outcome: OutcomeHardError, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := httpClient(g.Client).Do(httpReq)
	a := exchange(resp, err, &geminiResponse{})
	a.Provider, a.Model = g.Name(), model
	return a
}
