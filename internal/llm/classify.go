package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"HypeSentinel/internal/upstream"
)

const maxResponseBytes = 2 << 20

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

// apiError is the error object providers embed in a JSON body.
type apiError struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Status  string          `json:"status"`
	Type    string          `json:"type"`
}

func (e *apiError) rateLimited() bool {
	code := strings.Trim(string(e.Code), `"`)
	return code == "429" ||
		upstream.IsRateLimitMessage(e.Message) ||
		upstream.IsRateLimitMessage(e.Status) ||
		upstream.IsRateLimitMessage(code) ||
		strings.Contains(code, "rate_limit") ||
		code == "insufficient_quota"
}

// envelope is what a provider decodes its body into.
type envelope interface {
	apiErr() *apiError
	text() string
}

// exchange reads resp and classifies it into an attempt, decoding the body into env.
func exchange(resp *http.Response, doErr error, env envelope) Attempt {
	if doErr != nil {
		// The request URL never reaches the error text; attempt errors end up in responses and logs.
		var ue *url.Error
		if errors.As(doErr, &ue) {
			return Attempt{Outcome: OutcomeHardError, Err: fmt.Errorf("transport: %s: %w", strings.ToLower(ue.Op), ue.Err)}
		}
		return Attempt{Outcome: OutcomeHardError, Err: fmt.Errorf("transport: %w", doErr)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Attempt{Outcome: OutcomeHardError, Err: fmt.Errorf("read body: %w", err)}
	}
	return classify(resp.StatusCode, body, env)
}

func classify(status int, body []byte, env envelope) Attempt {
	if jsonErr := json.Unmarshal(body, env); jsonErr != nil {
		if upstream.LooksLikeHTML(body) {
			return Attempt{Outcome: OutcomeRateLimited, Err: errors.New("html error page")}
		}
		if status == http.StatusTooManyRequests {
			return Attempt{Outcome: OutcomeRateLimited, Err: fmt.Errorf("status %d", status)}
		}
		return Attempt{Outcome: OutcomeHardError, Err: fmt.Errorf("unparseable response (status %d)", status)}
	}

	if status == http.StatusTooManyRequests {
		return Attempt{Outcome: OutcomeRateLimited, Err: fmt.Errorf("status %d", status)}
	}
	if e := env.apiErr(); e != nil {
		if e.rateLimited() {
			return Attempt{Outcome: OutcomeRateLimited, Err: errors.New(e.Message)}
		}
		msg := e.Message
		if msg == "" {
			msg = fmt.Sprintf("provider error (status %d)", status)
		}
		return Attempt{Outcome: OutcomeHardError, Err: errors.New(msg)}
	}
	if status < 200 || status >= 300 {
		return Attempt{Outcome: OutcomeHardError, Err: fmt.Errorf("status %d", status)}
	}

	text := env.text()
	if strings.TrimSpace(text) == "" {
		return Attempt{Outcome: OutcomeHardError, Err: ErrEmptyResponse}
	}
	return Attempt{Outcome: OutcomeSuccess, Text: text}
}
