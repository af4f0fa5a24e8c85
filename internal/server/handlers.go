package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/llm"
	"HypeSentinel/internal/strategy"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	score, err := s.deps.Scorer.ComputeScore(r.Context(), mux.Vars(r)["symbol"], timeframe)
	switch {
	case errors.Is(err, hype.ErrInvalidSymbol), errors.Is(err, hype.ErrInvalidTimeframe):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("compute score")
		writeError(w, http.StatusInternalServerError, "Failed to compute hype score")
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := hype.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}
	switch src := q.Get("source"); src {
	case "", "all", "stocktwits":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown source %q", src))
		return
	}

	entries, err := s.deps.Ranker.Rank(r.Context(), hype.ClampLimit(limit))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rank trending")
		writeError(w, http.StatusInternalServerError, "Failed to fetch trending tickers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tickers":     entries,
		"count":       len(entries),
		"lastUpdated": time.Now().UTC(),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	risk, err := strategy.ParseRisk(q.Get("risk"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var maxCapital float64
	if v := q.Get("maxCapital"); v != "" {
		maxCapital, err = strconv.ParseFloat(v, 64)
		if err != nil || maxCapital < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid maxCapital %q", v))
			return
		}
	}

	ticker := strings.TrimSpace(q.Get("ticker"))
	if ticker != "" {
		rec, err := s.deps.Advisor.Suggest(r.Context(), ticker, risk, maxCapital)
		if errors.Is(err, hype.ErrInvalidSymbol) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("ticker", ticker).Msg("suggest")
			writeError(w, http.StatusInternalServerError, "Failed to generate suggestion")
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	rec, err := s.deps.Advisor.TopSuggestion(r.Context(), risk)
	if errors.Is(err, strategy.ErrNoCandidates) {
		writeError(w, http.StatusNotFound, "No trending tickers available for suggestions")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("top suggestion")
		writeError(w, http.StatusInternalServerError, "Failed to generate suggestion")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type movesRequest struct {
	Positions []string `json:"positions"`
	Text      string   `json:"text"`
}

// readPositions accepts {"positions":[...]}, {"text":"..."} or a plain-text body.
func readPositions(r *http.Request) ([]string, error) {
	if r.Method != http.MethodPost || r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var req movesRequest
	if body[0] == '{' && json.Unmarshal(body, &req) == nil {
		if len(req.Positions) > 0 {
			return strategy.NormalizePositions(req.Positions), nil
		}
		return strategy.ParsePositions(req.Text), nil
	}
	return strategy.ParsePositions(string(body)), nil
}

func (s *Server) handleDailyMoves(w http.ResponseWriter, r *http.Request) {
	positions, err := readPositions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "could not read request body"})
		return
	}

	slate, err := s.deps.Advisor.DailySlate(r.Context(), positions)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("daily slate")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to generate daily moves"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": slate})
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

// handleChat answers in the data-stream text framing: 0:"<json string>"\n.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}

	res, err := s.deps.Generator.Generate(r.Context(), req.Messages)
	if err != nil {
		var ce *llm.CascadeError
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "API key not configured")
		case llm.IsRateLimited(err):
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "All models are rate limited - please try again later",
				"rateLimited": true,
			})
		case errors.As(err, &ce):
			writeError(w, http.StatusInternalServerError, "Failed to get response: "+ce.Last())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to get response: "+err.Error())
		}
		return
	}

	zerolog.Ctx(r.Context()).Debug().Str("provider", res.Provider).Str("model", res.Model).Int("attempts", len(res.Attempts)).Msg("chat answered")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "0:")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(res.Text)
}
