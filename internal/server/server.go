package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/llm"
	"HypeSentinel/internal/model"
)

// Scorer computes the composite score for one symbol.
type Scorer interface {
	ComputeScore(ctx context.Context, symbol, timeframe string) (*model.CompositeScore, error)
}

// Ranker returns the trending ranking.
type Ranker interface {
	Rank(ctx context.Context, limit int) ([]model.TrendingEntry, error)
}

// Advisor produces recommendations and the daily slate.
type Advisor interface {
	Suggest(ctx context.Context, symbol string, risk model.RiskTolerance, maxCapital float64) (model.Recommendation, error)
	TopSuggestion(ctx context.Context, risk model.RiskTolerance) (model.Recommendation, error)
	DailySlate(ctx context.Context, positions []string) (*model.Slate, error)
}

// Generator answers a chat conversation.
type Generator interface {
	Generate(ctx context.Context, conversation []llm.Message) (*llm.Result, error)
}

// Deps are the services the HTTP surface exposes. Metrics may be nil.
type Deps struct {
	Scorer    Scorer
	Ranker    Ranker
	Advisor   Advisor
	Generator Generator
	Metrics   http.Handler
}

// Options tune the underlying http.Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	deps    Deps
	router  *mux.Router
	handler http.Handler
	server  *http.Server
	started time.Time
}

// New builds the router and wraps it in the middleware chain.
func New(opts Options, deps Deps) *Server {
	s := &Server{deps: deps, router: mux.NewRouter(), started: time.Now()}
	s.setupRoutes()

	s.handler = requestIDMiddleware(loggingMiddleware(recoverMiddleware(corsMiddleware(s.router))))
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/symbol/{symbol}", s.handleScore).Methods(http.MethodGet)
	s.router.HandleFunc("/hype/{symbol}", s.handleScore).Methods(http.MethodGet)
	s.router.HandleFunc("/trending", s.handleTrending).Methods(http.MethodGet)
	s.router.HandleFunc("/suggest", s.handleSuggest).Methods(http.MethodGet)
	s.router.HandleFunc("/daily-moves", s.handleDailyMoves).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	if s.deps.Metrics != nil {
		s.router.Handle("/metrics", s.deps.Metrics).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
