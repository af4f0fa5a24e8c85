package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/model"
	"HypeSentinel/internal/notifier"
	"HypeSentinel/internal/strategy"
)

// Ranker returns the trending ranking.
type Ranker interface {
	Rank(ctx context.Context, limit int) ([]model.TrendingEntry, error)
}

// Slater builds the daily slate.
type Slater interface {
	DailySlate(ctx context.Context, positions []string) (*model.Slate, error)
}

// Sender delivers a formatted message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const jobTimeout = 2 * time.Minute

// Scheduler manages all cron tasks and answers chat commands.
type Scheduler struct {
	Cron   *cron.Cron
	Scorer hype.Scorer
	Ranker Ranker
	Slater Slater
	// Sender may be nil when no chat is configured.
	Sender Sender
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(ctx context.Context, scorer hype.Scorer, ranker Ranker, slater Slater, sender Sender) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		Scorer: scorer,
		Ranker: ranker,
		Slater: slater,
		Sender: sender,
		Ctx:    ctx,
	}
}

// RegisterAll registers the trending warm-up and the daily slate jobs.
func (s *Scheduler) RegisterAll(warmCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(warmCron, s.warmTask); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDailyNow executes the daily task immediately.
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// warmTask re-ranks trending symbols so requests hit a warm score cache.
func (s *Scheduler) warmTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	entries, err := s.Ranker.Rank(ctx, hype.DefaultLimit)
	if err != nil {
		log.Error().Err(err).Msg("warm trending")
		return
	}
	log.Info().Int("tickers", len(entries)).Dur("took", time.Since(start)).Msg("trending cache warmed")
}

func (s *Scheduler) dailyTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, jobTimeout)
	defer cancel()

	log.Info().Msg("running daily slate")
	slate, err := s.Slater.DailySlate(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("daily slate")
		s.trySend(fmt.Sprintf("❌ Daily moves failed: %v", err))
		return
	}
	s.trySend(notifier.FormatSlate(slate))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	// Telegram appends the bot name in groups: /score@HypeBot.
	name, _, _ = strings.Cut(strings.ToLower(name), "@")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/trending":
		entries, err := s.Ranker.Rank(ctx, hype.DefaultLimit)
		if err != nil {
			return fmt.Sprintf("❌ Could not load trending tickers: %v", err)
		}
		return notifier.FormatTrending(entries)
	case "/score":
		if arg == "" {
			return "Usage: /score TICKER"
		}
		score, err := s.Scorer.ComputeScore(ctx, arg, hype.DefaultTimeframe)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatScore(score)
	case "/moves":
		// Chat input is often typed in lower case; tickers only match upper case.
		if strings.ToLower(arg) == arg {
			arg = strings.ToUpper(arg)
		}
		slate, err := s.Slater.DailySlate(ctx, strategy.ParsePositions(arg))
		if err != nil {
			return fmt.Sprintf("❌ Daily moves failed: %v", err)
		}
		return notifier.FormatSlate(slate)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger routes cron's own events through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
