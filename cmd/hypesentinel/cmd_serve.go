package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"HypeSentinel/internal/notifier"
	"HypeSentinel/internal/scheduler"
	"HypeSentinel/internal/server"
)

const janitorInterval = 5 * time.Minute

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the scheduler and the Telegram bot",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Build and send the daily slate immediately")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info().Str("version", version).Msg("HypeSentinel starting")

	a := newApp(cfg)
	defer a.rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.scores.StartJanitor(ctx, janitorInterval)
	a.social.StartJanitor(ctx, janitorInterval)
	a.news.StartJanitor(ctx, janitorInterval)
	a.quotes.StartJanitor(ctx, janitorInterval)

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Info().Msg("telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, a.scores, a.ranker, a.advisor, sender)
	if err := sched.RegisterAll(cfg.Schedule.WarmCron, cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, server.Deps{
		Scorer:    a.scores,
		Ranker:    a.ranker,
		Advisor:   a.advisor,
		Generator: a.assistant,
		Metrics:   promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})

	var wg conc.WaitGroup
	serveErr := make(chan error, 1)
	wg.Go(func() {
		if err := srv.Start(); err != nil {
			serveErr <- err
			stop()
		}
	})
	if tn != nil {
		wg.Go(func() { tn.StartPolling(ctx, sched.HandleCommand) })
		log.Info().Msg("telegram polling started")
	}
	if runOnStart {
		wg.Go(sched.RunDailyNow)
	}

	log.Info().Msg("HypeSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if r := wg.WaitAndRecover(); r != nil {
		log.Error().Str("panic", r.String()).Msg("background task panicked")
	}

	select {
	case err := <-serveErr:
		return err
	default:
	}
	log.Info().Msg("HypeSentinel stopped")
	return nil
}
