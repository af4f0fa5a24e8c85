package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"HypeSentinel/internal/collector"
	"HypeSentinel/internal/config"
	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/llm"
	"HypeSentinel/internal/recorder"
	"HypeSentinel/internal/strategy"
	"HypeSentinel/internal/upstream"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hypesentinel",
	Short: "Social hype scoring and trade ideas for stock tickers",
	Long: `HypeSentinel blends social sentiment and news sentiment into a 0-100 hype
score per ticker, ranks trending tickers by that score, turns scores into
rule-based trade ideas and answers chat questions through a fallback cascade
of language models.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "hypesentinel", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads, validates and applies the logging section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	console := cfg.Log.Format == "console" || (cfg.Log.Format == "auto" && term.IsTerminal(int(os.Stderr.Fd())))
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// app is the wired object graph shared by all commands.
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	rec      recorder.Recorder

	social *collector.StockTwitsFetcher
	news   *collector.AlphaVantageFetcher
	quotes *collector.YahooFetcher

	scores    *hype.Engine
	ranker    *hype.Ranker
	advisor   *strategy.Engine
	assistant *llm.Cascade
}

func newApp(cfg *config.Config) *app {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := recorder.NewPrometheusRecorder(reg)

	client := func(name string) *upstream.Client {
		return upstream.NewClient(upstream.Config{
			Name:    name,
			Timeout: cfg.Upstream.Timeout,
			RPS:     cfg.Upstream.RPS,
			Burst:   cfg.Upstream.Burst,
			Proxy:   cfg.Proxy,
		})
	}

	a := &app{cfg: cfg, registry: reg, rec: rec}
	a.social = collector.NewStockTwitsFetcher(cfg.Upstream.StockTwitsURL, client("stocktwits"), rec)
	a.news = collector.NewAlphaVantageFetcher(cfg.Upstream.AlphaVantageURL, cfg.Upstream.AlphaVantageKey, client("alphavantage"), rec)
	a.quotes = collector.NewYahooFetcher(cfg.Upstream.YahooURL, client("yahoo"), rec)

	a.scores = hype.NewEngine(collector.NewCollector(a.social, a.news, a.quotes), rec)
	a.ranker = hype.NewRanker(a.social, a.scores)
	a.advisor = strategy.NewEngine(a.scores, a.ranker)

	llmClient := upstream.NewHTTPClient(cfg.LLM.Timeout, cfg.Proxy)
	a.assistant = llm.NewCascade(cfg.LLM.Candidates, rec,
		&llm.GeminiProvider{
			APIKey:      cfg.LLM.GeminiKey,
			BaseURL:     cfg.LLM.GeminiURL,
			System:      llm.Persona,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Client:      llmClient,
		},
		&llm.OpenAIProvider{
			APIKey:      cfg.LLM.OpenAIKey,
			BaseURL:     cfg.LLM.OpenAIURL,
			System:      llm.Persona,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Client:      llmClient,
		},
	)

	if cfg.Upstream.AlphaVantageKey == "" {
		log.Warn().Msg("ALPHA_VANTAGE_API_KEY not set, news sentiment disabled")
	}
	if !a.assistant.Configured() {
		log.Warn().Msg("no LLM API key set, /chat will answer with an error")
	}
	return a
}
