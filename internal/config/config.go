package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"HypeSentinel/internal/llm"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Upstream struct {
		StockTwitsURL   string        `yaml:"stocktwits_url"`
		AlphaVantageURL string        `yaml:"alphavantage_url"`
		AlphaVantageKey string        `yaml:"alphavantage_key"`
		YahooURL        string        `yaml:"yahoo_url"`
		Timeout         time.Duration `yaml:"timeout"`
		RPS             float64       `yaml:"rps"`
		Burst           int           `yaml:"burst"`
	} `yaml:"upstream"`
	LLM struct {
		GeminiKey   string          `yaml:"gemini_key"`
		GeminiURL   string          `yaml:"gemini_url"`
		OpenAIKey   string          `yaml:"openai_key"`
		OpenAIURL   string          `yaml:"openai_url"`
		Candidates  []llm.Candidate `yaml:"candidates"`
		Temperature float64         `yaml:"temperature"`
		MaxTokens   int             `yaml:"max_tokens"`
		Timeout     time.Duration   `yaml:"timeout"`
	} `yaml:"llm"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		WarmCron  string `yaml:"warm_cron"`
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultPath is used when neither a flag nor CONFIG_PATH names a file.
const DefaultPath = "config.yaml"

// DefaultTemperature applies when the file leaves llm.temperature unset.
// An explicit 0 is kept.
const DefaultTemperature = 0.9

// Path resolves the config file location.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LLM.Temperature = DefaultTemperature

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Upstream.AlphaVantageKey = v
	}
	if v := os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY"); v != "" {
		cfg.LLM.GeminiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.LLM.OpenAIURL = v
	}
	if v := os.Getenv("LLM_CANDIDATES"); v != "" {
		cands, err := llm.ParseCandidates(v)
		if err != nil {
			return nil, fmt.Errorf("LLM_CANDIDATES: %w", err)
		}
		cfg.LLM.Candidates = cands
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 10 * time.Second
	}
	if cfg.Upstream.RPS == 0 {
		cfg.Upstream.RPS = 5
	}
	if cfg.Upstream.Burst == 0 {
		cfg.Upstream.Burst = 10
	}
	if len(cfg.LLM.Candidates) == 0 {
		cfg.LLM.Candidates = append([]llm.Candidate(nil), llm.DefaultCandidates...)
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 8192
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.Schedule.WarmCron == "" {
		cfg.Schedule.WarmCron = "0 */5 * * * *"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 9 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "auto"
	}

	return cfg, nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks invariants. Credentials are optional: a missing key only disables its feature.
func (c *Config) Validate() error {
	if c.Upstream.RPS < 0 {
		return fmt.Errorf("upstream.rps must not be negative")
	}
	if c.Upstream.Burst < 0 {
		return fmt.Errorf("upstream.burst must not be negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	for i, cand := range c.LLM.Candidates {
		switch cand.Provider {
		case "gemini", "openai":
		default:
			return fmt.Errorf("llm.candidates[%d]: unknown provider %q", i, cand.Provider)
		}
		if strings.TrimSpace(cand.Model) == "" {
			return fmt.Errorf("llm.candidates[%d]: model is required", i)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Schedule.WarmCron); err != nil {
		return fmt.Errorf("schedule.warm_cron: %w", err)
	}
	if _, err := parser.Parse(c.Schedule.DailyCron); err != nil {
		return fmt.Errorf("schedule.daily_cron: %w", err)
	}
	switch c.Log.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("log.format must be auto, console or json")
	}
	return nil
}
