package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"HypeSentinel/internal/hype"
	"HypeSentinel/internal/model"
)

var (
	outputJSON     bool
	scoreTimeframe string
	trendingLimit  int
)

var scoreCmd = &cobra.Command{
	Use:   "score SYMBOL",
	Short: "Compute the hype score of one ticker",
	Example: `  hypesentinel score GME
  hypesentinel score aapl --timeframe 4h --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Rank trending tickers by hype score",
	RunE:  runTrending,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreTimeframe, "timeframe", hype.DefaultTimeframe, "Timeframe: 1h, 4h, 24h or 7d")
	trendingCmd.Flags().IntVar(&trendingLimit, "limit", hype.DefaultLimit, "Number of tickers to show")
	for _, c := range []*cobra.Command{scoreCmd, trendingCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "Print JSON instead of a table")
		rootCmd.AddCommand(c)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*time.Minute)
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	score, err := newApp(cfg).scores.ComputeScore(ctx, args[0], scoreTimeframe)
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), score)
	}
	printScore(cmd.OutOrStdout(), score)
	return nil
}

func runTrending(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	entries, err := newApp(cfg).ranker.Rank(ctx, hype.ClampLimit(trendingLimit))
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	printTrending(cmd.OutOrStdout(), entries)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printScore(w io.Writer, s *model.CompositeScore) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Ticker\t%s\n", s.Symbol)
	fmt.Fprintf(tw, "Hype score\t%d (%s)\n", s.HypeScore, hype.Level(s.HypeScore))
	fmt.Fprintf(tw, "Social / news\t%d / %d\n", s.Breakdown.Social, s.Breakdown.News)
	fmt.Fprintf(tw, "Mentions\t%s\n", humanize.Comma(int64(s.MentionCount)))
	fmt.Fprintf(tw, "Sentiment\t%d%% bullish / %d%% bearish\n", s.SentimentRatio.Bullish, s.SentimentRatio.Bearish)
	fmt.Fprintf(tw, "Momentum\t%s\n", s.Momentum)
	if s.CurrentPrice != nil {
		fmt.Fprintf(tw, "Price\t$%s\n", humanize.CommafWithDigits(*s.CurrentPrice, 2))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\n%s\n", s.Summary)
}

func printTrending(w io.Writer, entries []model.TrendingEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No trending tickers available.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTICKER\tHYPE\tMOMENTUM\tBULLISH\tMENTIONS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d%%\t%s\n", e.Rank, e.Symbol, e.HypeScore, e.Momentum, e.BullishPercent, humanize.Comma(int64(e.MentionCount)))
	}
	_ = tw.Flush()
}
