package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"

	"HypeSentinel/internal/model"
)

var momentumIcon = map[model.Momentum]string{
	model.MomentumAccelerating: "🚀",
	model.MomentumStable:       "➡️",
	model.MomentumDecelerating: "📉",
}

var categoryTitle = map[model.PlayCategory]string{
	model.PlayBestBet:   "🎯 Best bet",
	model.PlayDefensive: "🛡 Defensive",
	model.PlayDegen:     "🎰 Degen",
}

// FormatScore formats a composite score for a chat reply.
func FormatScore(s *model.CompositeScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>$%s</b> hype score: <b>%d</b>/100\n\n", momentumIcon[s.Momentum], html.EscapeString(s.Symbol), s.HypeScore)
	fmt.Fprintf(&b, "Social: %d | News: %d\n", s.Breakdown.Social, s.Breakdown.News)
	fmt.Fprintf(&b, "Mentions: %s | Bullish %d%% / Bearish %d%%\n", humanize.Comma(int64(s.MentionCount)), s.SentimentRatio.Bullish, s.SentimentRatio.Bearish)
	if s.CurrentPrice != nil {
		fmt.Fprintf(&b, "Price: $%s", humanize.CommafWithDigits(*s.CurrentPrice, 2))
		if s.PriceChangePercent != nil {
			fmt.Fprintf(&b, " (%+.2f%%)", *s.PriceChangePercent)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(s.Summary))
	return b.String()
}

// FormatTrending formats the trending ranking.
func FormatTrending(entries []model.TrendingEntry) string {
	if len(entries) == 0 {
		return "No trending tickers right now. Try again in a few minutes."
	}
	var b strings.Builder
	b.WriteString("🔥 <b>Trending by hype</b>\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. <b>$%s</b> %d %s bullish %d%% (%s mentions)\n",
			e.Rank, html.EscapeString(e.Symbol), e.HypeScore, momentumIcon[e.Momentum], e.BullishPercent, humanize.Comma(int64(e.MentionCount)))
	}
	return b.String()
}

// FormatSlate formats the daily slate.
func FormatSlate(s *model.Slate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Daily moves</b> | %s\n\n", s.GeneratedAt.Format("2006-01-02"))
	for _, m := range s.Recommendations {
		title := categoryTitle[m.Category]
		if title == "" {
			title = "📌 " + string(m.Category)
		}
		fmt.Fprintf(&b, "%s: <b>$%s</b> (%d)\n", title, html.EscapeString(m.Symbol), m.HypeScore)
		fmt.Fprintf(&b, "%s\n", html.EscapeString(m.Strategy))
		if m.OptionsDetails != nil {
			fmt.Fprintf(&b, "Strike %s, expiry %s\n", html.EscapeString(m.OptionsDetails.SuggestedStrike), html.EscapeString(m.OptionsDetails.SuggestedExpiry))
		}
		fmt.Fprintf(&b, "<i>%s</i>\n\n", html.EscapeString(m.Risk))
	}
	if len(s.Recommendations) == 0 {
		b.WriteString("Nothing worth a play today.\n\n")
	}
	fmt.Fprintf(&b, "🫏 %s", html.EscapeString(s.DonkSuggestion))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /trending - top tickers by hype\n" +
		"• /score TICKER - hype score for one ticker\n" +
		"• /moves [positions] - today's slate\n" +
		"• /help - this message"
}
