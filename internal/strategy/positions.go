package strategy

import (
	"regexp"
	"strings"
)

var tickerToken = regexp.MustCompile(`\$?\b[A-Z]{1,5}\b`)

// blacklist holds uppercase words that look like tickers but are not.
var blacklist = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		I A CEO IPO ETF DD YOLO FOMO IMO ATH EOD PM AM US UK GDP SEC FDA EPS PE PS PB
		ROI ROE GAAP YOY QOQ MOM WSB NYSE SP DOW CPI PPI NFP FOMC FED IV DTE OTM ITM ATM
		LEAPS CSP CC TA FA MA RSI MACD EMA SMA VWAP LOL WTF OMG FYI TBH IIRC AFAIK TL DR
		AT AND OR THE OF IN ON TO FOR WITH MY SOME ALL LONG SHORT SHARE SHARES CALLS PUTS
		BUY SELL HOLD USD`) {
		blacklist[w] = true
	}
}

// ParsePositions extracts ticker-like tokens from free text such as
// "100 AAPL at $180, long MSFT". Results are deduplicated in first-seen order.
func ParsePositions(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tickerToken.FindAllString(text, -1) {
		sym := strings.TrimPrefix(tok, "$")
		if blacklist[sym] || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// NormalizePositions upper-cases and deduplicates an explicit position list.
func NormalizePositions(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range in {
		sym := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "$")))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
