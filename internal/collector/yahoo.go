package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"HypeSentinel/internal/cache"
	"HypeSentinel/internal/model"
	"HypeSentinel/internal/recorder"
	"HypeSentinel/internal/upstream"
)

// DefaultYahooURL is the Yahoo Finance chart API root.
const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements QuoteSource using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *upstream.Client
	Recorder  recorder.Recorder
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker

	quotes *cache.Cache[*model.Quote]
}

// NewYahooFetcher creates a quote adapter.
func NewYahooFetcher(baseURL string, client *upstream.Client, rec recorder.Recorder) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &YahooFetcher{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   client,
		Recorder: rec,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"BRK.B":  "BRK-B",
			"BRK.A":  "BRK-A",
		},
		quotes: cache.New[*model.Quote](),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) StartJanitor(ctx context.Context, interval time.Duration) {
	f.quotes.StartJanitor(ctx, interval)
}

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) float64 {
	if i < len(vals) {
		return toFloat(vals[i])
	}
	return 0
}

func (c *yahooChart) bars() []model.OHLCV {
	if len(c.Chart.Result) == 0 || len(c.Chart.Result[0].Indicators.Quote) == 0 {
		return nil
	}
	result := c.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, cl := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: at(quote.Volume, i),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// FetchQuote returns the latest price and the change against the previous close.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	symbol = strings.ToUpper(symbol)
	key := "yahoo:quote:" + symbol
	if v, ok := f.quotes.Get(key); ok {
		f.Recorder.RecordCache("yahoo", true)
		return v, nil
	}
	f.Recorder.RecordCache("yahoo", false)

	u := fmt.Sprintf("%s/%s?interval=1d&range=5d", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))
	var chart yahooChart
	if err := f.Client.GetJSON(ctx, u, &chart); err != nil {
		f.Recorder.RecordFetch(f.Name(), outcome(err))
		log.Warn().Err(err).Str("symbol", symbol).Msg("yahoo quote fetch failed")
		return nil, err
	}
	if chart.Chart.Error != nil {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, upstream.ErrNoData)
	}
	if len(chart.Chart.Result) == 0 {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("yahoo: no data returned: %w", upstream.ErrNoData)
	}

	meta := chart.Chart.Result[0].Meta
	price, prev := meta.RegularMarketPrice, meta.ChartPreviousClose
	if prev == 0 {
		prev = meta.PreviousClose
	}
	if bars := chart.bars(); len(bars) > 0 {
		if price == 0 {
			price = bars[len(bars)-1].Close
		}
		if prev == 0 && len(bars) > 1 {
			prev = bars[len(bars)-2].Close
		}
	}
	if price == 0 {
		f.Recorder.RecordFetch(f.Name(), recorder.FetchNoData)
		return nil, fmt.Errorf("yahoo: no price data: %w", upstream.ErrNoData)
	}

	q := &model.Quote{Symbol: symbol, Price: price}
	if prev > 0 {
		q.Change = price - prev
		q.ChangePercent = q.Change / prev * 100
	}

	f.Recorder.RecordFetch(f.Name(), recorder.FetchOK)
	f.quotes.Set(key, q, cache.TTLQuote)
	return q, nil
}
