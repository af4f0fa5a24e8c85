package hype

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"HypeSentinel/internal/model"
)

func messages(n int) []model.Message {
	out := make([]model.Message, n)
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	return out
}

func TestSocialScore(t *testing.T) {
	tests := []struct {
		name string
		in   *model.SocialSentiment
		want int
	}{
		{"absent", nil, 0},
		{"no messages", &model.SocialSentiment{WatchlistCount: 1000}, 0},
		{"untagged volume only", &model.SocialSentiment{Messages: messages(9)}, 40},
		{"bullish boost", &model.SocialSentiment{Messages: messages(26), Bullish: 8, Bearish: 2}, 60},
		{"bearish damping", &model.SocialSentiment{Messages: messages(9), Bullish: 1, Bearish: 9}, 34},
		{"volume capped", &model.SocialSentiment{Messages: messages(200), Bullish: 5, Bearish: 5}, 80},
		{"watchlist bonus", &model.SocialSentiment{Messages: messages(9), WatchlistCount: 1000}, 49},
		{"watchlist bonus capped", &model.SocialSentiment{Messages: messages(200), Bullish: 10, WatchlistCount: 100000000}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SocialScore(tt.in))
		})
	}
}

func TestNewsScore(t *testing.T) {
	articles := func(n int) []model.NewsArticle { return make([]model.NewsArticle, n) }

	assert.Equal(t, 50, NewsScore(nil))
	assert.Equal(t, 50, NewsScore(&model.NewsSentiment{OverallScore: 90}))
	assert.Equal(t, 70, NewsScore(&model.NewsSentiment{OverallScore: 65, Articles: articles(10)}))
	assert.Equal(t, 62, NewsScore(&model.NewsSentiment{OverallScore: 60, Articles: articles(3)}))
	assert.Equal(t, 100, NewsScore(&model.NewsSentiment{OverallScore: 98, Articles: articles(10)}))
}

func TestCompositeAndRatio(t *testing.T) {
	assert.Equal(t, 64, Composite(60, 70))
	assert.Equal(t, 20, Composite(0, 50))
	assert.Equal(t, 100, Composite(100, 100))

	assert.Equal(t, model.SentimentRatio{Bullish: 50, Bearish: 50}, Ratio(nil))
	assert.Equal(t, model.SentimentRatio{Bullish: 80, Bearish: 20}, Ratio(&model.SocialSentiment{Bullish: 8, Bearish: 2}))
	assert.Equal(t, model.SentimentRatio{Bullish: 67, Bearish: 33}, Ratio(&model.SocialSentiment{Bullish: 2, Bearish: 1}))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t,
		"ABCD has moderate social interest. Sentiment is holding steady. Strong bullish sentiment at 80%.",
		Summarize("ABCD", 64, model.MomentumStable, 80))
	assert.Equal(t,
		"GME is on fire right now. Interest is picking up fast. Leaning bullish at 60%. Caution: Could be approaching a local top.",
		Summarize("GME", 93, model.MomentumAccelerating, 60))
	assert.Equal(t,
		"XYZ is relatively quiet on social media. Hype appears to be cooling off. Bearish undertones with only 40% bullish.",
		Summarize("XYZ", 12, model.MomentumDecelerating, 40))
	assert.Equal(t,
		"TSLA is generating serious buzz. Sentiment is holding steady. Mixed sentiment at 50% bullish.",
		Summarize("TSLA", 70, model.MomentumStable, 50))
}
