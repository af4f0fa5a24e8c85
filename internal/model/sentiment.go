package model

// Message is one post from the social stream.
type Message struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
	Sentiment string `json:"sentiment,omitempty"` // "bullish", "bearish" or empty
	Username  string `json:"username"`
	Followers int    `json:"followers"`
}

// SocialSentiment is the normalized social-stream reading for a symbol.
type SocialSentiment struct {
	Symbol         string
	Bullish        int
	Bearish        int
	Messages       []Message
	WatchlistCount int
}

// Tally returns the number of messages carrying an explicit sentiment.
func (s *SocialSentiment) Tally() int {
	if s == nil {
		return 0
	}
	return s.Bullish + s.Bearish
}

// TrendingSymbol is one entry of the social trending list.
type TrendingSymbol struct {
	Symbol         string
	Title          string
	WatchlistCount int
}

// NewsArticle is a single scored article.
type NewsArticle struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Source         string  `json:"source"`
	PublishedAt    string  `json:"publishedAt"`
	SentimentScore int     `json:"sentimentScore"`
	SentimentLabel string  `json:"sentimentLabel"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// NewsSentiment is the normalized news reading. OverallScore is 0-100.
type NewsSentiment struct {
	Symbol       string
	OverallScore int
	Articles     []NewsArticle
}
