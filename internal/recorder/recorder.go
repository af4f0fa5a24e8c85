package recorder

import "HypeSentinel/internal/model"

// Fetch outcomes reported by source adapters.
const (
	FetchOK          = "ok"
	FetchNoData      = "no_data"
	FetchRateLimited = "rate_limited"
)

// Recorder receives operational events for analysis.
type Recorder interface {
	RecordCache(namespace string, hit bool)
	RecordFetch(provider, outcome string)
	RecordScore(score *model.CompositeScore)
	RecordAttempt(provider, modelName, outcome string)
	RecordCascade(outcome string)
	Close() error
}
