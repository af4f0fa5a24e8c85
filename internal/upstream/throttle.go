package upstream

import (
	"bytes"
	"strings"
)

// rateLimitMarkers are message fragments providers use when a quota is hit.
var rateLimitMarkers = []string{
	"quota",
	"resource_exhausted",
	"rate limit",
	"too many requests",
	"api call frequency",
}

// LooksLikeHTML reports whether body is an HTML document rather than a
// structured payload. Several providers serve an HTML error page when throttling.
func LooksLikeHTML(body []byte) bool {
	head := bytes.TrimSpace(body)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<!doctype")) || bytes.Contains(lower, []byte("<html"))
}

// IsRateLimitMessage reports whether a provider error message signals throttling.
func IsRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, m := range rateLimitMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
