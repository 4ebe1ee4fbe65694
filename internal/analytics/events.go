// Package analytics collects query events and publishes them to Kafka for
// offline analysis.
package analytics

import "time"

// QueryEvent describes one completed search request.
type QueryEvent struct {
	Query             string    `json:"query"`
	Scheme            string    `json:"scheme"`
	Terms             []string  `json:"terms"`
	Candidates        int       `json:"candidates"`
	Returned          int       `json:"returned"`
	CacheHit          bool      `json:"cache_hit"`
	AuthorityFallback bool      `json:"authority_fallback"`
	LatencyMs         int64     `json:"latency_ms"`
	Timestamp         time.Time `json:"timestamp"`
	RequestID         string    `json:"request_id,omitempty"`
}
