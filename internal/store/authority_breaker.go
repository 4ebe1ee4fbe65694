package store

import (
	"context"

	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/pkg/metrics"
	"github.com/wikirank/wikirank/pkg/resilience"
)

// BreakerAuthority wraps an AuthorityStore in a circuit breaker. When the
// pagerank table is unreachable the breaker trips after a few consecutive
// failures, and queries fail fast into the pipeline's zero-authority
// fallback instead of waiting out store timeouts.
type BreakerAuthority struct {
	inner   ranking.AuthorityStore
	breaker *resilience.CircuitBreaker
	metrics *metrics.Metrics
}

// NewBreakerAuthority wraps inner with a circuit breaker. metrics may be
// nil.
func NewBreakerAuthority(inner ranking.AuthorityStore, cfg resilience.CircuitBreakerConfig, m *metrics.Metrics) *BreakerAuthority {
	return &BreakerAuthority{
		inner:   inner,
		breaker: resilience.NewCircuitBreaker("authority-store", cfg),
		metrics: m,
	}
}

// AuthorityFor delegates through the breaker.
func (s *BreakerAuthority) AuthorityFor(ctx context.Context, docIDs []int64) (ranking.AuthorityMap, error) {
	var out ranking.AuthorityMap
	err := s.breaker.Execute(func() error {
		var innerErr error
		out, innerErr = s.inner.AuthorityFor(ctx, docIDs)
		return innerErr
	})
	if s.metrics != nil {
		s.metrics.CircuitBreakerState.WithLabelValues("authority-store").Set(float64(s.breaker.GetState()))
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
