// Package store provides the postgres-backed index, authority, and metadata
// stores consumed by the ranking pipeline. All reads are per-request; the
// long-lived state is the connection pool.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/pkg/errors"
	"github.com/wikirank/wikirank/pkg/postgres"
)

// Index resolves terms to posting lists and document frequencies from the
// postings and terms tables populated by the offline index build.
type Index struct {
	db *sql.DB
}

// NewIndex creates an Index over the given postgres client.
func NewIndex(client *postgres.Client) *Index {
	return &Index{db: client.DB}
}

// PostingsFor returns the posting list for every requested term. Unknown
// terms map to an empty list, never a missing key.
func (s *Index) PostingsFor(ctx context.Context, terms []string) (map[string]ranking.PostingList, error) {
	out := make(map[string]ranking.PostingList, len(terms))
	for _, t := range terms {
		out[t] = ranking.PostingList{}
	}
	if len(terms) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT term, doc_id, frequency FROM postings WHERE term = ANY($1)`,
		pq.Array(terms),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying postings: %v", errors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var term string
		var p ranking.Posting
		if err := rows.Scan(&term, &p.DocID, &p.Frequency); err != nil {
			return nil, fmt.Errorf("scanning posting: %w", err)
		}
		out[term] = append(out[term], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return out, nil
}

// DocumentFrequency returns df for every requested term, 0 for unknown
// terms.
func (s *Index) DocumentFrequency(ctx context.Context, terms []string) (map[string]int, error) {
	out := make(map[string]int, len(terms))
	for _, t := range terms {
		out[t] = 0
	}
	if len(terms) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT term, df FROM terms WHERE term = ANY($1)`,
		pq.Array(terms),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying document frequencies: %v", errors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var term string
		var df int
		if err := rows.Scan(&term, &df); err != nil {
			return nil, fmt.Errorf("scanning document frequency: %w", err)
		}
		out[term] = df
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document frequencies: %w", err)
	}
	return out, nil
}

// CorpusSize returns the total document count recorded by the index build.
func (s *Index) CorpusSize(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT total_docs FROM corpus_stats LIMIT 1`).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: querying corpus size: %v", errors.ErrStoreUnavailable, err)
	}
	return n, nil
}
