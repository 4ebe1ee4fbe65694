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

// Authority resolves document ids to precomputed PageRank scores from the
// pagerank table.
type Authority struct {
	db *sql.DB
}

// NewAuthority creates an Authority store over the given postgres client.
func NewAuthority(client *postgres.Client) *Authority {
	return &Authority{db: client.DB}
}

// AuthorityFor returns PageRank scores for the ids present in the table.
// Ids without a row are omitted; the pipeline defaults them to 0.
func (s *Authority) AuthorityFor(ctx context.Context, docIDs []int64) (ranking.AuthorityMap, error) {
	out := make(ranking.AuthorityMap, len(docIDs))
	if len(docIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, score FROM pagerank WHERE doc_id = ANY($1)`,
		pq.Array(docIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pagerank: %v", errors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID int64
		var score float64
		if err := rows.Scan(&docID, &score); err != nil {
			return nil, fmt.Errorf("scanning pagerank row: %w", err)
		}
		out[docID] = score
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pagerank rows: %w", err)
	}
	return out, nil
}
