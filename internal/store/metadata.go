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

// Metadata resolves document ids to titles from the documents table.
type Metadata struct {
	db *sql.DB
}

// NewMetadata creates a Metadata store over the given postgres client.
func NewMetadata(client *postgres.Client) *Metadata {
	return &Metadata{db: client.DB}
}

// TitlesFor returns a (doc id, title) pair for every requested id, in input
// order. Unresolved ids get an empty title.
func (s *Metadata) TitlesFor(ctx context.Context, docIDs []int64) ([]ranking.DocTitle, error) {
	out := make([]ranking.DocTitle, len(docIDs))
	for i, id := range docIDs {
		out[i] = ranking.DocTitle{DocID: id}
	}
	if len(docIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, title FROM documents WHERE doc_id = ANY($1)`,
		pq.Array(docIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying titles: %v", errors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	titles := make(map[int64]string, len(docIDs))
	for rows.Next() {
		var docID int64
		var title string
		if err := rows.Scan(&docID, &title); err != nil {
			return nil, fmt.Errorf("scanning title row: %w", err)
		}
		titles[docID] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating title rows: %w", err)
	}

	for i := range out {
		out[i].Title = titles[out[i].DocID]
	}
	return out, nil
}
