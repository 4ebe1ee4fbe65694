// Package ranking implements the ranking engine: TF-IDF and BM25 term
// weighting, cosine and dot-product score aggregation, PageRank blending,
// and top-k selection.
package ranking

import (
	"fmt"
	"strings"

	"github.com/wikirank/wikirank/pkg/errors"
)

// Posting records one term occurrence: the containing document and the
// term's frequency within it.
type Posting struct {
	DocID     int64
	Frequency int
}

// PostingList is the set of postings for a single term. Order is
// irrelevant; document ids are unique within a list.
type PostingList []Posting

// TermVector maps term -> weight. It serves both as a query weight vector
// and as a document's per-term partial scores.
type TermVector map[string]float64

// DocVectors maps document id -> per-term weights.
type DocVectors map[int64]TermVector

// ScoreMap maps document id -> score.
type ScoreMap map[int64]float64

// AuthorityMap maps document id -> global authority (PageRank) score.
// Missing entries mean "no signal" and default to 0.
type AuthorityMap map[int64]float64

// ScoredDoc is a document id with its final blended score.
type ScoredDoc struct {
	DocID int64   `json:"doc_id"`
	Score float64 `json:"score"`
}

// RankedResult is a ScoredDoc joined with its title.
type RankedResult struct {
	DocID int64   `json:"doc_id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Scheme selects the text-relevance scoring path.
type Scheme int

const (
	// SchemeTFIDF scores documents with TF-IDF weights and cosine similarity.
	SchemeTFIDF Scheme = iota
	// SchemeBM25 scores documents with BM25 partial scores and dot-product
	// accumulation.
	SchemeBM25
)

func (s Scheme) String() string {
	switch s {
	case SchemeTFIDF:
		return "tfidf"
	case SchemeBM25:
		return "bm25"
	default:
		return "unknown"
	}
}

// ParseScheme converts a config/query string into a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(s) {
	case "tfidf", "tf-idf", "cosine":
		return SchemeTFIDF, nil
	case "bm25":
		return SchemeBM25, nil
	default:
		return 0, fmt.Errorf("%w: %q", errors.ErrUnknownScheme, s)
	}
}
