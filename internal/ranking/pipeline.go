package ranking

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/wikirank/wikirank/pkg/errors"
)

// Tokenizer converts raw query text into normalized, stopword-filtered
// terms. Empty input yields an empty slice.
type Tokenizer interface {
	Tokenize(text string) []string
}

// IndexStore resolves terms against the inverted index. Implementations
// must return an entry (possibly an empty list or 0) for every requested
// term, never omit a key.
type IndexStore interface {
	PostingsFor(ctx context.Context, terms []string) (map[string]PostingList, error)
	DocumentFrequency(ctx context.Context, terms []string) (map[string]int, error)
	CorpusSize(ctx context.Context) (int, error)
}

// AuthorityStore resolves document ids to precomputed authority (PageRank)
// scores. Ids absent from the result default to 0 at the caller.
type AuthorityStore interface {
	AuthorityFor(ctx context.Context, docIDs []int64) (AuthorityMap, error)
}

// DocTitle pairs a document id with its human-readable title.
type DocTitle struct {
	DocID int64
	Title string
}

// MetadataStore resolves document ids to titles, preserving input order.
// Unresolved ids map to the empty string.
type MetadataStore interface {
	TitlesFor(ctx context.Context, docIDs []int64) ([]DocTitle, error)
}

// Options configures a Pipeline.
type Options struct {
	Scheme          Scheme
	TextWeight      float64
	AuthorityWeight float64
	// DefaultK is applied when Rank is called with k <= 0.
	DefaultK int
	// ParallelThreshold is the candidate-set size above which aggregation
	// fans out across ParallelWorkers goroutines. Zero disables fan-out.
	ParallelThreshold int
	ParallelWorkers   int
}

// Result is the outcome of one ranking request.
type Result struct {
	Query             string         `json:"query"`
	Terms             []string       `json:"terms"`
	Scheme            string         `json:"scheme"`
	Candidates        int            `json:"candidates"`
	AuthorityFallback bool           `json:"authority_fallback,omitempty"`
	Results           []RankedResult `json:"results"`
}

// Pipeline orchestrates one ranking request end to end: tokenize, fetch
// postings/df/N, weight, aggregate, fetch authority, blend, select, join
// titles. It holds no per-request state; a single Pipeline serves
// concurrent requests.
type Pipeline struct {
	tokenizer Tokenizer
	index     IndexStore
	authority AuthorityStore
	metadata  MetadataStore
	opts      Options
	logger    *slog.Logger
}

// NewPipeline builds a Pipeline. The tokenizer and index store are
// mandatory; authority and metadata stores may be nil, in which case those
// stages are skipped (authority defaults to 0 for every candidate).
func NewPipeline(tok Tokenizer, index IndexStore, authority AuthorityStore, metadata MetadataStore, opts Options) (*Pipeline, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: nil tokenizer", errors.ErrInvalidQuery)
	}
	if index == nil {
		return nil, fmt.Errorf("%w: nil index store", errors.ErrInvalidQuery)
	}
	if opts.DefaultK <= 0 {
		opts.DefaultK = 10
	}
	if opts.ParallelWorkers <= 0 {
		opts.ParallelWorkers = 8
	}
	return &Pipeline{
		tokenizer: tok,
		index:     index,
		authority: authority,
		metadata:  metadata,
		opts:      opts,
		logger:    slog.Default().With("component", "ranking-pipeline"),
	}, nil
}

// Rank executes the full pipeline for query and returns the top k results.
// k <= 0 selects the configured default. A query that tokenizes to nothing
// returns an empty result, not an error. Authority-store failure degrades
// to text-only ranking and is reported via Result.AuthorityFallback.
func (p *Pipeline) Rank(ctx context.Context, query string, k int) (*Result, error) {
	if k <= 0 {
		k = p.opts.DefaultK
	}

	tokens := p.tokenizer.Tokenize(query)
	result := &Result{
		Query:   query,
		Terms:   tokens,
		Scheme:  p.opts.Scheme.String(),
		Results: []RankedResult{},
	}
	if len(tokens) == 0 {
		return result, nil
	}

	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}

	var (
		postings map[string]PostingList
		df       map[string]int
		n        int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		postings, err = p.index.PostingsFor(gctx, terms)
		if err != nil {
			return fmt.Errorf("fetching postings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		df, err = p.index.DocumentFrequency(gctx, terms)
		if err != nil {
			return fmt.Errorf("fetching document frequencies: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		n, err = p.index.CorpusSize(gctx)
		if err != nil {
			return fmt.Errorf("fetching corpus size: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	textScores := p.textScores(counts, postings, df, n)
	result.Candidates = len(textScores)
	if len(textScores) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docIDs := make([]int64, 0, len(textScores))
	for docID := range textScores {
		docIDs = append(docIDs, docID)
	}

	authority := AuthorityMap{}
	if p.authority != nil && p.opts.AuthorityWeight != 0 {
		fetched, err := p.authority.AuthorityFor(ctx, docIDs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Degrade to text-only ranking rather than failing the query.
			p.logger.Warn("authority fetch failed, ranking on text relevance only",
				"candidates", len(docIDs), "error", err)
			result.AuthorityFallback = true
		} else {
			authority = fetched
		}
	}

	blended := BlendScores(textScores, authority, p.opts.TextWeight, p.opts.AuthorityWeight)
	top := TopK(blended, k)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Results = p.joinTitles(ctx, top)
	return result, nil
}

// textScores runs the scheme-specific weighting and aggregation stages.
func (p *Pipeline) textScores(counts map[string]int, postings map[string]PostingList, df map[string]int, n int) ScoreMap {
	switch p.opts.Scheme {
	case SchemeBM25:
		docVecs := ComputeBM25(postings, df, n)
		weights := QueryBM25Weights(counts)
		return p.aggregate(weights, docVecs, AccumulateScores)
	default:
		docVecs := ComputeTFIDF(postings, df, n)
		weights := QueryTFIDF(counts, df, n)
		return p.aggregate(weights, docVecs, CosineScores)
	}
}

// aggregate applies fn to the document vectors, fanning out across workers
// when the candidate set is large. Per-document scores are independent;
// the merge after Wait is the synchronization barrier required before
// blending reads global min/max.
func (p *Pipeline) aggregate(weights TermVector, docVecs DocVectors, fn func(TermVector, DocVectors) ScoreMap) ScoreMap {
	if p.opts.ParallelThreshold <= 0 || len(docVecs) < p.opts.ParallelThreshold {
		return fn(weights, docVecs)
	}

	chunks := make([]DocVectors, p.opts.ParallelWorkers)
	for i := range chunks {
		chunks[i] = make(DocVectors)
	}
	i := 0
	for docID, vec := range docVecs {
		chunks[i%len(chunks)][docID] = vec
		i++
	}

	partials := make([]ScoreMap, len(chunks))
	var g errgroup.Group
	g.SetLimit(p.opts.ParallelWorkers)
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		g.Go(func() error {
			partials[idx] = fn(weights, chunk)
			return nil
		})
	}
	// Workers return no errors; Wait is purely the barrier.
	_ = g.Wait()

	merged := make(ScoreMap, len(docVecs))
	for _, part := range partials {
		for docID, score := range part {
			merged[docID] = score
		}
	}
	return merged
}

// joinTitles resolves titles for the ranked documents. Metadata failures
// are absorbed: the ranking is returned with empty titles.
func (p *Pipeline) joinTitles(ctx context.Context, top []ScoredDoc) []RankedResult {
	out := make([]RankedResult, len(top))
	for i, doc := range top {
		out[i] = RankedResult{DocID: doc.DocID, Score: doc.Score}
	}
	if p.metadata == nil || len(top) == 0 {
		return out
	}
	docIDs := make([]int64, len(top))
	for i, doc := range top {
		docIDs[i] = doc.DocID
	}
	titles, err := p.metadata.TitlesFor(ctx, docIDs)
	if err != nil || len(titles) != len(top) {
		p.logger.Warn("title join failed, returning ids only", "error", err)
		return out
	}
	for i, t := range titles {
		out[i].Title = t.Title
	}
	return out
}
