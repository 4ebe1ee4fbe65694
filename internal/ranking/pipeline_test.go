package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeTokenizer struct{}

func (fakeTokenizer) Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

type fakeIndex struct {
	postings map[string]PostingList
	df       map[string]int
	n        int
	err      error
}

func (f *fakeIndex) PostingsFor(ctx context.Context, terms []string) (map[string]PostingList, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]PostingList, len(terms))
	for _, t := range terms {
		out[t] = f.postings[t]
	}
	return out, nil
}

func (f *fakeIndex) DocumentFrequency(ctx context.Context, terms []string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int, len(terms))
	for _, t := range terms {
		out[t] = f.df[t]
	}
	return out, nil
}

func (f *fakeIndex) CorpusSize(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.n, nil
}

type fakeAuthority struct {
	scores AuthorityMap
	err    error
	calls  int
}

func (f *fakeAuthority) AuthorityFor(ctx context.Context, docIDs []int64) (AuthorityMap, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(AuthorityMap, len(docIDs))
	for _, id := range docIDs {
		if s, ok := f.scores[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeMetadata struct {
	titles map[int64]string
	err    error
}

func (f *fakeMetadata) TitlesFor(ctx context.Context, docIDs []int64) ([]DocTitle, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]DocTitle, len(docIDs))
	for i, id := range docIDs {
		out[i] = DocTitle{DocID: id, Title: f.titles[id]}
	}
	return out, nil
}

func scenarioIndex() *fakeIndex {
	return &fakeIndex{
		postings: map[string]PostingList{
			"x": {{DocID: 1, Frequency: 3}, {DocID: 2, Frequency: 1}},
		},
		df: map[string]int{"x": 2},
		n:  10,
	}
}

func newTestPipeline(t *testing.T, index IndexStore, authority AuthorityStore, metadata MetadataStore, opts Options) *Pipeline {
	t.Helper()
	p, err := NewPipeline(fakeTokenizer{}, index, authority, metadata, opts)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestPipelineTFIDFScenario(t *testing.T) {
	// Query "x x" against a single shared term: both docs have cosine 1.0,
	// so the tie is broken by ascending doc id.
	p := newTestPipeline(t, scenarioIndex(), nil, &fakeMetadata{titles: map[int64]string{1: "Alpha", 2: "Beta"}}, Options{
		Scheme:     SchemeTFIDF,
		TextWeight: 1.0,
	})

	result, err := p.Rank(context.Background(), "x x", 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if result.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", result.Candidates)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0].DocID != 1 || result.Results[1].DocID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", result.Results[0].DocID, result.Results[1].DocID)
	}
	if result.Results[0].Title != "Alpha" || result.Results[1].Title != "Beta" {
		t.Errorf("titles = [%q %q], want [Alpha Beta]", result.Results[0].Title, result.Results[1].Title)
	}
}

func TestPipelineEmptyQuery(t *testing.T) {
	p := newTestPipeline(t, scenarioIndex(), nil, nil, Options{Scheme: SchemeBM25, TextWeight: 1})

	for _, query := range []string{"", "   "} {
		result, err := p.Rank(context.Background(), query, 5)
		if err != nil {
			t.Fatalf("Rank(%q): %v", query, err)
		}
		if len(result.Results) != 0 || result.Candidates != 0 {
			t.Errorf("Rank(%q) = %+v, want empty result", query, result)
		}
	}
}

func TestPipelineNoMatches(t *testing.T) {
	p := newTestPipeline(t, scenarioIndex(), nil, nil, Options{Scheme: SchemeBM25, TextWeight: 1})

	result, err := p.Rank(context.Background(), "nosuchterm", 5)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(result.Results) != 0 {
		t.Errorf("got %d results, want 0", len(result.Results))
	}
}

func TestPipelineBM25AuthorityBlend(t *testing.T) {
	// Identical BM25 text scores (same tf everywhere) degenerate to pure
	// authority ordering.
	index := &fakeIndex{
		postings: map[string]PostingList{
			"x": {{DocID: 1, Frequency: 2}, {DocID: 2, Frequency: 2}, {DocID: 3, Frequency: 2}},
		},
		df: map[string]int{"x": 3},
		n:  100,
	}
	authority := &fakeAuthority{scores: AuthorityMap{1: 0.001, 2: 0.5, 3: 0.05}}
	p := newTestPipeline(t, index, authority, nil, Options{
		Scheme:          SchemeBM25,
		TextWeight:      0.7,
		AuthorityWeight: 0.3,
	})

	result, err := p.Rank(context.Background(), "x", 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	wantOrder := []int64{2, 3, 1}
	for i, want := range wantOrder {
		if result.Results[i].DocID != want {
			t.Errorf("position %d: doc %d, want %d", i, result.Results[i].DocID, want)
		}
	}
}

func TestPipelineAuthorityFallback(t *testing.T) {
	authority := &fakeAuthority{err: errors.New("store down")}
	p := newTestPipeline(t, scenarioIndex(), authority, nil, Options{
		Scheme:          SchemeBM25,
		TextWeight:      0.7,
		AuthorityWeight: 0.3,
	})

	result, err := p.Rank(context.Background(), "x", 10)
	if err != nil {
		t.Fatalf("authority failure must not fail the request: %v", err)
	}
	if !result.AuthorityFallback {
		t.Error("expected AuthorityFallback to be set")
	}
	// Text-only ranking: doc 1 has the higher tf.
	if len(result.Results) != 2 || result.Results[0].DocID != 1 {
		t.Errorf("results = %+v, want doc 1 first", result.Results)
	}
}

func TestPipelineSkipsAuthorityWhenUnweighted(t *testing.T) {
	authority := &fakeAuthority{scores: AuthorityMap{1: 0.9}}
	p := newTestPipeline(t, scenarioIndex(), authority, nil, Options{
		Scheme:          SchemeBM25,
		TextWeight:      1.0,
		AuthorityWeight: 0,
	})

	if _, err := p.Rank(context.Background(), "x", 10); err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if authority.calls != 0 {
		t.Errorf("authority fetched %d times with zero weight, want 0", authority.calls)
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	p := newTestPipeline(t, scenarioIndex(), nil, nil, Options{Scheme: SchemeBM25, TextWeight: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Rank(ctx, "x", 10); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestPipelineDefaultK(t *testing.T) {
	// 20 candidates, k <= 0: the configured default (10) applies.
	list := make(PostingList, 20)
	for i := range list {
		list[i] = Posting{DocID: int64(i + 1), Frequency: i + 1}
	}
	index := &fakeIndex{
		postings: map[string]PostingList{"x": list},
		df:       map[string]int{"x": len(list)},
		n:        1000,
	}
	p := newTestPipeline(t, index, nil, nil, Options{Scheme: SchemeBM25, TextWeight: 1})

	result, err := p.Rank(context.Background(), "x", 0)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(result.Results) != 10 {
		t.Errorf("got %d results, want default 10", len(result.Results))
	}
}

func TestPipelineParallelAggregation(t *testing.T) {
	// Force the fan-out path and check it matches the serial result.
	list := make(PostingList, 64)
	for i := range list {
		list[i] = Posting{DocID: int64(i), Frequency: i%7 + 1}
	}
	index := &fakeIndex{
		postings: map[string]PostingList{"x": list},
		df:       map[string]int{"x": len(list)},
		n:        10000,
	}
	serial := newTestPipeline(t, index, nil, nil, Options{Scheme: SchemeTFIDF, TextWeight: 1})
	parallel := newTestPipeline(t, index, nil, nil, Options{
		Scheme:            SchemeTFIDF,
		TextWeight:        1,
		ParallelThreshold: 8,
		ParallelWorkers:   4,
	})

	want, err := serial.Rank(context.Background(), "x", 64)
	if err != nil {
		t.Fatalf("serial Rank: %v", err)
	}
	got, err := parallel.Rank(context.Background(), "x", 64)
	if err != nil {
		t.Fatalf("parallel Rank: %v", err)
	}
	if len(got.Results) != len(want.Results) {
		t.Fatalf("parallel returned %d results, serial %d", len(got.Results), len(want.Results))
	}
	for i := range want.Results {
		if got.Results[i] != want.Results[i] {
			t.Errorf("position %d: parallel %+v, serial %+v", i, got.Results[i], want.Results[i])
		}
	}
}

func TestPipelineMetadataFailureAbsorbed(t *testing.T) {
	p := newTestPipeline(t, scenarioIndex(), nil, &fakeMetadata{err: errors.New("titles down")}, Options{
		Scheme:     SchemeBM25,
		TextWeight: 1,
	})

	result, err := p.Rank(context.Background(), "x", 10)
	if err != nil {
		t.Fatalf("metadata failure must not fail the request: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	for _, r := range result.Results {
		if r.Title != "" {
			t.Errorf("doc %d title = %q, want empty on metadata failure", r.DocID, r.Title)
		}
	}
}

func TestNewPipelineValidation(t *testing.T) {
	if _, err := NewPipeline(nil, scenarioIndex(), nil, nil, Options{}); err == nil {
		t.Error("expected error for nil tokenizer")
	}
	if _, err := NewPipeline(fakeTokenizer{}, nil, nil, nil, Options{}); err == nil {
		t.Error("expected error for nil index store")
	}
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"tfidf", SchemeTFIDF, false},
		{"TF-IDF", SchemeTFIDF, false},
		{"bm25", SchemeBM25, false},
		{"BM25", SchemeBM25, false},
		{"pagerank", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseScheme(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseScheme(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
