package ranking

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestComputeTFIDF(t *testing.T) {
	postings := map[string]PostingList{
		"x": {{DocID: 1, Frequency: 3}, {DocID: 2, Frequency: 1}},
	}
	df := map[string]int{"x": 2}

	got := ComputeTFIDF(postings, df, 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(got))
	}

	idf := math.Log2(10.0 / 2.0)
	if !almostEqual(got[1]["x"], 3*idf) {
		t.Errorf("doc 1 weight = %f, want %f", got[1]["x"], 3*idf)
	}
	if !almostEqual(got[2]["x"], idf) {
		t.Errorf("doc 2 weight = %f, want %f", got[2]["x"], idf)
	}
	// Pin the expected idf so a formula change is caught directly.
	if !almostEqual(idf, 2.3219) {
		t.Errorf("idf = %f, want 2.3219", idf)
	}
}

func TestComputeTFIDFEdgeCases(t *testing.T) {
	postings := map[string]PostingList{
		"known":   {{DocID: 7, Frequency: 2}},
		"unknown": {},
	}

	tests := []struct {
		name string
		df   map[string]int
		n    int
		want int
	}{
		{"zero corpus", map[string]int{"known": 1}, 0, 0},
		{"negative corpus", map[string]int{"known": 1}, -3, 0},
		{"empty posting list skipped", map[string]int{"known": 1, "unknown": 4}, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTFIDF(postings, tt.df, tt.n)
			if len(got) != tt.want {
				t.Errorf("got %d documents, want %d", len(got), tt.want)
			}
		})
	}
}

func TestComputeTFIDFDFFallback(t *testing.T) {
	postings := map[string]PostingList{
		"x": {{DocID: 1, Frequency: 1}, {DocID: 2, Frequency: 1}},
	}

	// df map omits the term entirely: fall back to posting-list length.
	got := ComputeTFIDF(postings, map[string]int{}, 8)
	wantIDF := math.Log2(8.0 / 2.0)
	if !almostEqual(got[1]["x"], wantIDF) {
		t.Errorf("fallback weight = %f, want %f", got[1]["x"], wantIDF)
	}

	// df present but zero: idf is 0, not a fallback.
	got = ComputeTFIDF(postings, map[string]int{"x": 0}, 8)
	if got[1]["x"] != 0 {
		t.Errorf("zero-df weight = %f, want 0", got[1]["x"])
	}
}

func TestQueryTFIDF(t *testing.T) {
	counts := map[string]int{"x": 2}
	df := map[string]int{"x": 2}

	got := QueryTFIDF(counts, df, 10)
	want := 2 * math.Log2(10.0/2.0)
	if !almostEqual(got["x"], want) {
		t.Errorf("query weight = %f, want %f", got["x"], want)
	}
	if !almostEqual(want, 4.6439) {
		t.Errorf("query weight = %f, want 4.6439", want)
	}
}

func TestQueryTFIDFZeroCorpus(t *testing.T) {
	got := QueryTFIDF(map[string]int{"a": 1, "b": 2}, nil, 0)
	if len(got) != 2 {
		t.Fatalf("expected entries for every term, got %d", len(got))
	}
	for term, w := range got {
		if w != 0 {
			t.Errorf("term %q weight = %f, want 0", term, w)
		}
	}
}

func TestQueryTFIDFUnknownTerm(t *testing.T) {
	got := QueryTFIDF(map[string]int{"missing": 3}, map[string]int{}, 100)
	if got["missing"] != 0 {
		t.Errorf("unknown-term weight = %f, want 0", got["missing"])
	}
}
