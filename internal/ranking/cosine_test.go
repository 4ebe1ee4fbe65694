package ranking

import "testing"

func TestCosineScoresSingleSharedTerm(t *testing.T) {
	// One shared dimension with positive weights: cosine is exactly 1.
	query := TermVector{"x": 4.6439}
	docs := DocVectors{
		1: {"x": 6.9658},
		2: {"x": 2.3219},
	}
	got := CosineScores(query, docs)
	if !almostEqual(got[1], 1.0) {
		t.Errorf("doc 1 cosine = %f, want 1.0", got[1])
	}
	if !almostEqual(got[2], 1.0) {
		t.Errorf("doc 2 cosine = %f, want 1.0", got[2])
	}
}

func TestCosineScoresOverlap(t *testing.T) {
	query := TermVector{"a": 1, "b": 1}
	docs := DocVectors{
		1: {"a": 1, "b": 1}, // identical direction
		2: {"a": 1},         // half overlap
		3: {"c": 5},         // no overlap
	}
	got := CosineScores(query, docs)
	if !almostEqual(got[1], 1.0) {
		t.Errorf("doc 1 = %f, want 1.0", got[1])
	}
	if !almostEqual(got[2], 0.7071) {
		t.Errorf("doc 2 = %f, want 0.7071", got[2])
	}
	if got[3] != 0 {
		t.Errorf("doc 3 = %f, want 0", got[3])
	}
}

func TestCosineScoresBounds(t *testing.T) {
	query := TermVector{"a": 2, "b": 3, "c": 0.5}
	docs := DocVectors{
		1: {"a": 1, "c": 4},
		2: {"b": 2, "a": 0.1},
		3: {"a": 9, "b": 9, "c": 9},
	}
	for docID, score := range CosineScores(query, docs) {
		if score < 0 || score > 1+1e-12 {
			t.Errorf("doc %d cosine %f outside [0,1]", docID, score)
		}
	}
}

func TestCosineScoresDegenerate(t *testing.T) {
	docs := DocVectors{1: {"a": 1}, 2: {"b": 2}}

	got := CosineScores(TermVector{}, docs)
	if len(got) != 2 {
		t.Fatalf("empty query should zero-fill candidates, got %d entries", len(got))
	}
	for docID, score := range got {
		if score != 0 {
			t.Errorf("doc %d = %f, want 0", docID, score)
		}
	}

	if got := CosineScores(TermVector{}, DocVectors{}); len(got) != 0 {
		t.Errorf("both empty should yield empty map, got %v", got)
	}

	// Zero-weight query vector has zero norm: every score is 0, never NaN.
	got = CosineScores(TermVector{"a": 0}, docs)
	for docID, score := range got {
		if score != 0 {
			t.Errorf("zero-norm query: doc %d = %f, want 0", docID, score)
		}
	}
}
