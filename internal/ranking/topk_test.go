package ranking

import "testing"

func TestTopKOrdering(t *testing.T) {
	scores := ScoreMap{5: 0.2, 9: 0.9, 3: 0.5, 7: 0.5, 1: 0.1}
	got := TopK(scores, 10)

	wantOrder := []int64{9, 3, 7, 5, 1} // ties (3, 7) broken by ascending id
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].DocID != want {
			t.Errorf("position %d: doc %d, want %d", i, got[i].DocID, want)
		}
	}
}

func TestTopKLength(t *testing.T) {
	scores := ScoreMap{1: 1, 2: 2, 3: 3}
	tests := []struct {
		k    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{3, 3},
		{100, 3},
	}
	for _, tt := range tests {
		if got := TopK(scores, tt.k); len(got) != tt.want {
			t.Errorf("k=%d: got %d results, want %d", tt.k, len(got), tt.want)
		}
	}
}

func TestTopKDeterministic(t *testing.T) {
	// All scores equal: output must still be reproducible across runs
	// despite random map iteration order.
	scores := make(ScoreMap)
	for i := int64(0); i < 100; i++ {
		scores[i] = 0.5
	}
	first := TopK(scores, 10)
	for run := 0; run < 20; run++ {
		again := TopK(scores, 10)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d differs at position %d: %v vs %v", run, i, first[i], again[i])
			}
		}
	}
	for i, doc := range first {
		if doc.DocID != int64(i) {
			t.Errorf("position %d: doc %d, want %d", i, doc.DocID, i)
		}
	}
}

func TestTopKEmpty(t *testing.T) {
	if got := TopK(ScoreMap{}, 10); len(got) != 0 {
		t.Errorf("empty scores: got %v, want empty", got)
	}
}
