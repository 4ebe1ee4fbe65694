package ranking

// AccumulateScores folds per-term document partial scores into one score per
// document by dot product with the query weight vector. Only terms present
// on both sides contribute. The degenerate-input rules match CosineScores:
// an empty weight vector zero-fills a non-empty candidate set, and two empty
// inputs produce an empty map.
func AccumulateScores(weights TermVector, docScores DocVectors) ScoreMap {
	scores := make(ScoreMap, len(docScores))
	if len(weights) == 0 || len(docScores) == 0 {
		for docID := range docScores {
			scores[docID] = 0
		}
		return scores
	}
	for docID, vec := range docScores {
		var dot float64
		for term, w := range weights {
			if s, ok := vec[term]; ok {
				dot += w * s
			}
		}
		scores[docID] = dot
	}
	return scores
}
