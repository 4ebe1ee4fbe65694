package ranking

import "sort"

// TopK sorts scores descending and returns the first k documents. Equal
// scores are broken by ascending document id so the output is reproducible
// across runs. k <= 0 yields an empty slice; k larger than the candidate
// set returns every candidate.
func TopK(scores ScoreMap, k int) []ScoredDoc {
	if k <= 0 || len(scores) == 0 {
		return []ScoredDoc{}
	}
	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
