package ranking

import "math"

// CosineScores computes the cosine similarity between the query vector and
// each document vector, using only overlapping terms for the dot product.
// A zero norm on either side yields 0 for that document. An empty query
// vector against a non-empty candidate set zero-fills every candidate;
// when both sides are empty the result is empty.
func CosineScores(query TermVector, docs DocVectors) ScoreMap {
	scores := make(ScoreMap, len(docs))
	if len(query) == 0 || len(docs) == 0 {
		for docID := range docs {
			scores[docID] = 0
		}
		return scores
	}

	var queryNormSq float64
	for _, w := range query {
		queryNormSq += w * w
	}
	queryNorm := math.Sqrt(queryNormSq)

	for docID, vec := range docs {
		var dot float64
		for term, qw := range query {
			if dw, ok := vec[term]; ok {
				dot += qw * dw
			}
		}
		var docNormSq float64
		for _, w := range vec {
			docNormSq += w * w
		}
		docNorm := math.Sqrt(docNormSq)

		if queryNorm == 0 || docNorm == 0 {
			scores[docID] = 0
			continue
		}
		scores[docID] = dot / (queryNorm * docNorm)
	}
	return scores
}
