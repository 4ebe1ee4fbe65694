package ranking

import "math"

// authorityEpsilon clamps authority scores before log-scaling so that
// missing or zero PageRank never produces -Inf.
const authorityEpsilon = 1e-8

// BlendScores combines text relevance with log-scaled authority into final
// scores. Both signals are min-max normalized into [0,1] across the current
// candidate set, then linearly combined with the given weights. The
// candidate set is exactly the keys of text: authority never introduces a
// document, and an empty text map yields an empty result. Normalization
// bounds depend on the candidate set, so the blend is recomputed fully per
// query.
func BlendScores(text ScoreMap, authority AuthorityMap, textWeight, authorityWeight float64) ScoreMap {
	if len(text) == 0 {
		return ScoreMap{}
	}

	normText := minMaxNormalize(text)

	logAuthority := make(ScoreMap, len(text))
	for docID := range text {
		logAuthority[docID] = math.Log10(math.Max(authority[docID], authorityEpsilon))
	}
	normAuthority := minMaxNormalize(logAuthority)

	blended := make(ScoreMap, len(text))
	for docID := range text {
		blended[docID] = textWeight*normText[docID] + authorityWeight*normAuthority[docID]
	}
	return blended
}

// minMaxNormalize rescales scores into [0,1] as (s-min)/(max-min). When all
// scores are equal the range is treated as 1.0, so every candidate
// normalizes to 0 instead of dividing by zero.
func minMaxNormalize(scores ScoreMap) ScoreMap {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}
	out := make(ScoreMap, len(scores))
	for docID, s := range scores {
		out[docID] = (s - min) / span
	}
	return out
}
