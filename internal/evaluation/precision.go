package evaluation

// PrecisionAtK returns the fraction of the first k ranked documents that
// appear in the relevant set, divided by k. An empty ranking scores 0.
func PrecisionAtK(ranked []int64, relevant []int64, k int) float64 {
	if k <= 0 || len(ranked) == 0 {
		return 0
	}
	top := ranked
	if len(top) > k {
		top = top[:k]
	}
	relevantSet := make(map[int64]struct{}, len(relevant))
	for _, id := range relevant {
		relevantSet[id] = struct{}{}
	}
	hits := 0
	for _, id := range top {
		if _, ok := relevantSet[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// MeanPrecisionAtK averages PrecisionAtK over a set of (ranking, relevant)
// pairs keyed by query. Queries missing from rankings count as 0.
func MeanPrecisionAtK(rankings map[string][]int64, gold GoldStandard, k int) float64 {
	if len(gold) == 0 {
		return 0
	}
	var sum float64
	for query, relevant := range gold {
		sum += PrecisionAtK(rankings[query], relevant, k)
	}
	return sum / float64(len(gold))
}
