package ranking

// bm25K1 is the term-frequency saturation parameter. Document length is not
// modeled (b = 0): the index carries no length statistics, and downstream
// consumers depend on scores computed without length normalization.
const bm25K1 = 1.5

// ComputeBM25 computes per-document BM25 partial scores for every term in
// postings: weight = (tf*(k1+1))/(tf+k1) * log2(n/df). The same corpus-size
// and posting-list edge cases as ComputeTFIDF apply.
func ComputeBM25(postings map[string]PostingList, df map[string]int, n int) DocVectors {
	if n <= 0 {
		return DocVectors{}
	}
	result := make(DocVectors)
	for term, list := range postings {
		if len(list) == 0 {
			continue
		}
		idf := inverseDocFrequency(n, resolveDF(df, term, list))
		for _, p := range list {
			tf := float64(p.Frequency)
			saturated := tf * (bm25K1 + 1) / (tf + bm25K1)
			vec, ok := result[p.DocID]
			if !ok {
				vec = make(TermVector)
				result[p.DocID] = vec
			}
			vec[term] = saturated * idf
		}
	}
	return result
}

// QueryBM25Weights computes the query-side weight vector for BM25: the raw
// term count. The idf contribution already lives in the document-side
// partial scores, so applying it here as well would double-count it.
func QueryBM25Weights(counts map[string]int) TermVector {
	out := make(TermVector, len(counts))
	for term, count := range counts {
		out[term] = float64(count)
	}
	return out
}
