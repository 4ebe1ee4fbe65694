package ranking

import "math"

// inverseDocFrequency computes idf = log2(n/df). A non-positive df yields 0
// so that terms the index knows nothing about contribute nothing.
func inverseDocFrequency(n, df int) float64 {
	if df <= 0 {
		return 0
	}
	return math.Log2(float64(n) / float64(df))
}

// resolveDF returns the caller-supplied document frequency for term, falling
// back to the posting-list length when the df map omits the term.
func resolveDF(df map[string]int, term string, postings PostingList) int {
	if v, ok := df[term]; ok {
		return v
	}
	return len(postings)
}

// ComputeTFIDF computes per-document TF-IDF weights for every term in
// postings: weight = tf * log2(n/df). A non-positive corpus size yields an
// empty result; terms with empty posting lists are skipped.
func ComputeTFIDF(postings map[string]PostingList, df map[string]int, n int) DocVectors {
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
			vec, ok := result[p.DocID]
			if !ok {
				vec = make(TermVector)
				result[p.DocID] = vec
			}
			vec[term] = float64(p.Frequency) * idf
		}
	}
	return result
}

// QueryTFIDF computes the TF-IDF weight vector for a query given its raw
// term counts: weight = count * log2(n/df). A non-positive corpus size
// yields all-zero weights rather than an error.
func QueryTFIDF(counts map[string]int, df map[string]int, n int) TermVector {
	out := make(TermVector, len(counts))
	if n <= 0 {
		for term := range counts {
			out[term] = 0
		}
		return out
	}
	for term, count := range counts {
		out[term] = float64(count) * inverseDocFrequency(n, df[term])
	}
	return out
}
