// Package evaluation measures ranking quality against a gold standard:
// a JSON file mapping queries to their known-relevant document ids.
package evaluation

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

// GoldStandard maps query -> relevant document ids.
type GoldStandard map[string][]int64

// LoadGoldStandard reads and validates a gold standard JSON file.
func LoadGoldStandard(path string) (GoldStandard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gold standard %s: %w", path, err)
	}
	var gold GoldStandard
	if err := json.Unmarshal(data, &gold); err != nil {
		return nil, fmt.Errorf("parsing gold standard %s: %w", path, err)
	}
	return gold, nil
}

// Queries returns the gold standard's queries in sorted order.
func (g GoldStandard) Queries() []string {
	queries := make([]string, 0, len(g))
	for q := range g {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	return queries
}

// SplitTrainTest partitions the queries into a train set and a test set
// using a seeded shuffle, so the same seed always yields the same split.
func (g GoldStandard) SplitTrainTest(trainSize, testSize int, seed int64) (train, test GoldStandard, err error) {
	queries := g.Queries()
	if trainSize+testSize > len(queries) {
		return nil, nil, fmt.Errorf("train+test size %d exceeds %d queries", trainSize+testSize, len(queries))
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(queries), func(i, j int) {
		queries[i], queries[j] = queries[j], queries[i]
	})
	train = make(GoldStandard, trainSize)
	for _, q := range queries[:trainSize] {
		train[q] = g[q]
	}
	test = make(GoldStandard, testSize)
	for _, q := range queries[trainSize : trainSize+testSize] {
		test[q] = g[q]
	}
	return train, test, nil
}
