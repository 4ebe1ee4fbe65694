// Command evaluate runs the ranking pipeline over a gold standard file and
// reports mean precision@k for the configured scheme.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/wikirank/wikirank/internal/evaluation"
	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/internal/store"
	"github.com/wikirank/wikirank/internal/tokenizer"
	"github.com/wikirank/wikirank/pkg/config"
	"github.com/wikirank/wikirank/pkg/logger"
	"github.com/wikirank/wikirank/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	goldPath := flag.String("gold", "", "path to gold standard JSON (query -> relevant doc ids)")
	k := flag.Int("k", 10, "precision cutoff")
	schemeFlag := flag.String("scheme", "", "override ranking scheme (tfidf or bm25)")
	timeout := flag.Duration("timeout", 30*time.Second, "per-query timeout")
	flag.Parse()

	if *goldPath == "" {
		fmt.Fprintln(os.Stderr, "usage: evaluate -gold <file> [-config <file>] [-k N] [-scheme tfidf|bm25]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, "text")

	schemeName := cfg.Ranking.Scheme
	if *schemeFlag != "" {
		schemeName = *schemeFlag
	}
	scheme, err := ranking.ParseScheme(schemeName)
	if err != nil {
		slog.Error("invalid scheme", "error", err)
		os.Exit(1)
	}

	gold, err := evaluation.LoadGoldStandard(*goldPath)
	if err != nil {
		slog.Error("failed to load gold standard", "error", err)
		os.Exit(1)
	}

	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgClient.Close()

	pipeline, err := ranking.NewPipeline(
		tokenizer.New(),
		store.NewIndex(pgClient),
		store.NewAuthority(pgClient),
		nil,
		ranking.Options{
			Scheme:            scheme,
			TextWeight:        cfg.Ranking.TextWeight,
			AuthorityWeight:   cfg.Ranking.AuthorityWeight,
			DefaultK:          *k,
			ParallelThreshold: cfg.Ranking.ParallelThreshold,
			ParallelWorkers:   cfg.Ranking.ParallelWorkers,
		},
	)
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	rankings := make(map[string][]int64, len(gold))
	for _, query := range gold.Queries() {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		result, err := pipeline.Rank(ctx, query, *k)
		cancel()
		if err != nil {
			slog.Warn("query failed, scored as empty", "query", query, "error", err)
			continue
		}
		ids := make([]int64, len(result.Results))
		for i, r := range result.Results {
			ids[i] = r.DocID
		}
		rankings[query] = ids
		slog.Info("query evaluated",
			"query", query,
			"returned", len(ids),
			"precision", evaluation.PrecisionAtK(ids, gold[query], *k),
		)
	}

	mean := evaluation.MeanPrecisionAtK(rankings, gold, *k)
	fmt.Printf("scheme=%s queries=%d mean_precision@%d=%.4f\n", scheme, len(gold), *k, mean)
}
