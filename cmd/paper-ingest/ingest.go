// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/ingest"
	"github.com/pdiddy/paper-ingest/internal/observability"
	"github.com/pdiddy/paper-ingest/internal/preprocess"
	"github.com/pdiddy/paper-ingest/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [items...]",
	Short: "Resolve and store queued papers",
	Long: `Ingest processes queue entries of the form "<arXiv id>", "<title>" or
"<arXiv id> | <title>". Each entry is resolved, normalized and stored
together with its citation data; papers already stored are skipped.

Without arguments the entries come from the configured queue (a GitHub gist
when queue.gist_id is set, a local file otherwise). Failed entries stay in
the queue; ingested, skipped and unmatched entries are removed from it.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Bool("no-queue-update", false, "do not write the remaining entries back to the queue")
	ingestCmd.Flags().Bool("documents", false, "also download, preprocess and cache full text")
	ingestCmd.Flags().Duration("delay", 0, "delay between consecutive entries (default from config)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if d, _ := cmd.Flags().GetDuration("delay"); d > 0 {
		cfg.Ingest.Delay = d
	}
	if docs, _ := cmd.Flags().GetBool("documents"); docs {
		cfg.Ingest.FetchDocuments = true
	}
	noUpdate, _ := cmd.Flags().GetBool("no-queue-update")

	entries := args
	fromQueue := len(args) == 0
	q := newQueue(cfg.Catalog)
	if fromQueue {
		var err error
		entries, err = q.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetching queue: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	arxiv := newArxivCatalog(cfg.Catalog)
	p := &ingest.Pipeline{
		Resolver:   newResolver(arxiv),
		Documents:  arxiv,
		Citations:  newSemanticScholarCatalog(cfg.Catalog, loadedSecrets),
		Store:      st,
		Tables:     store.TablesFromConfig(cfg.Storage),
		Cache:      newCache(),
		Metrics:    observability.NewMetrics(),
		Ingest:     cfg.Ingest,
		Preprocess: cfg.Preprocess,
		CacheDirs:  cfg.Cache,
		Logger:     logger,
		Progress:   os.Stdout,
	}
	if cfg.Ingest.FetchDocuments && cfg.Preprocess.TokenBudget > 0 {
		counter, err := preprocess.NewTiktokenCounter(cfg.Preprocess.Encoding)
		if err != nil {
			return err
		}
		p.Counter = counter
	}

	sum, runErr := p.Run(ctx, entries)

	if cfg.Ingest.MetricsFile != "" {
		if err := p.Metrics.WriteTextfile(cfg.Ingest.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("file", cfg.Ingest.MetricsFile).Msg("writing metrics")
		}
	}

	if fromQueue && !noUpdate {
		// Write back even after an interrupt so unprocessed entries survive.
		loc, err := q.Update(context.WithoutCancel(ctx), sum.Remaining)
		if err != nil {
			return fmt.Errorf("updating queue: %w", err)
		}
		fmt.Printf("Queue updated: %d entr(ies) remaining (%s)\n", len(sum.Remaining), loc)
	}

	if runErr != nil {
		return runErr
	}
	if n := sum.Count(ingest.OutcomeFailed); n > 0 {
		return fmt.Errorf("%d entr(ies) failed", n)
	}
	return nil
}
