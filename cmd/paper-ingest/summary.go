// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/ingest"
	"github.com/pdiddy/paper-ingest/internal/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Manage paper summaries",
}

var summaryImportCmd = &cobra.Command{
	Use:   "import <code...>",
	Short: "Store cached JSON summaries",
	Long: `Import reads <cache.dir>/<cache.summaries_dir>/<code>.json for each code,
projects it onto the summaries table columns and stores the ones not yet
stored in a single transaction.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummaryImport,
}

func init() {
	summaryCmd.AddCommand(summaryImportCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummaryImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	p := &ingest.Pipeline{
		Store:     st,
		Tables:    store.TablesFromConfig(cfg.Storage),
		Cache:     newCache(),
		CacheDirs: cfg.Cache,
		Logger:    logger,
	}
	res, err := p.ImportSummaries(ctx, args)
	if err != nil {
		return err
	}
	for _, c := range res.Missing {
		fmt.Printf("missing: %s (no cached summary)\n", c)
	}
	fmt.Printf("\nImport summary: %d imported, %d skipped, %d missing\n",
		len(res.Imported), len(res.Skipped), len(res.Missing))
	return nil
}
