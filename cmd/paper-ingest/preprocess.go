// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/cache"
	"github.com/pdiddy/paper-ingest/internal/preprocess"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <file>",
	Short: "Clean extracted document text for downstream use",
	Long: `Preprocess reflows extracted text, drops a trailing references section
and truncates the result to a token budget. The result is printed, or with
--out cached as <cache.dir>/<cache.documents_dir>/<id>.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreprocess,
}

func init() {
	preprocessCmd.Flags().Int("budget", 0, "token budget (default from config; negative disables truncation)")
	preprocessCmd.Flags().String("out", "", "cache the result under this document id")

	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	budget := cfg.Preprocess.TokenBudget
	if b, _ := cmd.Flags().GetInt("budget"); b != 0 {
		budget = b
	}

	var counter preprocess.TokenCounter
	if budget > 0 {
		c, err := preprocess.NewTiktokenCounter(cfg.Preprocess.Encoding)
		if err != nil {
			return err
		}
		counter = c
	}
	text := preprocess.Document(string(raw), counter, budget)

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		fmt.Print(text)
		return nil
	}
	if err := newCache().Save(cfg.Cache.DocumentsDir, out, cache.FormatText, text); err != nil {
		return err
	}
	path, _ := newCache().Path(cfg.Cache.DocumentsDir, out, cache.FormatText)
	fmt.Printf("saved: %s\n", path)
	return nil
}
