// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/catalog"
	"github.com/pdiddy/paper-ingest/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <title>",
	Short: "Find the catalog entry matching a paper title",
	Long: `Resolve searches a catalog for a title, scores every candidate against
it, and accepts the best one only when its similarity exceeds 0.7.

With --code the catalog is searched by identifier and the candidates are
scored against the title. With --local the stored titles are searched
instead of a remote catalog, which answers "is this paper already stored?".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("code", "", "search by this identifier and score against the title")
	resolveCmd.Flags().String("catalog", catalog.ArxivName, "catalog to search: arxiv or semantic_scholar")
	resolveCmd.Flags().Bool("local", false, "search stored titles instead of a remote catalog")
	resolveCmd.Flags().Bool("json", false, "output the match as JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	title := strings.Join(args, " ")
	code, _ := cmd.Flags().GetString("code")
	local, _ := cmd.Flags().GetBool("local")
	name, _ := cmd.Flags().GetString("catalog")

	var cat catalog.Catalog
	switch {
	case local:
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		titles, err := st.Titles(ctx)
		if err != nil {
			return err
		}
		cat = catalog.NewTitleIndex(titles)
	case name == catalog.ArxivName:
		cat = newArxivCatalog(cfg.Catalog)
	case name == catalog.SemanticScholarName:
		cat = newSemanticScholarCatalog(cfg.Catalog, loadedSecrets)
	default:
		return fmt.Errorf("unknown catalog %q (want %s or %s)", name, catalog.ArxivName, catalog.SemanticScholarName)
	}

	r := newResolver(cat)
	var (
		m   resolve.Match
		err error
	)
	if code != "" {
		m, err = r.ResolveIdentifier(ctx, code, title)
	} else {
		m, err = r.Resolve(ctx, title)
	}
	if err != nil && !errors.Is(err, resolve.ErrNoConfidentMatch) {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(m); encErr != nil {
			return encErr
		}
		return err
	}

	printRanked(m)
	if err != nil {
		return fmt.Errorf("%q: %w (best score %.3f)", title, err, m.Score)
	}
	fmt.Printf("\nMatch: %s  %s (score %.3f)\n", m.Candidate.Identifier, m.Candidate.Title, m.Score)
	return nil
}

func printRanked(m resolve.Match) {
	if len(m.Ranked) == 0 {
		fmt.Println("No candidates found.")
		return
	}
	fmt.Fprintf(os.Stdout, "%-6s  %-45s  %s\n", "Score", "Identifier", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, s := range m.Ranked {
		fmt.Fprintf(os.Stdout, "%.3f   %-45s  %s\n", s.Score, s.Candidate.Identifier, s.Candidate.Title)
	}
}
