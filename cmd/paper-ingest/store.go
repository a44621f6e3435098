// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ingest/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect and maintain stored paper records",
	Long: `Store checks for, lists and removes records in the details table
(and, with --table, any of the managed tables).`,
}

var storeExistsCmd = &cobra.Command{
	Use:   "exists <code>",
	Short: "Report whether a paper is stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ok, err := st.Exists(ctx, storeTable(cmd), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: not stored", args[0])
		}
		fmt.Printf("%s: stored\n", args[0])
		return nil
	},
}

var storeRemoveCmd = &cobra.Command{
	Use:   "remove <code...>",
	Short: "Delete stored records by code",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		table := storeTable(cmd)
		for _, code := range args {
			if err := st.Delete(ctx, table, code); err != nil {
				return fmt.Errorf("removing %s: %w", code, err)
			}
			fmt.Printf("removed: %s\n", code)
		}
		return nil
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored codes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		codes, err := st.Codes(ctx, storeTable(cmd))
		if err != nil {
			return err
		}
		for _, c := range codes {
			fmt.Println(c)
		}
		return nil
	},
}

// storeTable returns the --table flag or the configured details table.
func storeTable(cmd *cobra.Command) string {
	if t, _ := cmd.Flags().GetString("table"); t != "" {
		return t
	}
	if cfg.Storage.DetailsTable != "" {
		return cfg.Storage.DetailsTable
	}
	return store.DefaultDetailsTable
}

func init() {
	storeCmd.PersistentFlags().String("table", "", "table to operate on (default: the details table)")

	storeCmd.AddCommand(storeExistsCmd, storeRemoveCmd, storeListCmd)
	rootCmd.AddCommand(storeCmd)
}
