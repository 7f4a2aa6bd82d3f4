// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/dataset"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/internal/store"
	"github.com/pdiddy/pubrank/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Cache datasets in a local SQLite store",
	Long: `Store keeps copies of loaded datasets in <store.dir>/pubrank.db. Cached
datasets are used with --dataset <name> on rank and options, which avoids
re-reading or re-fetching the source. Record order is preserved, so rankings
from the cache match rankings from the source exactly.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest <name> <file-or-url>",
	Short: "Load a dataset and cache it under a name",
	Long: `Ingest loads a dataset and stores it under name. If the source has not
changed since the last ingest (same file modification time or HTTP
Last-Modified) nothing is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	name, location := args[0], args[1]

	key, _ := cmd.Flags().GetString("key")
	kf := types.KeyField(key)
	if kf != types.KeyUniversity && kf != types.KeyAuthor {
		return fmt.Errorf("unknown key %q: use university or author", key)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("store-dir"); dir != "" {
		cfg.Store.Dir = dir
	}

	ds, err := newLoader(cfg).Load(cmd.Context(), dataset.Source{Location: location, Key: kf})
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	outcome, err := st.Ingest(cmd.Context(), name, ds)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d records, %d skipped)\n", outcome, name, len(ds.Records), ds.Skipped)
	return nil
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached datasets",
	RunE:  runStoreList,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("store-dir"); dir != "" {
		cfg.Store.Dir = dir
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, infos, func(w io.Writer) {
		if len(infos) == 0 {
			fmt.Fprintln(w, "No datasets stored.")
			return
		}
		fmt.Fprintf(w, "%-16s  %-10s  %8s  %8s  %-20s  %s\n", "Name", "Key", "Records", "Skipped", "Ingested", "Source")
		for _, i := range infos {
			fmt.Fprintf(w, "%-16s  %-10s  %8d  %8d  %-20s  %s\n",
				i.Name, i.Key, i.Records, i.Skipped, i.IngestedAt.Local().Format(time.DateTime), i.Source)
		}
	})
}

func init() {
	storeCmd.PersistentFlags().String("store-dir", "", "directory holding pubrank.db (default from store.dir)")

	storeIngestCmd.Flags().String("key", string(types.KeyUniversity), "record field holding the name: university or author")
	storeListCmd.Flags().String("format", "table", "output format: table, json or yaml")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeListCmd)
	rootCmd.AddCommand(storeCmd)
}
