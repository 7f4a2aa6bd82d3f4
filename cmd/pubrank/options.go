// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/filter"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/pkg/types"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the filter values available in a dataset",
	Long: `Options prints the year range, disciplines and journals found in a
dataset, with each journal's discipline and UTD24/FT50 membership. These are
the values accepted by the rank command's --from, --to, --discipline and
--journal flags.`,
	RunE: runOptions,
}

func runOptions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("key")
	kf := types.KeyField(key)
	if kf != types.KeyUniversity && kf != types.KeyAuthor {
		return fmt.Errorf("unknown key %q: use university or author", key)
	}

	ds, err := loadDataset(cmd.Context(), cmd, cfg, kf)
	if err != nil {
		return err
	}
	opts := filter.Derive(ds.Records)

	return report.Write(cmd.OutOrStdout(), format, opts, func(w io.Writer) {
		writeOptions(w, opts)
	})
}

func writeOptions(w io.Writer, opts filter.Options) {
	fmt.Fprintf(w, "Years:       %d-%d\n", opts.MinYear, opts.MaxYear)
	fmt.Fprintf(w, "Disciplines: %s\n", strings.Join(opts.Disciplines, ", "))
	fmt.Fprintf(w, "UTD24:       %d journals\n", len(opts.JournalsForGroup(types.GroupUTD24)))
	fmt.Fprintf(w, "FT50:        %d journals\n", len(opts.JournalsForGroup(types.GroupFT50)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-60s  %-10s  %s\n", "Journal", "Discipline", "Lists")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, j := range opts.Journals {
		var lists []string
		m := opts.JournalGroups[j]
		if m.UTD24 {
			lists = append(lists, "UTD24")
		}
		if m.FT50 {
			lists = append(lists, "FT50")
		}
		fmt.Fprintf(w, "%-60s  %-10s  %s\n", j, opts.JournalDiscipline[j], strings.Join(lists, ","))
	}
}

func init() {
	optionsCmd.Flags().String("data", "", "dataset file or URL (default from config)")
	optionsCmd.Flags().String("dataset", "", "read a dataset cached with 'store ingest' instead of --data")
	optionsCmd.Flags().String("key", string(types.KeyUniversity), "record field holding the name: university or author")
	optionsCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(optionsCmd)
}
