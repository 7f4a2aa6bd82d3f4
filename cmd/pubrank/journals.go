// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubrank/internal/dataset"
	"github.com/pdiddy/pubrank/internal/ranking"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/pkg/types"
)

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Summarize each journal's leading universities and authors",
	Long: `Journals loads the author and university datasets together and, for
every journal, reports the number of articles in the year range and the
universities and authors with the most articles in it, with their share of
the journal's total. --search matches journal names.`,
	RunE: runJournals,
}

func runJournals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	authorsLoc, _ := cmd.Flags().GetString("authors")
	if authorsLoc == "" {
		authorsLoc = cfg.Data.Authors
	}
	unisLoc, _ := cmd.Flags().GetString("universities")
	if unisLoc == "" {
		unisLoc = cfg.Data.Universities
	}

	datasets, err := newLoader(cfg).LoadAll(cmd.Context(),
		dataset.Source{Location: authorsLoc, Key: types.KeyAuthor},
		dataset.Source{Location: unisLoc, Key: types.KeyUniversity},
	)
	if err != nil {
		return err
	}
	authors, unis := datasets[0], datasets[1]

	// The default range spans both datasets.
	c := types.FilterCriteria{Discipline: types.AllDisciplines, Group: types.GroupAll}
	first := true
	for _, ds := range datasets {
		lo, hi, ok := ds.YearBounds()
		if !ok {
			continue
		}
		if first || lo < c.StartYear {
			c.StartYear = lo
		}
		if first || hi > c.EndYear {
			c.EndYear = hi
		}
		first = false
	}
	if cmd.Flags().Changed("from") {
		c.StartYear, _ = cmd.Flags().GetInt("from")
	}
	if cmd.Flags().Changed("to") {
		c.EndYear, _ = cmd.Flags().GetInt("to")
	}
	c.Search, _ = cmd.Flags().GetString("search")

	top := cfg.Journals.Top
	if cmd.Flags().Changed("top") {
		top, _ = cmd.Flags().GetInt("top")
	}

	summaries, err := ranking.SummarizeJournals(authors.Records, unis.Records, c, top)
	if err != nil {
		return err
	}

	return report.Write(cmd.OutOrStdout(), format, summaries, func(w io.Writer) {
		report.WriteJournals(w, summaries, c.StartYear, c.EndYear)
	})
}

func init() {
	journalsCmd.Flags().String("authors", "", "author dataset file or URL (default: data.authors)")
	journalsCmd.Flags().String("universities", "", "university dataset file or URL (default: data.universities)")
	journalsCmd.Flags().Int("from", 0, "first publication year (default: earliest in either dataset)")
	journalsCmd.Flags().Int("to", 0, "last publication year (default: latest in either dataset)")
	journalsCmd.Flags().String("search", "", "show only journals whose name contains this text")
	journalsCmd.Flags().Int("top", 3, "universities and authors listed per journal (default from journals.top)")
	journalsCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(journalsCmd)
}
