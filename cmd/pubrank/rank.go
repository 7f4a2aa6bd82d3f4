// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/pubrank/internal/expr"
	"github.com/pdiddy/pubrank/internal/filter"
	"github.com/pdiddy/pubrank/internal/ranking"
	"github.com/pdiddy/pubrank/internal/report"
	"github.com/pdiddy/pubrank/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank universities or authors by article count",
	Long: `Rank counts the records of each university or author that pass the
year, journal, discipline and group filters and orders them by count.
Equal counts keep the order in which subjects first appear in the dataset.

--search narrows the table to matching names but every row keeps the rank
it has in the full ranking. Without --search the table is capped to --limit
rows.`,
}

var rankUniversitiesCmd = &cobra.Command{
	Use:   "universities",
	Short: "Rank universities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(cmd, types.KeyUniversity, "University")
	},
}

var rankAuthorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Rank authors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(cmd, types.KeyAuthor, "Author")
	},
}

func runRank(cmd *cobra.Command, key types.KeyField, label string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context(), cmd, cfg, key)
	if err != nil {
		return err
	}
	if ds.Skipped > 0 {
		logger.Warn("skipped records without year or name",
			zap.String("source", ds.Source.Location), zap.Int("skipped", ds.Skipped))
	}

	criteria, where, err := criteriaFromFlags(cmd, filter.Derive(ds.Records))
	if err != nil {
		return err
	}

	limit := cfg.Ranking.Limit
	if cmd.Flags().Changed("limit") {
		limit, _ = cmd.Flags().GetInt("limit")
	}

	rows, err := ranking.View(ds.Records, criteria, limit)
	if err != nil {
		return err
	}
	if where != nil && where.EvalErrors() > 0 {
		logger.Warn("--where failed on some records; they were excluded",
			zap.String("expr", where.String()), zap.Int64("records", where.EvalErrors()))
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		if err := report.Export(path, rows); err != nil {
			return err
		}
		logger.Info("ranking exported", zap.String("path", path), zap.Int("rows", len(rows)))
	}

	return report.Write(cmd.OutOrStdout(), format, rows, func(w io.Writer) {
		report.WriteTable(w, rows, label)
	})
}

// criteriaFromFlags replays the filter flags on a Selection in the order a
// user would click them: years, then discipline or group, then individual
// journals, then the search. The Selection applies the coupling rules
// (a discipline or group checks its journals; a hand-picked journal clears
// the discipline and group). A reversed year range is rejected here so the
// engine is never asked for it.
func criteriaFromFlags(cmd *cobra.Command, opts filter.Options) (types.FilterCriteria, *expr.Expression, error) {
	flags := cmd.Flags()
	sel := filter.NewSelection(opts)
	base := opts.DefaultCriteria()

	start, end := base.StartYear, base.EndYear
	if flags.Changed("from") {
		start, _ = flags.GetInt("from")
	}
	if flags.Changed("to") {
		end, _ = flags.GetInt("to")
	}
	if err := sel.SetYears(start, end); err != nil {
		return types.FilterCriteria{}, nil, err
	}

	discipline, _ := flags.GetString("discipline")
	group, _ := flags.GetString("group")
	if discipline != "" && discipline != types.AllDisciplines &&
		group != "" && types.Group(group) != types.GroupAll {
		return types.FilterCriteria{}, nil, fmt.Errorf("--discipline and --group cannot be combined")
	}
	sel.SetDiscipline(discipline)
	if err := sel.SetGroup(types.Group(group)); err != nil {
		return types.FilterCriteria{}, nil, err
	}

	journals, _ := flags.GetStringArray("journal")
	for _, j := range journals {
		sel.ToggleJournal(j, true)
	}
	search, _ := flags.GetString("search")
	sel.SetSearch(search)

	c := sel.Criteria()

	var where *expr.Expression
	if src, _ := flags.GetString("where"); src != "" {
		x, err := expr.Compile(src)
		if err != nil {
			return c, nil, err
		}
		where = x
		c.Where = x.Predicate()
	}
	return c, where, nil
}

func outputFormat(cmd *cobra.Command) (report.Format, error) {
	f, _ := cmd.Flags().GetString("format")
	return report.ParseFormat(f)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	pf := rankCmd.PersistentFlags()
	pf.String("data", "", "dataset file or URL (default: data.universities / data.authors from config)")
	pf.String("dataset", "", "read a dataset cached with 'store ingest' instead of --data")
	pf.Int("from", 0, "first publication year (default: earliest in dataset)")
	pf.Int("to", 0, "last publication year (default: latest in dataset)")
	pf.String("discipline", types.AllDisciplines, "discipline code or ALL; selects that discipline's journals")
	pf.String("group", string(types.GroupAll), "journal group ALL, UTD24 or FT50; selects that list's journals")
	pf.StringArray("journal", nil, "add a journal to the selection (repeatable); clears --discipline and --group but keeps their journals")
	pf.String("search", "", "show only names containing this text (ranks unchanged)")
	pf.Int("limit", 100, "rows shown when no search is given (0 = all; default from ranking.limit)")
	pf.String("where", "", "extra CEL filter over record.year, .subject, .journal, .discipline, .utd24, .ft50")
	pf.String("format", "table", "output format: table, json or yaml")
	pf.String("export", "", "also write the rows to a .json or .yaml file")

	rankCmd.AddCommand(rankUniversitiesCmd)
	rankCmd.AddCommand(rankAuthorsCmd)
	rootCmd.AddCommand(rankCmd)
}
