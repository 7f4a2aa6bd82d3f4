// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

// DefaultJournalTop is the number of leading universities and authors
// listed per journal when the caller does not choose one.
const DefaultJournalTop = 3

// SummarizeJournals reports, for each journal found among the author
// records, the number of author records in the year range and the leading
// universities and authors. Journals are sorted by name, filtered by
// c.Search against the journal name, and omitted when they have no author
// records in range. Only the year range and search of c are used.
func SummarizeJournals(authors, universities []types.Record, c types.FilterCriteria, top int) ([]types.JournalSummary, error) {
	if err := ValidateRange(c.StartYear, c.EndYear); err != nil {
		return nil, err
	}
	if top <= 0 {
		top = DefaultJournalTop
	}

	authorsByJournal := byJournal(authors, c.StartYear, c.EndYear)
	unisByJournal := byJournal(universities, c.StartYear, c.EndYear)

	seen := make(map[string]struct{})
	var names []string
	for _, a := range authors {
		if _, ok := seen[a.Journal]; ok {
			continue
		}
		seen[a.Journal] = struct{}{}
		names = append(names, a.Journal)
	}
	sort.Strings(names)

	needle := normalizeTerm(c.Search)
	summaries := []types.JournalSummary{}
	for _, name := range names {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		journalAuthors := authorsByJournal[name]
		total := len(journalAuthors)
		if total == 0 {
			continue
		}
		summaries = append(summaries, types.JournalSummary{
			Journal:         name,
			Total:           total,
			TopUniversities: shares(unisByJournal[name], total, top),
			TopAuthors:      shares(journalAuthors, total, top),
		})
	}
	return summaries, nil
}

// byJournal buckets in-range records by journal, keeping input order.
func byJournal(records []types.Record, start, end int) map[string][]types.Record {
	out := make(map[string][]types.Record)
	for _, r := range records {
		if r.Year < start || r.Year > end {
			continue
		}
		out[r.Journal] = append(out[r.Journal], r)
	}
	return out
}

func shares(records []types.Record, total, top int) []types.Share {
	rows := Top(rank(records, func(r types.Record) string { return r.Subject }), top)
	out := make([]types.Share, len(rows))
	for i, r := range rows {
		out[i] = types.Share{
			Subject: r.Subject,
			Count:   r.ArticleCount,
			Percent: percent(r.ArticleCount, total),
		}
	}
	return out
}

// percent returns count/total as a percentage rounded to one decimal.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
