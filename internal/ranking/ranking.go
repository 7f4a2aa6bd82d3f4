// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking aggregates publication records into rank-ordered tables.
//
// Ranks are computed once over the records that pass the year, journal,
// discipline and group filters. A text search applied afterwards only
// removes rows; surviving rows keep the rank they had in the full ranking.
package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

var (
	// ErrInvalidRange is returned when the start year is after the end year.
	ErrInvalidRange = errors.New("invalid year range")

	// ErrUnknownGroup is returned for a group other than ALL, UTD24 or FT50.
	ErrUnknownGroup = errors.New("unknown journal group")
)

// ValidateRange returns ErrInvalidRange when start > end.
func ValidateRange(start, end int) error {
	if start > end {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
	}
	return nil
}

// ValidateGroup returns ErrUnknownGroup unless g is empty or a known group.
// Group names are case-sensitive.
func ValidateGroup(g types.Group) error {
	if g != "" && !g.Valid() {
		return fmt.Errorf("%w %q: use ALL, UTD24 or FT50", ErrUnknownGroup, g)
	}
	return nil
}

// Filter returns the records that satisfy every non-search criterion, in
// input order. records is not modified.
func Filter(records []types.Record, c types.FilterCriteria) ([]types.Record, error) {
	if err := ValidateRange(c.StartYear, c.EndYear); err != nil {
		return nil, err
	}
	if err := ValidateGroup(c.Group); err != nil {
		return nil, err
	}

	var journals map[string]struct{}
	if len(c.Journals) > 0 {
		journals = make(map[string]struct{}, len(c.Journals))
		for _, j := range c.Journals {
			journals[j] = struct{}{}
		}
	}

	discipline := c.Discipline
	if discipline == "" {
		discipline = types.AllDisciplines
	}

	var out []types.Record
	for _, r := range records {
		if r.Year < c.StartYear || r.Year > c.EndYear {
			continue
		}
		if journals != nil {
			if _, ok := journals[r.Journal]; !ok {
				continue
			}
		}
		if discipline != types.AllDisciplines && r.DisciplineAbbr != discipline {
			continue
		}
		if !r.InGroup(c.Group) {
			continue
		}
		if c.Where != nil && !c.Where(r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ComputeRanking filters records by c (ignoring c.Search), counts records
// per subject, and ranks subjects by descending count. Subjects with equal
// counts keep the order in which they first appear in records.
func ComputeRanking(records []types.Record, c types.FilterCriteria) ([]types.RankedRow, error) {
	filtered, err := Filter(records, c)
	if err != nil {
		return nil, err
	}
	return rank(filtered, func(r types.Record) string { return r.Subject }), nil
}

// rank groups records by key and assigns ranks 1..N.
func rank(records []types.Record, key func(types.Record) string) []types.RankedRow {
	index := make(map[string]int)
	rows := []types.RankedRow{}
	for _, r := range records {
		k := key(r)
		if i, ok := index[k]; ok {
			rows[i].ArticleCount++
			continue
		}
		index[k] = len(rows)
		rows = append(rows, types.RankedRow{Subject: k, ArticleCount: 1})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ArticleCount > rows[j].ArticleCount
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// ApplySearch keeps the rows whose subject contains term, ignoring case.
// Ranks and counts are left as they are. An empty or blank term returns
// rows unchanged.
func ApplySearch(rows []types.RankedRow, term string) []types.RankedRow {
	needle := normalizeTerm(term)
	if needle == "" {
		return rows
	}
	out := []types.RankedRow{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Subject), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Top returns the first n rows. n <= 0 returns all rows.
func Top(rows []types.RankedRow, n int) []types.RankedRow {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// View is the ranking as displayed: the full ranking narrowed by c.Search,
// capped to limit rows only when no search term is active.
func View(records []types.Record, c types.FilterCriteria, limit int) ([]types.RankedRow, error) {
	full, err := ComputeRanking(records, c)
	if err != nil {
		return nil, err
	}
	if normalizeTerm(c.Search) != "" {
		return ApplySearch(full, c.Search), nil
	}
	return Top(full, limit), nil
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
