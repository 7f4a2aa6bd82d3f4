// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter derives the selectable filter values from a loaded dataset
// and tracks an interactive selection. It owns the rules that couple one
// filter to another (choosing a discipline clears the group, and so on) so
// that the ranking engine only ever sees explicit criteria.
package filter

import (
	"sort"
	"strings"

	"github.com/pdiddy/pubrank/pkg/types"
)

// Membership records which journal lists a journal belongs to.
type Membership struct {
	UTD24 bool `json:"utd24" yaml:"utd24"`
	FT50  bool `json:"ft50" yaml:"ft50"`
}

// Options are the filter values available for a dataset.
type Options struct {
	MinYear     int      `json:"min_year" yaml:"min_year"`
	MaxYear     int      `json:"max_year" yaml:"max_year"`
	Disciplines []string `json:"disciplines" yaml:"disciplines"`
	Journals    []string `json:"journals" yaml:"journals"`

	// JournalDiscipline maps each journal to its discipline code.
	JournalDiscipline map[string]string `json:"journal_discipline" yaml:"journal_discipline"`

	// JournalGroups maps each journal to its list membership.
	JournalGroups map[string]Membership `json:"journal_groups" yaml:"journal_groups"`
}

// Derive scans records once. Journal and discipline lists are sorted and
// deduplicated; blank journal names are left out of Journals. When records
// disagree about a journal's discipline or membership the last one wins.
// For an empty dataset MinYear and MaxYear are zero.
func Derive(records []types.Record) Options {
	opts := Options{
		Disciplines:       []string{},
		Journals:          []string{},
		JournalDiscipline: make(map[string]string),
		JournalGroups:     make(map[string]Membership),
	}

	disciplines := make(map[string]struct{})
	journals := make(map[string]struct{})

	for i, r := range records {
		if i == 0 || r.Year < opts.MinYear {
			opts.MinYear = r.Year
		}
		if i == 0 || r.Year > opts.MaxYear {
			opts.MaxYear = r.Year
		}

		disciplines[r.DisciplineAbbr] = struct{}{}
		opts.JournalDiscipline[r.Journal] = r.DisciplineAbbr
		opts.JournalGroups[r.Journal] = Membership{UTD24: r.UTD24 == 1, FT50: r.FT50 == 1}

		if strings.TrimSpace(r.Journal) != "" {
			journals[r.Journal] = struct{}{}
		}
	}

	for d := range disciplines {
		opts.Disciplines = append(opts.Disciplines, d)
	}
	for j := range journals {
		opts.Journals = append(opts.Journals, j)
	}
	sort.Strings(opts.Disciplines)
	sort.Strings(opts.Journals)
	return opts
}

// JournalsForDiscipline returns the journals whose discipline is code, sorted.
func (o Options) JournalsForDiscipline(code string) []string {
	var out []string
	for _, j := range o.Journals {
		if o.JournalDiscipline[j] == code {
			out = append(out, j)
		}
	}
	return out
}

// JournalsForGroup returns the journals on the given list, sorted. GroupAll
// returns nil: no journal is auto-selected for it.
func (o Options) JournalsForGroup(g types.Group) []string {
	if g != types.GroupUTD24 && g != types.GroupFT50 {
		return nil
	}
	var out []string
	for _, j := range o.Journals {
		m := o.JournalGroups[j]
		if (g == types.GroupUTD24 && m.UTD24) || (g == types.GroupFT50 && m.FT50) {
			out = append(out, j)
		}
	}
	return out
}

// DefaultCriteria covers the whole detected year range with no other filter.
func (o Options) DefaultCriteria() types.FilterCriteria {
	return types.FilterCriteria{
		StartYear:  o.MinYear,
		EndYear:    o.MaxYear,
		Discipline: types.AllDisciplines,
		Group:      types.GroupAll,
	}
}
