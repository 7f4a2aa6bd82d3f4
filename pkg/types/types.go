// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pubrank: publication
// records, the filter criteria the ranking engine consumes, and the ranked
// rows it produces.
package types

// Group selects one of the two fixed journal membership lists.
type Group string

const (
	GroupAll   Group = "ALL"
	GroupUTD24 Group = "UTD24"
	GroupFT50  Group = "FT50"
)

// Valid reports whether g is one of the known group values.
func (g Group) Valid() bool {
	switch g {
	case GroupAll, GroupUTD24, GroupFT50:
		return true
	}
	return false
}

// AllDisciplines is the discipline value that disables discipline filtering.
const AllDisciplines = "ALL"

// KeyField names the record field used as the grouping key.
type KeyField string

const (
	KeyUniversity KeyField = "university"
	KeyAuthor     KeyField = "author"
)

// Record is one publication entry: a paper attributed to a single subject
// (a university or an author). A paper with several affiliations appears
// once per affiliation.
type Record struct {
	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Subject is the grouping key: the university or author name.
	Subject string `json:"subject" yaml:"subject"`

	// Journal is the publication venue.
	Journal string `json:"journal" yaml:"journal"`

	// DisciplineAbbr is the discipline code of the journal (e.g. "ACC", "MKT").
	DisciplineAbbr string `json:"disciplineAbbr" yaml:"disciplineAbbr"`

	// UTD24 is 1 when the journal is on the UTD24 list.
	UTD24 int `json:"utd24" yaml:"utd24"`

	// FT50 is 1 when the journal is on the FT50 list.
	FT50 int `json:"ft50" yaml:"ft50"`
}

// InGroup reports whether the record's journal belongs to g. GroupAll
// matches every record.
func (r Record) InGroup(g Group) bool {
	switch g {
	case GroupUTD24:
		return r.UTD24 == 1
	case GroupFT50:
		return r.FT50 == 1
	}
	return true
}

// RecordPredicate is an additional per-record filter.
type RecordPredicate func(Record) bool

// FilterCriteria is the full set of filters for one ranking computation.
type FilterCriteria struct {
	// StartYear and EndYear bound the publication year, inclusive.
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`

	// Discipline is AllDisciplines or a single discipline code.
	Discipline string `json:"discipline" yaml:"discipline"`

	// Group restricts records to a journal list.
	Group Group `json:"group" yaml:"group"`

	// Journals restricts records to these venues. Empty means no restriction.
	Journals []string `json:"journals,omitempty" yaml:"journals,omitempty"`

	// Search narrows the displayed rows by subject without changing ranks.
	Search string `json:"search,omitempty" yaml:"search,omitempty"`

	// Where is an optional extra record filter applied before aggregation.
	Where RecordPredicate `json:"-" yaml:"-"`
}

// RankedRow is one line of a ranking table.
type RankedRow struct {
	Subject      string `json:"subject" yaml:"subject"`
	ArticleCount int    `json:"articles" yaml:"articles"`
	Rank         int    `json:"rank" yaml:"rank"`
}

// Share is a subject's count within one journal and its percentage of the
// journal's total.
type Share struct {
	Subject string  `json:"subject" yaml:"subject"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// JournalSummary describes one journal's output within a year range.
type JournalSummary struct {
	Journal         string  `json:"journal" yaml:"journal"`
	Total           int     `json:"total" yaml:"total"`
	TopUniversities []Share `json:"top_universities" yaml:"top_universities"`
	TopAuthors      []Share `json:"top_authors" yaml:"top_authors"`
}
