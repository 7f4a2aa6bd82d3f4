// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"sort"

	"github.com/pdiddy/pubrank/internal/ranking"
	"github.com/pdiddy/pubrank/pkg/types"
)

// Selection is the mutable state of an interactive filter panel. Every
// method applies one user action together with its side effects on the
// other filters. Criteria returns a snapshot for the ranking engine.
type Selection struct {
	opts       Options
	startYear  int
	endYear    int
	discipline string
	group      types.Group
	journals   map[string]bool
	search     string
}

// NewSelection starts from opts.DefaultCriteria.
func NewSelection(opts Options) *Selection {
	s := &Selection{opts: opts}
	s.Reset()
	return s
}

// Reset clears search, discipline, group and journals and restores the full
// year range.
func (s *Selection) Reset() {
	s.startYear = s.opts.MinYear
	s.endYear = s.opts.MaxYear
	s.discipline = types.AllDisciplines
	s.group = types.GroupAll
	s.journals = make(map[string]bool)
	s.search = ""
}

// SetYears changes the year range. A start after the end is rejected and
// leaves the selection unchanged.
func (s *Selection) SetYears(start, end int) error {
	if err := ranking.ValidateRange(start, end); err != nil {
		return err
	}
	s.startYear, s.endYear = start, end
	return nil
}

// SetSearch sets the subject search term.
func (s *Selection) SetSearch(term string) {
	s.search = term
}

// SetDiscipline selects a discipline. A specific discipline resets the
// group and checks exactly that discipline's journals; ALL changes nothing
// else. The empty string means ALL.
func (s *Selection) SetDiscipline(code string) {
	if code == "" {
		code = types.AllDisciplines
	}
	s.discipline = code
	if code == types.AllDisciplines {
		return
	}
	s.group = types.GroupAll
	s.checkOnly(s.opts.JournalsForDiscipline(code))
}

// SetGroup selects a journal list. UTD24 or FT50 resets the discipline and
// checks exactly that list's journals; ALL (or "") changes nothing else.
func (s *Selection) SetGroup(g types.Group) error {
	if g == "" {
		g = types.GroupAll
	}
	if err := ranking.ValidateGroup(g); err != nil {
		return err
	}
	s.group = g
	if g == types.GroupAll {
		return nil
	}
	s.discipline = types.AllDisciplines
	s.checkOnly(s.opts.JournalsForGroup(g))
	return nil
}

// ToggleJournal checks or unchecks one journal by hand, which resets both
// discipline and group.
func (s *Selection) ToggleJournal(journal string, checked bool) {
	if checked {
		s.journals[journal] = true
	} else {
		delete(s.journals, journal)
	}
	s.discipline = types.AllDisciplines
	s.group = types.GroupAll
}

func (s *Selection) checkOnly(journals []string) {
	s.journals = make(map[string]bool, len(journals))
	for _, j := range journals {
		s.journals[j] = true
	}
}

// Criteria returns the current filter state.
func (s *Selection) Criteria() types.FilterCriteria {
	var journals []string
	for j := range s.journals {
		journals = append(journals, j)
	}
	sort.Strings(journals)
	return types.FilterCriteria{
		StartYear:  s.startYear,
		EndYear:    s.endYear,
		Discipline: s.discipline,
		Group:      s.group,
		Journals:   journals,
		Search:     s.search,
	}
}
