// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubrank/pkg/types"
)

func journalFixtures() (authors, universities []types.Record) {
	authors = []types.Record{
		{Year: 2020, Subject: "Lee", Journal: "MS"},
		{Year: 2020, Subject: "Kim", Journal: "MS"},
		{Year: 2021, Subject: "Lee", Journal: "MS"},
		{Year: 2015, Subject: "Old", Journal: "JAR"},
		{Year: 2021, Subject: "Ng", Journal: "JF"},
		{Year: 2021, Subject: "Ng", Journal: "JF"},
		{Year: 2022, Subject: "Ortiz", Journal: "JF"},
	}
	universities = []types.Record{
		{Year: 2020, Subject: "MIT", Journal: "MS"},
		{Year: 2020, Subject: "Yale", Journal: "MS"},
		{Year: 2021, Subject: "Yale", Journal: "MS"},
		{Year: 2021, Subject: "NYU", Journal: "JF"},
		{Year: 2019, Subject: "NYU", Journal: "MS"},
	}
	return authors, universities
}

func TestSummarizeJournals(t *testing.T) {
	authors, unis := journalFixtures()

	got, err := SummarizeJournals(authors, unis, allOf(2020, 2022), 2)
	require.NoError(t, err)

	want := []types.JournalSummary{
		{
			Journal: "JF",
			Total:   3,
			TopUniversities: []types.Share{
				{Subject: "NYU", Count: 1, Percent: 33.3},
			},
			TopAuthors: []types.Share{
				{Subject: "Ng", Count: 2, Percent: 66.7},
				{Subject: "Ortiz", Count: 1, Percent: 33.3},
			},
		},
		{
			Journal: "MS",
			Total:   3,
			TopUniversities: []types.Share{
				{Subject: "Yale", Count: 2, Percent: 66.7},
				{Subject: "MIT", Count: 1, Percent: 33.3},
			},
			TopAuthors: []types.Share{
				{Subject: "Lee", Count: 2, Percent: 66.7},
				{Subject: "Kim", Count: 1, Percent: 33.3},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SummarizeJournals mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeJournalsSearchAndDefaults(t *testing.T) {
	authors, unis := journalFixtures()
	c := allOf(2010, 2022)
	c.Search = "ja"

	got, err := SummarizeJournals(authors, unis, c, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "JAR", got[0].Journal)
	assert.Equal(t, 1, got[0].Total)
	assert.Empty(t, got[0].TopUniversities)
	assert.Equal(t, []types.Share{{Subject: "Old", Count: 1, Percent: 100}}, got[0].TopAuthors)
}

func TestSummarizeJournalsInvalidRange(t *testing.T) {
	authors, unis := journalFixtures()
	_, err := SummarizeJournals(authors, unis, allOf(2023, 2020), 3)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSummarizeJournalsEmpty(t *testing.T) {
	got, err := SummarizeJournals(nil, nil, allOf(2020, 2022), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 66.7, percent(2, 3))
	assert.Equal(t, 100.0, percent(4, 4))
	assert.Equal(t, 0.0, percent(1, 0))
}
