// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubrank/pkg/types"
)

func rows() []types.RankedRow {
	return []types.RankedRow{
		{Subject: "University of Texas at Dallas", ArticleCount: 12, Rank: 3},
		{Subject: "MIT", ArticleCount: 7, Rank: 9},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "table": FormatTable, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteTableKeepsOrderAndRanks(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, rows(), "University")
	out := buf.String()

	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "University")
	utd := strings.Index(out, "University of Texas at Dallas")
	mit := strings.Index(out, "MIT")
	require.True(t, utd > 0 && mit > 0)
	assert.Less(t, utd, mit)

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[2], "3 "))
	assert.True(t, strings.HasPrefix(lines[3], "9 "))
	assert.Contains(t, out, "2 rows")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, nil, "Author")
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestWriteTableTruncatesLongNames(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []types.RankedRow{{Subject: strings.Repeat("x", 80), ArticleCount: 1, Rank: 1}}, "Author")
	assert.Contains(t, buf.String(), strings.Repeat("x", 57)+"...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 58))
}

func TestWriteTableTruncatesOnCharacters(t *testing.T) {
	name := strings.Repeat("a", 56) + "é de Montréal"
	var buf bytes.Buffer
	WriteTable(&buf, []types.RankedRow{{Subject: name, ArticleCount: 3, Rank: 1}}, "University")

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("a", 56)+"é"+"...")

	short := "Universität Zürich"
	assert.Equal(t, short, truncate(short, 60))
	assert.Equal(t, "Univ...", truncate(short, 7))
}

func TestWriteJournals(t *testing.T) {
	var buf bytes.Buffer
	WriteJournals(&buf, []types.JournalSummary{{
		Journal:         "Management Science",
		Total:           3,
		TopUniversities: []types.Share{{Subject: "Yale", Count: 2, Percent: 66.7}},
	}}, 2016, 2024)
	out := buf.String()

	assert.Contains(t, out, "Management Science")
	assert.Contains(t, out, "Total articles (2016-2024): 3")
	assert.Contains(t, out, "Yale: 2 (66.7%)")
	assert.Contains(t, out, "(none)")
}

func TestWriteFormats(t *testing.T) {
	var tableCalled bool
	table := func(w io.Writer) { tableCalled = true }

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, rows(), table))
	var decoded []types.RankedRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows(), decoded)
	assert.False(t, tableCalled)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatYAML, rows(), table))
	assert.Contains(t, buf.String(), "articles: 12")
	assert.Contains(t, buf.String(), "rank: 3")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, rows(), table))
	assert.True(t, tableCalled)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "ranking.json")
	require.NoError(t, Export(jsonPath, rows()))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.RankedRow
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, rows(), fromJSON)

	yamlPath := filepath.Join(dir, "ranking.yaml")
	require.NoError(t, Export(yamlPath, rows()))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.RankedRow
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, rows(), fromYAML)

	assert.Error(t, Export(filepath.Join(dir, "ranking.csv"), rows()))
}
