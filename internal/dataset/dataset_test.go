// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubrank/internal/httputil"
	"github.com/pdiddy/pubrank/pkg/types"
)

const universitiesJSON = `[
  {"year": 2020, "university": "MIT", "journal": "Management Science", "disciplineAbbr": "OM", "utd24": 1, "ft50": 1},
  {"year": 2021, "university": "Yale", "journal": "Journal of Finance", "disciplineAbbr": "FIN", "utd24": 1, "ft50": 1},
  {"year": "2019", "university": "NYU", "journal": "JBE", "disciplineAbbr": "ETH", "utd24": false, "ft50": true},
  {"university": "No Year", "journal": "JF"},
  {"year": 2020, "journal": "JF"},
  {"year": 2020, "university": null},
  {"year": 2022, "university": "", "journal": "JF"},
  "not an object"
]`

const authorsYAML = `
- year: 2018
  author: Lee, J.
  journal: Management Science
  disciplineAbbr: OM
  utd24: 1
  ft50: 1
- year: 2019
  author: Kim, S.
  journal: Journal of Finance
- author: Missing Year
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDecodeJSON(t *testing.T) {
	records, skipped, err := Decode([]byte(universitiesJSON), FormatJSON, types.KeyUniversity)
	require.NoError(t, err)

	assert.Equal(t, 4, skipped)
	assert.Equal(t, []types.Record{
		{Year: 2020, Subject: "MIT", Journal: "Management Science", DisciplineAbbr: "OM", UTD24: 1, FT50: 1},
		{Year: 2021, Subject: "Yale", Journal: "Journal of Finance", DisciplineAbbr: "FIN", UTD24: 1, FT50: 1},
		{Year: 2019, Subject: "NYU", Journal: "JBE", DisciplineAbbr: "ETH", UTD24: 0, FT50: 1},
		{Year: 2022, Subject: "", Journal: "JF"},
	}, records)
}

func TestDecodeYAML(t *testing.T) {
	records, skipped, err := Decode([]byte(authorsYAML), FormatYAML, types.KeyAuthor)
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, types.Record{
		Year: 2018, Subject: "Lee, J.", Journal: "Management Science", DisciplineAbbr: "OM", UTD24: 1, FT50: 1,
	}, records[0])
	assert.Equal(t, "Kim, S.", records[1].Subject)
}

func TestDecodeWrongKeySkipsEverything(t *testing.T) {
	records, skipped, err := Decode([]byte(universitiesJSON), FormatJSON, types.KeyAuthor)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 8, skipped)
}

func TestDecodeMalformedDocument(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json object", `{"year": 2020}`, FormatJSON},
		{"json syntax", `[{"year": 2020`, FormatJSON},
		{"yaml mapping", "year: 2020\nuniversity: MIT\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.data), tt.format, types.KeyUniversity)
			assert.Error(t, err)
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		location string
		want     Format
		wantErr  bool
	}{
		{"data/universitiesSub.json", FormatJSON, false},
		{"data/authors.YAML", FormatYAML, false},
		{"data/authors.yml", FormatYAML, false},
		{"data/records", FormatJSON, false},
		{"https://example.org/data/authorsSub.json?v=3", FormatJSON, false},
		{"https://example.org/data/authors.yaml", FormatYAML, false},
		{"data/records.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := formatOf(tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "universitiesSub.json", universitiesJSON)

	ds, err := NewLoader(nil, nil).Load(context.Background(), Source{Location: p, Key: types.KeyUniversity})
	require.NoError(t, err)

	assert.Len(t, ds.Records, 4)
	assert.Equal(t, 4, ds.Skipped)
	assert.NotEmpty(t, ds.Version)

	lo, hi, ok := ds.YearBounds()
	assert.True(t, ok)
	assert.Equal(t, 2019, lo)
	assert.Equal(t, 2022, hi)
}

func TestLoadDefaultsToUniversityKey(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "u.json", universitiesJSON)

	ds, err := NewLoader(nil, nil).Load(context.Background(), Source{Location: p})
	require.NoError(t, err)
	assert.Equal(t, types.KeyUniversity, ds.Source.Key)
	assert.Len(t, ds.Records, 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(context.Background(), Source{Location: filepath.Join(t.TempDir(), "nope.json")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/universitiesSub.json":
			w.Header().Set("Last-Modified", "Mon, 02 Jun 2025 10:00:00 GMT")
			w.Write([]byte(universitiesJSON))
		case "/data/authors.yaml":
			w.Write([]byte(authorsYAML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	loader := NewLoader(httputil.NewClient(types.HTTPConfig{}, nil), nil)
	datasets, err := loader.LoadAll(context.Background(),
		Source{Location: ts.URL + "/data/universitiesSub.json", Key: types.KeyUniversity},
		Source{Location: ts.URL + "/data/authors.yaml", Key: types.KeyAuthor},
	)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	assert.Len(t, datasets[0].Records, 4)
	assert.Equal(t, "Mon, 02 Jun 2025 10:00:00 GMT", datasets[0].Version)
	assert.Len(t, datasets[1].Records, 2)
	assert.Equal(t, types.KeyAuthor, datasets[1].Source.Key)
}

func TestLoadAllFailsOnAnyError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "u.json", universitiesJSON)

	_, err := NewLoader(nil, nil).LoadAll(context.Background(),
		Source{Location: good},
		Source{Location: filepath.Join(dir, "missing.json")},
	)
	assert.Error(t, err)
}

func TestLoadRemoteWithoutClient(t *testing.T) {
	_, err := NewLoader(nil, nil).Load(context.Background(), Source{Location: "https://example.org/data.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no HTTP client")
}

func TestYearBoundsEmpty(t *testing.T) {
	_, _, ok := (&Dataset{}).YearBounds()
	assert.False(t, ok)
}
