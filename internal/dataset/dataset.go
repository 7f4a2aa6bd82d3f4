// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads publication records from JSON or YAML files, local
// or remote. A loaded Dataset is never modified afterwards; callers pass its
// Records to the ranking engine as they are.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pubrank/internal/httputil"
	"github.com/pdiddy/pubrank/pkg/types"
)

// ErrUnsupportedFormat is returned for a source whose extension is neither
// JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format is a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Source identifies a dataset and the field its records are grouped by.
type Source struct {
	// Location is a filesystem path or an http(s) URL.
	Location string

	// Key is the record field used as the subject (university or author).
	Key types.KeyField
}

// Dataset is a loaded, immutable collection of records.
type Dataset struct {
	Source  Source
	Records []types.Record

	// Skipped counts entries dropped for lacking a year or a subject.
	Skipped int

	// Version identifies the revision that was loaded: the file modification
	// time or the HTTP Last-Modified header. Empty when unknown.
	Version string
}

// YearBounds returns the smallest and largest record years. ok is false for
// an empty dataset.
func (d *Dataset) YearBounds() (first, last int, ok bool) {
	for i, r := range d.Records {
		if i == 0 || r.Year < first {
			first = r.Year
		}
		if i == 0 || r.Year > last {
			last = r.Year
		}
	}
	return first, last, len(d.Records) > 0
}

// Loader reads datasets from disk or over HTTP.
type Loader struct {
	client *httputil.Client
	logger *zap.Logger
}

// NewLoader returns a Loader. client may be nil when only local files are
// read; logger may be nil to disable logging.
func NewLoader(client *httputil.Client, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Load reads and decodes one source.
func (l *Loader) Load(ctx context.Context, src Source) (*Dataset, error) {
	if src.Key == "" {
		src.Key = types.KeyUniversity
	}

	format, err := formatOf(src.Location)
	if err != nil {
		return nil, err
	}

	data, version, err := l.read(ctx, src.Location)
	if err != nil {
		return nil, err
	}

	records, skipped, err := Decode(data, format, src.Key)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src.Location, err)
	}

	l.logger.Info("dataset loaded",
		zap.String("source", src.Location),
		zap.String("key", string(src.Key)),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped))

	return &Dataset{Source: src, Records: records, Skipped: skipped, Version: version}, nil
}

// LoadAll loads every source concurrently and returns the datasets in
// argument order. The first error cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) ([]*Dataset, error) {
	out := make([]*Dataset, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			ds, err := l.Load(gctx, src)
			if err != nil {
				return err
			}
			out[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, string, error) {
	if isRemote(location) {
		if l.client == nil {
			return nil, "", fmt.Errorf("loading %s: no HTTP client configured", location)
		}
		doc, err := l.client.Get(ctx, location)
		if err != nil {
			return nil, "", err
		}
		return doc.Body, doc.LastModified, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, "", fmt.Errorf("reading dataset: %w", err)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", fmt.Errorf("reading dataset: %w", err)
	}
	return data, info.ModTime().UTC().Format(time.RFC3339Nano), nil
}

// formatOf picks the decoder from the file extension. URLs are judged by
// their path; a location with no extension is treated as JSON.
func formatOf(location string) (Format, error) {
	var ext string
	if isRemote(location) {
		u, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", location, err)
		}
		ext = path.Ext(u.Path)
	} else {
		ext = filepath.Ext(location)
	}

	switch strings.ToLower(ext) {
	case ".json", "":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Decode parses a document holding a list of record objects. Entries
// without a usable year or key field are skipped and counted; a document
// that is not a list is an error.
func Decode(data []byte, format Format, key types.KeyField) ([]types.Record, int, error) {
	var entries []map[string]any

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw []any
		if err := dec.Decode(&raw); err != nil {
			return nil, 0, fmt.Errorf("expected a JSON array of records: %w", err)
		}
		for _, item := range raw {
			m, _ := item.(map[string]any)
			entries = append(entries, m)
		}
	case FormatYAML:
		var raw []any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, 0, fmt.Errorf("expected a YAML sequence of records: %w", err)
		}
		for _, item := range raw {
			m, _ := item.(map[string]any)
			entries = append(entries, m)
		}
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	records := make([]types.Record, 0, len(entries))
	skipped := 0
	for _, m := range entries {
		r, ok := recordFrom(m, key)
		if !ok {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

func recordFrom(m map[string]any, key types.KeyField) (types.Record, bool) {
	if m == nil {
		return types.Record{}, false
	}
	year, ok := intValue(m["year"])
	if !ok {
		return types.Record{}, false
	}
	subject, ok := m[string(key)].(string)
	if !ok {
		return types.Record{}, false
	}
	journal, _ := m["journal"].(string)
	discipline, _ := m["disciplineAbbr"].(string)
	utd24, _ := intValue(m["utd24"])
	ft50, _ := intValue(m["ft50"])

	return types.Record{
		Year:           year,
		Subject:        subject,
		Journal:        journal,
		DisciplineAbbr: discipline,
		UTD24:          utd24,
		FT50:           ft50,
	}, true
}

// intValue accepts JSON numbers, YAML integers and floats, numeric strings
// and booleans.
func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil {
			return int(f), true
		}
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		return int(x), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return i, true
		}
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
