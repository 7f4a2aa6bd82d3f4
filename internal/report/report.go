// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders rankings and journal summaries as text tables,
// JSON or YAML. Rows are written in the order given.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubrank/pkg/types"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. The empty string means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q: use table, json or yaml", s)
}

const subjectWidth = 60

// WriteTable writes rows as a fixed-width table headed by label
// (e.g. "University").
func WriteTable(w io.Writer, rows []types.RankedRow, label string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-*s  %s\n", "Rank", subjectWidth, label, "Articles")
	fmt.Fprintln(w, strings.Repeat("-", subjectWidth+19))
	for _, r := range rows {
		fmt.Fprintf(w, "%-5d  %-*s  %d\n", r.Rank, subjectWidth, truncate(r.Subject, subjectWidth), r.ArticleCount)
	}
	fmt.Fprintf(w, "\n%d rows\n", len(rows))
}

// WriteJournals writes one block per journal summary.
func WriteJournals(w io.Writer, summaries []types.JournalSummary, startYear, endYear int) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No journals found.")
		return
	}
	for _, s := range summaries {
		fmt.Fprintln(w, s.Journal)
		fmt.Fprintf(w, "  Total articles (%d-%d): %d\n", startYear, endYear, s.Total)
		fmt.Fprintln(w, "  Top universities:")
		writeShares(w, s.TopUniversities)
		fmt.Fprintln(w, "  Top authors:")
		writeShares(w, s.TopAuthors)
		fmt.Fprintln(w)
	}
}

func writeShares(w io.Writer, shares []types.Share) {
	if len(shares) == 0 {
		fmt.Fprintln(w, "    (none)")
		return
	}
	for _, s := range shares {
		fmt.Fprintf(w, "    %s: %d (%.1f%%)\n", s.Subject, s.Count, s.Percent)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Write encodes v in format f. For FormatTable, table renders v.
func Write(w io.Writer, f Format, v any, table func(io.Writer)) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	table(w)
	return nil
}

// Export writes v to path as JSON or YAML, chosen by the file extension.
func Export(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export extension for %s: use .json, .yaml or .yml", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// truncate shortens s to max characters, never splitting a character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
