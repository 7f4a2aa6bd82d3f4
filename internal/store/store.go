// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store caches loaded datasets in SQLite so rankings can be
// recomputed without re-reading or re-fetching the source files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/pubrank/internal/dataset"
	"github.com/pdiddy/pubrank/pkg/types"
)

const dbFile = "pubrank.db"

// ErrDatasetNotFound is returned when a named dataset has not been ingested.
var ErrDatasetNotFound = errors.New("dataset not found")

// Store manages the dataset cache database.
type Store struct {
	db     *sql.DB
	dir    string
	logger *zap.Logger
}

// Open opens or creates dir/pubrank.db and its schema.
func Open(cfg types.StoreConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = ".pubrank"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			key_field TEXT NOT NULL,
			version TEXT,
			record_count INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			year INTEGER NOT NULL,
			subject TEXT NOT NULL,
			journal TEXT,
			discipline TEXT,
			utd24 INTEGER NOT NULL DEFAULT 0,
			ft50 INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (dataset, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_year ON records(dataset, year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Outcome describes what Ingest did with a dataset.
type Outcome string

const (
	Indexed Outcome = "indexed"
	Updated Outcome = "updated"
	Skipped Outcome = "skipped"
)

// Info is the stored metadata for one dataset.
type Info struct {
	Name       string         `json:"name" yaml:"name"`
	Source     string         `json:"source" yaml:"source"`
	Key        types.KeyField `json:"key" yaml:"key"`
	Version    string         `json:"version,omitempty" yaml:"version,omitempty"`
	Records    int            `json:"records" yaml:"records"`
	Skipped    int            `json:"skipped" yaml:"skipped"`
	IngestedAt time.Time      `json:"ingested_at" yaml:"ingested_at"`
}

// Ingest stores ds under name. When the stored version equals ds.Version
// (and is non-empty) nothing is written. Records keep their load order.
func (s *Store) Ingest(ctx context.Context, name string, ds *dataset.Dataset) (Outcome, error) {
	var storedVersion sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM datasets WHERE name = ?`, name,
	).Scan(&storedVersion)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking dataset %s: %w", name, err)
	}

	if exists && ds.Version != "" && storedVersion.Valid && storedVersion.String == ds.Version {
		s.logger.Debug("dataset unchanged", zap.String("name", name), zap.String("version", ds.Version))
		return Skipped, nil
	}

	if err := s.write(ctx, name, ds); err != nil {
		return "", err
	}

	outcome := Indexed
	if exists {
		outcome = Updated
	}
	s.logger.Info("dataset stored",
		zap.String("name", name),
		zap.String("outcome", string(outcome)),
		zap.Int("records", len(ds.Records)))
	return outcome, nil
}

func (s *Store) write(ctx context.Context, name string, ds *dataset.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE dataset = ?`, name); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (name, source, key_field, version, record_count, skipped, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			source=excluded.source, key_field=excluded.key_field, version=excluded.version,
			record_count=excluded.record_count, skipped=excluded.skipped,
			ingested_at=excluded.ingested_at`,
		name, ds.Source.Location, string(ds.Source.Key), ds.Version,
		len(ds.Records), ds.Skipped, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (dataset, seq, year, subject, journal, discipline, utd24, ft50)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range ds.Records {
		if _, err := stmt.ExecContext(ctx,
			name, i, r.Year, r.Subject, r.Journal, r.DisciplineAbbr, r.UTD24, r.FT50,
		); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Records returns the stored records of a dataset in load order.
func (s *Store) Records(ctx context.Context, name string) ([]types.Record, error) {
	if _, err := s.info(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, subject, journal, discipline, utd24, ft50
		 FROM records WHERE dataset = ? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		var (
			r          types.Record
			journal    sql.NullString
			discipline sql.NullString
		)
		if err := rows.Scan(&r.Year, &r.Subject, &journal, &discipline, &r.UTD24, &r.FT50); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Journal = journal.String
		r.DisciplineAbbr = discipline.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Dataset rebuilds a dataset.Dataset from the stored copy.
func (s *Store) Dataset(ctx context.Context, name string) (*dataset.Dataset, error) {
	info, err := s.info(ctx, name)
	if err != nil {
		return nil, err
	}
	records, err := s.Records(ctx, name)
	if err != nil {
		return nil, err
	}
	return &dataset.Dataset{
		Source:  dataset.Source{Location: info.Source, Key: info.Key},
		Records: records,
		Skipped: info.Skipped,
		Version: info.Version,
	}, nil
}

// List returns metadata for every stored dataset, sorted by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source, key_field, version, record_count, skipped, ingested_at
		 FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *Store) info(ctx context.Context, name string) (Info, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, source, key_field, version, record_count, skipped, ingested_at
		 FROM datasets WHERE name = ?`, name)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return info, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(sc scanner) (Info, error) {
	var (
		info       Info
		key        string
		version    sql.NullString
		ingestedAt string
	)
	if err := sc.Scan(&info.Name, &info.Source, &key, &version, &info.Records, &info.Skipped, &ingestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Info{}, err
		}
		return Info{}, fmt.Errorf("scanning dataset: %w", err)
	}
	info.Key = types.KeyField(key)
	info.Version = version.String
	if t, err := time.Parse(time.RFC3339Nano, ingestedAt); err == nil {
		info.IngestedAt = t
	}
	return info, nil
}
