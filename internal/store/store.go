// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists flat paper records in SQLite or PostgreSQL.
//
// Three tables are managed: paper details, citation data and paper
// summaries. Their names come from configuration; their columns are fixed.
// Table and column names are validated before they reach SQL and every
// value is bound as a parameter.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// BatchSize is the number of rows per multi-row INSERT in InsertBatch.
const BatchSize = 10

// Store is the storage collaborator used by the pipeline.
type Store interface {
	// Insert appends one record to table.
	Insert(ctx context.Context, table string, rec types.FlatRecord) error

	// InsertBatch appends records in chunks of BatchSize inside one
	// transaction; either all rows are stored or none.
	InsertBatch(ctx context.Context, table string, recs []types.FlatRecord) error

	// Exists reports whether any row in table has the given code.
	Exists(ctx context.Context, table, code string) (bool, error)

	// Delete removes every row in table with the given code.
	Delete(ctx context.Context, table, code string) error

	// Codes returns the distinct codes in table, sorted.
	Codes(ctx context.Context, table string) ([]string, error)

	// Titles maps code to title for every paper that has both details and
	// a summary.
	Titles(ctx context.Context) (map[string]string, error)

	Close() error
}

var (
	// ErrInvalidIdentifier is returned for table or column names that are
	// not plain lower-case SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrUnknownTable is returned for tables the store does not manage.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownColumn is returned when a record holds a column the table
	// does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name can be used unquoted as a table or
// column name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Default table names.
const (
	DefaultDetailsTable   = "arxiv_details"
	DefaultCitationsTable = "semantic_details"
	DefaultSummariesTable = "summaries"
)

// Tables names the three managed tables.
type Tables struct {
	Details   string
	Citations string
	Summaries string
}

// TablesFromConfig fills unset names with the defaults.
func TablesFromConfig(cfg types.StorageConfig) Tables {
	t := Tables{Details: cfg.DetailsTable, Citations: cfg.CitationsTable, Summaries: cfg.SummariesTable}
	if t.Details == "" {
		t.Details = DefaultDetailsTable
	}
	if t.Citations == "" {
		t.Citations = DefaultCitationsTable
	}
	if t.Summaries == "" {
		t.Summaries = DefaultSummariesTable
	}
	return t
}

func (t Tables) validate() error {
	seen := map[string]bool{}
	for _, name := range []string{t.Details, t.Citations, t.Summaries} {
		if !ValidIdentifier(name) {
			return fmt.Errorf("table %q: %w", name, ErrInvalidIdentifier)
		}
		if seen[name] {
			return fmt.Errorf("table %q configured twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Open connects to the configured backend and ensures the schema exists.
func Open(ctx context.Context, cfg types.StorageConfig) (Store, error) {
	tables := TablesFromConfig(cfg)
	switch cfg.Driver {
	case types.DriverSQLite, "":
		return NewSQLiteStore(ctx, cfg.Path, tables)
	case types.DriverPostgres:
		return NewPostgresStore(ctx, cfg.DSN, tables)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
