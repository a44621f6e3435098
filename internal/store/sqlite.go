// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// SQLiteStore is a Store backed by a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	schema *schema
}

// NewSQLiteStore opens or creates the database at path and creates the
// schema if it does not exist.
func NewSQLiteStore(ctx context.Context, path string, tables Tables) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	sc, err := newSchema(tables)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db, schema: sc}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	for _, stmt := range s.schema.ddl(sqliteDialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert appends one record.
func (s *SQLiteStore) Insert(ctx context.Context, table string, rec types.FlatRecord) error {
	stmt, args, err := s.schema.insertStatement(sqliteDialect, table, []types.FlatRecord{rec})
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// InsertBatch appends recs in one transaction.
func (s *SQLiteStore) InsertBatch(ctx context.Context, table string, recs []types.FlatRecord) error {
	if len(recs) == 0 {
		return nil
	}
	// Build every statement first so a bad record fails before the
	// transaction opens.
	type prepared struct {
		stmt string
		args []any
	}
	var batch []prepared
	for _, chunk := range chunks(recs, BatchSize) {
		stmt, args, err := s.schema.insertStatement(sqliteDialect, table, chunk)
		if err != nil {
			return err
		}
		batch = append(batch, prepared{stmt, args})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range batch {
		if _, err := tx.ExecContext(ctx, p.stmt, p.args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exists reports whether table holds a row for code.
func (s *SQLiteStore) Exists(ctx context.Context, table, code string) (bool, error) {
	if _, err := s.schema.table(table); err != nil {
		return false, err
	}
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE arxiv_code = ?", table)
	if err := s.db.QueryRowContext(ctx, q, code).Scan(&n); err != nil {
		return false, fmt.Errorf("checking %s in %s: %w", code, table, err)
	}
	return n > 0, nil
}

// Delete removes every row for code.
func (s *SQLiteStore) Delete(ctx context.Context, table, code string) error {
	if _, err := s.schema.table(table); err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE arxiv_code = ?", table)
	if _, err := s.db.ExecContext(ctx, q, code); err != nil {
		return fmt.Errorf("deleting %s from %s: %w", code, table, err)
	}
	return nil
}

// Codes returns the distinct codes in table.
func (s *SQLiteStore) Codes(ctx context.Context, table string) ([]string, error) {
	if _, err := s.schema.table(table); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT DISTINCT arxiv_code FROM %s ORDER BY arxiv_code", table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Titles maps code to title for papers with both details and a summary.
func (s *SQLiteStore) Titles(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, titlesQuery(s.schema.tables))
	if err != nil {
		return nil, fmt.Errorf("listing titles: %w", err)
	}
	defer rows.Close()

	titles := map[string]string{}
	for rows.Next() {
		var code, title string
		if err := rows.Scan(&code, &title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles[code] = title
	}
	return titles, rows.Err()
}

func titlesQuery(t Tables) string {
	return fmt.Sprintf(`SELECT DISTINCT d.arxiv_code, d.title FROM %s d
		JOIN %s s ON d.arxiv_code = s.arxiv_code
		WHERE d.title IS NOT NULL
		ORDER BY d.arxiv_code`, t.Details, t.Summaries)
}
