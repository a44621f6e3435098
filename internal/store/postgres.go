// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// DBTX is the subset of a pgx pool used by PostgresStore. *pgxpool.Pool
// satisfies it, as does a pgxmock pool in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore is a Store backed by PostgreSQL.
type PostgresStore struct {
	db     DBTX
	pool   *pgxpool.Pool
	schema *schema
}

// NewPostgresStore connects to dsn, verifies the connection and creates
// the schema if it does not exist.
func NewPostgresStore(ctx context.Context, dsn string, tables Tables) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := NewPostgresStoreWithDB(pool, tables)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.pool = pool
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreWithDB wraps an existing connection. The caller owns db.
func NewPostgresStoreWithDB(db DBTX, tables Tables) (*PostgresStore, error) {
	sc, err := newSchema(tables)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, schema: sc}, nil
}

// EnsureSchema creates the managed tables and indexes if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.schema.ddl(postgresDialect) {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close releases the pool when the store opened it.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Insert appends one record.
func (s *PostgresStore) Insert(ctx context.Context, table string, rec types.FlatRecord) error {
	stmt, args, err := s.schema.insertStatement(postgresDialect, table, []types.FlatRecord{rec})
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// InsertBatch appends recs as multi-row INSERTs of BatchSize rows, all in
// one transaction.
func (s *PostgresStore) InsertBatch(ctx context.Context, table string, recs []types.FlatRecord) error {
	if len(recs) == 0 {
		return nil
	}
	type prepared struct {
		stmt string
		args []any
	}
	var batch []prepared
	for _, chunk := range chunks(recs, BatchSize) {
		stmt, args, err := s.schema.insertStatement(postgresDialect, table, chunk)
		if err != nil {
			return err
		}
		batch = append(batch, prepared{stmt, args})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range batch {
		if _, err := tx.Exec(ctx, p.stmt, p.args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exists reports whether table holds a row for code.
func (s *PostgresStore) Exists(ctx context.Context, table, code string) (bool, error) {
	if _, err := s.schema.table(table); err != nil {
		return false, err
	}
	var found bool
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE arxiv_code = $1)", table)
	if err := s.db.QueryRow(ctx, q, code).Scan(&found); err != nil {
		return false, fmt.Errorf("checking %s in %s: %w", code, table, err)
	}
	return found, nil
}

// Delete removes every row for code.
func (s *PostgresStore) Delete(ctx context.Context, table, code string) error {
	if _, err := s.schema.table(table); err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE arxiv_code = $1", table)
	if _, err := s.db.Exec(ctx, q, code); err != nil {
		return fmt.Errorf("deleting %s from %s: %w", code, table, err)
	}
	return nil
}

// Codes returns the distinct codes in table.
func (s *PostgresStore) Codes(ctx context.Context, table string) ([]string, error) {
	if _, err := s.schema.table(table); err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT DISTINCT arxiv_code FROM %s ORDER BY arxiv_code", table)
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning codes: %w", err)
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// Titles maps code to title for papers with both details and a summary.
func (s *PostgresStore) Titles(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, titlesQuery(s.schema.tables))
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
