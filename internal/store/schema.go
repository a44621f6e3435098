// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

type kind int

const (
	kindText kind = iota
	kindInteger
)

type column struct {
	name string
	kind kind
}

var detailColumns = []column{
	{types.FieldArxivCode, kindText},
	{types.FieldTitle, kindText},
	{types.FieldSummary, kindText},
	{types.FieldAuthors, kindText},
	{types.FieldPublished, kindText},
	{types.FieldUpdated, kindText},
	{types.FieldComment, kindText},
}

var citationColumns = []column{
	{types.FieldArxivCode, kindText},
	{types.FieldCitations, kindInteger},
	{types.FieldInfluential, kindInteger},
	{types.FieldTLDR, kindText},
	{types.FieldVenue, kindText},
}

var summaryColumns = []column{
	{types.FieldArxivCode, kindText},
	{"contribution_title", kindText},
	{"contribution_content", kindText},
	{"takeaway_title", kindText},
	{"takeaway_content", kindText},
	{"takeaway_example", kindText},
	{"category", kindText},
	{"novelty_score", kindInteger},
	{"novelty_analysis", kindText},
	{"technical_score", kindInteger},
	{"technical_analysis", kindText},
	{"enjoyable_score", kindInteger},
	{"enjoyable_analysis", kindText},
}

// dialect holds the differences between the SQL backends.
type dialect struct {
	integerType string
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	integerType: "INTEGER",
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	integerType: "BIGINT",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// schema maps managed table names to their columns.
type schema struct {
	tables  Tables
	columns map[string][]column
}

func newSchema(t Tables) (*schema, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &schema{
		tables: t,
		columns: map[string][]column{
			t.Details:   detailColumns,
			t.Citations: citationColumns,
			t.Summaries: summaryColumns,
		},
	}, nil
}

func (s *schema) table(name string) ([]column, error) {
	if !ValidIdentifier(name) {
		return nil, fmt.Errorf("table %q: %w", name, ErrInvalidIdentifier)
	}
	cols, ok := s.columns[name]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", name, ErrUnknownTable)
	}
	return cols, nil
}

// ddl returns the CREATE statements for every managed table, in a fixed
// order.
func (s *schema) ddl(d dialect) []string {
	var stmts []string
	for _, name := range []string{s.tables.Details, s.tables.Citations, s.tables.Summaries} {
		defs := make([]string, 0, len(s.columns[name]))
		for _, c := range s.columns[name] {
			typ := "TEXT"
			if c.kind == kindInteger {
				typ = d.integerType
			}
			def := c.name + " " + typ
			if c.name == types.FieldArxivCode {
				def += " NOT NULL"
			}
			defs = append(defs, def)
		}
		stmts = append(stmts,
			fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(defs, ", ")),
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_arxiv_code ON %s (arxiv_code)", name, name),
		)
	}
	return stmts
}

// insertStatement builds one multi-row INSERT for recs. The column list is
// the sorted union of the records' columns; a record lacking a column binds
// NULL for it.
func (s *schema) insertStatement(d dialect, table string, recs []types.FlatRecord) (string, []any, error) {
	cols, err := s.table(table)
	if err != nil {
		return "", nil, err
	}
	kinds := make(map[string]kind, len(cols))
	for _, c := range cols {
		kinds[c.name] = c.kind
	}

	union := map[string]bool{}
	for _, rec := range recs {
		if rec.Code() == "" {
			return "", nil, fmt.Errorf("record without %s", types.FieldArxivCode)
		}
		for k := range rec {
			if !ValidIdentifier(k) {
				return "", nil, fmt.Errorf("column %q: %w", k, ErrInvalidIdentifier)
			}
			if _, ok := kinds[k]; !ok {
				return "", nil, fmt.Errorf("table %s column %q: %w", table, k, ErrUnknownColumn)
			}
			union[k] = true
		}
	}
	names := make([]string, 0, len(union))
	for k := range union {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(names, ", "))
	args := make([]any, 0, len(names)*len(recs))
	n := 0
	for i, rec := range recs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, name := range names {
			if j > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(d.placeholder(n))
			v, err := coerce(kinds[name], rec[name])
			if err != nil {
				return "", nil, fmt.Errorf("table %s column %s: %w", table, name, err)
			}
			args = append(args, v)
		}
		b.WriteByte(')')
	}
	return b.String(), args, nil
}

// coerce converts v to the Go type bound for a column kind. JSON numbers
// arrive as float64 and model output sometimes quotes integers.
func coerce(k kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch k {
	case kindInteger:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int32:
			return int64(x), nil
		case int64:
			return x, nil
		case float64:
			if x != math.Trunc(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("non-integer value %v", x)
			}
			return int64(x), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing integer %q: %w", x, err)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("cannot store %T as integer", v)
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	}
}

// chunks splits recs into slices of at most size records.
func chunks(recs []types.FlatRecord, size int) [][]types.FlatRecord {
	var out [][]types.FlatRecord
	for len(recs) > size {
		out = append(out, recs[:size])
		recs = recs[size:]
	}
	if len(recs) > 0 {
		out = append(out, recs)
	}
	return out
}
