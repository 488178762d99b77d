package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuanyanwow/GoNavi-sub000/internal/errors"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// The builders below turn reconciled mutations into parameterized
// statements. Column order is sorted so the same batch always produces
// the same SQL regardless of map iteration order.

func insertStatement(dialect types.Dialect, table string, row types.Row) (string, []any) {
	cols := sortedColumns(row)
	if len(cols) == 0 {
		return emptyInsert(dialect, table), nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(dialect.QuoteIdentifier(table))
	sb.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(dialect.QuoteIdentifier(col))
	}
	sb.WriteString(") VALUES (")
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(dialect.Placeholder(i + 1))
		args = append(args, row[col].Any())
	}
	sb.WriteString(")")
	return sb.String(), args
}

// emptyInsert handles a new row where the user filled in nothing and
// every column falls back to its default.
func emptyInsert(dialect types.Dialect, table string) string {
	quoted := dialect.QuoteIdentifier(table)
	switch dialect.Normalize() {
	case types.DialectMySQL:
		return "INSERT INTO " + quoted + " () VALUES ()"
	default:
		return "INSERT INTO " + quoted + " DEFAULT VALUES"
	}
}

func updateStatement(dialect types.Dialect, table string, patch types.RowPatch) (string, []any, error) {
	setCols := sortedColumns(patch.Values)
	if len(setCols) == 0 {
		return "", nil, fmt.Errorf("update on %s has no changed columns", table)
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(dialect.QuoteIdentifier(table))
	sb.WriteString(" SET ")
	args := make([]any, 0, len(setCols)+len(patch.Keys))
	n := 0
	for i, col := range setCols {
		if i > 0 {
			sb.WriteString(", ")
		}
		n++
		sb.WriteString(dialect.QuoteIdentifier(col))
		sb.WriteString(" = ")
		sb.WriteString(dialect.Placeholder(n))
		args = append(args, patch.Values[col].Any())
	}

	where, whereArgs, err := whereClause(dialect, table, patch.Keys, &n)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(where)
	args = append(args, whereArgs...)
	return sb.String(), args, nil
}

func deleteStatement(dialect types.Dialect, table string, keys types.Row) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(dialect.QuoteIdentifier(table))
	n := 0
	where, args, err := whereClause(dialect, table, keys, &n)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(where)
	return sb.String(), args, nil
}

// whereClause renders the key columns as a conjunction, advancing *n
// once per bound argument. NULL keys compare with IS NULL because
// equality against NULL never matches anything.
func whereClause(dialect types.Dialect, table string, keys types.Row, n *int) (string, []any, error) {
	cols := sortedColumns(keys)
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("refusing to build an unkeyed statement for %s", table)
	}

	var sb strings.Builder
	sb.WriteString(" WHERE ")
	var args []any
	for i, col := range cols {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(dialect.QuoteIdentifier(col))
		v := keys[col]
		if v.IsNull() {
			sb.WriteString(" IS NULL")
			continue
		}
		*n++
		sb.WriteString(" = ")
		sb.WriteString(dialect.Placeholder(*n))
		args = append(args, v.Any())
	}
	return sb.String(), args, nil
}

func sortedColumns(row types.Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// applyBatch drives a mutation batch through exec in execution order.
// The first failure aborts with its table, operation, and position;
// the caller owns the enclosing transaction.
func applyBatch(ctx context.Context, dialect types.Dialect, table string, batch types.MutationBatch, exec func(context.Context, string, ...any) (int64, error)) (int64, error) {
	var total int64
	for i, row := range batch.Inserts {
		stmt, args := insertStatement(dialect, table, row)
		n, err := exec(ctx, stmt, args...)
		if err != nil {
			return 0, errors.NewApplyError(table, "insert", i, err)
		}
		total += n
	}
	for i, patch := range batch.Updates {
		stmt, args, err := updateStatement(dialect, table, patch)
		if err != nil {
			return 0, errors.NewApplyError(table, "update", i, err)
		}
		n, err := exec(ctx, stmt, args...)
		if err != nil {
			return 0, errors.NewApplyError(table, "update", i, err)
		}
		total += n
	}
	for i, keys := range batch.Deletes {
		stmt, args, err := deleteStatement(dialect, table, keys)
		if err != nil {
			return 0, errors.NewApplyError(table, "delete", i, err)
		}
		n, err := exec(ctx, stmt, args...)
		if err != nil {
			return 0, errors.NewApplyError(table, "delete", i, err)
		}
		total += n
	}
	return total, nil
}
