package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/xuanyanwow/GoNavi-sub000/internal/errors"
	"github.com/xuanyanwow/GoNavi-sub000/internal/logger"
	"github.com/xuanyanwow/GoNavi-sub000/internal/parser"
	"github.com/xuanyanwow/GoNavi-sub000/pkg/types"
)

// SQLiteBackend runs against an embedded SQLite file through the
// modernc driver, which needs no cgo.
type SQLiteBackend struct {
	db     *sql.DB
	target string
}

// OpenSQLite opens the database file named by the DSN, creating it if
// absent. ":memory:" opens a throwaway in-memory database.
func OpenSQLite(ctx context.Context, config *types.Config) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", config.DSN)
	if err != nil {
		return nil, errors.NewConnectionError("sqlite", config.DSN,
			fmt.Sprintf("failed to open database: %v", err), "")
	}
	// One connection only: SQLite has a single writer, and a pooled
	// second connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewConnectionError("sqlite", config.DSN,
			fmt.Sprintf("connection check failed: %v", err),
			"Check that the path is writable and the file is a SQLite database")
	}
	logger.Debug("opened sqlite database %s", config.DSN)

	return &SQLiteBackend{db: db, target: config.DSN}, nil
}

// Dialect reports the SQL flavor of this connection.
func (b *SQLiteBackend) Dialect() types.Dialect { return types.DialectSQLite }

// Target reports the database file this backend is connected to.
func (b *SQLiteBackend) Target() string { return b.target }

// rowKeywords are the statement heads that produce a grid. Everything
// else goes through ExecContext for an affected count, since
// database/sql has no portable way to ask whether a statement returns
// rows before running it.
var rowKeywords = map[string]bool{
	"select":  true,
	"with":    true,
	"values":  true,
	"pragma":  true,
	"explain": true,
}

// Exec runs one statement, routing it by its leading keyword.
func (b *SQLiteBackend) Exec(ctx context.Context, stmt string) (*types.Result, error) {
	if !rowKeywords[parser.LeadingKeyword(stmt)] {
		res, err := b.db.ExecContext(ctx, stmt)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			affected = 0
		}
		return &types.Result{Affected: affected}, nil
	}

	rows, err := b.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// scanRows drains a database/sql result into a RowSet.
func scanRows(rows *sql.Rows) (*types.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	set := &types.RowSet{Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(types.Row, len(cols))
		for i, col := range cols {
			row[col] = types.ValueOf(vals[i])
		}
		set.Rows = append(set.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &types.Result{Set: set}, nil
}

// TableMeta reads PRAGMA table_info, which reports one row per column
// with its 1-based position in the primary key (0 when not a member).
func (b *SQLiteBackend) TableMeta(ctx context.Context, table string) (*TableMeta, error) {
	// PRAGMA takes no bind parameters; the identifier is quoted inline.
	stmt := "PRAGMA table_info(" + types.DialectSQLite.QuoteIdentifier(table) + ")"
	rows, err := b.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	type pkCol struct {
		name string
		pos  int
	}
	meta := &TableMeta{Table: table}
	var pk []pkCol
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    any
			pkPos   int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pkPos); err != nil {
			return nil, fmt.Errorf("describe %s: %w", table, err)
		}
		meta.Columns = append(meta.Columns, name)
		if pkPos > 0 {
			pk = append(pk, pkCol{name: name, pos: pkPos})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	if len(meta.Columns) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}

	sort.Slice(pk, func(i, j int) bool { return pk[i].pos < pk[j].pos })
	for _, c := range pk {
		meta.PKColumns = append(meta.PKColumns, c.name)
	}
	return meta, nil
}

// ApplyChanges executes the batch inside one transaction; any failure
// rolls back every mutation.
func (b *SQLiteBackend) ApplyChanges(ctx context.Context, table string, batch types.MutationBatch) (int64, error) {
	if batch.Empty() {
		return 0, nil
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	total, err := applyBatch(ctx, types.DialectSQLite, table, batch,
		func(ctx context.Context, stmt string, args ...any) (int64, error) {
			res, err := tx.ExecContext(ctx, stmt, args...)
			if err != nil {
				return 0, err
			}
			return res.RowsAffected()
		})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// Close closes the database handle.
func (b *SQLiteBackend) Close() {
	if b.db != nil {
		b.db.Close()
	}
}
